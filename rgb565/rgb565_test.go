package rgb565

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bodgit/yuvdither/dither"
	"github.com/bodgit/yuvdither/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	tables := []struct {
		name string
		p    texture.Pixel
		want uint16
	}{
		{"black", texture.Pixel{}, 0x0000},
		{"white", texture.Pixel{R: 1, G: 1, B: 1}, 0xffff},
		{"red", texture.Pixel{R: 1}, 0xf800},
		{"green", texture.Pixel{G: 1}, 0x07e0},
		{"blue", texture.Pixel{B: 1}, 0x001f},
		{"half blue", texture.Pixel{B: 16.0 / 31.0}, 0x0010},
		{"clamped", texture.Pixel{R: -0.5, G: 1.5, B: 2}, 0x07ff},
		{"alpha ignored", texture.Pixel{A: 1}, 0x0000},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, pack(table.p))
		})
	}
}

func TestEncode(t *testing.T) {
	m := texture.New(2, 1)
	*m.At(0, 0) = texture.Pixel{R: 1}
	*m.At(1, 0) = texture.Pixel{B: 1}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))

	want := []byte{'Y', '5', '6', '5', 2, 0, 0, 0, 1, 0, 0, 0, 0x00, 0xf8, 0x1f, 0x00}
	assert.Equal(t, want, buf.Bytes())
}

func TestEncodeWrongSize(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), texture.New(0, 4)))
}

func TestRoundTripQuantized(t *testing.T) {
	// Every combination of levels along each axis
	m := texture.New(64, 32)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			*m.At(x, y) = texture.Pixel{
				R: dither.Quantize(float32(y)/31, 5),
				G: dither.Quantize(float32(x)/63, 6),
				B: dither.Quantize(float32((x+y)%32)/31, 5),
				A: 1,
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	assert.Equal(t, headerSize+2*64*32, buf.Len())

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestDecodeConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, texture.New(8, 4)))

	w, h, err := DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
}

func TestDecodeErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, texture.New(4, 2)))
	valid := buf.Bytes()

	header := func(w, h uint32) []byte {
		b := []byte(magic)
		b = append(b, make([]byte, 8)...)
		binary.LittleEndian.PutUint32(b[4:], w)
		binary.LittleEndian.PutUint32(b[8:], h)
		return b
	}

	tables := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, errNotEnough},
		{"short header", valid[:6], errNotEnough},
		{"bad magic", append([]byte("Y555"), valid[4:]...), errBadMagic},
		{"zero width", header(0, 2), errBadSize},
		{"huge height", header(2, 1<<20), errBadSize},
		{"truncated", valid[:len(valid)-1], errNotEnough},
		{"trailing", append(append([]byte{}, valid...), 0), errTooMuch},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(table.data))
			assert.Equal(t, table.err, err)
		})
	}
}
