package rgb565

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/bodgit/yuvdither/dither"
	"github.com/bodgit/yuvdither/texture"
)

type encoder struct {
	w io.Writer
}

func level(v float32, bits uint) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return uint16(dither.Levels(bits))
	}
	return uint16(math.RoundToEven(float64(v * dither.Levels(bits))))
}

func pack(p texture.Pixel) uint16 {
	return level(p.R, bitsR)<<shiftR | level(p.G, bitsG)<<shiftG | level(p.B, bitsB)
}

func (e *encoder) encode(m *texture.Image) error {
	var header [headerSize]byte
	copy(header[:], magic)
	binary.LittleEndian.PutUint32(header[4:], uint32(m.Width))
	binary.LittleEndian.PutUint32(header[8:], uint32(m.Height))

	if _, err := e.w.Write(header[:]); err != nil {
		return err
	}

	// One row at a time
	row := make([]byte, m.Width<<1)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			binary.LittleEndian.PutUint16(row[x<<1:], pack(*m.At(x, y)))
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the image m to w in 5-6-5 format. Values outside [0, 1] are
// clamped.
func Encode(w io.Writer, m *texture.Image) error {
	if m.Width <= 0 || m.Height <= 0 || m.Width > maxDimension || m.Height > maxDimension {
		return errors.New("rgb565: image is wrong size")
	}

	e := encoder{w: w}

	return e.encode(m)
}
