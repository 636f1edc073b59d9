package rgb565

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/bodgit/yuvdither/dither"
	"github.com/bodgit/yuvdither/texture"
)

var (
	errBadMagic  = errors.New("rgb565: invalid format")
	errBadSize   = errors.New("rgb565: invalid dimensions")
	errNotEnough = errors.New("rgb565: not enough image data")
	errTooMuch   = errors.New("rgb565: too much image data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func unpack(v uint16) texture.Pixel {
	return texture.Pixel{
		R: float32(v>>shiftR&maskR) / dither.Levels(bitsR),
		G: float32(v>>shiftG&maskG) / dither.Levels(bitsG),
		B: float32(v&maskB) / dither.Levels(bitsB),
		A: 1,
	}
}

type decoder struct {
	r io.Reader

	width, height int

	image *texture.Image
}

func (d *decoder) readHeader() error {
	var header [headerSize]byte
	if err := readFull(d.r, header[:]); err != nil {
		return err
	}

	if string(header[:len(magic)]) != magic {
		return errBadMagic
	}

	w := binary.LittleEndian.Uint32(header[4:])
	h := binary.LittleEndian.Uint32(header[8:])
	if w == 0 || h == 0 || w > maxDimension || h > maxDimension {
		return errBadSize
	}
	d.width, d.height = int(w), int(h)

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	d.image = texture.New(d.width, d.height)

	row := make([]byte, d.width<<1)
	for y := 0; y < d.height; y++ {
		if err := readFull(d.r, row); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return errNotEnough
		}
		for x := 0; x < d.width; x++ {
			*d.image.At(x, y) = unpack(binary.LittleEndian.Uint16(row[x<<1:]))
		}
	}

	if n, err := r.Read(row[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	return nil
}

// Decode reads a 5-6-5 texture from r. Slot A of every pixel is set to 1.
func Decode(r io.Reader) (*texture.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the dimensions of a 5-6-5 texture without decoding
// the pixel data.
func DecodeConfig(r io.Reader) (width, height int, err error) {
	var d decoder
	if err = d.decode(r, true); err != nil {
		return
	}
	return d.width, d.height, nil
}
