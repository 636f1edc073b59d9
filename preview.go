package yuvdither

import (
	"image/draw"
	"image/gif"
	"io"

	"github.com/bodgit/yuvdither/pack"
	"github.com/bodgit/yuvdither/texture"
	"github.com/ericpauley/go-quantize/quantize"
)

const previewColors = 256

// Preview reverses the packing of a texture and writes the result to w as a
// GIF so it can be inspected with an ordinary viewer.
func Preview(w io.Writer, packed *texture.Image) error {
	m, err := pack.Unpack(packed)
	if err != nil {
		return err
	}

	return gif.Encode(w, m.NRGBA(), &gif.Options{
		NumColors: previewColors,
		Quantizer: quantize.MedianCutQuantizer{},
		Drawer:    draw.FloydSteinberg,
	})
}
