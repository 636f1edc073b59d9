/*
Package pack rearranges an RGBA texture.Image into the double width luma and
chroma layout stored in a 5-6-5 texture.

A W by H source becomes a 2W by H image. The left W columns carry alpha in
slot R and luma in slot G at full resolution. Chroma is averaged over each
horizontal pair of pixels and kept at full vertical resolution; the U plane
sits in slot B of columns W/2 to W and the V plane in slot B of columns 3W/2
to 2W. Slot B of the first quarter of each half and slots R and G of the
right half stay zero.
*/
package pack

import (
	"fmt"
	"image"

	"github.com/bodgit/yuvdither/texture"
)

// YUVA is a sample in luma, chroma and alpha form. U and V are biased by 0.5
// so neutral chroma sits in the middle of [0, 1].
type YUVA struct {
	Y, U, V, A float32
}

// ToYUVA converts an RGBA sample. Alpha passes through unchanged.
func ToYUVA(p texture.Pixel) YUVA {
	return YUVA{
		Y: 0.299*p.R + 0.587*p.G + 0.114*p.B,
		U: -0.169*p.R - 0.331*p.G + 0.500*p.B + 0.5,
		V: 0.500*p.R - 0.419*p.G - 0.081*p.B + 0.5,
		A: p.A,
	}
}

// ToPixel is the approximate inverse of ToYUVA. The result is not clamped.
func ToPixel(c YUVA) texture.Pixel {
	u, v := c.U-0.5, c.V-0.5
	return texture.Pixel{
		R: c.Y + 1.402*v,
		G: c.Y - 0.344*u - 0.714*v,
		B: c.Y + 1.772*u,
		A: c.A,
	}
}

// Regions returns the areas of a packed image that are diffused
// independently: rg covers the whole image for the alpha and luma slots, u and
// v are the left and right halves for the chroma slot.
func Regions(packed *texture.Image) (rg, u, v image.Rectangle) {
	hw := packed.Width >> 1
	rg = packed.Bounds()
	u = image.Rect(0, 0, hw, packed.Height)
	v = image.Rect(hw, 0, packed.Width, packed.Height)
	return
}

// Pack converts src into the packed layout. Both dimensions of src must be
// even.
func Pack(src *texture.Image) (*texture.Image, error) {
	if err := src.CheckEven(); err != nil {
		return nil, err
	}

	w, h := src.Width, src.Height
	hw := w >> 1
	dst := texture.New(w<<1, h)

	var samples [2][2]YUVA
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x += 2 {
			x0 := hw + x>>1
			x1 := x0 + w

			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					s := ToYUVA(*src.At(x+dx, y+dy))
					samples[dy][dx] = s

					p := dst.At(x+dx, y+dy)
					*p.Slot(texture.Alpha.Slot()) = s.A
					*p.Slot(texture.Luma.Slot()) = s.Y
				}

				*dst.At(x0, y+dy).Slot(texture.ChromaU.Slot()) = 0.5 * (samples[dy][0].U + samples[dy][1].U)
				*dst.At(x1, y+dy).Slot(texture.ChromaV.Slot()) = 0.5 * (samples[dy][0].V + samples[dy][1].V)
			}
		}
	}

	return dst, nil
}

// Unpack rebuilds a clamped RGBA image from a packed one. Each pixel takes
// the chroma shared by its horizontal pair.
func Unpack(packed *texture.Image) (*texture.Image, error) {
	if packed.Width&3 != 0 || packed.Height <= 0 || packed.Height&1 != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a packed size", texture.ErrInvalidInput, packed.Width, packed.Height)
	}

	w, h := packed.Width>>1, packed.Height
	hw := w >> 1
	dst := texture.New(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := packed.At(x, y)
			*dst.At(x, y) = ToPixel(YUVA{
				Y: *p.Slot(texture.Luma.Slot()),
				U: *packed.At(hw+x>>1, y).Slot(texture.ChromaU.Slot()),
				V: *packed.At(w+hw+x>>1, y).Slot(texture.ChromaV.Slot()),
				A: *p.Slot(texture.Alpha.Slot()),
			})
		}
	}
	dst.Clamp()

	return dst, nil
}
