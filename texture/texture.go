/*
Package texture implements the floating point pixel buffer shared by the
packing and error diffusion stages.

An Image holds four normalized channels per pixel named after the slots of
the storage format, R, G, B and A. Values are nominally in [0, 1] but are
allowed to stray outside that range while quantization error is being
accumulated; Clamp brings them back once all processing is done.
*/
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidInput is returned when a precondition on dimensions or regions is
// violated.
var ErrInvalidInput = errors.New("texture: invalid input")

// Pixel is a single sample with four independent channels.
type Pixel struct {
	R, G, B, A float32
}

// Slot returns a pointer to the channel stored in slot s.
func (p *Pixel) Slot(s Slot) *float32 {
	switch s {
	case SlotR:
		return &p.R
	case SlotG:
		return &p.G
	case SlotB:
		return &p.B
	default:
		return &p.A
	}
}

// Image is a row-major grid of pixels, the top row first.
type Image struct {
	Pix    []Pixel
	Width  int
	Height int
}

// New returns a zeroed image with the given dimensions.
func New(width, height int) *Image {
	return &Image{
		Pix:    make([]Pixel, width*height),
		Width:  width,
		Height: height,
	}
}

func nrgba64At(m image.Image, x, y int) color.NRGBA64 {
	// Going through RGBA() would lose the colour of transparent pixels
	if n, ok := m.(*image.NRGBA); ok {
		c := n.NRGBAAt(x, y)
		return color.NRGBA64{
			R: uint16(c.R) * 0x101,
			G: uint16(c.G) * 0x101,
			B: uint16(c.B) * 0x101,
			A: uint16(c.A) * 0x101,
		}
	}
	return color.NRGBA64Model.Convert(m.At(x, y)).(color.NRGBA64)
}

// FromImage converts m into a non-premultiplied floating point image. The
// top-left corner of m becomes (0, 0).
func FromImage(m image.Image) *Image {
	b := m.Bounds()
	t := New(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba64At(m, x, y)
			*t.At(x-b.Min.X, y-b.Min.Y) = Pixel{
				R: float32(c.R) / 0xffff,
				G: float32(c.G) / 0xffff,
				B: float32(c.B) / 0xffff,
				A: float32(c.A) / 0xffff,
			}
		}
	}
	return t
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*0xff + 0.5)
}

// NRGBA converts the image to an 8-bit non-premultiplied image, clamping
// each channel.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(m.Bounds())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := m.At(x, y)
			dst.SetNRGBA(x, y, color.NRGBA{to8(p.R), to8(p.G), to8(p.B), to8(p.A)})
		}
	}
	return dst
}

// At returns the pixel at column x of row y.
func (m *Image) At(x, y int) *Pixel {
	return &m.Pix[y*m.Width+x]
}

// Bounds returns the extent of the image as a region.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Contains reports whether r is a non-empty region within the image.
func (m *Image) Contains(r image.Rectangle) bool {
	return !r.Empty() && r.In(m.Bounds())
}

// CheckRegion returns ErrInvalidInput if r does not lie within the image.
func (m *Image) CheckRegion(r image.Rectangle) error {
	if !m.Contains(r) {
		return fmt.Errorf("%w: region %v outside %v", ErrInvalidInput, r, m.Bounds())
	}
	return nil
}

// CheckEven returns ErrInvalidInput unless both dimensions are even and
// non-zero.
func (m *Image) CheckEven() error {
	if m.Width <= 0 || m.Height <= 0 || m.Width&1 != 0 || m.Height&1 != 0 {
		return fmt.Errorf("%w: dimensions %dx%d are not even", ErrInvalidInput, m.Width, m.Height)
	}
	return nil
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	dup := *m
	dup.Pix = append([]Pixel(nil), m.Pix...)
	return &dup
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Clamp limits every channel of every pixel to [0, 1].
func (m *Image) Clamp() {
	for i := range m.Pix {
		p := &m.Pix[i]
		p.R = clamp01(p.R)
		p.G = clamp01(p.G)
		p.B = clamp01(p.B)
		p.A = clamp01(p.A)
	}
}
