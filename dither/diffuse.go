package dither

import (
	"image"

	"github.com/bodgit/yuvdither/texture"
)

// Floyd-Steinberg weights, named relative to the scan direction
const (
	weightAhead       float32 = 7.0 / 16.0
	weightBehindBelow float32 = 3.0 / 16.0
	weightBelow       float32 = 5.0 / 16.0
	weightAheadBelow  float32 = 1.0 / 16.0
)

// ScanRightToLeft reports whether row y is scanned from right to left. The
// parity is that of the absolute row index, not of the row within a region.
func ScanRightToLeft(y int) bool {
	return y&1 != 0
}

type diffuser struct {
	m     *texture.Image
	r     image.Rectangle
	roles []texture.Role

	// Residuals of the pixel being visited, one per role
	e [4]float32
}

func newDiffuser(m *texture.Image, r image.Rectangle, roles ...texture.Role) (*diffuser, error) {
	if err := m.CheckRegion(r); err != nil {
		return nil, err
	}
	return &diffuser{
		m:     m,
		r:     r,
		roles: roles,
	}, nil
}

func (d *diffuser) add(x, y int, w float32) {
	if x < d.r.Min.X || x >= d.r.Max.X || y >= d.r.Max.Y {
		return
	}
	p := d.m.At(x, y)
	for i, role := range d.roles {
		*p.Slot(role.Slot()) += d.e[i] * w
	}
}

// step quantizes the pixel at (x, y) and spreads its residual to the pixels
// not yet visited. dir is +1 when scanning left to right and -1 otherwise.
func (d *diffuser) step(x, y, dir int) {
	p := d.m.At(x, y)
	for i, role := range d.roles {
		d.e[i] = Residual(p.Slot(role.Slot()), role.Depth())
	}

	d.add(x+dir, y, weightAhead)

	d.add(x-dir, y+1, weightBehindBelow)
	d.add(x, y+1, weightBelow)
	d.add(x+dir, y+1, weightAheadBelow)
}

// row visits every pixel of row y in scan order.
func (d *diffuser) row(y int) {
	if ScanRightToLeft(y) {
		for x := d.r.Max.X - 1; x >= d.r.Min.X; x-- {
			d.step(x, y, -1)
		}
		return
	}
	for x := d.r.Min.X; x < d.r.Max.X; x++ {
		d.step(x, y, 1)
	}
}

// Rows must be processed top to bottom and each row strictly in scan order as
// every pixel depends on the residuals of all pixels visited before it.
func (d *diffuser) run() {
	for y := d.r.Min.Y; y < d.r.Max.Y; y++ {
		d.row(y)
	}
}

func diffuse(m *texture.Image, r image.Rectangle, roles ...texture.Role) error {
	d, err := newDiffuser(m, r, roles...)
	if err != nil {
		return err
	}
	d.run()
	return nil
}

// DiffuseRG dithers the alpha (5-bit, slot R) and luma (6-bit, slot G) slots
// of m within r in a single pass.
func DiffuseRG(m *texture.Image, r image.Rectangle) error {
	return diffuse(m, r, texture.Alpha, texture.Luma)
}

// DiffuseB dithers the chroma slot (5-bit, slot B) of m within r. It is run
// once for each chroma plane so the planes never exchange error.
func DiffuseB(m *texture.Image, r image.Rectangle) error {
	// Both chroma roles share slot B and its depth
	return diffuse(m, r, texture.ChromaU)
}
