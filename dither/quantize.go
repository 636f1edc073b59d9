/*
Package dither implements serpentine Floyd-Steinberg error diffusion over the
slots of a packed texture.Image.

Each visited pixel is quantized to the bit depth of the slot's role and the
rounding residual is handed on to the three unvisited neighbours below and
the next pixel in scan direction. Diffusion never crosses the boundary of the
region it runs over.
*/
package dither

import "math"

// Levels returns the highest representable level of an n-bit channel.
func Levels(bits uint) float32 {
	return float32(uint32(1)<<bits - 1)
}

// Quantize returns the n-bit level nearest to v, as a normalized value. Ties
// round to the even level.
func Quantize(v float32, bits uint) float32 {
	l := Levels(bits)
	return float32(math.RoundToEven(float64(v*l))) / l
}

// Residual replaces *v with its n-bit quantized value and returns the
// difference between the original and quantized values.
func Residual(v *float32, bits uint) float32 {
	q := Quantize(*v, bits)
	e := *v - q
	*v = q
	return e
}
