/*
Package rgb565 implements a decoder and encoder for packed textures stored as
16-bit 5-6-5 words.

The file starts with the four bytes "Y565" followed by the width and height as
little-endian 32-bit values. Then follows one little-endian 16-bit word per
pixel, row by row, laid out as RRRRRGGGGGGBBBBB. There is no compression so
the file is always 12 + 2*width*height bytes.

The R, G and B slots of a texture.Image map onto the three fields; slot A is
not stored. Values that are already quantized to 5, 6 and 5 bits survive a
round trip unchanged.
*/
package rgb565

const (
	magic        = "Y565"
	headerSize   = len(magic) + 8
	bitsR        = 5
	bitsG        = 6
	bitsB        = 5
	shiftR       = bitsG + bitsB
	shiftG       = bitsB
	maskR        = 1<<bitsR - 1
	maskG        = 1<<bitsG - 1
	maskB        = 1<<bitsB - 1
	maxDimension = 1 << 15
)
