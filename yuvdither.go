/*
Package yuvdither is a library for preparing textures for storage in a 16-bit
5-6-5 pixel format.

Rather than storing red, green and blue directly, a texture is split into
alpha, luma and two half resolution chroma planes which are packed side by
side into an image twice as wide. Every slot is then dithered down to the bit
depth it will be stored with using serpentine Floyd-Steinberg error
diffusion, so the final 5-6-5 conversion loses nothing further.
*/
package yuvdither

import (
	"log"

	"github.com/bodgit/yuvdither/dither"
	"github.com/bodgit/yuvdither/pack"
	"github.com/bodgit/yuvdither/texture"
)

// Options control a Converter.
type Options struct {
	// Resize rounds odd dimensions up to the next even size before
	// processing. Without it, odd sized images are rejected.
	Resize bool
	// Workers is the number of files converted concurrently by Scan.
	Workers int
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		Resize:  true,
		Workers: 10,
	}
}

// Converter turns source images into dithered 5-6-5 textures, optionally
// caching the results.
type Converter struct {
	cache  *Cache
	logger *log.Logger
	opts   Options
}

// New returns a Converter. cache may be nil to disable caching.
func New(cache *Cache, logger *log.Logger, opts Options) *Converter {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Converter{
		cache:  cache,
		logger: logger,
		opts:   opts,
	}
}

// Process packs src into the double width luma and chroma layout, dithers
// each slot to its stored bit depth and clamps the result. src is left
// unmodified and must have even dimensions.
func Process(src *texture.Image) (*texture.Image, error) {
	packed, err := pack.Pack(src)
	if err != nil {
		return nil, err
	}

	rg, u, v := pack.Regions(packed)

	if err := dither.DiffuseRG(packed, rg); err != nil {
		return nil, err
	}

	// Each chroma plane is diffused on its own
	if err := dither.DiffuseB(packed, u); err != nil {
		return nil, err
	}
	if err := dither.DiffuseB(packed, v); err != nil {
		return nil, err
	}

	packed.Clamp()

	return packed, nil
}
