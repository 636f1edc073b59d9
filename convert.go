package yuvdither

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/ioutil"

	"github.com/bodgit/yuvdither/rgb565"
	"github.com/bodgit/yuvdither/texture"
	"golang.org/x/image/draw"
)

// ResizeEven returns m unchanged if both of its dimensions are even,
// otherwise a bilinear resample of m rounded up to the next even size.
func ResizeEven(m image.Image) image.Image {
	b := m.Bounds()
	w, h := (b.Dx()+1)&^1, (b.Dy()+1)&^1
	if w == b.Dx() && h == b.Dy() {
		return m
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)

	return dst
}

// Convert processes m into a packed and dithered texture.
func (c *Converter) Convert(m image.Image) (*texture.Image, error) {
	if c.opts.Resize {
		b := m.Bounds()
		m = ResizeEven(m)
		if nb := m.Bounds(); nb != b {
			c.logger.Printf("Resized %dx%d to %dx%d\n", b.Dx(), b.Dy(), nb.Dx(), nb.Dy())
		}
	}

	return Process(texture.FromImage(m))
}

// ConvertFile decodes the image in file and returns it processed and
// encoded in 5-6-5 format. Results are looked up in and added to the cache
// by the SHA-1 of the file contents.
func (c *Converter) ConvertFile(file string) ([]byte, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	if c.cache != nil {
		data, err := c.cache.Lookup(sha)
		if err != nil {
			return nil, err
		}
		if data != nil {
			c.logger.Printf("Cache hit for \"%s\", with SHA-1 \"%s\"\n", file, sha)
			return data, nil
		}
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	t, err := c.Convert(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	buf := new(bytes.Buffer)
	if err := rgb565.Encode(buf, t); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Store(sha, buf.Bytes()); err != nil {
			return nil, err
		}
		c.logger.Printf("Cached \"%s\", with SHA-1 \"%s\"\n", file, sha)
	}

	return buf.Bytes(), nil
}
