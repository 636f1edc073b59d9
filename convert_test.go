package yuvdither_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/yuvdither"
	"github.com/bodgit/yuvdither/rgb565"
	"github.com/bodgit/yuvdither/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func testImage(width, height int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x ^ y) * 16),
				A: 0xff,
			})
		}
	}
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func newCache(t *testing.T) *yuvdither.Cache {
	t.Helper()
	cache, err := yuvdither.NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, cache.Close())
	})
	return cache
}

func TestResizeEven(t *testing.T) {
	even := testImage(4, 6)
	assert.True(t, yuvdither.ResizeEven(even) == image.Image(even))

	tables := []struct {
		in, want image.Point
	}{
		{image.Pt(3, 3), image.Pt(4, 4)},
		{image.Pt(4, 5), image.Pt(4, 6)},
		{image.Pt(1, 2), image.Pt(2, 2)},
	}

	for _, table := range tables {
		got := yuvdither.ResizeEven(testImage(table.in.X, table.in.Y))
		assert.Equal(t, table.want, got.Bounds().Size())
		assert.Equal(t, image.Point{}, got.Bounds().Min)
	}
}

func TestConvert(t *testing.T) {
	opts := yuvdither.DefaultOptions()
	c := yuvdither.New(nil, discard(), opts)

	m, err := c.Convert(testImage(5, 3))
	require.NoError(t, err)
	assert.Equal(t, 12, m.Width)
	assert.Equal(t, 4, m.Height)

	opts.Resize = false
	c = yuvdither.New(nil, discard(), opts)

	_, err = c.Convert(testImage(5, 3))
	assert.True(t, errors.Is(err, texture.ErrInvalidInput))
}

func TestConvertFileCache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.png")
	writePNG(t, file, testImage(8, 4))

	cache := newCache(t)
	c := yuvdither.New(cache, discard(), yuvdither.DefaultOptions())

	b, err := c.ConvertFile(file)
	require.NoError(t, err)

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, err := rgb565.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 16, m.Width)
	assert.Equal(t, 4, m.Height)

	// Second conversion is served from the cache
	again, err := c.ConvertFile(file)
	require.NoError(t, err)
	assert.Equal(t, b, again)

	uncached, err := yuvdither.New(nil, discard(), yuvdither.DefaultOptions()).ConvertFile(file)
	require.NoError(t, err)
	assert.Equal(t, b, uncached)

	require.NoError(t, cache.Purge())
	n, err = cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCacheMiss(t *testing.T) {
	b, err := newCache(t).Lookup("0000000000000000000000000000000000000000")
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestConvertFileNotImage(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.png")
	require.NoError(t, ioutil.WriteFile(file, []byte("not an image"), 0666))

	_, err := yuvdither.New(nil, discard(), yuvdither.DefaultOptions()).ConvertFile(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), file)
	assert.True(t, errors.Is(err, image.ErrFormat))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	tagged := []byte("fileFormatVersion: 2\nuserData: " + yuvdither.Tag + "\n")

	writePNG(t, filepath.Join(dir, "tagged.png"), testImage(4, 4))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "tagged.png.meta"), tagged, 0666))

	writePNG(t, filepath.Join(dir, "untagged.png"), testImage(4, 4))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "untagged.png.meta"), []byte("userData: \n"), 0666))

	writePNG(t, filepath.Join(dir, "nometa.png"), testImage(4, 4))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0777))
	writePNG(t, filepath.Join(dir, "sub", "odd.png"), testImage(3, 5))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "sub", "odd.png.meta"), tagged, 0666))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0777))
	writePNG(t, filepath.Join(dir, ".hidden", "tagged.png"), testImage(4, 4))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, ".hidden", "tagged.png.meta"), tagged, 0666))

	c := yuvdither.New(newCache(t), discard(), yuvdither.DefaultOptions())
	require.NoError(t, c.Scan(context.Background(), dir))

	assert.FileExists(t, filepath.Join(dir, "tagged.png.565"))
	assert.FileExists(t, filepath.Join(dir, "sub", "odd.png.565"))
	assert.NoFileExists(t, filepath.Join(dir, "untagged.png.565"))
	assert.NoFileExists(t, filepath.Join(dir, "nometa.png.565"))
	assert.NoFileExists(t, filepath.Join(dir, ".hidden", "tagged.png.565"))

	f, err := os.Open(filepath.Join(dir, "sub", "odd.png.565"))
	require.NoError(t, err)
	defer f.Close()

	w, h, err := rgb565.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)
}

func TestScanError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0666))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.png.meta"), []byte("userData: "+yuvdither.Tag), 0666))

	c := yuvdither.New(nil, discard(), yuvdither.DefaultOptions())
	err := c.Scan(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")
}

func TestScanSameStem(t *testing.T) {
	dir := t.TempDir()
	tagged := []byte("userData: " + yuvdither.Tag + "\n")

	writePNG(t, filepath.Join(dir, "a.png"), testImage(4, 4))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "a.png.meta"), tagged, 0666))

	// A PNG behind a .gif name still decodes; only the stem matters here
	writePNG(t, filepath.Join(dir, "a.gif"), testImage(6, 2))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "a.gif.meta"), tagged, 0666))

	c := yuvdither.New(nil, discard(), yuvdither.DefaultOptions())
	require.NoError(t, c.Scan(context.Background(), dir))

	outputs, err := filepath.Glob(filepath.Join(dir, "*"+yuvdither.Extension))
	require.NoError(t, err)
	assert.Len(t, outputs, 2)

	tables := []struct {
		file          string
		width, height int
	}{
		{"a.png.565", 8, 4},
		{"a.gif.565", 12, 2},
	}

	for _, table := range tables {
		t.Run(table.file, func(t *testing.T) {
			f, err := os.Open(filepath.Join(dir, table.file))
			require.NoError(t, err)
			defer f.Close()

			w, h, err := rgb565.DecodeConfig(f)
			require.NoError(t, err)
			assert.Equal(t, table.width, w)
			assert.Equal(t, table.height, h)
		})
	}
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b.png.565"), yuvdither.OutputFilename(filepath.Join("a", "b.png")))
	assert.Equal(t, "c.d.jpeg.565", yuvdither.OutputFilename("c.d.jpeg"))
	assert.NotEqual(t, yuvdither.OutputFilename("e.png"), yuvdither.OutputFilename("e.jpg"))
}

func TestPreview(t *testing.T) {
	c := yuvdither.New(nil, discard(), yuvdither.DefaultOptions())
	m, err := c.Convert(testImage(8, 6))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rgb565.Encode(&buf, m))
	packed, err := rgb565.Decode(&buf)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, yuvdither.Preview(&out, packed))

	cfg, err := gif.DecodeConfig(&out)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}
