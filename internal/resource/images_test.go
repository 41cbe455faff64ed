package resource_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/bmp"

	"github.com/cory-johannsen/nancy/internal/resource"
)

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	return buf.Bytes()
}

func TestImages_LoadAndCache(t *testing.T) {
	fsys := fstest.MapFS{"KEY.bmp": {Data: encodeBMP(t, 6, 4)}}
	imgs := resource.NewImages(fsys, zaptest.NewLogger(t))

	img, err := imgs.Load("KEY")
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(200)<<8|200, r)

	delete(fsys, "KEY.bmp")
	again, err := imgs.Load("KEY")
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Equal(t, 1, imgs.Cached())
}

func TestImages_Missing(t *testing.T) {
	imgs := resource.NewImages(fstest.MapFS{}, zaptest.NewLogger(t))
	_, err := imgs.Load("NONE")
	assert.True(t, errors.Is(err, resource.ErrImageNotFound))

	_, err = imgs.Load("")
	assert.True(t, errors.Is(err, resource.ErrImageNotFound))
	assert.Equal(t, 0, imgs.Cached())
}

func TestImages_Corrupt(t *testing.T) {
	fsys := fstest.MapFS{"BAD.bmp": {Data: []byte("not a bitmap")}}
	imgs := resource.NewImages(fsys, zaptest.NewLogger(t))
	_, err := imgs.Load("BAD")
	require.Error(t, err)
	assert.False(t, errors.Is(err, resource.ErrImageNotFound))
}
