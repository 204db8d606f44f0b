package imaging_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"yelo_server/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(10, 10)))

	img, format, err := imaging.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, img.Bounds().Dx())

	_, _, err = imaging.Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	t.Run("wide image scales to bounding box", func(t *testing.T) {
		out := imaging.Fit(solidImage(1600, 800), 800, 800)
		assert.Equal(t, 800, out.Bounds().Dx())
		assert.Equal(t, 400, out.Bounds().Dy())
	})

	t.Run("tall image scales to bounding box", func(t *testing.T) {
		out := imaging.Fit(solidImage(400, 1600), 800, 800)
		assert.Equal(t, 100, out.Bounds().Dx())
		assert.Equal(t, 400, out.Bounds().Dy())
	})

	t.Run("small image is never upscaled", func(t *testing.T) {
		src := solidImage(400, 300)
		out := imaging.Fit(src, 800, 800)
		assert.Equal(t, src, out)
	})
}

func TestEncodeToLimit(t *testing.T) {
	img := imaging.Fit(solidImage(640, 480), imaging.MaxDimension, imaging.MaxDimension)

	t.Run("fits under a generous cap", func(t *testing.T) {
		data, mimeType, err := imaging.EncodeToLimit(img, 0.7, 1<<20)
		require.NoError(t, err)
		assert.NotEmpty(t, mimeType)
		assert.LessOrEqual(t, base64.StdEncoding.EncodedLen(len(data)), 1<<20)
	})

	t.Run("fails when the cap is impossible", func(t *testing.T) {
		_, _, err := imaging.EncodeToLimit(img, 0.7, 16)
		assert.Error(t, err)
	})
}
