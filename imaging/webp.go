//go:build webp

package imaging

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

type webpEncoder struct{}

func (webpEncoder) MimeType() string { return "image/webp" }

func (webpEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	q := float32(quality * 100)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return webp.Encode(w, img, &webp.Options{Quality: q})
}

func init() {
	RegisterEncoder(webpEncoder{})
}
