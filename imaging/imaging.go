// Package imaging holds the local image processing tier: decoding, bounded
// downscaling and size-capped encoding. It is the fallback path when the
// remote compression service is unavailable.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the formats clients actually send
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
)

// MaxDimension bounds both axes of a processed image
const MaxDimension = 800

// Decode parses raw image bytes and reports the detected format name
// (jpeg, png, gif, webp).
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// Fit scales an image down so both dimensions fit within maxW x maxH,
// preserving aspect ratio. Images already within bounds are returned
// unchanged; nothing is ever scaled up.
func Fit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxW && h <= maxH {
		return img
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
