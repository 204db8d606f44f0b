package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

// Encoder writes an image in a specific output format. Quality runs from
// 0.0 to 1.0 regardless of what the underlying codec expects.
type Encoder interface {
	MimeType() string
	Encode(w io.Writer, img image.Image, quality float64) error
}

var encoders []Encoder

// RegisterEncoder prepends an encoder so later registrations take priority
func RegisterEncoder(enc Encoder) {
	encoders = append([]Encoder{enc}, encoders...)
}

// PreferredEncoder returns the highest priority encoder available in this
// build. JPEG is always registered, so the result is never nil.
func PreferredEncoder() Encoder {
	return encoders[0]
}

type jpegEncoder struct{}

func (jpegEncoder) MimeType() string { return "image/jpeg" }

func (jpegEncoder) Encode(w io.Writer, img image.Image, quality float64) error {
	q := int(quality * 100)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

func init() {
	encoders = []Encoder{jpegEncoder{}}
}

const (
	// qualityFloor is the lowest quality the re-encode loop will try
	qualityFloor = 0.3
	// qualityStep multiplies the quality on each re-encode attempt
	qualityStep = 0.7
)

// EncodeToLimit encodes an image with the preferred encoder, lowering the
// quality until the base64 form of the output fits within maxBase64Len.
// It fails rather than emit an oversized payload.
func EncodeToLimit(img image.Image, quality float64, maxBase64Len int) ([]byte, string, error) {
	enc := PreferredEncoder()

	for {
		var buf bytes.Buffer
		if err := enc.Encode(&buf, img, quality); err != nil {
			return nil, "", fmt.Errorf("failed to encode image: %w", err)
		}

		if base64.StdEncoding.EncodedLen(buf.Len()) <= maxBase64Len {
			return buf.Bytes(), enc.MimeType(), nil
		}

		if quality <= qualityFloor {
			return nil, "", fmt.Errorf(
				"image still exceeds %d base64 characters at minimum quality", maxBase64Len)
		}

		quality *= qualityStep
		if quality < qualityFloor {
			quality = qualityFloor
		}
	}
}
