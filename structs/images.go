package structs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ImageInput is one raw element of a product's image payload. Clients send
// either a bare URL string or an object with flags; UnmarshalJSON accepts
// both forms so handlers never branch on shape.
type ImageInput struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
	Alt       string `json:"alt"`
}

func (in *ImageInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*in = ImageInput{URL: url}
		return nil
	}

	var obj struct {
		URL       string `json:"url"`
		IsPrimary bool   `json:"isPrimary"`
		Alt       string `json:"alt"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image entry must be a url string or an object: %w", err)
	}
	*in = ImageInput{URL: obj.URL, IsPrimary: obj.IsPrimary, Alt: obj.Alt}
	return nil
}

// NewImageInput builds an object-form input, mainly for tests and internal
// normalization paths.
func NewImageInput(url string, isPrimary bool, alt string) ImageInput {
	return ImageInput{URL: url, IsPrimary: isPrimary, Alt: alt}
}

// ImageRecord is a normalized image as the rest of the pipeline sees it.
// Preview carries a display URL for blob-backed entries whose URL field
// holds the payload to persist.
type ImageRecord struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Preview   string `json:"preview,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
	Alt       string `json:"alt,omitempty"`
}
