package lib_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"yelo_server/lib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBase64(t *testing.T) {
	t.Run("data url", func(t *testing.T) {
		mime, payload := lib.ExtractBase64("data:image/png;base64,aGVsbG8=")
		assert.Equal(t, "image/png", mime)
		assert.Equal(t, "aGVsbG8=", payload)
	})

	t.Run("bare payload", func(t *testing.T) {
		mime, payload := lib.ExtractBase64("aGVsbG8=")
		assert.Empty(t, mime)
		assert.Equal(t, "aGVsbG8=", payload)
	})

	t.Run("external url is left alone", func(t *testing.T) {
		mime, payload := lib.ExtractBase64("https://cdn.example.com/a.png")
		assert.Empty(t, mime)
		assert.Equal(t, "https://cdn.example.com/a.png", payload)
	})
}

func TestSanitizeBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("hello world"))

	t.Run("strips prefix and whitespace", func(t *testing.T) {
		noisy := "data:image/jpeg;base64," + encoded[:4] + " \n\t" + encoded[4:]
		assert.Equal(t, encoded, lib.SanitizeBase64(noisy))
	})

	t.Run("removes mid-string padding", func(t *testing.T) {
		assert.Equal(t, "abcd", lib.SanitizeBase64("ab=cd"))
	})

	t.Run("pads to a multiple of four", func(t *testing.T) {
		out := lib.SanitizeBase64("aGVsbG")
		assert.Zero(t, len(out)%4)
		assert.True(t, strings.HasPrefix(out, "aGVsbG"))
	})
}

func TestValidateBase64(t *testing.T) {
	t.Run("valid payload survives", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("some image bytes"))
		cleaned, err := lib.ValidateBase64("data:image/png;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, encoded, cleaned)
	})

	t.Run("round trip decodes", func(t *testing.T) {
		original := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
		cleaned, err := lib.ValidateBase64(base64.StdEncoding.EncodeToString(original))
		require.NoError(t, err)

		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := lib.ValidateBase64("")
		var validation *lib.ValidationError
		require.True(t, errors.As(err, &validation))
	})

	t.Run("exact boundary accepted", func(t *testing.T) {
		payload := strings.Repeat("A", lib.MaxBase64Length)
		cleaned, err := lib.ValidateBase64(payload)
		require.NoError(t, err)
		assert.Len(t, cleaned, lib.MaxBase64Length)
	})

	t.Run("over the cap rejected", func(t *testing.T) {
		payload := strings.Repeat("A", lib.MaxBase64Length+4)
		_, err := lib.ValidateBase64(payload)
		var validation *lib.ValidationError
		require.True(t, errors.As(err, &validation))
	})
}

func TestBuildDataURL(t *testing.T) {
	assert.Equal(t, "data:image/webp;base64,abcd", lib.BuildDataURL("image/webp", "abcd"))
	assert.Equal(t, "data:image/jpeg;base64,abcd", lib.BuildDataURL("", "abcd"))
}
