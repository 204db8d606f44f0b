package services_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"yelo_server/lib"
	"yelo_server/services"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newCompressionService(baseURL string) *services.CompressionService {
	cfg := &structs.Config{Compression: &structs.CompressionConfig{
		BaseURL:        baseURL,
		DefaultQuality: 20,
		RequestTimeout: 2 * time.Second,
	}}
	return services.NewCompressionService(gecho.NewDefaultLogger(), cfg)
}

func remoteStub(t *testing.T, gotQuality *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compress-image", r.URL.Path)

		var req struct {
			Image   string `json:"image"`
			Quality int    `json:"quality"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, strings.HasPrefix(req.Image, "data:"))
		if gotQuality != nil {
			*gotQuality = req.Quality
		}

		payload := base64.StdEncoding.EncodeToString([]byte("tiny compressed output"))
		fmt.Fprintf(w, `{"success":true,"data":{"mimeType":"image/jpeg","base64":%q}}`, payload)
	}
}

func TestCompress_RemoteTier(t *testing.T) {
	var gotQuality int
	srv := httptest.NewServer(remoteStub(t, &gotQuality))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	file := services.UploadFile{Name: "a.png", ContentType: "image/png", Data: pngBytes(t, 20, 20)}
	result, err := svc.Compress(context.Background(), file, 0)
	require.NoError(t, err)

	assert.Equal(t, 20, gotQuality, "zero quality should fall back to the configured default")
	assert.Equal(t, "image/jpeg", result.MimeType)
	assert.True(t, strings.HasPrefix(result.DataURL(), "data:image/jpeg;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(result.Base64)
	require.NoError(t, err)
	assert.Equal(t, "tiny compressed output", string(decoded))
}

func TestCompress_LocalFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	file := services.UploadFile{Name: "a.png", ContentType: "image/png", Data: pngBytes(t, 64, 64)}
	result, err := svc.Compress(context.Background(), file, 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Base64), lib.MaxBase64Length)
	_, err = base64.StdEncoding.DecodeString(result.Base64)
	assert.NoError(t, err)
}

func TestCompress_BothTiersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	file := services.UploadFile{Name: "junk.png", ContentType: "image/png", Data: []byte("not an image at all")}
	_, err := svc.Compress(context.Background(), file, 0)
	assert.Error(t, err)
}

func TestCompressBatch_PartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	files := []services.UploadFile{
		{Name: "good.png", ContentType: "image/png", Data: pngBytes(t, 32, 32)},
		{Name: "bad.png", ContentType: "image/png", Data: []byte("garbage")},
	}

	results, err := svc.CompressBatch(context.Background(), files, 0)

	var partial *lib.PartialBatchError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 2, partial.Total)
	require.Len(t, partial.Failed, 1)
	assert.Equal(t, 1, partial.Failed[0].Index)

	require.Len(t, results, 2)
	assert.NotNil(t, results[0], "successes keep their input position")
	assert.Nil(t, results[1])
}

func TestCompressBatch_TotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	files := []services.UploadFile{
		{Name: "bad1.png", ContentType: "image/png", Data: []byte("garbage")},
		{Name: "bad2.png", ContentType: "image/png", Data: []byte("more garbage")},
	}

	_, err := svc.CompressBatch(context.Background(), files, 0)
	require.Error(t, err)

	var partial *lib.PartialBatchError
	assert.False(t, errors.As(err, &partial), "a fully failed batch is a plain error")
}

func TestCompressBatch_EmptyInput(t *testing.T) {
	svc := newCompressionService("http://localhost:1")

	_, err := svc.CompressBatch(context.Background(), nil, 0)
	var validation *lib.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCompressForSave(t *testing.T) {
	srv := httptest.NewServer(remoteStub(t, nil))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	pending := base64.StdEncoding.EncodeToString(pngBytes(t, 16, 16))
	records := []structs.ImageRecord{
		{ID: "1", URL: "https://cdn.example.com/existing.jpg", IsPrimary: true},
		{ID: "2", URL: "data:image/png;base64," + pending},
	}

	out, err := svc.CompressForSave(context.Background(), records, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "https://cdn.example.com/existing.jpg", out[0].URL, "external URLs pass through untouched")
	assert.True(t, strings.HasPrefix(out[1].URL, "data:image/jpeg;base64,"))

	// Input slice stays untouched
	assert.Equal(t, "data:image/png;base64,"+pending, records[1].URL)
}

func TestCompressForSave_RejectsTransientURLs(t *testing.T) {
	svc := newCompressionService("http://localhost:1")

	cases := []struct {
		name string
		url  string
	}{
		{"blob object url", "blob:http://localhost:3000/8c2d9f"},
		{"bare junk", "not-a-url-at-all"},
		{"empty url", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records := []structs.ImageRecord{{ID: "1", URL: tc.url}}

			_, err := svc.CompressForSave(context.Background(), records, 0)
			var validation *lib.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestCompressForSave_AbortsOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCompressionService(srv.URL)

	records := []structs.ImageRecord{
		{ID: "1", URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("garbage"))},
	}

	_, err := svc.CompressForSave(context.Background(), records, 0)
	assert.Error(t, err)
}
