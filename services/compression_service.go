package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
	"yelo_server/imaging"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

const (
	// localQualityStart is where the local tier begins before the size loop
	// walks it down
	localQualityStart = 0.7

	// maxConcurrentCompressions bounds the batch fan-out
	maxConcurrentCompressions = 4
)

// CompressedImage is the output of either compression tier
type CompressedImage struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

// DataURL renders the payload as a data URL for direct client display
func (ci CompressedImage) DataURL() string {
	return lib.BuildDataURL(ci.MimeType, ci.Base64)
}

// CompressionService shrinks images below the persistable payload cap. The
// remote service is the first tier; any failure there falls back to local
// decode, downscale and re-encode. Both tiers end at the same cap check.
type CompressionService struct {
	logger     *gecho.Logger
	config     *structs.Config
	httpClient *http.Client
}

func NewCompressionService(logger *gecho.Logger, cfg *structs.Config) *CompressionService {
	return &CompressionService{
		logger: logger,
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Compression.RequestTimeout,
		},
	}
}

type remoteCompressRequest struct {
	Image   string `json:"image"`
	Quality int    `json:"quality"`
}

type remoteCompressResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    *struct {
		MimeType string `json:"mimeType"`
		Base64   string `json:"base64"`
	} `json:"data,omitempty"`
}

// Compress runs one image through the pipeline. Quality <= 0 uses the
// configured default.
func (cps *CompressionService) Compress(ctx context.Context, file UploadFile, quality int) (*CompressedImage, error) {
	if quality <= 0 {
		quality = cps.config.Compression.DefaultQuality
	}

	result, err := cps.compressRemote(ctx, file, quality)
	if err == nil {
		return result, nil
	}

	cps.logger.Warn("Remote compression failed, falling back to local tier",
		gecho.Field("error", err),
		gecho.Field("name", file.Name),
	)

	return cps.compressLocal(file)
}

// compressRemote sends the image to the compression service
func (cps *CompressionService) compressRemote(ctx context.Context, file UploadFile, quality int) (*CompressedImage, error) {
	payload := remoteCompressRequest{
		Image:   lib.BuildDataURL(file.ContentType, base64.StdEncoding.EncodeToString(file.Data)),
		Quality: quality,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compression request: %w", err)
	}

	url := cps.config.Compression.BaseURL + "/compress-image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build compression request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cps.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compression service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("compression service returned %d", resp.StatusCode)
	}

	var decoded remoteCompressResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode compression response: %w", err)
	}

	if !decoded.Success || decoded.Data == nil {
		return nil, fmt.Errorf("compression service rejected image: %s", decoded.Error)
	}

	cleaned, err := lib.ValidateBase64(decoded.Data.Base64)
	if err != nil {
		return nil, fmt.Errorf("remote result failed payload validation: %w", err)
	}

	return &CompressedImage{
		MimeType: decoded.Data.MimeType,
		Base64:   cleaned,
	}, nil
}

// compressLocal decodes, downscales to the bounding box and re-encodes,
// walking the quality down until the payload fits under the cap
func (cps *CompressionService) compressLocal(file UploadFile) (*CompressedImage, error) {
	img, _, err := imaging.Decode(file.Data)
	if err != nil {
		return nil, err
	}

	fitted := imaging.Fit(img, imaging.MaxDimension, imaging.MaxDimension)

	data, mimeType, err := imaging.EncodeToLimit(fitted, localQualityStart, lib.MaxBase64Length)
	if err != nil {
		return nil, err
	}

	return &CompressedImage{
		MimeType: mimeType,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

// CompressBatch compresses files concurrently, preserving input order in the
// result slice. When only some items fail the successes are returned together
// with a PartialBatchError listing the failed indexes.
func (cps *CompressionService) CompressBatch(ctx context.Context, files []UploadFile, quality int) ([]*CompressedImage, error) {
	if len(files) == 0 {
		return nil, lib.NewValidationError("images", "no images to compress")
	}

	results := make([]*CompressedImage, len(files))
	var mu sync.Mutex
	var failed []lib.BatchItemError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCompressions)

	for i, file := range files {
		g.Go(func() error {
			result, err := cps.Compress(gctx, file, quality)
			if err != nil {
				mu.Lock()
				failed = append(failed, lib.BatchItemError{Index: i, Err: err.Error()})
				mu.Unlock()
				// Item failures never cancel the rest of the batch
				return nil
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(failed) == len(files) {
		return nil, fmt.Errorf("all %d images failed compression", len(files))
	}
	if len(failed) > 0 {
		return results, &lib.PartialBatchError{Total: len(files), Failed: failed}
	}

	return results, nil
}

// CompressForSave compresses every pending payload of a working image list
// before persistence. Unlike the batch upload path, a single failure aborts
// the whole save.
func (cps *CompressionService) CompressForSave(ctx context.Context, records []structs.ImageRecord, quality int) ([]structs.ImageRecord, error) {
	start := time.Now()

	out := make([]structs.ImageRecord, len(records))
	copy(out, records)

	for i := range out {
		mimeType, payload := lib.ExtractBase64(out[i].URL)
		if mimeType == "" {
			if !lib.IsExternalURL(out[i].URL) {
				return nil, lib.NewValidationError("images",
					fmt.Sprintf("image %d is neither an http(s) url nor an inline data url", i))
			}
			// External URL, nothing to compress
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(lib.SanitizeBase64(payload))
		if err != nil {
			return nil, lib.NewValidationError("images", fmt.Sprintf("image %d has an unreadable payload", i))
		}

		result, err := cps.Compress(ctx, UploadFile{ContentType: mimeType, Data: raw}, quality)
		if err != nil {
			return nil, fmt.Errorf("image %d failed compression: %w", i, err)
		}

		out[i].URL = result.DataURL()
	}

	cps.logger.Debug("Images compressed for save",
		gecho.Field("count", len(out)),
		gecho.Field("duration", time.Since(start)),
	)

	return out, nil
}
