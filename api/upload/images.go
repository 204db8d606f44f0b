package upload

import (
	"encoding/base64"
	"errors"
	"net/http"
	"yelo_server/handling"
	"yelo_server/lib"
	"yelo_server/services"

	"github.com/MonkyMars/gecho"
)

// UploadImages handles POST /admin/upload/images.
//
// Files are compressed first and the compressed payloads are stored, so
// the bucket never holds originals larger than the compressed tier allows.
func (u *UploadRoutesManager) UploadImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, err := readMultipartFiles(r, "images")
	if err != nil {
		u.logger.Warn("Failed to parse multipart upload", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.upload.invalidMultipart"),
			gecho.Send(),
		)
		return
	}

	valid, err := u.imageService.Ingest(files)
	if err != nil {
		handling.RespondError(w, u.logger, err, "error.upload.noValidImages")
		return
	}

	compressed, err := u.compressionService.CompressBatch(ctx, valid, parseQuality(r))
	if err != nil && !isPartial(err) {
		handling.RespondError(w, u.logger, err, "error.upload.compressionFailed")
		return
	}

	// Track which originals survived compression so upload results can be
	// mapped back to input positions.
	uploads := make([]services.UploadFile, 0, len(compressed))
	sourceIndex := make([]int, 0, len(compressed))
	failed := make([]map[string]any, 0)

	for i, result := range compressed {
		if result == nil {
			failed = append(failed, failure(i, valid[i].Name, "compression failed"))
			continue
		}

		data, decodeErr := base64.StdEncoding.DecodeString(result.Base64)
		if decodeErr != nil {
			failed = append(failed, failure(i, valid[i].Name, "invalid compressed payload"))
			continue
		}

		uploads = append(uploads, services.UploadFile{
			Name:        valid[i].Name,
			ContentType: result.MimeType,
			Data:        data,
		})
		sourceIndex = append(sourceIndex, i)
	}

	urls, err := u.storageService.UploadBatch(ctx, uploads)
	if err != nil && !isPartial(err) {
		handling.RespondError(w, u.logger, err, "error.upload.storageFailed")
		return
	}

	images := make([]map[string]any, 0, len(urls))
	for j, url := range urls {
		i := sourceIndex[j]
		if url == "" {
			failed = append(failed, failure(i, valid[i].Name, "upload failed"))
			continue
		}
		images = append(images, map[string]any{
			"index": i,
			"name":  valid[i].Name,
			"url":   url,
		})
	}

	if len(failed) > 0 {
		u.logger.Warn("Image upload batch partially failed",
			gecho.Field("total", len(valid)),
			gecho.Field("failed", len(failed)),
		)
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"images": images,
			"failed": failed,
			"count":  len(images),
		}),
		gecho.Send(),
	)
}

func isPartial(err error) bool {
	var partial *lib.PartialBatchError
	return errors.As(err, &partial)
}

func failure(index int, name, reason string) map[string]any {
	return map[string]any{
		"index":  index,
		"name":   name,
		"reason": reason,
	}
}
