package upload

import (
	"errors"
	"net/http"
	"yelo_server/handling"
	"yelo_server/lib"

	"github.com/MonkyMars/gecho"
)

// CompressImage handles POST /admin/upload/compress-image for a single file
func (u *UploadRoutesManager) CompressImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, err := readMultipartFiles(r, "image")
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

	compressed, err := u.compressionService.Compress(ctx, valid[0], parseQuality(r))
	if err != nil {
		handling.RespondError(w, u.logger, err, "error.upload.compressionFailed")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"mime_type": compressed.MimeType,
			"base64":    compressed.Base64,
			"data_url":  compressed.DataURL(),
		}),
		gecho.Send(),
	)
}

// CompressImages handles POST /admin/upload/compress-images.
//
// Item failures do not abort the batch. A partial result is returned with
// the per-file outcomes so the caller can retry only what failed.
func (u *UploadRoutesManager) CompressImages(w http.ResponseWriter, r *http.Request) {
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

	results, err := u.compressionService.CompressBatch(ctx, valid, parseQuality(r))
	if err != nil {
		var partial *lib.PartialBatchError
		if !errors.As(err, &partial) {
			handling.RespondError(w, u.logger, err, "error.upload.compressionFailed")
			return
		}

		u.logger.Warn("Batch compression partially failed",
			gecho.Field("total", partial.Total),
			gecho.Field("failed", len(partial.Failed)),
		)
	}

	images := make([]map[string]any, 0, len(results))
	failed := make([]map[string]any, 0)
	for i, result := range results {
		if result == nil {
			failed = append(failed, map[string]any{
				"index": i,
				"name":  valid[i].Name,
			})
			continue
		}
		images = append(images, map[string]any{
			"index":     i,
			"name":      valid[i].Name,
			"mime_type": result.MimeType,
			"base64":    result.Base64,
			"data_url":  result.DataURL(),
		})
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
