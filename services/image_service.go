package services

import (
	"strings"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// ImageService owns a product's working image list. Every mutation returns a
// list that satisfies the single invariant the storefront depends on: a
// non-empty list has exactly one primary image.
type ImageService struct {
	logger *gecho.Logger
}

func NewImageService(logger *gecho.Logger) *ImageService {
	return &ImageService{logger: logger}
}

// UploadFile is one file received through a multipart upload
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Normalize converts raw payload entries into working records. The first
// entry is always marked primary; flags claimed further down the list are
// cleared by the single-primary repair.
func (is *ImageService) Normalize(inputs []structs.ImageInput) []structs.ImageRecord {
	records := make([]structs.ImageRecord, 0, len(inputs))

	for i, in := range inputs {
		records = append(records, structs.ImageRecord{
			ID:        uuid.NewString(),
			URL:       in.URL,
			IsPrimary: in.IsPrimary || i == 0,
			Alt:       in.Alt,
		})
	}

	return is.ensureSinglePrimary(records)
}

// ensureSinglePrimary repairs the primary flag: the first record marked
// primary keeps it, every other record loses it, and a list with no primary
// promotes its first record.
func (is *ImageService) ensureSinglePrimary(records []structs.ImageRecord) []structs.ImageRecord {
	if len(records) == 0 {
		return records
	}

	found := false
	for i := range records {
		if records[i].IsPrimary && !found {
			found = true
			continue
		}
		records[i].IsPrimary = false
	}

	if !found {
		records[0].IsPrimary = true
	}

	return records
}

// Ingest filters uploaded files down to images. Files with a non-image
// content type are dropped with a warning; an upload that leaves nothing
// behind is an error, not an empty success.
func (is *ImageService) Ingest(files []UploadFile) ([]UploadFile, error) {
	valid := make([]UploadFile, 0, len(files))

	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			is.logger.Warn("Dropping non-image upload",
				gecho.Field("name", f.Name),
				gecho.Field("content_type", f.ContentType),
			)
			continue
		}
		valid = append(valid, f)
	}

	if len(valid) == 0 {
		return nil, lib.NewValidationError("images", "no valid image files in upload")
	}

	return valid, nil
}

// AddSlot appends an empty slot for a client that fills URL fields manually
func (is *ImageService) AddSlot(records []structs.ImageRecord) []structs.ImageRecord {
	records = append(records, structs.ImageRecord{
		ID:        uuid.NewString(),
		IsPrimary: len(records) == 0,
	})
	return records
}

// SetPrimary makes the identified record the only primary. Setting the
// current primary again is a no-op, and an unknown id leaves the list
// untouched rather than failing mid-edit.
func (is *ImageService) SetPrimary(records []structs.ImageRecord, id string) []structs.ImageRecord {
	found := false
	for i := range records {
		if records[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return records
	}

	for i := range records {
		records[i].IsPrimary = records[i].ID == id
	}
	return records
}

// Remove deletes a record. When the primary goes, the first remaining record
// is promoted so the invariant holds without a separate repair pass.
func (is *ImageService) Remove(records []structs.ImageRecord, id string) []structs.ImageRecord {
	removedPrimary := false
	out := records[:0]

	for _, rec := range records {
		if rec.ID == id {
			removedPrimary = rec.IsPrimary
			continue
		}
		out = append(out, rec)
	}

	if removedPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}

	return out
}

// Reorder moves the record at from to position to, shifting the rest. The
// primary flag travels with its record; position never decides primacy.
func (is *ImageService) Reorder(records []structs.ImageRecord, from, to int) []structs.ImageRecord {
	if from < 0 || from >= len(records) || to < 0 || to >= len(records) || from == to {
		return records
	}

	moved := records[from]
	rest := append(append([]structs.ImageRecord{}, records[:from]...), records[from+1:]...)

	out := append(append(append([]structs.ImageRecord{}, rest[:to]...), moved), rest[to:]...)
	return out
}
