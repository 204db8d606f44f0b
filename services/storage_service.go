package services

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"sync"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUploads bounds the upload fan-out
const maxConcurrentUploads = 4

// StorageService hosts full-size image files in object storage. Only bounded
// base64 previews go to the database; originals land here.
type StorageService struct {
	logger *gecho.Logger
	config *structs.Config
	client *minio.Client
}

func NewStorageService(logger *gecho.Logger, cfg *structs.Config) (*StorageService, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &StorageService{
		logger: logger,
		config: cfg,
		client: client,
	}, nil
}

// EnsureBucket creates the image bucket if it does not exist yet
func (ss *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := ss.client.BucketExists(ctx, ss.config.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := ss.client.MakeBucket(ctx, ss.config.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	ss.logger.Info("Storage bucket created", gecho.Field("bucket", ss.config.Storage.Bucket))
	return nil
}

// Upload stores one file and returns its public URL
func (ss *StorageService) Upload(ctx context.Context, file UploadFile) (string, error) {
	objectName := uuid.NewString() + extensionFor(file.ContentType)

	_, err := ss.client.PutObject(ctx, ss.config.Storage.Bucket, objectName,
		bytes.NewReader(file.Data), int64(len(file.Data)),
		minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	return ss.config.Storage.PublicURL + "/" + objectName, nil
}

// UploadBatch uploads files concurrently and returns URLs in input order.
// Partial failures surface as a PartialBatchError next to the successes.
func (ss *StorageService) UploadBatch(ctx context.Context, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, lib.NewValidationError("images", "no files to upload")
	}

	urls := make([]string, len(files))
	var mu sync.Mutex
	var failed []lib.BatchItemError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range files {
		g.Go(func() error {
			url, err := ss.Upload(gctx, file)
			if err != nil {
				mu.Lock()
				failed = append(failed, lib.BatchItemError{Index: i, Err: err.Error()})
				mu.Unlock()
				return nil
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(failed) == len(files) {
		return nil, fmt.Errorf("all %d uploads failed", len(files))
	}
	if len(failed) > 0 {
		return urls, &lib.PartialBatchError{Total: len(files), Failed: failed}
	}

	return urls, nil
}

// Delete removes an object by its public URL, best effort
func (ss *StorageService) Delete(ctx context.Context, publicURL string) error {
	prefix := ss.config.Storage.PublicURL + "/"
	if len(publicURL) <= len(prefix) || publicURL[:len(prefix)] != prefix {
		return fmt.Errorf("url %q is not hosted in this bucket", publicURL)
	}
	objectName := publicURL[len(prefix):]

	return ss.client.RemoveObject(ctx, ss.config.Storage.Bucket, objectName, minio.RemoveObjectOptions{})
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}

	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
