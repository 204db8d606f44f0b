package services

import (
	"context"
	"yelo_server/database"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService       *CacheService
	HealthService      *HealthService
	CategoryService    *CategoryService
	ImageService       *ImageService
	CompressionService *CompressionService
	StorageService     *StorageService
	ProductService     *ProductService
	DirectoryService   *DirectoryService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) (*ServiceManager, error) {
	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	imageService := NewImageService(logger)
	compressionService := NewCompressionService(logger, cfg)

	storageService, err := NewStorageService(logger, cfg)
	if err != nil {
		return nil, err
	}
	if err := storageService.EnsureBucket(context.Background()); err != nil {
		// Object storage being down should not keep the API from booting
		logger.Warn("Failed to ensure storage bucket", gecho.Field("error", err))
	}

	categoryStore := NewCategoryStore(db)
	categoryService := NewCategoryService(logger, categoryStore, cacheService)
	productService := NewProductService(logger, db, cacheService, imageService, compressionService)
	directoryService := NewDirectoryService(logger, db, cacheService)

	return &ServiceManager{
		CacheService:       cacheService,
		HealthService:      healthService,
		CategoryService:    categoryService,
		ImageService:       imageService,
		CompressionService: compressionService,
		StorageService:     storageService,
		ProductService:     productService,
		DirectoryService:   directoryService,
	}, nil
}
