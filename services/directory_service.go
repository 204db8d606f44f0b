package services

import (
	"context"
	"fmt"
	"time"
	"yelo_server/database"
	"yelo_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// DirectoryService serves the vendor and shop listings the admin panel and
// storefront share. Both lists go through the collection cache.
type DirectoryService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewDirectoryService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *DirectoryService {
	return &DirectoryService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

func (ds *DirectoryService) GetVendors(ctx context.Context) ([]tables.Vendor, error) {
	start := time.Now()

	if cached, ok := GetCollection[tables.Vendor](ds.cacheService, VendorsCacheKey, "vendors"); ok {
		ds.logger.Debug("Vendors served from collection cache",
			gecho.Field("count", len(cached)),
			gecho.Field("duration", time.Since(start)),
		)
		return cached, nil
	}

	vendors, err := database.Query[tables.Vendor](ds.db).
		Where("is_active", true).
		OrderBy("name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	if err := SetCollection(ds.cacheService, VendorsCacheKey, "vendors", vendors); err != nil {
		ds.logger.Warn("Failed to write vendors collection cache", "error", err)
	}

	return vendors, nil
}

func (ds *DirectoryService) GetShops(ctx context.Context) ([]tables.Shop, error) {
	start := time.Now()

	if cached, ok := GetCollection[tables.Shop](ds.cacheService, ShopsCacheKey, "shops"); ok {
		ds.logger.Debug("Shops served from collection cache",
			gecho.Field("count", len(cached)),
			gecho.Field("duration", time.Since(start)),
		)
		return cached, nil
	}

	shops, err := database.Query[tables.Shop](ds.db).
		Where("is_active", true).
		OrderBy("name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shops: %w", err)
	}

	if err := SetCollection(ds.cacheService, ShopsCacheKey, "shops", shops); err != nil {
		ds.logger.Warn("Failed to write shops collection cache", "error", err)
	}

	return shops, nil
}
