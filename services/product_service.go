package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"yelo_server/database"
	"yelo_server/lib"
	"yelo_server/structs"
	"yelo_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ProductService struct {
	logger             *gecho.Logger
	db                 *database.DB
	cacheService       *CacheService
	imageService       *ImageService
	compressionService *CompressionService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService,
	imageService *ImageService, compressionService *CompressionService) *ProductService {
	return &ProductService{
		logger:             logger,
		db:                 db,
		cacheService:       cacheService,
		imageService:       imageService,
		compressionService: compressionService,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	IsActive    *bool  `json:"is_active,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Shop        string `json:"shop,omitempty"`
	SearchTerm  string `json:"search_term,omitempty"` // Search in name and description

	// Sorting
	SortBy        string `json:"sort_by"`        // created_at, price, name
	SortDirection string `json:"sort_direction"` // ASC or DESC

	// Relations
	IncludeImages bool `json:"include_images"`

	// Performance
	Timeout time.Duration `json:"-"`
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	QueryTime  time.Duration       `json:"query_time"`
}

func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection != "ASC" {
		opts.SortDirection = "DESC"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
}

func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	switch opts.SortBy {
	case "created_at", "price", "name", "stock":
	default:
		return lib.NewValidationError("sort_by", "must be one of: created_at, price, name, stock")
	}
	return nil
}

func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	if opts.IsActive != nil {
		query = query.Where("is_active", *opts.IsActive)
	}
	if opts.Category != "" {
		query = query.Where("category_slug", opts.Category)
	}
	if opts.Subcategory != "" {
		query = query.Where("subcategory_slug", opts.Subcategory)
	}
	if opts.Shop != "" {
		query = query.Where("shop_slug", opts.Shop)
	}
	if opts.SearchTerm != "" {
		pattern := "%" + strings.TrimSpace(opts.SearchTerm) + "%"
		query = query.WhereRaw("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	return query
}

// GetAllProducts retrieves products with filtering and pagination
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		return nil, err
	}

	query := database.Query[tables.Product](ps.db).Timeout(opts.Timeout)
	query = ps.applyFilters(query, opts)
	query = query.OrderBy(opts.SortBy, database.OrderDirection(opts.SortDirection))

	if opts.IncludeImages {
		query = query.With("Images")
	}

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		QueryTime:  time.Since(startTime),
	}, nil
}

// GetActiveProducts serves the storefront list through the collection cache
func (ps *ProductService) GetActiveProducts(ctx context.Context) ([]tables.Product, error) {
	startTime := time.Now()

	if cached, ok := GetCollection[tables.Product](ps.cacheService, ProductsCacheKey, "products"); ok {
		ps.logger.Debug("Products served from collection cache",
			gecho.Field("count", len(cached)),
			gecho.Field("duration", time.Since(startTime)),
		)
		return cached, nil
	}

	active := true
	products, err := database.Query[tables.Product](ps.db).
		Where("is_active", active).
		With("Images").
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active products: %w", err)
	}

	if err := SetCollection(ps.cacheService, ProductsCacheKey, "products", products); err != nil {
		ps.logger.Warn("Failed to write products collection cache", "error", err)
	}

	return products, nil
}

// GetProductByID retrieves a single product with its images
func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	product, err := database.Query[tables.Product](ps.db).
		Where("id", id).
		With("Images").
		Timeout(5 * time.Second).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// CreateProduct persists a product after running its image list through the
// full pipeline: normalize, compress, cap check. Any image failing the
// pipeline aborts the whole save; no product row without its images.
func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.CreateProductRequest) (*tables.Product, error) {
	start := time.Now()

	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}

	images, err := ps.prepareImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	product := &tables.Product{
		ID:              uuid.New(),
		Name:            req.Name,
		Slug:            slug,
		Price:           req.Price,
		Description:     req.Description,
		CategorySlug:    req.Category,
		SubcategorySlug: req.Subcategory,
		ShopSlug:        req.Shop,
		VendorID:        req.VendorID,
		Stock:           req.Stock,
		IsActive:        true,
	}

	err = database.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(product).Exec(ctx); err != nil {
			return lib.MapDBError(err)
		}
		return ps.insertImagesTx(ctx, tx, product.ID, images)
	})
	if err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("error", err), gecho.Field("slug", slug))
		return nil, err
	}

	if err := ps.cacheService.InvalidateCollection(ProductsCacheKey); err != nil {
		ps.logger.Warn("Failed to invalidate products cache", "error", err)
	}

	ps.logger.Info("Product created",
		gecho.Field("id", product.ID),
		gecho.Field("slug", slug),
		gecho.Field("images", len(images)),
		gecho.Field("duration", time.Since(start)),
	)

	return ps.GetProductByID(ctx, product.ID)
}

// UpdateProduct applies a partial update. A non-nil image list replaces the
// stored one wholesale, going through the same pipeline as creation.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.UpdateProductRequest) (*tables.Product, error) {
	if _, err := ps.GetProductByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category_slug"] = *req.Category
	}
	if req.Subcategory != nil {
		updates["subcategory_slug"] = *req.Subcategory
	}
	if req.Shop != nil {
		updates["shop_slug"] = *req.Shop
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	var images []structs.ImageRecord
	if req.Images != nil {
		var err error
		images, err = ps.prepareImages(ctx, req.Images)
		if err != nil {
			return nil, err
		}
	}

	err := database.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().Model((*tables.Product)(nil)).Where("id = ?", id)
		for key, value := range updates {
			q = q.Set("? = ?", bun.Ident(key), value)
		}
		if _, err := q.Exec(ctx); err != nil {
			return lib.MapDBError(err)
		}

		if req.Images == nil {
			return nil
		}

		if _, err := tx.NewDelete().Model((*tables.ProductImage)(nil)).
			Where("product_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		return ps.insertImagesTx(ctx, tx, id, images)
	})
	if err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}

	if err := ps.cacheService.InvalidateCollection(ProductsCacheKey); err != nil {
		ps.logger.Warn("Failed to invalidate products cache", "error", err)
	}

	return ps.GetProductByID(ctx, id)
}

// DeleteProduct removes a product and its images
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := database.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*tables.ProductImage)(nil)).
			Where("product_id = ?", id).Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().Model((*tables.Product)(nil)).
			Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return lib.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := ps.cacheService.InvalidateCollection(ProductsCacheKey); err != nil {
		ps.logger.Warn("Failed to invalidate products cache", "error", err)
	}

	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

// prepareImages runs the request payload through normalization, save-time
// compression and the payload cap
func (ps *ProductService) prepareImages(ctx context.Context, inputs []structs.ImageInput) ([]structs.ImageRecord, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	records := ps.imageService.Normalize(inputs)

	records, err := ps.compressionService.CompressForSave(ctx, records, 0)
	if err != nil {
		return nil, err
	}

	// Final cap check on everything that is not an external URL
	for i := range records {
		if mimeType, payload := lib.ExtractBase64(records[i].URL); mimeType != "" {
			cleaned, err := lib.ValidateBase64(payload)
			if err != nil {
				return nil, err
			}
			records[i].URL = lib.BuildDataURL(mimeType, cleaned)
		}
	}

	return records, nil
}

func (ps *ProductService) insertImagesTx(ctx context.Context, tx bun.Tx, productID uuid.UUID, records []structs.ImageRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]tables.ProductImage, 0, len(records))
	for i, rec := range records {
		rows = append(rows, tables.ProductImage{
			ID:        uuid.New(),
			ProductID: productID,
			URL:       rec.URL,
			AltText:   rec.Alt,
			IsPrimary: rec.IsPrimary,
			Position:  i,
		})
	}

	if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return lib.MapDBError(err)
	}
	return nil
}
