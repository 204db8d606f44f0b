package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"yelo_server/lib"
	"yelo_server/structs"
	"yelo_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CategoryService keeps the category tree, the free-subcategory pool and the
// product assignments consistent with each other. Deleting a category never
// drops its subcategories; they are demoted into the pool with provenance and
// can be assigned to another category later.
type CategoryService struct {
	logger       *gecho.Logger
	store        CategoryStore
	cacheService *CacheService
}

func NewCategoryService(logger *gecho.Logger, store CategoryStore, cacheService *CacheService) *CategoryService {
	return &CategoryService{
		logger:       logger,
		store:        store,
		cacheService: cacheService,
	}
}

// DeleteCategoryResult reports a cascade: the removed category slug and the
// subcategories that landed in the free pool.
type DeleteCategoryResult struct {
	DeletedSlug        string                   `json:"deleted_slug"`
	FreedSubcategories []tables.FreeSubcategory `json:"freed_subcategories"`
}

func (cs *CategoryService) ListCategories(ctx context.Context) ([]tables.Category, error) {
	if cached, ok := GetCollection[tables.Category](cs.cacheService, CategoriesCacheKey, "categories"); ok {
		return cached, nil
	}

	cats, err := cs.store.ListCategories(ctx)
	if err != nil {
		cs.logger.Error("Failed to list categories", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := SetCollection(cs.cacheService, CategoriesCacheKey, "categories", cats); err != nil {
		cs.logger.Warn("Failed to cache categories", "error", err)
	}

	return cats, nil
}

func (cs *CategoryService) GetCategory(ctx context.Context, slug string) (*tables.Category, error) {
	cat, err := cs.store.GetCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	if cat == nil {
		return nil, lib.ErrNotFound
	}
	return cat, nil
}

// normalizeImagePayload funnels an inline image payload through the base64
// choke point. External URLs and empty values pass through untouched;
// anything else, blob: object URLs included, is rejected before it can be
// persisted.
func normalizeImagePayload(image string) (string, error) {
	if image == "" {
		return "", nil
	}

	mimeType, _ := lib.ExtractBase64(image)
	if mimeType == "" {
		if !lib.IsExternalURL(image) {
			return "", lib.NewValidationError("image", "must be an http(s) url or an inline data url")
		}
		return image, nil
	}

	cleaned, err := lib.ValidateBase64(image)
	if err != nil {
		return "", err
	}
	return lib.BuildDataURL(mimeType, cleaned), nil
}

// CreateCategory creates a category, deriving the slug from the name when the
// request leaves it empty.
func (cs *CategoryService) CreateCategory(ctx context.Context, req *structs.CreateCategoryRequest) (*tables.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}
	if slug == "" {
		return nil, lib.NewValidationError("name", "does not reduce to a usable slug")
	}

	image, err := normalizeImagePayload(req.Image)
	if err != nil {
		return nil, err
	}

	existing, err := cs.store.GetCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category slug: %w", err)
	}
	if existing != nil {
		return nil, lib.NewConflictError("category", slug)
	}

	cat := &tables.Category{
		Slug:     slug,
		Name:     req.Name,
		Image:    image,
		IsActive: true,
	}

	created, err := cs.store.CreateCategory(ctx, cat)
	if err != nil {
		cs.logger.Error("Failed to create category", gecho.Field("error", err), gecho.Field("slug", slug))
		return nil, err
	}

	cs.invalidate(CategoriesCacheKey)
	cs.logger.Info("Category created", gecho.Field("slug", slug))
	return created, nil
}

// invalidate drops collection cache entries, logging instead of failing;
// a cache that cannot be invalidated just expires on its own timestamp.
func (cs *CategoryService) invalidate(keys ...string) {
	for _, key := range keys {
		if err := cs.cacheService.InvalidateCollection(key); err != nil {
			cs.logger.Warn("Failed to invalidate collection cache", "key", key, "error", err)
		}
	}
}

func (cs *CategoryService) UpdateCategory(ctx context.Context, slug string, req *structs.UpdateCategoryRequest) (*tables.Category, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Image != "" {
		image, err := normalizeImagePayload(req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = image
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	affected, err := cs.store.UpdateCategory(ctx, slug, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if affected == 0 {
		return nil, lib.ErrNotFound
	}

	cs.invalidate(CategoriesCacheKey)
	return cs.GetCategory(ctx, slug)
}

// DeleteCategory removes a category and demotes every subcategory it owned
// into the free pool, stamping provenance and the product count each carried
// at the moment of deletion.
func (cs *CategoryService) DeleteCategory(ctx context.Context, slug string) (*DeleteCategoryResult, error) {
	start := time.Now()

	freed, err := cs.store.DeleteCategoryCascade(ctx, slug)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.ErrNotFound
		}
		cs.logger.Error("Category cascade failed", gecho.Field("error", err), gecho.Field("slug", slug))
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	// Cached product lists may still reference the dead category, and both
	// taxonomy collections changed in the same transaction
	cs.invalidate(ProductsCacheKey, CategoriesCacheKey, FreeSubcategoriesCacheKey)

	cs.logger.Info("Category deleted",
		gecho.Field("slug", slug),
		gecho.Field("freed", len(freed)),
		gecho.Field("duration", time.Since(start)),
	)

	return &DeleteCategoryResult{DeletedSlug: slug, FreedSubcategories: freed}, nil
}

// AddSubcategory attaches a new subcategory to an existing category. The
// target category is re-checked right before the insert; a vanished category
// surfaces as a precondition failure, not a foreign key error.
func (cs *CategoryService) AddSubcategory(ctx context.Context, categorySlug string, req *structs.CreateSubcategoryRequest) (*tables.Subcategory, error) {
	cat, err := cs.store.GetCategory(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if cat == nil {
		return nil, lib.NewPreconditionError("category %q no longer exists", categorySlug)
	}

	slug := req.Slug
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}
	if slug == "" {
		return nil, lib.NewValidationError("name", "does not reduce to a usable slug")
	}

	image, err := normalizeImagePayload(req.Image)
	if err != nil {
		return nil, err
	}

	taken, err := cs.store.SubcategoryExists(ctx, categorySlug, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check subcategory slug: %w", err)
	}
	if taken {
		return nil, lib.NewConflictError("subcategory", categorySlug+"/"+slug)
	}

	sub := &tables.Subcategory{
		ID:           uuid.New(),
		CategorySlug: categorySlug,
		Slug:         slug,
		Name:         req.Name,
		Image:        image,
		Icon:         req.Icon,
		Position:     req.Position,
	}

	created, err := cs.store.CreateSubcategory(ctx, sub)
	if err != nil {
		cs.logger.Error("Failed to create subcategory",
			gecho.Field("error", err),
			gecho.Field("category", categorySlug),
			gecho.Field("slug", slug),
		)
		return nil, err
	}

	cs.invalidate(CategoriesCacheKey)
	cs.logger.Info("Subcategory created", gecho.Field("category", categorySlug), gecho.Field("slug", slug))
	return created, nil
}

// UpdateSubcategory patches a subcategory identified by its category and
// slug. The slug itself is immutable.
func (cs *CategoryService) UpdateSubcategory(ctx context.Context, categorySlug, slug string, req *structs.UpdateSubcategoryRequest) (*tables.Subcategory, error) {
	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Image != "" {
		image, err := normalizeImagePayload(req.Image)
		if err != nil {
			return nil, err
		}
		updates["image"] = image
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return nil, lib.NewValidationError("body", "no fields to update")
	}

	affected, err := cs.store.UpdateSubcategory(ctx, categorySlug, slug, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}
	if affected == 0 {
		return nil, lib.ErrNotFound
	}

	cs.invalidate(CategoriesCacheKey)

	cat, err := cs.GetCategory(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	for i := range cat.Subcategories {
		if cat.Subcategories[i].Slug == slug {
			return &cat.Subcategories[i], nil
		}
	}
	return nil, lib.ErrNotFound
}

// DeleteSubcategory removes a subcategory from its category. The cached
// category collection is patched optimistically before the database round
// trip; when the row turns out to be gone already the cache entry is dropped,
// the current category state is re-fetched and returned alongside the
// precondition error so callers can resynchronize instead of guessing.
func (cs *CategoryService) DeleteSubcategory(ctx context.Context, categorySlug, slug string) (*tables.Category, error) {
	cs.patchCachedCategories(categorySlug, slug)

	affected, err := cs.store.DeleteSubcategory(ctx, categorySlug, slug)
	if err != nil {
		// The optimistic patch may now disagree with the database
		cs.invalidate(CategoriesCacheKey)
		return nil, fmt.Errorf("failed to delete subcategory: %w", err)
	}

	if affected == 0 {
		cs.invalidate(CategoriesCacheKey)
		fresh, fetchErr := cs.store.GetCategory(ctx, categorySlug)
		if fetchErr != nil {
			cs.logger.Error("Compensating fetch failed after stale subcategory delete",
				gecho.Field("error", fetchErr),
				gecho.Field("category", categorySlug),
			)
		}
		return fresh, lib.NewPreconditionError("subcategory %q is not part of category %q", slug, categorySlug)
	}

	cs.logger.Info("Subcategory deleted", gecho.Field("category", categorySlug), gecho.Field("slug", slug))
	return nil, nil
}

// patchCachedCategories removes a subcategory from the cached category
// collection without a database round trip. A missing or unreadable cache
// entry is left for the normal read path to rebuild.
func (cs *CategoryService) patchCachedCategories(categorySlug, slug string) {
	cached, ok := GetCollection[tables.Category](cs.cacheService, CategoriesCacheKey, "categories")
	if !ok {
		return
	}

	for i := range cached {
		if cached[i].Slug != categorySlug {
			continue
		}
		subs := cached[i].Subcategories[:0]
		for _, sub := range cached[i].Subcategories {
			if sub.Slug != slug {
				subs = append(subs, sub)
			}
		}
		cached[i].Subcategories = subs
	}

	if err := SetCollection(cs.cacheService, CategoriesCacheKey, "categories", cached); err != nil {
		cs.logger.Warn("Failed to patch cached categories", "error", err)
	}
}

func (cs *CategoryService) ListFreeSubcategories(ctx context.Context) ([]tables.FreeSubcategory, error) {
	if cached, ok := GetCollection[tables.FreeSubcategory](cs.cacheService, FreeSubcategoriesCacheKey, "free_subcategories"); ok {
		return cached, nil
	}

	free, err := cs.store.ListFreeSubcategories(ctx)
	if err != nil {
		cs.logger.Error("Failed to list free subcategories", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list free subcategories: %w", err)
	}

	if err := SetCollection(cs.cacheService, FreeSubcategoriesCacheKey, "free_subcategories", free); err != nil {
		cs.logger.Warn("Failed to cache free subcategories", "error", err)
	}

	return free, nil
}

// DeleteFreeSubcategory removes a pooled subcategory permanently, provenance
// and all.
func (cs *CategoryService) DeleteFreeSubcategory(ctx context.Context, id uuid.UUID) error {
	affected, err := cs.store.DeleteFreeSubcategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete free subcategory: %w", err)
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	cs.invalidate(FreeSubcategoriesCacheKey)
	cs.logger.Info("Free subcategory deleted", gecho.Field("id", id))
	return nil
}

// AssignFreeSubcategory moves a pooled subcategory under a category. Its
// provenance is discarded; once assigned it is indistinguishable from a
// subcategory created in place.
func (cs *CategoryService) AssignFreeSubcategory(ctx context.Context, id uuid.UUID, categorySlug string) (*tables.Subcategory, error) {
	sub, err := cs.store.AssignFreeSubcategory(ctx, id, categorySlug)
	if err != nil {
		var precondition *lib.PreconditionError
		if errors.As(err, &precondition) || errors.Is(err, lib.ErrConflict) {
			return nil, err
		}
		cs.logger.Error("Failed to assign free subcategory",
			gecho.Field("error", err),
			gecho.Field("id", id),
			gecho.Field("category", categorySlug),
		)
		return nil, fmt.Errorf("failed to assign free subcategory: %w", err)
	}

	cs.invalidate(CategoriesCacheKey, FreeSubcategoriesCacheKey)
	cs.logger.Info("Free subcategory assigned",
		gecho.Field("id", id),
		gecho.Field("category", categorySlug),
		gecho.Field("slug", sub.Slug),
	)
	return sub, nil
}

// OverviewResult carries the two admin collections with independent
// outcomes; one failing fetch never hides the other.
type OverviewResult struct {
	Categories             []tables.Category        `json:"categories"`
	CategoriesError        string                   `json:"categories_error,omitempty"`
	FreeSubcategories      []tables.FreeSubcategory `json:"free_subcategories"`
	FreeSubcategoriesError string                   `json:"free_subcategories_error,omitempty"`
}

// Overview fetches categories and the free pool concurrently for the admin
// panel's landing view.
func (cs *CategoryService) Overview(ctx context.Context) *OverviewResult {
	result := &OverviewResult{}

	var g errgroup.Group
	g.Go(func() error {
		cats, err := cs.ListCategories(ctx)
		if err != nil {
			result.CategoriesError = err.Error()
			return nil
		}
		result.Categories = cats
		return nil
	})
	g.Go(func() error {
		free, err := cs.ListFreeSubcategories(ctx)
		if err != nil {
			result.FreeSubcategoriesError = err.Error()
			return nil
		}
		result.FreeSubcategories = free
		return nil
	})
	_ = g.Wait()

	return result
}
