package services_test

import (
	"context"
	"errors"
	"testing"
	"yelo_server/lib"
	"yelo_server/services"
	"yelo_server/structs"
	"yelo_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryStore is an in-memory CategoryStore with the same cascade and
// assignment semantics as the bun implementation.
type fakeCategoryStore struct {
	categories    map[string]tables.Category
	subs          []tables.Subcategory
	free          map[uuid.UUID]tables.FreeSubcategory
	productCounts map[string]int // categorySlug + "/" + subSlug
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		categories:    make(map[string]tables.Category),
		free:          make(map[uuid.UUID]tables.FreeSubcategory),
		productCounts: make(map[string]int),
	}
}

func (f *fakeCategoryStore) ListCategories(ctx context.Context) ([]tables.Category, error) {
	out := make([]tables.Category, 0, len(f.categories))
	for _, cat := range f.categories {
		cat.Subcategories = f.subsOf(cat.Slug)
		out = append(out, cat)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetCategory(ctx context.Context, slug string) (*tables.Category, error) {
	cat, ok := f.categories[slug]
	if !ok {
		return nil, nil
	}
	cat.Subcategories = f.subsOf(slug)
	return &cat, nil
}

func (f *fakeCategoryStore) CreateCategory(ctx context.Context, cat *tables.Category) (*tables.Category, error) {
	f.categories[cat.Slug] = *cat
	return cat, nil
}

func (f *fakeCategoryStore) UpdateCategory(ctx context.Context, slug string, updates map[string]any) (int, error) {
	cat, ok := f.categories[slug]
	if !ok {
		return 0, nil
	}
	if name, ok := updates["name"].(string); ok {
		cat.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		cat.IsActive = active
	}
	f.categories[slug] = cat
	return 1, nil
}

func (f *fakeCategoryStore) DeleteCategoryCascade(ctx context.Context, slug string) ([]tables.FreeSubcategory, error) {
	cat, ok := f.categories[slug]
	if !ok {
		return nil, lib.ErrNotFound
	}

	freed := make([]tables.FreeSubcategory, 0)
	remaining := f.subs[:0]
	for _, sub := range f.subs {
		if sub.CategorySlug != slug {
			remaining = append(remaining, sub)
			continue
		}
		demoted := tables.Demote(sub, cat, f.productCounts[slug+"/"+sub.Slug])
		f.free[demoted.ID] = demoted
		freed = append(freed, demoted)
	}
	f.subs = remaining
	delete(f.categories, slug)
	return freed, nil
}

func (f *fakeCategoryStore) SubcategoryExists(ctx context.Context, categorySlug, slug string) (bool, error) {
	for _, sub := range f.subs {
		if sub.CategorySlug == categorySlug && sub.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) CreateSubcategory(ctx context.Context, sub *tables.Subcategory) (*tables.Subcategory, error) {
	f.subs = append(f.subs, *sub)
	return sub, nil
}

func (f *fakeCategoryStore) UpdateSubcategory(ctx context.Context, categorySlug, slug string, updates map[string]any) (int, error) {
	for i, sub := range f.subs {
		if sub.CategorySlug != categorySlug || sub.Slug != slug {
			continue
		}
		if name, ok := updates["name"].(string); ok {
			f.subs[i].Name = name
		}
		if icon, ok := updates["icon"].(string); ok {
			f.subs[i].Icon = icon
		}
		if pos, ok := updates["position"].(int); ok {
			f.subs[i].Position = pos
		}
		return 1, nil
	}
	return 0, nil
}

func (f *fakeCategoryStore) DeleteSubcategory(ctx context.Context, categorySlug, slug string) (int, error) {
	for i, sub := range f.subs {
		if sub.CategorySlug == categorySlug && sub.Slug == slug {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCategoryStore) ListFreeSubcategories(ctx context.Context) ([]tables.FreeSubcategory, error) {
	out := make([]tables.FreeSubcategory, 0, len(f.free))
	for _, free := range f.free {
		out = append(out, free)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetFreeSubcategory(ctx context.Context, id uuid.UUID) (*tables.FreeSubcategory, error) {
	free, ok := f.free[id]
	if !ok {
		return nil, nil
	}
	return &free, nil
}

func (f *fakeCategoryStore) DeleteFreeSubcategory(ctx context.Context, id uuid.UUID) (int, error) {
	if _, ok := f.free[id]; !ok {
		return 0, nil
	}
	delete(f.free, id)
	return 1, nil
}

func (f *fakeCategoryStore) AssignFreeSubcategory(ctx context.Context, id uuid.UUID, categorySlug string) (*tables.Subcategory, error) {
	free, ok := f.free[id]
	if !ok {
		return nil, lib.NewPreconditionError("free subcategory %s no longer exists", id)
	}
	if _, ok := f.categories[categorySlug]; !ok {
		return nil, lib.NewPreconditionError("category %q no longer exists", categorySlug)
	}
	if taken, _ := f.SubcategoryExists(ctx, categorySlug, free.Slug); taken {
		return nil, lib.NewConflictError("subcategory", categorySlug+"/"+free.Slug)
	}

	sub := tables.Subcategory{
		ID:           free.ID,
		CategorySlug: categorySlug,
		Slug:         free.Slug,
		Name:         free.Name,
		Image:        free.Image,
		Icon:         free.Icon,
	}
	f.subs = append(f.subs, sub)
	delete(f.free, id)
	return &sub, nil
}

func (f *fakeCategoryStore) CountProducts(ctx context.Context, categorySlug, subcategorySlug string) (int, error) {
	return f.productCounts[categorySlug+"/"+subcategorySlug], nil
}

func (f *fakeCategoryStore) subsOf(slug string) []tables.Subcategory {
	var out []tables.Subcategory
	for _, sub := range f.subs {
		if sub.CategorySlug == slug {
			out = append(out, sub)
		}
	}
	return out
}

func (f *fakeCategoryStore) seedCategory(slug, name string, subSlugs ...string) {
	f.categories[slug] = tables.Category{Slug: slug, Name: name, IsActive: true}
	for i, subSlug := range subSlugs {
		f.subs = append(f.subs, tables.Subcategory{
			ID:           uuid.New(),
			CategorySlug: slug,
			Slug:         subSlug,
			Name:         subSlug,
			Position:     i,
		})
	}
}

func newCategoryServiceWithStore(store services.CategoryStore) *services.CategoryService {
	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{Cache: &structs.CacheConfig{}}
	cache := services.NewCacheServiceWithStore(logger, cfg, services.NewMemoryKV())
	return services.NewCategoryService(logger, store, cache)
}

func TestCreateCategory_DerivesSlugFromName(t *testing.T) {
	store := newFakeCategoryStore()
	svc := newCategoryServiceWithStore(store)

	cat, err := svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{Name: "Men's Wear"})
	require.NoError(t, err)
	assert.Equal(t, "mens-wear", cat.Slug)
	assert.True(t, cat.IsActive)
}

func TestCreateCategory_ExplicitSlugWins(t *testing.T) {
	store := newFakeCategoryStore()
	svc := newCategoryServiceWithStore(store)

	cat, err := svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{
		Name: "Men's Wear",
		Slug: "menswear",
	})
	require.NoError(t, err)
	assert.Equal(t, "menswear", cat.Slug)
}

func TestCreateCategory_UnusableName(t *testing.T) {
	svc := newCategoryServiceWithStore(newFakeCategoryStore())

	_, err := svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{Name: "???"})
	var validation *lib.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{Name: "Plants"})
	assert.ErrorIs(t, err, lib.ErrConflict)

	var conflict *lib.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "plants", conflict.Identifier)
	assert.Contains(t, err.Error(), "plants")
}

func TestCreateCategory_RejectsBlobImage(t *testing.T) {
	svc := newCategoryServiceWithStore(newFakeCategoryStore())

	_, err := svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{
		Name:  "Plants",
		Image: "blob:http://localhost:3000/8c2d9f",
	})
	var validation *lib.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestDeleteCategory_DemotesSubcategoriesWithProvenance(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "succulents", "ferns")
	store.productCounts["plants/succulents"] = 7
	svc := newCategoryServiceWithStore(store)

	result, err := svc.DeleteCategory(context.Background(), "plants")
	require.NoError(t, err)
	assert.Equal(t, "plants", result.DeletedSlug)
	require.Len(t, result.FreedSubcategories, 2)

	bySlug := make(map[string]tables.FreeSubcategory)
	for _, freed := range result.FreedSubcategories {
		bySlug[freed.Slug] = freed
	}
	assert.Equal(t, "Plants", bySlug["succulents"].OriginalCategoryName)
	assert.Equal(t, "plants", bySlug["succulents"].OriginalCategorySlug)
	assert.Equal(t, 7, bySlug["succulents"].ProductCount)
	assert.Equal(t, 0, bySlug["ferns"].ProductCount)

	// The category is gone and the pool holds the demoted rows
	_, err = svc.GetCategory(context.Background(), "plants")
	assert.ErrorIs(t, err, lib.ErrNotFound)

	pool, err := svc.ListFreeSubcategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, pool, 2)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc := newCategoryServiceWithStore(newFakeCategoryStore())

	_, err := svc.DeleteCategory(context.Background(), "ghost")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestAddSubcategory_CategoryVanished(t *testing.T) {
	svc := newCategoryServiceWithStore(newFakeCategoryStore())

	_, err := svc.AddSubcategory(context.Background(), "ghost", &structs.CreateSubcategoryRequest{Name: "Ferns"})
	var precondition *lib.PreconditionError
	require.True(t, errors.As(err, &precondition))
}

func TestAddSubcategory_DuplicateSlug(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.AddSubcategory(context.Background(), "plants", &structs.CreateSubcategoryRequest{Name: "Ferns"})
	assert.ErrorIs(t, err, lib.ErrConflict)
	assert.Contains(t, err.Error(), "plants/ferns")
}

func TestDeleteSubcategory_StaleDeleteReturnsFreshCategory(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	fresh, err := svc.DeleteSubcategory(context.Background(), "plants", "already-gone")

	var precondition *lib.PreconditionError
	require.True(t, errors.As(err, &precondition))
	require.NotNil(t, fresh)
	assert.Equal(t, "plants", fresh.Slug)
	require.Len(t, fresh.Subcategories, 1)
	assert.Equal(t, "ferns", fresh.Subcategories[0].Slug)
}

func TestDeleteSubcategory_Success(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.DeleteSubcategory(context.Background(), "plants", "ferns")
	require.NoError(t, err)

	exists, err := store.SubcategoryExists(context.Background(), "plants", "ferns")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAssignFreeSubcategory_DiscardsProvenance(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "succulents")
	store.seedCategory("garden", "Garden")
	svc := newCategoryServiceWithStore(store)

	result, err := svc.DeleteCategory(context.Background(), "plants")
	require.NoError(t, err)
	freed := result.FreedSubcategories[0]

	sub, err := svc.AssignFreeSubcategory(context.Background(), freed.ID, "garden")
	require.NoError(t, err)
	assert.Equal(t, freed.ID, sub.ID)
	assert.Equal(t, "garden", sub.CategorySlug)
	assert.Equal(t, "succulents", sub.Slug)

	// Pool entry consumed; a second assign is a precondition failure
	pool, err := svc.ListFreeSubcategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pool)

	_, err = svc.AssignFreeSubcategory(context.Background(), freed.ID, "garden")
	var precondition *lib.PreconditionError
	require.True(t, errors.As(err, &precondition))
}

func TestAssignFreeSubcategory_SlugCollision(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	store.seedCategory("garden", "Garden", "ferns")
	svc := newCategoryServiceWithStore(store)

	result, err := svc.DeleteCategory(context.Background(), "plants")
	require.NoError(t, err)

	_, err = svc.AssignFreeSubcategory(context.Background(), result.FreedSubcategories[0].ID, "garden")
	assert.ErrorIs(t, err, lib.ErrConflict)
	assert.Contains(t, err.Error(), "garden/ferns")
}

func TestUpdateSubcategory(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	pos := 3
	sub, err := svc.UpdateSubcategory(context.Background(), "plants", "ferns", &structs.UpdateSubcategoryRequest{
		Name:     "Tropical Ferns",
		Position: &pos,
	})
	require.NoError(t, err)
	assert.Equal(t, "ferns", sub.Slug)
	assert.Equal(t, "Tropical Ferns", sub.Name)
	assert.Equal(t, 3, sub.Position)
}

func TestUpdateSubcategory_EmptyBody(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.UpdateSubcategory(context.Background(), "plants", "ferns", &structs.UpdateSubcategoryRequest{})
	var validation *lib.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestUpdateSubcategory_NotFound(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.UpdateSubcategory(context.Background(), "plants", "ghost", &structs.UpdateSubcategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestDeleteFreeSubcategory(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	svc := newCategoryServiceWithStore(store)

	result, err := svc.DeleteCategory(context.Background(), "plants")
	require.NoError(t, err)
	freed := result.FreedSubcategories[0]

	require.NoError(t, svc.DeleteFreeSubcategory(context.Background(), freed.ID))

	pool, err := svc.ListFreeSubcategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pool)

	// Already gone
	err = svc.DeleteFreeSubcategory(context.Background(), freed.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestListCategories_ServesFromCacheUntilInvalidated(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants")
	svc := newCategoryServiceWithStore(store)

	first, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A write that bypasses the service is invisible until invalidation
	store.seedCategory("garden", "Garden")
	cached, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// A service-level write invalidates, so the next read is fresh
	_, err = svc.CreateCategory(context.Background(), &structs.CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	fresh, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestOverview(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants", "ferns")
	store.seedCategory("garden", "Garden")
	svc := newCategoryServiceWithStore(store)

	_, err := svc.DeleteCategory(context.Background(), "plants")
	require.NoError(t, err)

	overview := svc.Overview(context.Background())
	require.NotNil(t, overview)
	assert.Empty(t, overview.CategoriesError)
	assert.Empty(t, overview.FreeSubcategoriesError)
	assert.Len(t, overview.Categories, 1)
	assert.Len(t, overview.FreeSubcategories, 1)
}

func TestUpdateCategory(t *testing.T) {
	store := newFakeCategoryStore()
	store.seedCategory("plants", "Plants")
	svc := newCategoryServiceWithStore(store)

	inactive := false
	cat, err := svc.UpdateCategory(context.Background(), "plants", &structs.UpdateCategoryRequest{
		Name:     "Plants & Flowers",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants & Flowers", cat.Name)
	assert.False(t, cat.IsActive)

	_, err = svc.UpdateCategory(context.Background(), "ghost", &structs.UpdateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, lib.ErrNotFound)
}
