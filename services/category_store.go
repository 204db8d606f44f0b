package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"yelo_server/database"
	"yelo_server/lib"
	"yelo_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CategoryStore is the persistence surface the category service runs on.
// The bun implementation backs production; tests use the in-memory fake.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]tables.Category, error)
	GetCategory(ctx context.Context, slug string) (*tables.Category, error)
	CreateCategory(ctx context.Context, cat *tables.Category) (*tables.Category, error)
	UpdateCategory(ctx context.Context, slug string, updates map[string]any) (int, error)

	// DeleteCategoryCascade removes a category and demotes its subcategories
	// into the free pool in a single transaction. It returns the demoted rows.
	DeleteCategoryCascade(ctx context.Context, slug string) ([]tables.FreeSubcategory, error)

	SubcategoryExists(ctx context.Context, categorySlug, slug string) (bool, error)
	CreateSubcategory(ctx context.Context, sub *tables.Subcategory) (*tables.Subcategory, error)
	UpdateSubcategory(ctx context.Context, categorySlug, slug string, updates map[string]any) (int, error)
	DeleteSubcategory(ctx context.Context, categorySlug, slug string) (int, error)

	ListFreeSubcategories(ctx context.Context) ([]tables.FreeSubcategory, error)
	GetFreeSubcategory(ctx context.Context, id uuid.UUID) (*tables.FreeSubcategory, error)
	DeleteFreeSubcategory(ctx context.Context, id uuid.UUID) (int, error)

	// AssignFreeSubcategory moves a free subcategory under a category,
	// discarding its provenance, in a single transaction.
	AssignFreeSubcategory(ctx context.Context, id uuid.UUID, categorySlug string) (*tables.Subcategory, error)

	CountProducts(ctx context.Context, categorySlug, subcategorySlug string) (int, error)
}

type bunCategoryStore struct {
	db *database.DB
}

// NewCategoryStore returns the bun-backed category store
func NewCategoryStore(db *database.DB) CategoryStore {
	return &bunCategoryStore{db: db}
}

func (s *bunCategoryStore) ListCategories(ctx context.Context) ([]tables.Category, error) {
	return database.Query[tables.Category](s.db).
		With("Subcategories").
		OrderBy("name", database.ASC).
		All(ctx)
}

func (s *bunCategoryStore) GetCategory(ctx context.Context, slug string) (*tables.Category, error) {
	return database.Query[tables.Category](s.db).
		With("Subcategories").
		Where("c.slug", slug).
		First(ctx)
}

func (s *bunCategoryStore) CreateCategory(ctx context.Context, cat *tables.Category) (*tables.Category, error) {
	created, err := database.Create(s.db, ctx, cat)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return created, nil
}

func (s *bunCategoryStore) UpdateCategory(ctx context.Context, slug string, updates map[string]any) (int, error) {
	affected, err := database.Query[tables.Category](s.db).
		Where("slug", slug).
		Update(ctx, updates)
	if err != nil {
		return 0, lib.MapDBError(err)
	}
	return affected, nil
}

func (s *bunCategoryStore) DeleteCategoryCascade(ctx context.Context, slug string) ([]tables.FreeSubcategory, error) {
	return database.TransactionWithResult(ctx, func(ctx context.Context, tx bun.Tx) ([]tables.FreeSubcategory, error) {
		var cat tables.Category
		err := tx.NewSelect().Model(&cat).
			Relation("Subcategories").
			Where("c.slug = ?", slug).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, lib.ErrNotFound
			}
			return nil, err
		}

		freed := make([]tables.FreeSubcategory, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			count, err := s.countProductsTx(ctx, tx, cat.Slug, sub.Slug)
			if err != nil {
				return nil, fmt.Errorf("failed to count products for %s/%s: %w", cat.Slug, sub.Slug, err)
			}
			freed = append(freed, tables.Demote(sub, cat, count))
		}

		if len(freed) > 0 {
			if _, err := tx.NewInsert().Model(&freed).Exec(ctx); err != nil {
				return nil, fmt.Errorf("failed to park subcategories: %w", err)
			}
		}

		if _, err := tx.NewDelete().Model((*tables.Subcategory)(nil)).
			Where("category_slug = ?", slug).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to delete subcategories: %w", err)
		}

		// Products keep their subcategory linkage for provenance; only the
		// dead category reference is cleared
		if _, err := tx.NewUpdate().Model((*tables.Product)(nil)).
			Set("category_slug = ''").
			Where("category_slug = ?", slug).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to detach products: %w", err)
		}

		if _, err := tx.NewDelete().Model((*tables.Category)(nil)).
			Where("slug = ?", slug).Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to delete category: %w", err)
		}

		return freed, nil
	})
}

func (s *bunCategoryStore) SubcategoryExists(ctx context.Context, categorySlug, slug string) (bool, error) {
	return database.Query[tables.Subcategory](s.db).
		Where("category_slug", categorySlug).
		Where("slug", slug).
		Exists(ctx)
}

func (s *bunCategoryStore) CreateSubcategory(ctx context.Context, sub *tables.Subcategory) (*tables.Subcategory, error) {
	created, err := database.Create(s.db, ctx, sub)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return created, nil
}

func (s *bunCategoryStore) UpdateSubcategory(ctx context.Context, categorySlug, slug string, updates map[string]any) (int, error) {
	affected, err := database.Query[tables.Subcategory](s.db).
		Where("category_slug", categorySlug).
		Where("slug", slug).
		Update(ctx, updates)
	if err != nil {
		return 0, lib.MapDBError(err)
	}
	return affected, nil
}

func (s *bunCategoryStore) DeleteSubcategory(ctx context.Context, categorySlug, slug string) (int, error) {
	affected, err := database.Query[tables.Subcategory](s.db).
		Where("category_slug", categorySlug).
		Where("slug", slug).
		Delete(ctx)
	if err != nil {
		return 0, lib.MapDBError(err)
	}
	return affected, nil
}

func (s *bunCategoryStore) ListFreeSubcategories(ctx context.Context) ([]tables.FreeSubcategory, error) {
	return database.Query[tables.FreeSubcategory](s.db).
		OrderBy("created_at", database.DESC).
		All(ctx)
}

func (s *bunCategoryStore) GetFreeSubcategory(ctx context.Context, id uuid.UUID) (*tables.FreeSubcategory, error) {
	return database.FindByID[tables.FreeSubcategory](s.db, ctx, id)
}

func (s *bunCategoryStore) DeleteFreeSubcategory(ctx context.Context, id uuid.UUID) (int, error) {
	affected, err := database.Query[tables.FreeSubcategory](s.db).
		Where("id", id).
		Delete(ctx)
	if err != nil {
		return 0, lib.MapDBError(err)
	}
	return affected, nil
}

func (s *bunCategoryStore) AssignFreeSubcategory(ctx context.Context, id uuid.UUID, categorySlug string) (*tables.Subcategory, error) {
	return database.TransactionWithResult(ctx, func(ctx context.Context, tx bun.Tx) (*tables.Subcategory, error) {
		var free tables.FreeSubcategory
		if err := tx.NewSelect().Model(&free).Where("id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, lib.NewPreconditionError("free subcategory %s no longer exists", id)
			}
			return nil, err
		}

		exists, err := tx.NewSelect().Model((*tables.Category)(nil)).
			Where("slug = ?", categorySlug).Exists(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, lib.NewPreconditionError("category %q no longer exists", categorySlug)
		}

		taken, err := tx.NewSelect().Model((*tables.Subcategory)(nil)).
			Where("category_slug = ?", categorySlug).
			Where("slug = ?", free.Slug).
			Exists(ctx)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, lib.NewConflictError("subcategory", categorySlug+"/"+free.Slug)
		}

		// Provenance fields stop here; the subcategory is owned again
		sub := &tables.Subcategory{
			ID:           free.ID,
			CategorySlug: categorySlug,
			Slug:         free.Slug,
			Name:         free.Name,
			Image:        free.Image,
			Icon:         free.Icon,
		}
		if _, err := tx.NewInsert().Model(sub).Exec(ctx); err != nil {
			return nil, lib.MapDBError(err)
		}

		if _, err := tx.NewDelete().Model((*tables.FreeSubcategory)(nil)).
			Where("id = ?", id).Exec(ctx); err != nil {
			return nil, err
		}

		return sub, nil
	})
}

func (s *bunCategoryStore) CountProducts(ctx context.Context, categorySlug, subcategorySlug string) (int, error) {
	q := database.Query[tables.Product](s.db)
	if categorySlug != "" {
		q = q.Where("category_slug", categorySlug)
	}
	if subcategorySlug != "" {
		q = q.Where("subcategory_slug", subcategorySlug)
	}
	return q.Count(ctx)
}

func (s *bunCategoryStore) countProductsTx(ctx context.Context, tx bun.Tx, categorySlug, subcategorySlug string) (int, error) {
	return tx.NewSelect().Model((*tables.Product)(nil)).
		Where("category_slug = ?", categorySlug).
		Where("subcategory_slug = ?", subcategorySlug).
		Count(ctx)
}
