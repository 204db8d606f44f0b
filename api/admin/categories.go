package admin

import (
	"net/http"
	"yelo_server/handling"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// CreateCategory handles POST /admin/categories
func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateCategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.categories.invalidBody")
		return
	}

	cat, err := ar.categoryService.CreateCategory(r.Context(), body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.categories.createFailed")
		return
	}

	ar.logger.Info("Category created", gecho.Field("slug", cat.Slug))
	gecho.Success(w,
		gecho.WithMessage("Category created successfully"),
		gecho.WithData(cat),
		gecho.Send(),
	)
}

// UpdateCategory handles PUT /admin/categories/{slug}
func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	body, err := lib.ExtractAndValidateBody[structs.UpdateCategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.categories.invalidBody")
		return
	}

	cat, err := ar.categoryService.UpdateCategory(r.Context(), slug, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.categories.updateFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category updated successfully"),
		gecho.WithData(cat),
		gecho.Send(),
	)
}

// DeleteCategory handles DELETE /admin/categories/{slug}
//
// Deleting a category demotes all of its subcategories into the free pool
// in the same transaction; the freed entries are returned to the caller so
// the admin panel can refresh its pool view without a second request.
func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	result, err := ar.categoryService.DeleteCategory(r.Context(), slug)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.categories.deleteFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Category deleted successfully"),
		gecho.WithData(map[string]any{
			"deleted_slug":        result.DeletedSlug,
			"freed_subcategories": result.FreedSubcategories,
		}),
		gecho.Send(),
	)
}
