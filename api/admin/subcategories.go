package admin

import (
	"errors"
	"net/http"
	"yelo_server/handling"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// CreateSubcategory handles POST /admin/categories/{slug}/subcategories
func (ar *AdminRoutesManager) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")

	body, err := lib.ExtractAndValidateBody[structs.CreateSubcategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.subcategories.invalidBody")
		return
	}

	sub, err := ar.categoryService.AddSubcategory(r.Context(), categorySlug, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.subcategories.createFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Subcategory created successfully"),
		gecho.WithData(sub),
		gecho.Send(),
	)
}

// UpdateSubcategory handles PUT /admin/categories/{slug}/subcategories/{subSlug}
func (ar *AdminRoutesManager) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")
	subSlug := chi.URLParam(r, "subSlug")

	body, err := lib.ExtractAndValidateBody[structs.UpdateSubcategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.subcategories.invalidBody")
		return
	}

	sub, err := ar.categoryService.UpdateSubcategory(r.Context(), categorySlug, subSlug, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.subcategories.updateFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Subcategory updated successfully"),
		gecho.WithData(sub),
		gecho.Send(),
	)
}

// DeleteSubcategory handles DELETE /admin/categories/{slug}/subcategories/{subSlug}
//
// The delete is optimistic. When the subcategory is no longer part of the
// category the service re-fetches the category's current state, which is
// returned alongside the conflict so the caller can reconcile its view.
func (ar *AdminRoutesManager) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")
	subSlug := chi.URLParam(r, "subSlug")

	cat, err := ar.categoryService.DeleteSubcategory(r.Context(), categorySlug, subSlug)
	if err != nil {
		var precondition *lib.PreconditionError
		if errors.As(err, &precondition) {
			gecho.Conflict(w,
				gecho.WithMessage("error.preconditionFailed"),
				gecho.WithData(map[string]any{
					"reason":   precondition.Message,
					"category": cat,
				}),
				gecho.Send(),
			)
			return
		}

		handling.RespondError(w, ar.logger, err, "error.subcategories.deleteFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Subcategory deleted successfully"),
		gecho.Send(),
	)
}
