package admin

import (
	"net/http"
	"yelo_server/handling"
	"yelo_server/lib"
	"yelo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Overview handles GET /admin/overview. The two collections are fetched
// independently; each reports its own error without blanking the other.
func (ar *AdminRoutesManager) Overview(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.categoryService.Overview(r.Context())),
		gecho.Send(),
	)
}

// ListFreeSubcategories handles GET /admin/free-subcategories
func (ar *AdminRoutesManager) ListFreeSubcategories(w http.ResponseWriter, r *http.Request) {
	free, err := ar.categoryService.ListFreeSubcategories(r.Context())
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.freeSubcategories.failedToFetch")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"free_subcategories": free,
			"count":              len(free),
		}),
		gecho.Send(),
	)
}

// AssignFreeSubcategory handles POST /admin/free-subcategories/{id}/assign
func (ar *AdminRoutesManager) AssignFreeSubcategory(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		ar.logger.Warn("Invalid free subcategory ID format", gecho.Field("id", idStr))
		gecho.BadRequest(w,
			gecho.WithMessage("error.freeSubcategories.invalidId"),
			gecho.Send(),
		)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.AssignFreeSubcategoryRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.freeSubcategories.invalidBody")
		return
	}

	sub, err := ar.categoryService.AssignFreeSubcategory(r.Context(), id, body.CategorySlug)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.freeSubcategories.assignFailed")
		return
	}

	ar.logger.Info("Free subcategory assigned",
		gecho.Field("id", id),
		gecho.Field("category", body.CategorySlug),
	)
	gecho.Success(w,
		gecho.WithMessage("Subcategory assigned successfully"),
		gecho.WithData(sub),
		gecho.Send(),
	)
}

// DeleteFreeSubcategory handles DELETE /admin/free-subcategories/{id}.
// Removal from the pool is permanent; there is no undo for provenance.
func (ar *AdminRoutesManager) DeleteFreeSubcategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.freeSubcategories.invalidId"),
			gecho.Send(),
		)
		return
	}

	if err := ar.categoryService.DeleteFreeSubcategory(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err, "error.freeSubcategories.deleteFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Free subcategory deleted"),
		gecho.Send(),
	)
}
