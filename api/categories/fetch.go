package categories

import (
	"net/http"
	"yelo_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchAllCategories handles GET /categories, subcategories included
func (c *CategoryRoutesManager) FetchAllCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cats, err := c.categoryService.ListCategories(ctx)
	if err != nil {
		handling.RespondError(w, c.logger, err, "error.categories.failedToFetch")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"categories": cats,
			"count":      len(cats),
		}),
		gecho.Send(),
	)
}

// FetchCategoryBySlug handles GET /categories/{slug}
func (c *CategoryRoutesManager) FetchCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("error.categories.slugRequired"),
			gecho.Send(),
		)
		return
	}

	cat, err := c.categoryService.GetCategory(ctx, slug)
	if err != nil {
		handling.RespondError(w, c.logger, err, "error.categories.failedToFetchOne")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"category": cat,
		}),
		gecho.Send(),
	)
}
