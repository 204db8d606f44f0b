package handling

import (
	"net/http"
	"strconv"
	"strings"
	"yelo_server/services"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ProductListOptions{}, nil
	}

	opts := &services.ProductListOptions{}

	// Parse pagination parameters
	if page := query.Get("page"); page != "" {
		val, err := strconv.Atoi(page)
		if err != nil {
			return nil, err
		}
		opts.Page = val
	}

	if pageSize := query.Get("page_size"); pageSize != "" {
		val, err := strconv.Atoi(pageSize)
		if err != nil {
			return nil, err
		}
		opts.PageSize = val
	}

	// Parse boolean filters
	if isActive := query.Get("is_active"); isActive != "" {
		val, err := strconv.ParseBool(isActive)
		if err != nil {
			return nil, err
		}
		opts.IsActive = &val
	}

	// Taxonomy filters
	if category := query.Get("category"); category != "" {
		opts.Category = strings.TrimSpace(category)
	}

	if subcategory := query.Get("subcategory"); subcategory != "" {
		opts.Subcategory = strings.TrimSpace(subcategory)
	}

	if shop := query.Get("shop"); shop != "" {
		opts.Shop = strings.TrimSpace(shop)
	}

	if searchTerm := query.Get("search"); searchTerm != "" {
		opts.SearchTerm = searchTerm
	}

	// Parse sorting parameters
	if sortBy := query.Get("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	// Parse include_images flag
	if includeImages := query.Get("include_images"); includeImages != "" {
		val, err := strconv.ParseBool(includeImages)
		if err != nil {
			return nil, err
		}
		opts.IncludeImages = val
	}

	return opts, nil
}
