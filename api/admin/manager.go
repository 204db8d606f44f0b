package admin

import (
	"yelo_server/api/middleware"
	"yelo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	categoryService *services.CategoryService
	productService  *services.ProductService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	categoryService *services.CategoryService,
	productService *services.ProductService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		categoryService: categoryService,
		productService:  productService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.AdminAuthMiddleware)

		// Landing view: both taxonomy collections in one round trip
		r.Get("/overview", ar.Overview)

		// Category management
		r.Post("/categories", ar.CreateCategory)
		r.Put("/categories/{slug}", ar.UpdateCategory)
		r.Delete("/categories/{slug}", ar.DeleteCategory)

		// Subcategory management
		r.Post("/categories/{slug}/subcategories", ar.CreateSubcategory)
		r.Put("/categories/{slug}/subcategories/{subSlug}", ar.UpdateSubcategory)
		r.Delete("/categories/{slug}/subcategories/{subSlug}", ar.DeleteSubcategory)

		// Free subcategory pool
		r.Get("/free-subcategories", ar.ListFreeSubcategories)
		r.Post("/free-subcategories/{id}/assign", ar.AssignFreeSubcategory)
		r.Delete("/free-subcategories/{id}", ar.DeleteFreeSubcategory)

		// Product management
		r.Post("/products", ar.CreateProduct)
		r.Put("/products/{id}", ar.UpdateProduct)
		r.Delete("/products/{id}", ar.DeleteProduct)
	})
}
