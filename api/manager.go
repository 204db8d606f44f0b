package api

import (
	"yelo_server/api/admin"
	"yelo_server/api/categories"
	"yelo_server/api/debug"
	"yelo_server/api/directory"
	"yelo_server/api/health"
	"yelo_server/api/middleware"
	"yelo_server/api/products"
	"yelo_server/api/upload"
	"yelo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	categoryRoutes  *categories.CategoryRoutesManager
	productRoutes   *products.ProductRoutesManager
	directoryRoutes *directory.DirectoryRoutesManager
	adminRoutes     *admin.AdminRoutesManager
	uploadRoutes    *upload.UploadRoutesManager
	healthRoutes    *health.HealthRoutesManager
	debugRoutes     *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		categoryRoutes:  categories.NewCategoryRoutesManager(logger, sm.CategoryService),
		productRoutes:   products.NewProductRoutesManager(logger, sm.ProductService),
		directoryRoutes: directory.NewDirectoryRoutesManager(logger, sm.DirectoryService),
		adminRoutes:     admin.NewAdminRoutesManager(logger, sm.CategoryService, sm.ProductService, mw),
		uploadRoutes:    upload.NewUploadRoutesManager(logger, sm.ImageService, sm.CompressionService, sm.StorageService, mw),
		healthRoutes:    health.NewHealthRoutesManager(sm.HealthService),
		debugRoutes:     debug.NewDebugRoutesManager(sm.CacheService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.categoryRoutes.RegisterRoutes(r)
	rm.productRoutes.RegisterRoutes(r)
	rm.directoryRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.uploadRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
