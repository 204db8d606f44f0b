package upload

import (
	"yelo_server/api/middleware"
	"yelo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type UploadRoutesManager struct {
	logger             *gecho.Logger
	imageService       *services.ImageService
	compressionService *services.CompressionService
	storageService     *services.StorageService
	mw                 *middleware.Middleware
}

func NewUploadRoutesManager(
	logger *gecho.Logger,
	imageService *services.ImageService,
	compressionService *services.CompressionService,
	storageService *services.StorageService,
	mw *middleware.Middleware,
) *UploadRoutesManager {
	return &UploadRoutesManager{
		logger:             logger,
		imageService:       imageService,
		compressionService: compressionService,
		storageService:     storageService,
		mw:                 mw,
	}
}

func (urm *UploadRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin/upload", func(r chi.Router) {
		r.Use(urm.mw.UserAuthMiddleware)
		r.Use(urm.mw.AdminAuthMiddleware)

		r.Post("/compress-image", urm.CompressImage)
		r.Post("/compress-images", urm.CompressImages)
		r.Post("/images", urm.UploadImages)
	})
}
