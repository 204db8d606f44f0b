package directory

import (
	"yelo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DirectoryRoutesManager struct {
	logger           *gecho.Logger
	directoryService *services.DirectoryService
}

func NewDirectoryRoutesManager(
	logger *gecho.Logger,
	directoryService *services.DirectoryService,
) *DirectoryRoutesManager {
	return &DirectoryRoutesManager{
		logger:           logger,
		directoryService: directoryService,
	}
}

func (drm *DirectoryRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/vendors", drm.FetchVendors)
	r.Get("/shops", drm.FetchShops)
}
