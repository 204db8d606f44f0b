package directory

import (
	"net/http"
	"yelo_server/handling"

	"github.com/MonkyMars/gecho"
)

// FetchVendors handles GET /vendors, served from the collection cache
func (d *DirectoryRoutesManager) FetchVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := d.directoryService.GetVendors(r.Context())
	if err != nil {
		handling.RespondError(w, d.logger, err, "error.vendors.failedToFetch")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"vendors": vendors,
			"count":   len(vendors),
		}),
		gecho.Send(),
	)
}

// FetchShops handles GET /shops, served from the collection cache
func (d *DirectoryRoutesManager) FetchShops(w http.ResponseWriter, r *http.Request) {
	shops, err := d.directoryService.GetShops(r.Context())
	if err != nil {
		handling.RespondError(w, d.logger, err, "error.shops.failedToFetch")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"shops": shops,
			"count": len(shops),
		}),
		gecho.Send(),
	)
}
