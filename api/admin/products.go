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

// CreateProduct handles POST /admin/products
func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateProductRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.products.invalidBody")
		return
	}

	ar.logger.Debug("CreateProduct request received",
		gecho.Field("product_name", body.Name),
		gecho.Field("images_count", len(body.Images)),
	)

	product, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.products.createFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product created successfully"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// UpdateProduct handles PUT /admin/products/{id}
func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.products.invalidBody")
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.RespondError(w, ar.logger, err, "error.products.updateFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated successfully"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// DeleteProduct handles DELETE /admin/products/{id}
func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), id); err != nil {
		handling.RespondError(w, ar.logger, err, "error.products.deleteFailed")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product deleted successfully"),
		gecho.Send(),
	)
}
