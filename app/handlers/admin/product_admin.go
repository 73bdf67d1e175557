package admin

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/handlers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
)

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAllProducts(r.Context())
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, products)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "product_id")
	if !ok {
		return
	}

	var in services.AdminProductPatch
	if !handlers.DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	product, err := h.catalog.AdminUpdateProduct(r.Context(), id, in)
	if err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.PathID(w, r, h.render, "product_id")
	if !ok {
		return
	}
	if err := h.catalog.AdminDeleteProduct(r.Context(), id); err != nil {
		handlers.WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, handlers.Message{Message: "Product deleted successfully"})
}
