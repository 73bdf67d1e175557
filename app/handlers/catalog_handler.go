package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	render    *render.Render
	catalog   *services.CatalogService
	validator *validator.Validate
	log       *zap.Logger
}

func NewCatalogHandler(rnd *render.Render, catalog *services.CatalogService, v *validator.Validate, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{render: rnd, catalog: catalog, validator: v, log: log}
}

func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in services.BrandInput
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	brand, err := h.catalog.CreateBrand(r.Context(), user, in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, brand)
}

func (h *CatalogHandler) MyBrand(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	brand, err := h.catalog.GetMyBrand(r.Context(), user)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) UpdateMyBrand(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in services.BrandPatch
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	brand, err := h.catalog.UpdateMyBrand(r.Context(), user, in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, h.render, "brand_id")
	if !ok {
		return
	}
	brand, err := h.catalog.GetBrand(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, brand)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	var in services.ProductInput
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), user, in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) MyProducts(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	products, err := h.catalog.MyProducts(r.Context(), user)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, products)
}

// GetProduct is public; a bearer token, when the optional auth middleware
// resolved one, lets owners and admins see unapproved products.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(w, r, h.render, "product_id")
	if !ok {
		return
	}
	viewer, _ := helpers.UserFromRequest(r)
	product, err := h.catalog.GetProduct(r.Context(), viewer, id)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "product_id")
	if !ok {
		return
	}

	var in services.ProductPatch
	if !DecodeAndValidate(w, r, h.render, h.validator, &in) {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), user, id, in)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	id, ok := PathID(w, r, h.render, "product_id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), user, id); err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "Product deleted successfully"})
}
