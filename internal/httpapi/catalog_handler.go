package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	catalogrepo "github.com/csukav/Webshop/internal/catalog/repository"
	catalogservice "github.com/csukav/Webshop/internal/catalog/service"
)

type CatalogHandler struct {
	catalog *catalogservice.CatalogService
}

func NewCatalogHandler(catalog *catalogservice.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalogrepo.ProductFilter{
		NameSearch: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a valid id")
			return
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "product_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a valid id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "product_load_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "category_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, categories)
}
