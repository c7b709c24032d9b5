package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartservice "github.com/csukav/Webshop/internal/cart/service"
	catalogrepo "github.com/csukav/Webshop/internal/catalog/repository"
	catalogservice "github.com/csukav/Webshop/internal/catalog/service"
)

type CartHandler struct {
	carts   *cartservice.CartService
	catalog *catalogservice.CatalogService
}

func NewCartHandler(carts *cartservice.CartService, catalog *catalogservice.CatalogService) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	cart, err := h.carts.GetCart(r.Context(), identity.UserID.String())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a valid id")
		return
	}

	// snapshot the product as it is right now
	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "product_load_failed", err.Error())
		return
	}

	cart, err := h.carts.AddItem(r.Context(), identity.UserID.String(), *product)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a valid id")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), identity.UserID.String(), productID, req.Quantity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a valid id")
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), identity.UserID.String(), productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_update_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	if err := h.carts.ClearCart(r.Context(), identity.UserID.String()); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_clear_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cart cleared"})
}
