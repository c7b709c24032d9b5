package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/csukav/Webshop/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutService}
}

type CheckoutRequestDTO struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "you must sign in to place an order")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), identity.UserID, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyAddress):
			respondError(w, http.StatusBadRequest, "address_required", "please provide a shipping address")
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
		default:
			log.Printf("checkout failed request_id=%s user=%s: %v",
				requestIDFromContext(r.Context()), identity.UserID, err)
			respondError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
