package httpapi

import (
	"net/http"

	"github.com/csukav/Webshop/internal/orders/repository"
)

type OrdersHandler struct {
	orders repository.OrderRepository
}

func NewOrdersHandler(orders repository.OrderRepository) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// ListMyOrders returns the signed-in user's orders, newest first.
func (h *OrdersHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "order_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, orders)
}
