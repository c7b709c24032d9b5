package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/csukav/Webshop/internal/auth"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Admin    *AdminHandler

	AuthService    *auth.Service
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(deps.AuthService))
	r.Use(EdgeGateMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth pages' API counterparts keep the original paths so the edge
	// gate's signed-in redirect applies to them.
	r.Post("/register", deps.Auth.Register)
	r.Post("/login", deps.Auth.Login)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/logout", deps.Auth.Logout)
		r.Get("/auth/me", deps.Auth.Me)

		r.Get("/products", deps.Catalog.ListProducts)
		r.Get("/products/{productID}", deps.Catalog.GetProduct)
		r.Get("/categories", deps.Catalog.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{productID}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{productID}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.ClearCart)
		})

		r.Post("/checkout", deps.Checkout.PlaceOrder)
		r.Get("/orders", deps.Orders.ListMyOrders)

		// Admin routes: the edge gate already redirected anonymous
		// requests, the admin gate re-checks the role with a
		// privileged profile read.
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminGateMiddleware(deps.AuthService))

			r.Get("/dashboard", deps.Admin.Dashboard)

			r.Post("/products", deps.Admin.CreateProduct)
			r.Put("/products/{productID}", deps.Admin.UpdateProduct)
			r.Delete("/products/{productID}", deps.Admin.DeleteProduct)

			r.Post("/categories", deps.Admin.CreateCategory)
			r.Delete("/categories/{categoryID}", deps.Admin.DeleteCategory)

			r.Get("/orders", deps.Admin.ListOrders)
			r.Get("/orders/{orderID}", deps.Admin.GetOrder)
			r.Put("/orders/{orderID}/status", deps.Admin.UpdateOrderStatus)
			r.Delete("/orders/{orderID}", deps.Admin.DeleteOrder)

			r.Post("/uploads", deps.Admin.UploadImage)
		})
	})

	return r
}
