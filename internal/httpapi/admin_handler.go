package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	catalogrepo "github.com/csukav/Webshop/internal/catalog/repository"
	catalogservice "github.com/csukav/Webshop/internal/catalog/service"
	"github.com/csukav/Webshop/internal/domain"
	ordersrepo "github.com/csukav/Webshop/internal/orders/repository"
)

const maxImageSize = 5 << 20 // 5MB

// ImageUploader is what the admin handler needs from the object store.
type ImageUploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

type AdminHandler struct {
	catalog *catalogservice.CatalogService
	orders  ordersrepo.OrderRepository
	images  ImageUploader
}

func NewAdminHandler(catalog *catalogservice.CatalogService, orders ordersrepo.OrderRepository, images ImageUploader) *AdminHandler {
	return &AdminHandler{catalog: catalog, orders: orders, images: images}
}

type ProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	CategoryID  string  `json:"category_id"`
}

type CategoryRequestDTO struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type OrderStatusRequestDTO struct {
	Status string `json:"status"`
}

type DashboardResponseDTO struct {
	ProductCount     int             `json:"product_count"`
	CategoryCount    int             `json:"category_count"`
	OrderCount       int             `json:"order_count"`
	DeliveredRevenue float64         `json:"delivered_revenue"`
	RecentOrders     []*domain.Order `json:"recent_orders"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a valid id")
		return
	}

	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, input)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a valid id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrDuplicateSlug) {
			respondError(w, http.StatusConflict, "slug_taken", "this slug is already taken, pick another one")
			return
		}
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_category_id", "category id must be a valid id")
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "order_list_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a valid id")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ordersrepo.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "order_load_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a valid id")
		return
	}

	var req OrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateOrderStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, ordersrepo.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "order_update_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a valid id")
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, ordersrepo.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "order_delete_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productCount, err := h.catalog.CountProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}
	categoryCount, err := h.catalog.CountCategories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}
	orderCount, err := h.orders.CountOrders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}
	revenue, err := h.orders.RevenueByStatus(ctx, domain.OrderStatusDelivered)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}
	recent, err := h.orders.ListOrders(ctx, 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "dashboard_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, DashboardResponseDTO{
		ProductCount:     productCount,
		CategoryCount:    categoryCount,
		OrderCount:       orderCount,
		DeliveredRevenue: revenue,
		RecentOrders:     recent,
	})
}

func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "could not parse upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "image file is required")
		return
	}
	defer file.Close()

	url, err := h.images.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		respondError(w, http.StatusBadGateway, "upload_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *AdminHandler) decodeProductInput(w http.ResponseWriter, r *http.Request) (catalogservice.ProductInput, bool) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return catalogservice.ProductInput{}, false
	}

	input := catalogservice.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a valid id")
			return catalogservice.ProductInput{}, false
		}
		input.CategoryID = &categoryID
	}

	return input, true
}

func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogservice.ErrEmptyName),
		errors.Is(err, catalogservice.ErrEmptySlug),
		errors.Is(err, catalogservice.ErrNegativePrice),
		errors.Is(err, catalogservice.ErrNegativeStock):
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, catalogrepo.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, catalogrepo.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "category_not_found", "category not found")
	default:
		respondError(w, http.StatusInternalServerError, "catalog_error", err.Error())
	}
}
