package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/cache"
	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/dean3213321/inventory-pos/internal/export"
)

// AdminBackend is the backend surface the admin pages proxy to.
type AdminBackend interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetTotalSupplies(ctx context.Context) (int, error)
	GetLowStockCount(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, input backend.ProductInput) error
	UpdateProduct(ctx context.Context, id int64, input backend.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
	ListSuppliers(ctx context.Context) ([]backend.Supplier, error)
	AddSupplier(ctx context.Context, supplier backend.Supplier) (backend.Supplier, error)
	ListUsers(ctx context.Context) ([]backend.User, error)
	GetSalesHistory(ctx context.Context) ([]backend.SalesRecord, error)
	GetBuyerHistory(ctx context.Context, buyerName string) ([]backend.SalesRecord, error)
	GetTopSoldItems(ctx context.Context) ([]backend.TopSoldItem, error)
	GetRevenue(ctx context.Context, period string) (json.RawMessage, error)
}

// AdminHandler serves the table/grid pages: products, suppliers, users,
// sales history and the dashboard aggregates. Everything proxies to the
// backend; product mutations also invalidate the cached listing.
type AdminHandler struct {
	backend AdminBackend
	catalog *cache.Catalog
	timeout time.Duration
}

func NewAdminHandler(b AdminBackend, catalog *cache.Catalog, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		backend: b,
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductRequestDTO struct {
	Name         string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"selling_price"`
}

func (d ProductRequestDTO) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if d.Quantity < 0 {
		return fmt.Errorf("quantity must be a valid, non-negative number")
	}
	if d.SellingPrice < 0 {
		return fmt.Errorf("selling price must be a valid, non-negative number")
	}
	return nil
}

// GET /api/v1/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.backend.GetProducts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/total
func (h *AdminHandler) TotalSupplies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	total, err := h.backend.GetTotalSupplies(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"totalSupplies": total})
}

// GET /api/v1/products/low-stock
func (h *AdminHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	count, err := h.backend.GetLowStockCount(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"lowStockItems": count})
}

// POST /api/v1/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}

	if err := h.backend.CreateProduct(ctx, backend.ProductInput(req)); err != nil {
		handleDomainError(w, err)
		return
	}

	h.catalog.InvalidateProducts(ctx)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Product added successfully!"})
}

// PUT /api/v1/products/{product_id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}

	if err := h.backend.UpdateProduct(ctx, id, backend.ProductInput(req)); err != nil {
		handleDomainError(w, err)
		return
	}

	h.catalog.InvalidateProducts(ctx)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully!"})
}

// DELETE /api/v1/products/{product_id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.backend.DeleteProduct(ctx, id); err != nil {
		handleDomainError(w, err)
		return
	}

	h.catalog.InvalidateProducts(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/suppliers
func (h *AdminHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	suppliers, err := h.backend.ListSuppliers(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

// POST /api/v1/suppliers
func (h *AdminHandler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var supplier backend.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(supplier.CompanyName) == "" {
		respondError(w, http.StatusBadRequest, "invalid_supplier", "company name cannot be empty")
		return
	}

	created, err := h.backend.AddSupplier(ctx, supplier)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GET /api/v1/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.backend.ListUsers(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GET /api/v1/sales
func (h *AdminHandler) SalesHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.backend.GetSalesHistory(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"salesHistory": records})
}

// GET /api/v1/sales/{buyer_name}/export downloads one buyer's history as
// the CSV the sales page produced.
func (h *AdminHandler) ExportBuyerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyerName := chi.URLParam(r, "buyer_name")
	records, err := h.backend.GetBuyerHistory(ctx, buyerName)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	filename := strings.ReplaceAll(buyerName, " ", "_") + "_sales_history.csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// headers are already sent, nothing left to respond with
	if err := export.WriteBuyerHistory(w, buyerName, records); err != nil {
		log.Printf("failed to stream buyer history for %s: %v", buyerName, err)
	}
}

// GET /api/v1/dashboard/top-sold
func (h *AdminHandler) TopSoldItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.backend.GetTopSoldItems(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GET /api/v1/dashboard/revenue?period=
func (h *AdminHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	report, err := h.backend.GetRevenue(ctx, period)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
