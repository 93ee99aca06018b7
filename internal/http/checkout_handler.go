package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dean3213321/inventory-pos/internal/backend"
	"github.com/dean3213321/inventory-pos/internal/cache"
	"github.com/dean3213321/inventory-pos/internal/checkout"
	"github.com/dean3213321/inventory-pos/internal/domain"
	"github.com/dean3213321/inventory-pos/internal/session"
)

// CheckoutHandler drives a checkout session over HTTP: resolve a buyer,
// accumulate a cart, commit once.
type CheckoutHandler struct {
	resolver  *checkout.Resolver
	committer *checkout.Committer
	catalog   *cache.Catalog
	sessions  *session.Store
	timeout   time.Duration
}

func NewCheckoutHandler(
	resolver *checkout.Resolver,
	committer *checkout.Committer,
	catalog *cache.Catalog,
	sessions *session.Store,
	timeout time.Duration,
) *CheckoutHandler {
	return &CheckoutHandler{
		resolver:  resolver,
		committer: committer,
		catalog:   catalog,
		sessions:  sessions,
		timeout:   timeout,
	}
}

type OpenSessionRequestDTO struct {
	Tag       string `json:"rfid,omitempty"`
	FirstName string `json:"fname,omitempty"`
	LastName  string `json:"lname,omitempty"`
	BuyerID   int64  `json:"buyer_id,omitempty"`
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type ProductDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"product_name"`
	SellingPrice float64 `json:"selling_price"`
	Remaining    int     `json:"remaining"`
}

type CartLineDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"price"`
	LineTotal   float64 `json:"totalPrice"`
}

type SessionDTO struct {
	SessionID    string        `json:"session_id"`
	BuyerName    string        `json:"buyer_name"`
	PricingClass string        `json:"pricing_class"`
	Status       string        `json:"status"`
	Lines        []CartLineDTO `json:"lines"`
	GrandTotal   float64       `json:"grand_total"`
	Products     []ProductDTO  `json:"products"`
}

type AddItemResponseDTO struct {
	Status    string       `json:"status"`
	Line      *CartLineDTO `json:"line,omitempty"`
	Remaining int          `json:"remaining"`
}

// POST /api/v1/checkout/sessions
func (h *CheckoutHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req OpenSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	buyer, err := h.resolveBuyer(ctx, req)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// product snapshot is captured once; stock changes elsewhere are not
	// observed until the next session
	products, err := h.catalog.Products(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	sess := checkout.NewSession(buyer, products)
	h.sessions.Put(sess)

	respondJSON(w, http.StatusCreated, sessionDTO(sess))
}

func (h *CheckoutHandler) resolveBuyer(ctx context.Context, req OpenSessionRequestDTO) (domain.Buyer, error) {
	if req.Tag != "" {
		return h.resolver.ResolveByTag(ctx, req.Tag)
	}
	if req.BuyerID != 0 {
		return h.resolver.ResolveExisting(backend.BuyerRecord{
			BuyerID:   req.BuyerID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}), nil
	}
	return h.resolver.ResolveManual(req.FirstName, req.LastName), nil
}

// GET /api/v1/checkout/buyers
func (h *CheckoutHandler) ListBuyers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	buyers, err := h.resolver.ExistingBuyers(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, buyers)
}

// GET /api/v1/checkout/sessions/{session_id}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionDTO(sess))
}

// POST /api/v1/checkout/sessions/{session_id}/items
func (h *CheckoutHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	result := sess.Cart.Add(req.ProductID, req.Quantity)
	resp := AddItemResponseDTO{
		Status:    string(result.Status),
		Remaining: sess.Cart.Remaining(req.ProductID),
	}

	if !result.Accepted() {
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	line := cartLineDTO(result.Line)
	resp.Line = &line
	respondJSON(w, http.StatusCreated, resp)
}

// DELETE /api/v1/checkout/sessions/{session_id}/items/{product_id}
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	// removal of an absent line is a no-op, not an error
	sess.Cart.RemoveFromCart(productID)
	respondJSON(w, http.StatusOK, sessionDTO(sess))
}

// POST /api/v1/checkout/sessions/{session_id}/commit
func (h *CheckoutHandler) Commit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// once issued, the submission pipeline must run to completion or failure
	// even if the client disconnects; the committer applies its own timeouts
	ctx := context.WithoutCancel(r.Context())

	receipt, err := h.committer.Commit(ctx, sess)
	if err != nil {
		log.Printf("[%s] commit failed for session %s: %v", getRequestID(r.Context()), sess.ID, err)
		handleDomainError(w, err)
		return
	}

	h.sessions.Delete(sess.ID)
	respondJSON(w, http.StatusCreated, receipt)
}

// DELETE /api/v1/checkout/sessions/{session_id}
func (h *CheckoutHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	// cancellation discards local state only; no compensating backend call
	h.sessions.Delete(chi.URLParam(r, "session_id"))
	w.WriteHeader(http.StatusNoContent)
}

func sessionDTO(sess *checkout.Session) SessionDTO {
	lines := sess.Cart.Lines()
	lineDTOs := make([]CartLineDTO, 0, len(lines))
	for _, line := range lines {
		lineDTOs = append(lineDTOs, cartLineDTO(line))
	}

	products := sess.Cart.Products()
	productDTOs := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		productDTOs = append(productDTOs, ProductDTO{
			ID:           p.ID,
			Name:         p.Name,
			SellingPrice: p.SellingPrice,
			Remaining:    sess.Cart.Remaining(p.ID),
		})
	}

	return SessionDTO{
		SessionID:    sess.ID,
		BuyerName:    sess.Buyer.DisplayName(),
		PricingClass: string(sess.Buyer.PricingClass()),
		Status:       sess.Status().String(),
		Lines:        lineDTOs,
		GrandTotal:   sess.Cart.Total(),
		Products:     productDTOs,
	}
}

func cartLineDTO(line checkout.CartLine) CartLineDTO {
	return CartLineDTO{
		ProductID:   line.Product.ID,
		ProductName: line.Product.Name,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		LineTotal:   line.Total(),
	}
}
