package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the panel's API surface: checkout sessions plus the
// admin pass-through routes.
func NewRouter(checkoutHandler *CheckoutHandler, adminHandler *AdminHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/buyers", checkoutHandler.ListBuyers)
			r.Post("/sessions", checkoutHandler.OpenSession)
			r.Route("/sessions/{session_id}", func(r chi.Router) {
				r.Get("/", checkoutHandler.GetSession)
				r.Delete("/", checkoutHandler.CancelSession)
				r.Post("/items", checkoutHandler.AddItem)
				r.Delete("/items/{product_id}", checkoutHandler.RemoveItem)
				r.Post("/commit", checkoutHandler.Commit)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", adminHandler.ListProducts)
			r.Post("/", adminHandler.CreateProduct)
			r.Get("/total", adminHandler.TotalSupplies)
			r.Get("/low-stock", adminHandler.LowStock)
			r.Put("/{product_id}", adminHandler.UpdateProduct)
			r.Delete("/{product_id}", adminHandler.DeleteProduct)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", adminHandler.ListSuppliers)
			r.Post("/", adminHandler.AddSupplier)
		})

		r.Get("/users", adminHandler.ListUsers)

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", adminHandler.SalesHistory)
			r.Get("/{buyer_name}/export", adminHandler.ExportBuyerHistory)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/top-sold", adminHandler.TopSoldItems)
			r.Get("/revenue", adminHandler.Revenue)
		})
	})

	return r
}
