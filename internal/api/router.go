/**
 * @description
 * This file sets up the HTTP router for the lending service using the
 * go-chi/chi router. It defines the API routes, applies middleware for
 * logging, CORS, and authentication, and maps the routes to their
 * corresponding handler functions.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the lending service
// routes.
func NewRouter(h *Handler, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Lending service is healthy"))
	})

	// Public routes
	r.Post("/auth/login", h.handleLogin)
	r.Get("/simulator", h.handleSimulate)

	// Protected routes that require authentication
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Post("/auth/logout", h.handleLogout)
		r.Get("/me", h.handleGetMe)

		r.Post("/kyc/submit", h.handleStartKYC)
		r.Get("/kyc/status", h.handleKYCStatus)

		r.Post("/bank-accounts", h.handleLinkBankAccount)
		r.Get("/bank-accounts", h.handleListBankAccounts)

		r.Post("/loans", h.handleApplyLoan)
		r.Get("/loans", h.handleListLoans)
		r.Get("/loans/{loanID}", h.handleGetLoan)
		r.Post("/loans/{loanID}/collateral/confirm", h.handleConfirmCollateral)
		r.Post("/loans/{loanID}/repay", h.handleRepayLoan)

		r.Get("/portfolio", h.handlePortfolio)
		r.Get("/price", h.handleGetPrice)
		r.Get("/transactions", h.handleListTransactions)
		r.Get("/notifications", h.handleListNotifications)
		r.Post("/notifications/{notificationID}/read", h.handleMarkNotificationRead)
	})

	return r
}
