package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jmcortes/habita/internal/http/billing"
	"github.com/jmcortes/habita/internal/http/expense"
	"github.com/jmcortes/habita/internal/http/export"
	"github.com/jmcortes/habita/internal/http/importcsv"
	"github.com/jmcortes/habita/internal/http/invoice"
	"github.com/jmcortes/habita/internal/http/ledger"
	"github.com/jmcortes/habita/internal/http/matching"
	"github.com/jmcortes/habita/internal/http/notification"
	"github.com/jmcortes/habita/internal/http/payment"
	"github.com/jmcortes/habita/internal/metrics"
)

type Handlers struct {
	Billing       *billing.Handler
	Payments      *payment.Handler
	Expenses      *expense.Handler
	Invoices      *invoice.Handler
	Ledger        *ledger.Handler
	Import        *importcsv.Handler
	Matching      *matching.Handler
	Export        *export.Handler
	Notifications *notification.Handler
}

func New(h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/billing", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Billing.Routes(r)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Payments.Routes(r)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expenses.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			h.Invoices.Routes(r)
		})

		r.Route("/reports/ledger", func(r chi.Router) {
			h.Ledger.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/matching", func(r chi.Router) {
			h.Matching.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			h.Export.Routes(r)
		})

		r.Route("/notifications", func(r chi.Router) {
			h.Notifications.Routes(r)
		})
	})

	return router
}
