package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/importer"
	"github.com/jmcortes/habita/internal/matching"
	"github.com/jmcortes/habita/internal/payment"
)

type Handler struct {
	importSvc  *importer.Service
	paymentSvc *payment.Service
	matchSvc   *matching.Service
}

func NewHandler(importSvc *importer.Service, paymentSvc *payment.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		paymentSvc: paymentSvc,
		matchSvc:   matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type movementDTO struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

type paymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	PropertyID uuid.UUID       `json:"property_id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Date       time.Time       `json:"date"`
	Reference  string          `json:"reference"`
	CreatedAt  time.Time       `json:"created_at"`
}

type importResponse struct {
	Imported  int               `json:"imported"`
	Payments  []paymentResponse `json:"payments"`
	Unmatched []movementDTO     `json:"unmatched"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	source := importer.Source(r.FormValue("source"))
	if source == "" {
		http.Error(w, "source field is required", http.StatusBadRequest)
		return
	}

	propertyID, err := uuid.Parse(r.FormValue("property_id"))
	if err != nil {
		http.Error(w, "property_id field is required", http.StatusBadRequest)
		return
	}

	currency := r.FormValue("currency")
	if currency == "" {
		currency = "EUR"
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	movements, err := h.importSvc.Import(source, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]payment.CreateParams, 0, len(movements))
	unmatched := make([]movementDTO, 0)

	for _, m := range movements {
		tenantID, err := h.matchSvc.Suggest(r.Context(), m.Reference)
		if err != nil {
			// A lookup failure is not "no match"; keep the row importable
			// by hand but leave a trace.
			slog.Error("suggesting tenant for bank reference",
				"reference", m.Reference, "error", err)
		}

		if tenantID == uuid.Nil {
			unmatched = append(unmatched, movementDTO{
				Date:      m.Date,
				Amount:    m.Amount,
				Reference: m.Reference,
			})

			continue
		}

		params = append(params, payment.CreateParams{
			PropertyID: propertyID,
			TenantID:   tenantID,
			Amount:     m.Amount,
			Currency:   currency,
			Date:       m.Date,
			Reference:  m.Reference,
		})
	}

	payments, err := h.paymentSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := importResponse{
		Imported:  len(payments),
		Payments:  make([]paymentResponse, 0, len(payments)),
		Unmatched: unmatched,
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:         p.ID,
			PropertyID: p.PropertyID,
			TenantID:   p.TenantID,
			Amount:     p.Amount,
			Currency:   p.Currency,
			Date:       p.Date,
			Reference:  p.Reference,
			CreatedAt:  p.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
