package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type invoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	DefinitionID  uuid.UUID       `json:"definition_id"`
	SubjectID     uuid.UUID       `json:"subject_id"`
	SubjectKind   string          `json:"subject_kind"`
	PropertyID    uuid.UUID       `json:"property_id"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	LateFee       decimal.Decimal `json:"late_fee"`
	AmountInWords string          `json:"amount_in_words"`
	Currency      string          `json:"currency"`
	Status        invoice.Status  `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		DefinitionID:  inv.DefinitionID,
		SubjectID:     inv.SubjectID,
		SubjectKind:   inv.SubjectKind,
		PropertyID:    inv.PropertyID,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Amount:        inv.Amount,
		LateFee:       inv.LateFee,
		AmountInWords: inv.AmountInWords,
		Currency:      inv.Currency,
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("property_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid property_id", http.StatusBadRequest)
			return
		}

		filter.PropertyID = &id
	}

	if s := r.URL.Query().Get("subject_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid subject_id", http.StatusBadRequest)
			return
		}

		filter.SubjectID = &id
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := invoice.Status(s)
		filter.Status = &status
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
