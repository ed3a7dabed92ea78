package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/ledger"
	"github.com/jmcortes/habita/internal/metrics"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.statement)
}

type eventResponse struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
}

type statementResponse struct {
	Events        []eventResponse `json:"events"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	propertyID, window, ok := parseStatementQuery(w, r)
	if !ok {
		return
	}

	stmt, err := h.svc.BuildForProperty(r.Context(), propertyID, window)
	if err != nil {
		metrics.ReportRequest("error")
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	metrics.ReportRequest("success")

	events := make([]eventResponse, len(stmt.Events))
	for i, ev := range stmt.Events {
		events[i] = eventResponse{
			Date:        ev.Date,
			Kind:        string(ev.Kind),
			Amount:      ev.Amount,
			Category:    ev.Category,
			Description: ev.Description,
			Balance:     ev.Balance,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(statementResponse{
		Events:        events,
		TotalIncome:   stmt.TotalIncome,
		TotalExpenses: stmt.TotalExpenses,
		NetBalance:    stmt.NetBalance,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// parseStatementQuery reads property_id, start and end from the query
// string; start/end use the 2006-01-02 layout.
func parseStatementQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, ledger.Window, bool) {
	propertyID, err := uuid.Parse(r.URL.Query().Get("property_id"))
	if err != nil {
		http.Error(w, "property_id query parameter is required", http.StatusBadRequest)
		return uuid.Nil, ledger.Window{}, false
	}

	start, err := time.Parse(time.DateOnly, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "start query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return uuid.Nil, ledger.Window{}, false
	}

	end, err := time.Parse(time.DateOnly, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "end query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return uuid.Nil, ledger.Window{}, false
	}

	return propertyID, ledger.Window{Start: start, End: end}, true
}
