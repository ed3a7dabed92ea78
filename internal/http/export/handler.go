package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/export"
	"github.com/jmcortes/habita/internal/ledger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/ledger", h.statement)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	propertyID, window, ok := parseQuery(w, r)
	if !ok {
		return
	}

	data, err := h.svc.BuildWorkbook(r.Context(), propertyID, window)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("statement_%s_%s.xlsx", propertyID, window.End.Format(time.DateOnly))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))

	if _, err := w.Write(data); err != nil {
		return
	}
}

func parseQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, ledger.Window, bool) {
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
