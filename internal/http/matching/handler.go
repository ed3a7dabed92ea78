package matching

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/learn", h.learn)
}

type suggestResponse struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Matched  bool      `json:"matched"`
}

type learnRequest struct {
	Pattern  string    `json:"pattern"`
	TenantID uuid.UUID `json:"tenant_id"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		http.Error(w, "reference query parameter is required", http.StatusBadRequest)
		return
	}

	tenantID, err := h.svc.Suggest(r.Context(), reference)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := suggestResponse{TenantID: tenantID, Matched: tenantID != uuid.Nil}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Pattern == "" || req.TenantID == uuid.Nil {
		http.Error(w, "pattern and tenant_id are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.TenantID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
