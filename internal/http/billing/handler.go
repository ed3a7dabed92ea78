package billing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/billing"
)

type Handler struct {
	svc       *billing.Service
	scheduler *billing.Scheduler
}

func NewHandler(svc *billing.Service, scheduler *billing.Scheduler) *Handler {
	return &Handler{svc: svc, scheduler: scheduler}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/active", h.setActive)
	r.Post("/run", h.run)
}

type createDefinitionRequest struct {
	SubjectID     uuid.UUID       `json:"subject_id"`
	SubjectKind   string          `json:"subject_kind"`
	PropertyID    uuid.UUID       `json:"property_id"`
	Periodicity   string          `json:"periodicity"`
	GenerationDay int             `json:"generation_day"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def, err := h.svc.Create(r.Context(), billing.CreateParams{
		SubjectID:     req.SubjectID,
		SubjectKind:   billing.SubjectKind(req.SubjectKind),
		PropertyID:    req.PropertyID,
		Periodicity:   req.Periodicity,
		GenerationDay: req.GenerationDay,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		var verr *billing.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(def)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := billing.ListFilter{}

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

	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}

	defs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(defs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	def, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			http.Error(w, "billing definition not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(def)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			http.Error(w, "billing definition not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type runResponse struct {
	Due       int `json:"due"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// run triggers one scheduler cycle immediately, outside the periodic loop.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.Run(r.Context(), time.Now().UTC())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(runResponse(result)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
