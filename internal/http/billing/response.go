package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcortes/habita/internal/billing"
)

type definitionResponse struct {
	ID             uuid.UUID       `json:"id"`
	SubjectID      uuid.UUID       `json:"subject_id"`
	SubjectKind    string          `json:"subject_kind"`
	PropertyID     uuid.UUID       `json:"property_id"`
	Periodicity    string          `json:"periodicity"`
	GenerationDay  int             `json:"generation_day"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Active         bool            `json:"active"`
	NextGeneration time.Time       `json:"next_generation_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toResponse(def *billing.Definition) definitionResponse {
	return definitionResponse{
		ID:             def.ID,
		SubjectID:      def.SubjectID,
		SubjectKind:    string(def.SubjectKind),
		PropertyID:     def.PropertyID,
		Periodicity:    string(def.Periodicity),
		GenerationDay:  def.GenerationDay,
		Amount:         def.Amount,
		Currency:       def.Currency,
		Active:         def.Active,
		NextGeneration: def.NextGeneration,
		CreatedAt:      def.CreatedAt,
	}
}

func toResponseList(defs []*billing.Definition) []definitionResponse {
	resp := make([]definitionResponse, len(defs))
	for i, def := range defs {
		resp[i] = toResponse(def)
	}

	return resp
}
