package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jmcortes/habita/internal/billing"
)

func TestCreateParams_Validate(t *testing.T) {
	valid := billing.CreateParams{
		SubjectID:     uuid.New(),
		SubjectKind:   billing.SubjectTenant,
		PropertyID:    uuid.New(),
		Periodicity:   "monthly",
		GenerationDay: 1,
		Amount:        decimal.NewFromInt(1000),
		Currency:      "EUR",
	}

	type testCase struct {
		name      string
		mutate    func(p *billing.CreateParams)
		wantField string
	}

	tests := []testCase{
		{
			name:   "Valid",
			mutate: func(p *billing.CreateParams) {},
		},
		{
			name:      "UnknownSubjectKind",
			mutate:    func(p *billing.CreateParams) { p.SubjectKind = "bank" },
			wantField: "subject_kind",
		},
		{
			name:      "UnknownPeriodicity",
			mutate:    func(p *billing.CreateParams) { p.Periodicity = "weekly" },
			wantField: "periodicity",
		},
		{
			name:      "DayZero",
			mutate:    func(p *billing.CreateParams) { p.GenerationDay = 0 },
			wantField: "generation_day",
		},
		{
			name:      "DayThirtyTwo",
			mutate:    func(p *billing.CreateParams) { p.GenerationDay = 32 },
			wantField: "generation_day",
		},
		{
			name:      "ZeroAmount",
			mutate:    func(p *billing.CreateParams) { p.Amount = decimal.Zero },
			wantField: "amount",
		},
		{
			name:      "NegativeAmount",
			mutate:    func(p *billing.CreateParams) { p.Amount = decimal.NewFromInt(-50) },
			wantField: "amount",
		},
		{
			name:      "AmountTooLargeToSpell",
			mutate:    func(p *billing.CreateParams) { p.Amount = decimal.New(1, 15) },
			wantField: "amount",
		},
		{
			name:   "LargestSpellableAmount",
			mutate: func(p *billing.CreateParams) { p.Amount = decimal.New(1, 15).Sub(decimal.New(1, 0)) },
		},
		{
			name:      "MissingCurrency",
			mutate:    func(p *billing.CreateParams) { p.Currency = "" },
			wantField: "currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)

			_, err := params.Validate()

			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var vErr *billing.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestService_Create(t *testing.T) {
	params := billing.CreateParams{
		SubjectID:     uuid.New(),
		SubjectKind:   billing.SubjectOwner,
		PropertyID:    uuid.New(),
		Periodicity:   "quarterly",
		GenerationDay: 15,
		Amount:        decimal.NewFromInt(120),
		Currency:      "EUR",
	}

	type testCase struct {
		name      string
		params    billing.CreateParams
		setupMock func(m *billing.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: params,
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateDefinition(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, def *billing.Definition) error {
						def.ID = uuid.New()
						def.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "InvalidParamsNeverReachRepo",
			params: billing.CreateParams{
				SubjectKind: billing.SubjectTenant,
				Periodicity: "monthly",
			},
			setupMock: func(m *billing.MockRepository) {},
			wantErr:   true,
		},
		{
			name:   "RepoError",
			params: params,
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateDefinition(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := billing.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := billing.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Active)
			assert.Equal(t, tt.params.GenerationDay, got.GenerationDay)
			assert.True(t, got.NextGeneration.After(time.Now().UTC()),
				"first generation date must be in the future")
			assert.Equal(t, tt.params.GenerationDay, got.NextGeneration.Day())
		})
	}
}
