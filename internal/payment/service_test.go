package payment_test

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

	"github.com/jmcortes/habita/internal/payment"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    payment.CreateParams
		setupMock func(m *payment.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: payment.CreateParams{
				PropertyID: uuid.New(),
				TenantID:   uuid.New(),
				Amount:     decimal.NewFromInt(450),
				Currency:   "EUR",
				Date:       time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC),
				Reference:  "VIREMENT LOYER MAI",
			},
			setupMock: func(m *payment.MockRepository) {
				m.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						p.ID = uuid.New()
						p.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroAmountRejected",
			params: payment.CreateParams{
				PropertyID: uuid.New(),
				TenantID:   uuid.New(),
				Amount:     decimal.Zero,
				Currency:   "EUR",
			},
			setupMock: func(m *payment.MockRepository) {},
			wantErr:   true,
		},
		{
			name: "RepoError",
			params: payment.CreateParams{
				PropertyID: uuid.New(),
				TenantID:   uuid.New(),
				Amount:     decimal.NewFromInt(100),
				Currency:   "EUR",
			},
			setupMock: func(m *payment.MockRepository) {
				m.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payment.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := payment.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_CreateBatch_AbortsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)

	first := repo.EXPECT().
		CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *payment.Payment) error {
			p.ID = uuid.New()
			return nil
		})
	repo.EXPECT().
		CreatePayment(gomock.Any(), gomock.Any()).
		After(first).
		Return(errors.New("db error"))

	params := []payment.CreateParams{
		{PropertyID: uuid.New(), TenantID: uuid.New(), Amount: decimal.NewFromInt(450), Currency: "EUR"},
		{PropertyID: uuid.New(), TenantID: uuid.New(), Amount: decimal.NewFromInt(450), Currency: "EUR"},
		{PropertyID: uuid.New(), TenantID: uuid.New(), Amount: decimal.NewFromInt(450), Currency: "EUR"},
	}

	svc := payment.NewService(repo)

	got, err := svc.CreateBatch(context.Background(), params)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "payment 2 of 3")
}
