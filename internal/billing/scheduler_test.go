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
	"github.com/jmcortes/habita/internal/invoice"
)

func dueDefinition() *billing.Definition {
	return &billing.Definition{
		ID:             uuid.New(),
		SubjectID:      uuid.New(),
		SubjectKind:    billing.SubjectTenant,
		PropertyID:     uuid.New(),
		Periodicity:    "monthly",
		GenerationDay:  1,
		Amount:         decimal.NewFromInt(1000),
		Currency:       "EUR",
		Active:         true,
		NextGeneration: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestScheduler_Run(t *testing.T) {
	now := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	nextMonth := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	type mocks struct {
		repo     *billing.MockRepository
		invoices *billing.MockInvoiceRepository
		notifier *billing.MockNotificationSink
	}

	type testCase struct {
		name      string
		setupMock func(m mocks, def *billing.Definition)
		want      billing.RunResult
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "NothingDue",
			setupMock: func(m mocks, _ *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return(nil, nil)
			},
			want: billing.RunResult{},
		},
		{
			name: "ListError",
			setupMock: func(m mocks, _ *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "GeneratesInvoiceAndAdvances",
			setupMock: func(m mocks, def *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return([]*billing.Definition{def}, nil)
				m.repo.EXPECT().
					ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, nextMonth).
					Return(true, nil)
				m.invoices.EXPECT().
					CreateFromDefinition(gomock.Any(), def, "One thousand").
					Return(&invoice.Invoice{ID: uuid.New(), Number: "INV-2026-000001"}, nil)
				m.notifier.EXPECT().
					Emit(gomock.Any(), billing.NotificationKindInvoice, gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			want: billing.RunResult{Due: 1, Generated: 1},
		},
		{
			name: "ClaimLostToConcurrentRun",
			setupMock: func(m mocks, def *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return([]*billing.Definition{def}, nil)
				m.repo.EXPECT().
					ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, nextMonth).
					Return(false, nil)
			},
			want: billing.RunResult{Due: 1, Skipped: 1},
		},
		{
			name: "InvoiceFailureRestoresSchedule",
			setupMock: func(m mocks, def *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return([]*billing.Definition{def}, nil)
				m.repo.EXPECT().
					ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, nextMonth).
					Return(true, nil)
				m.invoices.EXPECT().
					CreateFromDefinition(gomock.Any(), def, gomock.Any()).
					Return(nil, errors.New("insert failed"))
				m.repo.EXPECT().
					ResetNextDate(gomock.Any(), def.ID, def.NextGeneration).
					Return(nil)
			},
			want: billing.RunResult{Due: 1, Failed: 1},
		},
		{
			name: "NotificationFailureDoesNotFailGeneration",
			setupMock: func(m mocks, def *billing.Definition) {
				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return([]*billing.Definition{def}, nil)
				m.repo.EXPECT().
					ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, nextMonth).
					Return(true, nil)
				m.invoices.EXPECT().
					CreateFromDefinition(gomock.Any(), def, gomock.Any()).
					Return(&invoice.Invoice{ID: uuid.New(), Number: "INV-2026-000002"}, nil)
				m.notifier.EXPECT().
					Emit(gomock.Any(), billing.NotificationKindInvoice, gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("webhook down"))
			},
			want: billing.RunResult{Due: 1, Generated: 1},
		},
		{
			name: "CorruptDefinitionFlaggedForReview",
			setupMock: func(m mocks, def *billing.Definition) {
				def.GenerationDay = 42

				m.repo.EXPECT().
					ListActiveDue(gomock.Any(), now).
					Return([]*billing.Definition{def}, nil)
				m.repo.EXPECT().
					FlagForReview(gomock.Any(), def.ID, gomock.Any()).
					Return(nil)
			},
			want: billing.RunResult{Due: 1, Failed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{
				repo:     billing.NewMockRepository(ctrl),
				invoices: billing.NewMockInvoiceRepository(ctrl),
				notifier: billing.NewMockNotificationSink(ctrl),
			}

			def := dueDefinition()
			tt.setupMock(m, def)

			scheduler := billing.NewScheduler(m.repo, m.invoices, m.notifier, 1, 5*time.Second)
			got, err := scheduler.Run(context.Background(), now)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A second run over the same occurrence must not produce a second
// invoice: the conditional claim is what makes generation idempotent.
func TestScheduler_Run_IdempotentAcrossRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	next := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	def := dueDefinition()
	def.NextGeneration = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	repo := billing.NewMockRepository(ctrl)
	invoices := billing.NewMockInvoiceRepository(ctrl)
	notifier := billing.NewMockNotificationSink(ctrl)

	// Both runs see the definition as due, as they would if they listed
	// concurrently before either claim landed.
	repo.EXPECT().
		ListActiveDue(gomock.Any(), now).
		Return([]*billing.Definition{def}, nil).
		Times(2)

	first := repo.EXPECT().
		ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, next).
		Return(true, nil)
	repo.EXPECT().
		ClaimAndAdvance(gomock.Any(), def.ID, def.NextGeneration, next).
		After(first).
		Return(false, nil)

	// Exactly one invoice for the occurrence.
	invoices.EXPECT().
		CreateFromDefinition(gomock.Any(), def, gomock.Any()).
		Return(&invoice.Invoice{ID: uuid.New(), Number: "INV-2026-000003"}, nil)
	notifier.EXPECT().
		Emit(gomock.Any(), billing.NotificationKindInvoice, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	scheduler := billing.NewScheduler(repo, invoices, notifier, 2, 5*time.Second)

	got, err := scheduler.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, billing.RunResult{Due: 1, Generated: 1}, got)

	got, err = scheduler.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, billing.RunResult{Due: 1, Skipped: 1}, got)
}
