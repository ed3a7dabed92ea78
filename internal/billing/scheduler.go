package billing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmcortes/habita/internal/invoice"
	"github.com/jmcortes/habita/internal/metrics"
	"github.com/jmcortes/habita/internal/recurrence"
	"github.com/jmcortes/habita/internal/words"
)

// NotificationKindInvoice tags notifications emitted for generated invoices.
const NotificationKindInvoice = "invoice_generated"

//go:generate mockgen -source=scheduler.go -destination=scheduler_mock.go -package=billing
type InvoiceRepository interface {
	CreateFromDefinition(ctx context.Context, def *Definition, amountInWords string) (*invoice.Invoice, error)
}

// NotificationSink receives one event per generated invoice. Emission is
// best-effort: a failure is logged and never rolls back the reschedule.
type NotificationSink interface {
	Emit(ctx context.Context, kind, title, message string, referenceID uuid.UUID) error
}

// Scheduler runs one billing cycle: it claims due definitions, materializes
// their invoices and advances their schedules. Definitions are independent,
// so a run fans them out over a bounded worker pool; the claim keeps the
// generate step atomic per definition even across concurrent runs.
type Scheduler struct {
	repo     Repository
	invoices InvoiceRepository
	notifier NotificationSink
	workers  int
	timeout  time.Duration
}

func NewScheduler(repo Repository, invoices InvoiceRepository, notifier NotificationSink, workers int, timeout time.Duration) *Scheduler {
	if workers < 1 {
		workers = 1
	}

	return &Scheduler{
		repo:     repo,
		invoices: invoices,
		notifier: notifier,
		workers:  workers,
		timeout:  timeout,
	}
}

// RunResult summarizes one scheduler cycle.
type RunResult struct {
	Due       int
	Generated int
	Skipped   int
	Failed    int
}

type outcome int

const (
	outcomeGenerated outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Run processes every definition due at now. Per-definition failures are
// logged and counted but never abort the batch. Cancelling ctx stops
// feeding further definitions; definitions already in flight finish, and
// each one's state change is atomic on its own.
func (s *Scheduler) Run(ctx context.Context, now time.Time) (RunResult, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defs, err := s.repo.ListActiveDue(listCtx, now)
	if err != nil {
		metrics.SchedulerRun("error")
		return RunResult{}, fmt.Errorf("listing due definitions: %w", err)
	}

	result := RunResult{Due: len(defs)}
	if len(defs) == 0 {
		metrics.SchedulerRun("success")
		return result, nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan *Definition)
	)

	for i := 0; i < s.workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for def := range jobs {
				out := s.process(ctx, def, now)

				mu.Lock()
				switch out {
				case outcomeGenerated:
					result.Generated++
				case outcomeSkipped:
					result.Skipped++
				case outcomeFailed:
					result.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, def := range defs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- def:
		}
	}

	close(jobs)
	wg.Wait()

	metrics.SchedulerRun("success")

	return result, nil
}

func (s *Scheduler) process(ctx context.Context, def *Definition, now time.Time) outcome {
	next, err := s.nextDate(def, now)
	if err != nil {
		// Validated definitions should never land here. Park the definition
		// for manual review rather than skipping it silently forever.
		slog.Error("billing date computation failed",
			"definition_id", def.ID, "property_id", def.PropertyID, "error", err)

		if ferr := s.withTimeout(ctx, func(c context.Context) error {
			return s.repo.FlagForReview(c, def.ID, err.Error())
		}); ferr != nil {
			slog.Error("flagging definition for review",
				"definition_id", def.ID, "error", ferr)
		}

		metrics.DefinitionProcessed("failed")

		return outcomeFailed
	}

	var claimed bool

	err = s.withTimeout(ctx, func(c context.Context) error {
		var cerr error
		claimed, cerr = s.repo.ClaimAndAdvance(c, def.ID, def.NextGeneration, next)
		return cerr
	})
	if err != nil {
		slog.Error("claiming billing definition",
			"definition_id", def.ID, "property_id", def.PropertyID,
			"due", def.NextGeneration, "error", err)
		metrics.DefinitionProcessed("failed")

		return outcomeFailed
	}

	if !claimed {
		// Another run won the claim; this occurrence is already handled.
		slog.Debug("billing definition already claimed",
			"definition_id", def.ID, "due", def.NextGeneration)
		metrics.DefinitionProcessed("skipped")

		return outcomeSkipped
	}

	var inv *invoice.Invoice

	err = s.withTimeout(ctx, func(c context.Context) error {
		var ierr error
		inv, ierr = s.invoices.CreateFromDefinition(c, def, words.ToWords(def.Amount))
		return ierr
	})
	if err != nil {
		slog.Error("creating invoice",
			"definition_id", def.ID, "property_id", def.PropertyID,
			"due", def.NextGeneration, "error", err)

		// Give the claim back so the same occurrence is retried next run.
		if rerr := s.withTimeout(ctx, func(c context.Context) error {
			return s.repo.ResetNextDate(c, def.ID, def.NextGeneration)
		}); rerr != nil {
			slog.Error("restoring schedule after failed invoice",
				"definition_id", def.ID, "error", rerr)
		}

		metrics.DefinitionProcessed("failed")

		return outcomeFailed
	}

	metrics.InvoiceGenerated(string(def.SubjectKind))

	title := fmt.Sprintf("Invoice %s generated", inv.Number)
	message := fmt.Sprintf("Recurring %s charge of %s %s generated for property %s.",
		def.SubjectKind, def.Amount, def.Currency, def.PropertyID)

	if nerr := s.withTimeout(ctx, func(c context.Context) error {
		return s.notifier.Emit(c, NotificationKindInvoice, title, message, inv.ID)
	}); nerr != nil {
		// The reschedule is already committed; notification is best-effort.
		slog.Warn("emitting billing notification",
			"definition_id", def.ID, "invoice_id", inv.ID, "error", nerr)
	}

	metrics.DefinitionProcessed("generated")

	return outcomeGenerated
}

// nextDate recomputes the schedule anchored at now, not at the prior due
// date: a scheduler outage spanning several periods collapses into a
// single catch-up generation.
func (s *Scheduler) nextDate(def *Definition, now time.Time) (time.Time, error) {
	if def.GenerationDay < 1 || def.GenerationDay > 31 {
		return time.Time{}, fmt.Errorf("generation day %d out of range", def.GenerationDay)
	}

	periodicity, err := recurrence.Parse(string(def.Periodicity))
	if err != nil {
		return time.Time{}, err
	}

	return recurrence.NextOccurrence(periodicity, def.GenerationDay, now), nil
}

// withTimeout bounds a single repository call so one stuck definition
// cannot stall the whole run.
func (s *Scheduler) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return fn(callCtx)
}
