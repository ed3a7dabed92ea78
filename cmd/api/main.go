package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmcortes/habita/internal/billing"
	billingStore "github.com/jmcortes/habita/internal/billing/store"
	"github.com/jmcortes/habita/internal/config"
	"github.com/jmcortes/habita/internal/database"
	"github.com/jmcortes/habita/internal/expense"
	expenseStore "github.com/jmcortes/habita/internal/expense/store"
	"github.com/jmcortes/habita/internal/export"
	habitaHttp "github.com/jmcortes/habita/internal/http"
	billingHandler "github.com/jmcortes/habita/internal/http/billing"
	expenseHandler "github.com/jmcortes/habita/internal/http/expense"
	exportHandler "github.com/jmcortes/habita/internal/http/export"
	importHandler "github.com/jmcortes/habita/internal/http/importcsv"
	invoiceHandler "github.com/jmcortes/habita/internal/http/invoice"
	ledgerHandler "github.com/jmcortes/habita/internal/http/ledger"
	matchingHandler "github.com/jmcortes/habita/internal/http/matching"
	notificationHandler "github.com/jmcortes/habita/internal/http/notification"
	paymentHandler "github.com/jmcortes/habita/internal/http/payment"
	"github.com/jmcortes/habita/internal/importer"
	"github.com/jmcortes/habita/internal/invoice"
	invoiceStore "github.com/jmcortes/habita/internal/invoice/store"
	"github.com/jmcortes/habita/internal/ledger"
	"github.com/jmcortes/habita/internal/matching"
	matchingStore "github.com/jmcortes/habita/internal/matching/store"
	"github.com/jmcortes/habita/internal/metrics"
	"github.com/jmcortes/habita/internal/notification"
	notificationStore "github.com/jmcortes/habita/internal/notification/store"
	"github.com/jmcortes/habita/internal/payment"
	paymentStore "github.com/jmcortes/habita/internal/payment/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	metrics.Init()

	invoices := invoiceStore.New(db)

	sink := notification.Multi{notificationStore.New(db)}
	if cfg.Notify.WebhookURL != "" {
		sink = append(sink, notification.NewWebhook(cfg.Notify.WebhookURL))
	}

	var (
		billingService  = billing.NewService(billingStore.New(db))
		scheduler       = billing.NewScheduler(billingStore.New(db), invoices, sink, cfg.Scheduler.Workers, cfg.Scheduler.RepoTimeout)
		paymentService  = payment.NewService(paymentStore.New(db))
		expenseService  = expense.NewService(expenseStore.New(db))
		invoiceService  = invoice.NewService(invoices)
		ledgerService   = ledger.NewService(paymentStore.New(db), expenseStore.New(db), cfg.Scheduler.RepoTimeout)
		matchingService = matching.NewService(matchingStore.New(db))
		importService   = importer.NewService()
		exportService   = export.NewService(ledgerService)
	)

	router := habitaHttp.New(habitaHttp.Handlers{
		Billing:       billingHandler.NewHandler(billingService, scheduler),
		Payments:      paymentHandler.NewHandler(paymentService),
		Expenses:      expenseHandler.NewHandler(expenseService),
		Invoices:      invoiceHandler.NewHandler(invoiceService),
		Ledger:        ledgerHandler.NewHandler(ledgerService),
		Import:        importHandler.NewHandler(importService, paymentService, matchingService),
		Matching:      matchingHandler.NewHandler(matchingService),
		Export:        exportHandler.NewHandler(exportService),
		Notifications: notificationHandler.NewHandler(notificationStore.New(db)),
	})

	go runScheduler(ctx, scheduler, cfg.Scheduler.Interval)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// runScheduler drives billing generation on a fixed interval until the
// context is cancelled. The first pass runs immediately so a restart
// never delays overdue definitions by a full interval.
func runScheduler(ctx context.Context, scheduler *billing.Scheduler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		result, err := scheduler.Run(ctx, time.Now().UTC())
		if err != nil {
			slog.Error("billing run failed", "error", err)
			return
		}

		slog.Info("billing run finished",
			"due", result.Due,
			"generated", result.Generated,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}

	run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
