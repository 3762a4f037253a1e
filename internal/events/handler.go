package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// TaskHandler processes ledger tasks by re-verifying the balances they touched.
type TaskHandler struct {
	integrity portssvc.IntegritySvc
	logger    *slog.Logger
}

// NewTaskHandler creates the worker-side handler for ledger tasks.
func NewTaskHandler(integrity portssvc.IntegritySvc, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{integrity: integrity, logger: logger}
}

// HandleTransactionEvent verifies the accounts of a committed or deleted transaction.
func (h *TaskHandler) HandleTransactionEvent(ctx context.Context, t *asynq.Task) error {
	var event domain.TransactionEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		h.logger.Warn("Dropping undecodable ledger task",
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return fmt.Errorf("decode %s payload: %w", t.Type(), asynq.SkipRetry)
	}

	logger := h.logger.With(
		slog.String("task_type", t.Type()),
		slog.String("transaction_id", event.TransactionID),
		slog.String("kind", string(event.Kind)),
	)
	if event.InvoiceID != "" {
		// Inventory listens for settled invoices on this line.
		logger.Info("Invoice-linked ledger event", slog.String("invoice_id", event.InvoiceID))
	}

	accountIDs := event.AccountIDs()
	if len(accountIDs) == 0 {
		return nil
	}
	report, err := h.integrity.VerifyBalances(middleware.WithLogger(ctx, logger), accountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// An account was removed after the event was queued.
			logger.Warn("Skipping verification of removed account", slog.String("error", err.Error()))
			return fmt.Errorf("verify balances: %v: %w", err, asynq.SkipRetry)
		}
		logger.Error("Balance verification failed", slog.String("error", err.Error()))
		return err
	}
	h.logReport(logger, report)
	return nil
}

// HandleIntegritySweep verifies every account of the chart.
func (h *TaskHandler) HandleIntegritySweep(ctx context.Context, t *asynq.Task) error {
	var payload IntegritySweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", t.Type(), asynq.SkipRetry)
		}
	}
	logger := h.logger.With(slog.String("task_type", t.Type()), slog.String("reason", payload.Reason))
	logger.Info("Starting integrity sweep")

	report, err := h.integrity.VerifyAllBalances(middleware.WithLogger(ctx, logger))
	if err != nil {
		logger.Error("Integrity sweep failed", slog.String("error", err.Error()))
		return err
	}
	h.logReport(logger, report)
	return nil
}

func (h *TaskHandler) logReport(logger *slog.Logger, report *domain.IntegrityReport) {
	for _, d := range report.Discrepancies {
		logger.Warn("Cached balance differs from journal",
			slog.String("account_id", d.AccountID),
			slog.String("code", d.Code),
			slog.String("cached", d.Cached.String()),
			slog.String("replayed", d.Replayed.String()),
			slog.String("difference", d.Difference.String()))
	}
	logger.Info("Balances verified",
		slog.Int("accounts_checked", report.AccountsChecked),
		slog.Int("discrepancies", len(report.Discrepancies)))
}
