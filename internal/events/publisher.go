package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// Enqueuer is the part of *asynq.Client used by the publisher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher turns ledger events into asynq tasks on QueueLedger.
type Publisher struct {
	client   Enqueuer
	maxRetry int
}

// NewPublisher creates a publisher backed by client.
func NewPublisher(client Enqueuer) *Publisher {
	return &Publisher{client: client, maxRetry: 5}
}

// OnTransactionEvent implements portssvc.TransactionObserver.
func (p *Publisher) OnTransactionEvent(ctx context.Context, event domain.TransactionEvent) error {
	task, err := NewTransactionEventTask(event)
	if err != nil {
		return fmt.Errorf("build ledger task: %w", err)
	}
	info, err := p.client.EnqueueContext(ctx, task, asynq.Queue(QueueLedger), asynq.MaxRetry(p.maxRetry))
	if err != nil {
		return fmt.Errorf("enqueue %s for transaction %s: %w", task.Type(), event.TransactionID, err)
	}
	attrs := []any{
		slog.String("task_type", task.Type()),
		slog.String("transaction_id", event.TransactionID),
	}
	if info != nil {
		attrs = append(attrs, slog.String("task_id", info.ID))
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Ledger event enqueued", attrs...)
	return nil
}

var _ portssvc.TransactionObserver = (*Publisher)(nil)
