// Package events carries post-commit ledger events out of the journal: an in-process
// fan-out to observers and an asynq transport to the background worker.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

const (
	// QueueLedger is the asynq queue used by every ledger task.
	QueueLedger = "ledger"
	// TaskTransactionCommitted is enqueued after a transaction is committed.
	TaskTransactionCommitted = "ledger:transaction.committed"
	// TaskTransactionDeleted is enqueued after a transaction is deleted.
	TaskTransactionDeleted = "ledger:transaction.deleted"
	// TaskIntegritySweep verifies every account balance against the journal.
	TaskIntegritySweep = "ledger:integrity.sweep"
)

// IntegritySweepPayload describes a scheduled full verification.
type IntegritySweepPayload struct {
	Reason string `json:"reason"`
}

// taskTypeFor maps an event kind to its task type.
func taskTypeFor(kind domain.TransactionEventKind) (string, error) {
	switch kind {
	case domain.TransactionCommitted:
		return TaskTransactionCommitted, nil
	case domain.TransactionDeleted:
		return TaskTransactionDeleted, nil
	}
	return "", fmt.Errorf("unknown transaction event kind %q", kind)
}

// NewTransactionEventTask constructs the asynq task carrying event.
func NewTransactionEventTask(event domain.TransactionEvent) (*asynq.Task, error) {
	taskType, err := taskTypeFor(event.Kind)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data), nil
}

// NewIntegritySweepTask constructs the scheduled sweep task.
func NewIntegritySweepTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(IntegritySweepPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegritySweep, data), nil
}
