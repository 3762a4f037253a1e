package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// JournalReaderSvc defines read operations for transactions
type JournalReaderSvc interface {
	// GetTransaction retrieves a transaction with its entries.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions ordered by date descending.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// JournalWriterSvc defines the operations that commit or reverse transactions
type JournalWriterSvc interface {
	// PostTransaction validates and atomically commits a balanced transaction.
	PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// PostBankTransfer commits a BANK_TRANSFER between two asset accounts.
	PostBankTransfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction reverses the balance effects of a transaction and removes it.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

// TransactionObserver is notified after a transaction has been committed or deleted.
// Returned errors are logged by the journal and never undo the change.
type TransactionObserver interface {
	OnTransactionEvent(ctx context.Context, event domain.TransactionEvent) error
}

// TransactionObserverFunc adapts a function to the TransactionObserver interface.
type TransactionObserverFunc func(ctx context.Context, event domain.TransactionEvent) error

// OnTransactionEvent calls f(ctx, event).
func (f TransactionObserverFunc) OnTransactionEvent(ctx context.Context, event domain.TransactionEvent) error {
	return f(ctx, event)
}
