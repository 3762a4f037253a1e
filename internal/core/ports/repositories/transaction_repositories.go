package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transactions and their entries
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its entries in line order,
	// each entry carrying the resolved account summary.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions matching the filter ordered by date descending.
	// The returned token is non-nil when another page exists.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines the atomic write operations of the journal.
type TransactionWriter interface {
	// SaveTransaction persists txn with all of its entries and adds balanceChanges
	// to the affected accounts' running balances, as a single unit of work.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeleteTransaction removes the transaction and its entries and adds balanceChanges
	// (the inverse of the original effect) to the affected accounts, as a single unit of work.
	// Returns apperrors.ErrNotFound if the transaction no longer exists.
	DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
