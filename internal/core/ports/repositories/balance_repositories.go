package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BalanceReader aggregates committed journal entries for the balance engine.
// Windows filter on the owning transaction's date, bounds inclusive.
type BalanceReader interface {
	// SumEntriesByAccount returns debit and credit totals per account within the window.
	// Accounts without entries in the window are absent from the map.
	SumEntriesByAccount(ctx context.Context, window domain.DateRange) (map[string]domain.EntryTotals, error)

	// SumEntriesForAccount returns the debit and credit totals of a single account within the window.
	SumEntriesForAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.EntryTotals, error)

	// ListAccountEntries returns the entries of one account within the window ordered by
	// date, creation time and line number ascending. RunningBalance is left zero.
	ListAccountEntries(ctx context.Context, accountID string, window domain.DateRange) ([]domain.StatementLine, error)
}
