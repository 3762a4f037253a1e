package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type balanceRepository struct {
	store *Store
}

var _ portsrepo.BalanceReader = (*balanceRepository)(nil)

func (r *balanceRepository) SumEntriesByAccount(ctx context.Context, window domain.DateRange) (map[string]domain.EntryTotals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]domain.EntryTotals)
	for _, txn := range s.txns {
		if !window.Contains(txn.Date) {
			continue
		}
		for _, e := range txn.Entries {
			t, ok := sums[e.AccountID]
			if !ok {
				t = domain.EntryTotals{Debit: decimal.Zero, Credit: decimal.Zero}
			}
			t.Debit = t.Debit.Add(e.Debit)
			t.Credit = t.Credit.Add(e.Credit)
			sums[e.AccountID] = t
		}
	}
	return sums, nil
}

func (r *balanceRepository) SumEntriesForAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.EntryTotals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := domain.EntryTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, txn := range s.txns {
		if !window.Contains(txn.Date) {
			continue
		}
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			totals.Debit = totals.Debit.Add(e.Debit)
			totals.Credit = totals.Credit.Add(e.Credit)
		}
	}
	return totals, nil
}

func (r *balanceRepository) ListAccountEntries(ctx context.Context, accountID string, window domain.DateRange) ([]domain.StatementLine, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := []domain.StatementLine{}
	for _, txn := range s.txns {
		if !window.Contains(txn.Date) {
			continue
		}
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			lines = append(lines, domain.StatementLine{
				Date:            txn.Date,
				TransactionID:   txn.TransactionID,
				TransactionType: txn.Type,
				Description:     txn.Description,
				Reference:       txn.Reference,
				EntryID:         e.EntryID,
				LineNo:          e.LineNo,
				Debit:           e.Debit,
				Credit:          e.Credit,
				CreatedAt:       txn.CreatedAt,
			})
		}
	}

	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.TransactionID != b.TransactionID {
			return a.TransactionID < b.TransactionID
		}
		return a.LineNo < b.LineNo
	})
	return lines, nil
}
