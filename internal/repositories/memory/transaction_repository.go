package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type transactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func (r *transactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txns[txn.TransactionID]; exists {
		return apperrors.NewStorageError("save transaction", fmt.Errorf("transaction %s already exists", txn.TransactionID))
	}
	for _, e := range txn.Entries {
		if _, ok := s.accounts[e.AccountID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.AccountID)
		}
	}
	if err := s.checkAccountsLocked(balanceChanges); err != nil {
		return err
	}

	stored := txn
	stored.Entries = make([]domain.JournalEntry, len(txn.Entries))
	for i, e := range txn.Entries {
		e.Account = nil
		stored.Entries[i] = e
	}
	s.txns[txn.TransactionID] = stored
	s.applyLocked(balanceChanges)
	return nil
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txns[transactionID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := s.checkAccountsLocked(balanceChanges); err != nil {
		return err
	}
	delete(s.txns, transactionID)
	s.applyLocked(balanceChanges)
	return nil
}

func (s *Store) checkAccountsLocked(balanceChanges map[string]decimal.Decimal) error {
	for id := range balanceChanges {
		if _, ok := s.accounts[id]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

func (s *Store) applyLocked(balanceChanges map[string]decimal.Decimal) {
	for id, delta := range balanceChanges {
		account := s.accounts[id]
		account.Balance = account.Balance.Add(delta)
		s.accounts[id] = account
	}
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := s.copyTransactionLocked(txn)
	return &result, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != "" {
		c, err := pagination.DecodeCursor(filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursor = &c
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]domain.Transaction, 0, len(s.txns))
	for _, txn := range s.txns {
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if !filter.Range.Contains(txn.Date) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(txn.Description), search) && !strings.Contains(strings.ToLower(txn.Reference), search) {
			continue
		}
		if filter.AccountID != "" && !touches(txn, filter.AccountID) {
			continue
		}
		if cursor != nil && !cursor.After(txn.Date, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		matched = append(matched, txn)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	var nextToken *string
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		last := matched[len(matched)-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}

	result := make([]domain.Transaction, len(matched))
	for i, txn := range matched {
		result[i] = s.copyTransactionLocked(txn)
	}
	return result, nextToken, nil
}

func touches(txn domain.Transaction, accountID string) bool {
	for _, e := range txn.Entries {
		if e.AccountID == accountID {
			return true
		}
	}
	return false
}
