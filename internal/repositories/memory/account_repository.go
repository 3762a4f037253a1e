package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[account.Code]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
	}
	if account.ParentAccountID != "" {
		if _, ok := s.accounts[account.ParentAccountID]; !ok {
			return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, account.ParentAccountID)
		}
	}
	s.accounts[account.AccountID] = account
	s.codes[account.Code] = account.AccountID
	return nil
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	account := s.accounts[id]
	return &account, nil
}

func (r *accountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := s.accounts[id]; ok {
			result[id] = account
		}
	}
	return result, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.sortedAccountsLocked() {
		if filter.Type != nil && a.AccountType != *filter.Type {
			continue
		}
		if filter.ParentID != nil && a.ParentAccountID != *filter.ParentID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Code), search) && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (r *accountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasChildrenLocked(accountID), nil
}

func (r *accountRepository) HasJournalEntries(ctx context.Context, accountID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasEntriesLocked(accountID), nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Name = account.Name
	existing.Description = account.Description
	existing.LastUpdatedAt = account.LastUpdatedAt
	existing.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = existing
	return nil
}

func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if s.hasChildrenLocked(accountID) {
		return fmt.Errorf("%w: %s", apperrors.ErrHasChildren, accountID)
	}
	if s.hasEntriesLocked(accountID) {
		return fmt.Errorf("%w: %s", apperrors.ErrHasTransactions, accountID)
	}
	delete(s.accounts, accountID)
	delete(s.codes, account.Code)
	return nil
}

func (s *Store) hasChildrenLocked(accountID string) bool {
	for _, a := range s.accounts {
		if a.ParentAccountID == accountID {
			return true
		}
	}
	return false
}

func (s *Store) hasEntriesLocked(accountID string) bool {
	for _, txn := range s.txns {
		for _, e := range txn.Entries {
			if e.AccountID == accountID {
				return true
			}
		}
	}
	return false
}
