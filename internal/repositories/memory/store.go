// Package memory provides an in-process implementation of the ledger storage ports.
// All data lives behind a single RWMutex: writes take the write lock for their whole
// unit of work, reads take the read lock.
package memory

import (
	"sort"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Store holds the chart of accounts and the journal.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	codes    map[string]string // code -> account id
	txns     map[string]domain.Transaction
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		codes:    make(map[string]string),
		txns:     make(map[string]domain.Transaction),
	}
}

// NewRepositoryProvider exposes the store through the storage ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{store: store},
		TransactionRepo: &transactionRepository{store: store},
		BalanceRepo:     &balanceRepository{store: store},
	}
}

// summaryLocked returns the account summary for id. Caller holds the lock.
func (s *Store) summaryLocked(id string) *domain.AccountSummary {
	account, ok := s.accounts[id]
	if !ok {
		return nil
	}
	summary := account.Summary()
	return &summary
}

// copyTransactionLocked returns a deep copy of txn with resolved account summaries.
func (s *Store) copyTransactionLocked(txn domain.Transaction) domain.Transaction {
	entries := make([]domain.JournalEntry, len(txn.Entries))
	for i, e := range txn.Entries {
		e.Account = s.summaryLocked(e.AccountID)
		entries[i] = e
	}
	txn.Entries = entries
	return txn
}

// sortedAccountsLocked returns all accounts ordered by code.
func (s *Store) sortedAccountsLocked() []domain.Account {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts
}
