package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, ordered by code ascending.
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)

	// HasChildAccounts reports whether any account names accountID as its parent.
	HasChildAccounts(ctx context.Context, accountID string) (bool, error)

	// HasJournalEntries reports whether any journal entry references accountID.
	HasJournalEntries(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicateCode if the code is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates the mutable details (name, description) of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Fails with apperrors.ErrHasChildren or
	// apperrors.ErrHasTransactions when the account is still referenced.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
