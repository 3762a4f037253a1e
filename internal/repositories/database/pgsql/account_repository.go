package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description,
	created_at, created_by, last_updated_at, last_updated_by, balance`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// scanAccount reads one row selected with accountColumns.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Balance,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Balance,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, m.Code)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, m.ParentAccountID.String)
		}
		return apperrors.NewStorageError("save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find account "+accountID, err)
	}
	return &account, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find account by code "+code, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewStorageError("find accounts by ids", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan account", err)
		}
		accounts[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate accounts", err)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts matching the filter ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.ParentID != nil {
		if *filter.ParentID == "" {
			conditions = append(conditions, "parent_account_id IS NULL")
		} else {
			args = append(args, *filter.ParentID)
			conditions = append(conditions, fmt.Sprintf("parent_account_id = $%d", len(args)))
		}
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code ASC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("list accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate accounts", err)
	}
	return accounts, nil
}

// HasChildAccounts reports whether any account names accountID as its parent.
func (r *PgxAccountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE parent_account_id = $1);`, accountID)
}

// HasJournalEntries reports whether any journal entry references accountID.
func (r *PgxAccountRepository) HasJournalEntries(ctx context.Context, accountID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE account_id = $1);`, accountID)
}

func (r *PgxAccountRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&found); err != nil {
		return false, apperrors.NewStorageError("exists query", err)
	}
	return found, nil
}

// UpdateAccount updates the mutable details of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.Name,
		account.Description,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.AccountID,
	)
	if err != nil {
		return apperrors.NewStorageError("update account "+account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account. The foreign keys on parent_account_id and
// journal_entries.account_id reject the delete while the account is referenced.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var hasChildren, hasEntries bool
	err = tx.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM accounts WHERE parent_account_id = $1),
			EXISTS (SELECT 1 FROM journal_entries WHERE account_id = $1);
	`, accountID).Scan(&hasChildren, &hasEntries)
	if err != nil {
		return apperrors.NewStorageError("check account references "+accountID, err)
	}
	if hasChildren {
		return fmt.Errorf("%w: %s", apperrors.ErrHasChildren, accountID)
	}
	if hasEntries {
		return fmt.Errorf("%w: %s", apperrors.ErrHasTransactions, accountID)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return deleteAccountError(err, accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// lockAccountsForUpdate locks the given accounts inside tx in id order so concurrent
// writers touching overlapping accounts acquire locks in the same sequence.
func lockAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewStorageError("lock accounts", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan locked account", err)
		}
		locked[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate locked accounts", err)
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return locked, nil
}

// deleteAccountError maps a failed DELETE onto the reference that blocked it.
// A child or entry inserted after the EXISTS checks surfaces here as a FK violation.
func deleteAccountError(err error, accountID string) error {
	if pgErrorCode(err) == pgForeignKeyViolation {
		switch pgConstraint(err) {
		case fkAccountParent:
			return fmt.Errorf("%w: %s", apperrors.ErrHasChildren, accountID)
		case fkEntryAccount:
			return fmt.Errorf("%w: %s", apperrors.ErrHasTransactions, accountID)
		}
	}
	return apperrors.NewStorageError("delete account "+accountID, err)
}
