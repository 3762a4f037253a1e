package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `t.transaction_id, t.transaction_date, t.transaction_type, t.description, t.reference,
	t.amount, t.invoice_id, t.purchase_id, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions and journal entries.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionDate,
		&m.TransactionType,
		&m.Description,
		&m.Reference,
		&m.Amount,
		&m.InvoiceID,
		&m.PurchaseID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

// sortedKeys returns the account ids of balanceChanges in lock order.
func sortedKeys(balanceChanges map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyBalanceChanges adds each delta to the locked accounts' running balance.
func applyBalanceChanges(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, audit domain.AuditFields) error {
	ids := sortedKeys(balanceChanges)
	if _, err := lockAccountsForUpdate(ctx, tx, ids); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`
			UPDATE accounts
			SET balance = balance + $1, last_updated_at = $2, last_updated_by = COALESCE(NULLIF($3, ''), last_updated_by)
			WHERE account_id = $4;
		`, balanceChanges[id], audit.LastUpdatedAt, audit.LastUpdatedBy, id)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewStorageError("update account balances", err)
	}
	return nil
}

// SaveTransaction inserts the transaction and its entries and applies the balance changes
// in a single database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock first so a missing account is reported before anything is written.
	if err := applyBalanceChanges(ctx, tx, balanceChanges, txn.AuditFields); err != nil {
		return err
	}

	m := mapping.ToModelTransaction(txn)
	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (
			transaction_id, transaction_date, transaction_type, description, reference, amount,
			invoice_id, purchase_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`,
		m.TransactionID,
		m.TransactionDate,
		m.TransactionType,
		m.Description,
		m.Reference,
		m.Amount,
		m.InvoiceID,
		m.PurchaseID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewStorageError("insert transaction "+txn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (entry_id, transaction_id, account_id, line_no, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, entry := range txn.Entries {
		e := mapping.ToModelJournalEntry(entry)
		batch.Queue(entryQuery, e.EntryID, e.TransactionID, e.AccountID, e.LineNo, e.Debit, e.Credit, e.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: transaction references an unknown account", apperrors.ErrNotFound)
		}
		return apperrors.NewStorageError("insert journal entries for "+txn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the transaction (entries cascade) and applies the inverse
// balance changes. The row delete runs first so a concurrent second delete finds nothing.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return apperrors.NewStorageError("delete transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	audit := domain.AuditFields{LastUpdatedAt: time.Now().UTC()}
	if err := applyBalanceChanges(ctx, tx, balanceChanges, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction and its entries.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find transaction "+transactionID, err)
	}

	entries, err := r.findEntries(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn.Entries = entries[transactionID]
	return &txn, nil
}

// findEntries loads the entries of the given transactions with resolved account data.
func (r *PgxTransactionRepository) findEntries(ctx context.Context, transactionIDs []string) (map[string][]domain.JournalEntry, error) {
	result := make(map[string][]domain.JournalEntry, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT je.entry_id, je.transaction_id, je.account_id, je.line_no, je.debit, je.credit, je.description,
		       a.code, a.name, a.account_type
		FROM journal_entries je
		JOIN accounts a ON a.account_id = je.account_id
		WHERE je.transaction_id = ANY($1)
		ORDER BY je.transaction_id, je.line_no;
	`, transactionIDs)
	if err != nil {
		return nil, apperrors.NewStorageError("find journal entries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m       models.JournalEntry
			summary domain.AccountSummary
		)
		if err := rows.Scan(&m.EntryID, &m.TransactionID, &m.AccountID, &m.LineNo, &m.Debit, &m.Credit, &m.Description,
			&summary.Code, &summary.Name, &summary.AccountType); err != nil {
			return nil, apperrors.NewStorageError("scan journal entry", err)
		}
		entry := mapping.ToDomainJournalEntry(m)
		summary.AccountID = m.AccountID
		entry.Account = &summary
		result[m.TransactionID] = append(result[m.TransactionID], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate journal entries", err)
	}
	return result, nil
}

// ListTransactions retrieves transactions ordered by date, creation time and id descending,
// using keyset pagination.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	var (
		conditions []string
		args       []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != nil {
		conditions = append(conditions, "t.transaction_type = "+next(string(*filter.Type)))
	}
	if filter.Range.From != nil {
		conditions = append(conditions, "t.transaction_date >= "+next(*filter.Range.From))
	}
	if filter.Range.To != nil {
		conditions = append(conditions, "t.transaction_date <= "+next(*filter.Range.To))
	}
	if filter.Search != "" {
		p := next("%" + filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(t.description ILIKE %s OR t.reference ILIKE %s)", p, p))
	}
	if filter.AccountID != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM journal_entries je WHERE je.transaction_id = t.transaction_id AND je.account_id = "+next(filter.AccountID)+")")
	}
	if filter.NextToken != "" {
		cursor, err := pagination.DecodeCursor(filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		conditions = append(conditions, fmt.Sprintf("(t.transaction_date, t.created_at, t.transaction_id) < (%s, %s, %s)",
			next(cursor.Date), next(cursor.CreatedAt), next(cursor.ID)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions t`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC"
	if filter.Limit > 0 {
		// Fetch one extra row to know whether another page exists.
		query += " LIMIT " + next(filter.Limit+1)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("list transactions", err)
	}
	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewStorageError("scan transaction", err)
		}
		txns = append(txns, txn)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewStorageError("iterate transactions", err)
	}

	var nextToken *string
	if filter.Limit > 0 && len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}

	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TransactionID
	}
	entries, err := r.findEntries(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for i := range txns {
		txns[i].Entries = entries[txns[i].TransactionID]
	}
	return txns, nextToken, nil
}
