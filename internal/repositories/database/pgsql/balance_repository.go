package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxBalanceRepository aggregates journal entries for the balance engine.
type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(pool *pgxpool.Pool) *PgxBalanceRepository {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceReader = (*PgxBalanceRepository)(nil)

// windowClause renders the inclusive date bounds of window against t.transaction_date,
// appending its parameters to args.
func windowClause(window domain.DateRange, args []any) (string, []any) {
	var conditions []string
	if window.From != nil {
		args = append(args, *window.From)
		conditions = append(conditions, fmt.Sprintf("t.transaction_date >= $%d", len(args)))
	}
	if window.To != nil {
		args = append(args, *window.To)
		conditions = append(conditions, fmt.Sprintf("t.transaction_date <= $%d", len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

// SumEntriesByAccount returns debit and credit totals per account within the window.
func (r *PgxBalanceRepository) SumEntriesByAccount(ctx context.Context, window domain.DateRange) (map[string]domain.EntryTotals, error) {
	where, args := windowClause(window, nil)
	query := `
		SELECT je.account_id, COALESCE(SUM(je.debit), 0), COALESCE(SUM(je.credit), 0)
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id`
	if where != "" {
		query += " WHERE " + where
	}
	query += " GROUP BY je.account_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("sum entries by account", err)
	}
	defer rows.Close()

	sums := make(map[string]domain.EntryTotals)
	for rows.Next() {
		var (
			accountID string
			totals    domain.EntryTotals
		)
		if err := rows.Scan(&accountID, &totals.Debit, &totals.Credit); err != nil {
			return nil, apperrors.NewStorageError("scan entry totals", err)
		}
		sums[accountID] = totals
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate entry totals", err)
	}
	return sums, nil
}

// SumEntriesForAccount returns the debit and credit totals of one account within the window.
func (r *PgxBalanceRepository) SumEntriesForAccount(ctx context.Context, accountID string, window domain.DateRange) (domain.EntryTotals, error) {
	args := []any{accountID}
	where, args := windowClause(window, args)
	query := `
		SELECT COALESCE(SUM(je.debit), 0), COALESCE(SUM(je.credit), 0)
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE je.account_id = $1`
	if where != "" {
		query += " AND " + where
	}

	totals := domain.EntryTotals{Debit: decimal.Zero, Credit: decimal.Zero}
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&totals.Debit, &totals.Credit); err != nil {
		return domain.EntryTotals{}, apperrors.NewStorageError("sum entries for account "+accountID, err)
	}
	return totals, nil
}

// ListAccountEntries returns the entries of one account in posting order.
func (r *PgxBalanceRepository) ListAccountEntries(ctx context.Context, accountID string, window domain.DateRange) ([]domain.StatementLine, error) {
	args := []any{accountID}
	where, args := windowClause(window, args)
	query := `
		SELECT t.transaction_date, t.transaction_id, t.transaction_type, t.description, t.reference,
		       je.entry_id, je.line_no, je.debit, je.credit, t.created_at
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE je.account_id = $1`
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY t.transaction_date ASC, t.created_at ASC, t.transaction_id ASC, je.line_no ASC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("list account entries "+accountID, err)
	}
	defer rows.Close()

	lines := []domain.StatementLine{}
	for rows.Next() {
		var line domain.StatementLine
		if err := rows.Scan(&line.Date, &line.TransactionID, &line.TransactionType, &line.Description, &line.Reference,
			&line.EntryID, &line.LineNo, &line.Debit, &line.Credit, &line.CreatedAt); err != nil {
			return nil, apperrors.NewStorageError("scan account entry", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate account entries", err)
	}
	return lines, nil
}
