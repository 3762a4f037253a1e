package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the transaction_type column.
type TransactionType string

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	TransactionType TransactionType `db:"transaction_type"`
	Description     string          `db:"description"`
	Reference       string          `db:"reference"`
	Amount          decimal.Decimal `db:"amount"`
	InvoiceID       sql.NullString  `db:"invoice_id"`
	PurchaseID      sql.NullString  `db:"purchase_id"`
	AuditFields
}

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	LineNo        int             `db:"line_no"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	Description   string          `db:"description"`
}
