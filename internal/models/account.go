package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// AccountType mirrors the account_type column.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID       string         `db:"account_id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	AccountType     AccountType    `db:"account_type"`
	ParentAccountID sql.NullString `db:"parent_account_id"` // NULL for root accounts
	Description     string         `db:"description"`
	AuditFields
	Balance decimal.Decimal `db:"balance"` // Running Σ(debit − credit)
}
