package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every supported account type in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the supported account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether balances of this type conventionally grow with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a node of the chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Unique, human-assigned, sortable
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // Fixed at creation
	ParentAccountID string      `json:"parentAccountID"` // Empty when the account is a root
	Description     string      `json:"description"`
	AuditFields
	// Balance is the running raw balance, Σ(debit − credit) over all committed entries.
	Balance decimal.Decimal `json:"balance"`
}

// AccountSummary is the account data resolved onto journal entries and report rows.
type AccountSummary struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
}

// Summary returns the identifying fields of the account.
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: a.AccountType,
	}
}

// AccountFilter enumerates the recognized account listing options.
type AccountFilter struct {
	Type     *AccountType
	Search   string // Case-insensitive substring of code or name
	ParentID *string
}
