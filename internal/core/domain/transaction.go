package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the business event behind a transaction.
type TransactionType string

const (
	JournalEntryTxn    TransactionType = "JOURNAL_ENTRY"
	InvoicePaymentTxn  TransactionType = "INVOICE_PAYMENT"
	PurchasePaymentTxn TransactionType = "PURCHASE_PAYMENT"
	ExpenseTxn         TransactionType = "EXPENSE"
	IncomeTxn          TransactionType = "INCOME"
	BankTransferTxn    TransactionType = "BANK_TRANSFER"
)

// IsValid reports whether t is one of the supported transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case JournalEntryTxn, InvoicePaymentTxn, PurchasePaymentTxn, ExpenseTxn, IncomeTxn, BankTransferTxn:
		return true
	}
	return false
}

// Transaction is a balanced financial event composed of journal entries.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"` // Sum of entry debits
	InvoiceID     string          `json:"invoiceID,omitempty"`
	PurchaseID    string          `json:"purchaseID,omitempty"`
	Entries       []JournalEntry  `json:"entries"`
	AuditFields
}

// JournalEntry is a single debit/credit line owned by a transaction.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	LineNo        int             `json:"lineNo"` // Insertion order within the transaction
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
	Account       *AccountSummary `json:"account,omitempty"` // Resolved on read
}

// Net returns debit − credit for the entry.
func (e JournalEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// Totals returns the sum of debits and the sum of credits over all entries.
func (t Transaction) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range t.Entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

// BalanceChanges returns the raw balance delta per account implied by the entries.
func (t Transaction) BalanceChanges() map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, len(t.Entries))
	for _, e := range t.Entries {
		current, ok := changes[e.AccountID]
		if !ok {
			current = decimal.Zero
		}
		changes[e.AccountID] = current.Add(e.Net())
	}
	return changes
}

// AccountIDs returns the distinct accounts referenced by the entries, in entry order.
func (t Transaction) AccountIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// TransactionFilter enumerates the recognized transaction listing options.
type TransactionFilter struct {
	Type      *TransactionType
	Range     DateRange
	AccountID string
	Search    string // Case-insensitive substring of description or reference
	Limit     int    // 0 means no limit
	NextToken string // Opaque keyset cursor from a previous page
}
