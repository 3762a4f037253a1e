package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one debit/credit line of a new transaction.
type CreateEntryRequest struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"decimalgte0"`
	Credit      decimal.Decimal `json:"credit" binding:"decimalgte0"`
	Description string          `json:"description"`
}

// CreateTransactionRequest defines the data needed to post a transaction.
type CreateTransactionRequest struct {
	Date        string                 `json:"date" binding:"required,ledgerdate"`
	Type        domain.TransactionType `json:"type" binding:"required,oneof=JOURNAL_ENTRY INVOICE_PAYMENT PURCHASE_PAYMENT EXPENSE INCOME BANK_TRANSFER"`
	Description string                 `json:"description" binding:"required,max=500"`
	Reference   string                 `json:"reference" binding:"max=100"`
	InvoiceID   string                 `json:"invoiceId"`
	PurchaseID  string                 `json:"purchaseId"`
	Entries     []CreateEntryRequest   `json:"entries" binding:"dive"`
}

// TransferRequest moves money between two asset accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId" binding:"required"`
	ToAccountID   string          `json:"toAccountId" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"decimalgt0"`
	Description   string          `json:"description" binding:"max=500"`
	Reference     string          `json:"reference" binding:"max=100"`
	Date          string          `json:"date" binding:"required,ledgerdate"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type      string `form:"type" binding:"omitempty,oneof=JOURNAL_ENTRY INVOICE_PAYMENT PURCHASE_PAYMENT EXPENSE INCOME BANK_TRANSFER"`
	StartDate string `form:"startDate" binding:"omitempty,ledgerdate"`
	EndDate   string `form:"endDate" binding:"omitempty,ledgerdate"`
	AccountID string `form:"accountId"`
	Search    string `form:"search"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ToFilter converts the query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		AccountID: p.AccountID,
		Search:    p.Search,
		Limit:     p.Limit,
		NextToken: p.NextToken,
	}
	if p.Type != "" {
		t := domain.TransactionType(p.Type)
		filter.Type = &t
	}
	from, err := ParseDateBound(p.StartDate, false)
	if err != nil {
		return filter, err
	}
	to, err := ParseDateBound(p.EndDate, true)
	if err != nil {
		return filter, err
	}
	filter.Range = domain.DateRange{From: from, To: to}
	return filter, nil
}

// EntryResponse is a journal entry as returned by the API.
type EntryResponse struct {
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	AccountType string          `json:"accountType,omitempty"`
	LineNo      int             `json:"lineNo"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Date          string          `json:"date"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceID     string          `json:"invoiceID,omitempty"`
	PurchaseID    string          `json:"purchaseID,omitempty"`
	Entries       []EntryResponse `json:"entries"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(txn.Entries))
	for i, e := range txn.Entries {
		entries[i] = EntryResponse{
			EntryID:     e.EntryID,
			AccountID:   e.AccountID,
			LineNo:      e.LineNo,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
		}
		if e.Account != nil {
			entries[i].AccountCode = e.Account.Code
			entries[i].AccountName = e.Account.Name
			entries[i].AccountType = string(e.Account.AccountType)
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Date:          txn.Date.Format(DateLayout),
		Type:          string(txn.Type),
		Description:   txn.Description,
		Reference:     txn.Reference,
		Amount:        txn.Amount,
		InvoiceID:     txn.InvoiceID,
		PurchaseID:    txn.PurchaseID,
		Entries:       entries,
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
	}
}

// ToListTransactionsResponse converts a page of transactions to its DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		res.Transactions[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
