package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceStatusChangeRequest reports an invoice status transition to the ledger.
type InvoiceStatusChangeRequest struct {
	Number              string               `json:"number"`
	OldStatus           domain.InvoiceStatus `json:"oldStatus" binding:"required,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
	NewStatus           domain.InvoiceStatus `json:"newStatus" binding:"required,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
	Amount              decimal.Decimal      `json:"amount" binding:"decimalgte0"`
	Date                string               `json:"date" binding:"required,ledgerdate"`
	CashAccountID       string               `json:"cashAccountId" binding:"required"`
	ReceivableAccountID string               `json:"receivableAccountId" binding:"required"`
}

// PurchasePaymentRequest records the settlement of a purchase.
type PurchasePaymentRequest struct {
	Number           string          `json:"number"`
	Amount           decimal.Decimal `json:"amount" binding:"decimalgt0"`
	Date             string          `json:"date" binding:"required,ledgerdate"`
	CashAccountID    string          `json:"cashAccountId" binding:"required"`
	PayableAccountID string          `json:"payableAccountId" binding:"required"`
}

// PostingResponse tells the caller whether a ledger transaction was posted.
type PostingResponse struct {
	Posted      bool                 `json:"posted"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ToPostingResponse converts an optional posted transaction to its DTO.
func ToPostingResponse(txn *domain.Transaction) PostingResponse {
	if txn == nil {
		return PostingResponse{Posted: false}
	}
	res := ToTransactionResponse(txn)
	return PostingResponse{Posted: true, Transaction: &res}
}
