package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// InvoicePostingSvc is the ledger surface used by the invoicing and purchasing collaborators
type InvoicePostingSvc interface {
	// RecordInvoiceStatusChange posts an INVOICE_PAYMENT when the invoice first becomes PAID.
	// It returns a nil transaction when the transition does not settle the invoice.
	RecordInvoiceStatusChange(ctx context.Context, invoiceID string, req dto.InvoiceStatusChangeRequest, userID string) (*domain.Transaction, error)

	// RecordPurchasePayment posts a PURCHASE_PAYMENT for a settled purchase.
	RecordPurchasePayment(ctx context.Context, purchaseID string, req dto.PurchasePaymentRequest, userID string) (*domain.Transaction, error)

	// ReceivableBalance returns the current balance of an account for invoice screens.
	ReceivableBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)
}
