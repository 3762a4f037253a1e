package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// invoicePostingService turns invoice and purchase settlements into ledger transactions.
type invoicePostingService struct {
	BaseService
	journal portssvc.JournalWriterSvc
	balance portssvc.BalanceQuerySvc
}

// NewInvoicePostingService creates the ledger surface used by the invoicing collaborator.
func NewInvoicePostingService(journal portssvc.JournalWriterSvc, balance portssvc.BalanceQuerySvc) portssvc.InvoicePostingSvc {
	return &invoicePostingService{journal: journal, balance: balance}
}

var _ portssvc.InvoicePostingSvc = (*invoicePostingService)(nil)

func (s *invoicePostingService) RecordInvoiceStatusChange(ctx context.Context, invoiceID string, req dto.InvoiceStatusChangeRequest, userID string) (*domain.Transaction, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, fmt.Errorf("%w: invoice id is required", apperrors.ErrValidation)
	}
	if !req.OldStatus.IsValid() || !req.NewStatus.IsValid() {
		return nil, fmt.Errorf("%w: invalid invoice status transition %q -> %q", apperrors.ErrValidation, req.OldStatus, req.NewStatus)
	}

	if !domain.ShouldPostPayment(req.OldStatus, req.NewStatus) {
		s.LogDebug(ctx, "Invoice status change does not settle the invoice",
			slog.String("invoice_id", invoiceID),
			slog.String("old_status", string(req.OldStatus)),
			slog.String("new_status", string(req.NewStatus)))
		return nil, nil
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: paid invoice amount must be positive", apperrors.ErrValidation)
	}

	label := invoiceLabel(req.Number, invoiceID)
	txn, err := s.journal.PostTransaction(ctx, dto.CreateTransactionRequest{
		Date:        req.Date,
		Type:        domain.InvoicePaymentTxn,
		Description: "Payment received for invoice " + label,
		Reference:   req.Number,
		InvoiceID:   invoiceID,
		Entries: []dto.CreateEntryRequest{
			{AccountID: req.CashAccountID, Debit: req.Amount, Credit: decimal.Zero},
			{AccountID: req.ReceivableAccountID, Debit: decimal.Zero, Credit: req.Amount},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invoice payment posted",
		slog.String("invoice_id", invoiceID),
		slog.String("transaction_id", txn.TransactionID))
	return txn, nil
}

func (s *invoicePostingService) RecordPurchasePayment(ctx context.Context, purchaseID string, req dto.PurchasePaymentRequest, userID string) (*domain.Transaction, error) {
	if strings.TrimSpace(purchaseID) == "" {
		return nil, fmt.Errorf("%w: purchase id is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: purchase payment amount must be positive", apperrors.ErrValidation)
	}

	label := invoiceLabel(req.Number, purchaseID)
	txn, err := s.journal.PostTransaction(ctx, dto.CreateTransactionRequest{
		Date:        req.Date,
		Type:        domain.PurchasePaymentTxn,
		Description: "Payment made for purchase " + label,
		Reference:   req.Number,
		PurchaseID:  purchaseID,
		Entries: []dto.CreateEntryRequest{
			{AccountID: req.PayableAccountID, Debit: req.Amount, Credit: decimal.Zero},
			{AccountID: req.CashAccountID, Debit: decimal.Zero, Credit: req.Amount},
		},
	}, userID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Purchase payment posted",
		slog.String("purchase_id", purchaseID),
		slog.String("transaction_id", txn.TransactionID))
	return txn, nil
}

func (s *invoicePostingService) ReceivableBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	return s.balance.AccountBalance(ctx, accountID, domain.DateRange{})
}

func invoiceLabel(number, id string) string {
	if number != "" {
		return number
	}
	return id
}
