package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

const defaultTransferDescription = "Bank transfer"

// journalService validates, commits and reverses transactions.
type journalService struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
	observers   []portssvc.TransactionObserver
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithObserver registers an observer notified after every commit and delete.
func WithObserver(observer portssvc.TransactionObserver) JournalServiceOption {
	return func(s *journalService) {
		if observer != nil {
			s.observers = append(s.observers, observer)
		}
	}
}

// WithJournalClock overrides the clock used for audit fields and events.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateEntries checks the shape of each entry before any account lookup.
func validateEntries(txnType domain.TransactionType, entries []dto.CreateEntryRequest) error {
	if len(entries) == 0 {
		return apperrors.ErrEmptyEntries
	}
	if !txnType.IsValid() {
		return fmt.Errorf("%w: invalid transaction type %q", apperrors.ErrValidation, txnType)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.AccountID) == "" {
			return fmt.Errorf("%w: entry %d has no account", apperrors.ErrValidation, i+1)
		}
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return fmt.Errorf("%w: entry %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if !accounting.HasAmountScale(e.Debit) || !accounting.HasAmountScale(e.Credit) {
			return fmt.Errorf("%w: entry %d has more than %d decimal places", apperrors.ErrValidation, i+1, accounting.AmountScale)
		}
	}
	return nil
}

// validateTransactionBalance checks that debits and credits agree within tolerance.
func validateTransactionBalance(txn domain.Transaction) error {
	debitsSum, creditsSum := txn.Totals()
	if !accounting.WithinTolerance(debitsSum, creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalanced, debitsSum.StringFixed(2), creditsSum.StringFixed(2))
	}
	return nil
}

// resolveAccounts loads every referenced account, failing on the first unknown id in entry order.
func (s *journalService) resolveAccounts(ctx context.Context, entries []dto.CreateEntryRequest) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve transaction accounts")
		return nil, err
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (s *journalService) PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := validateEntries(req.Type, req.Entries); err != nil {
		return nil, err
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	accounts, err := s.resolveAccounts(ctx, req.Entries)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	txnID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: txnID,
		Date:          date,
		Type:          req.Type,
		Description:   req.Description,
		Reference:     req.Reference,
		InvoiceID:     req.InvoiceID,
		PurchaseID:    req.PurchaseID,
		Entries:       make([]domain.JournalEntry, len(req.Entries)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i, e := range req.Entries {
		summary := accounts[e.AccountID].Summary()
		txn.Entries[i] = domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: txnID,
			AccountID:     e.AccountID,
			LineNo:        i + 1,
			Debit:         e.Debit,
			Credit:        e.Credit,
			Description:   e.Description,
			Account:       &summary,
		}
	}

	if err := validateTransactionBalance(txn); err != nil {
		return nil, err
	}
	txn.Amount, _ = txn.Totals()

	if err := s.txnRepo.SaveTransaction(ctx, txn, txn.BalanceChanges()); err != nil {
		s.LogError(ctx, err, "Failed to commit transaction", slog.String("transaction_id", txnID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction committed",
		slog.String("transaction_id", txnID),
		slog.String("type", string(txn.Type)),
		slog.Int("entries", len(txn.Entries)),
		slog.String("amount", txn.Amount.String()))

	s.notifyObservers(ctx, domain.NewTransactionEvent(txn, domain.TransactionCommitted, userID, now))
	return &txn, nil
}

func (s *journalService) PostBankTransfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.Transaction, error) {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return nil, fmt.Errorf("%w: both transfer accounts are required", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if !accounting.HasAmountScale(req.Amount) {
		return nil, fmt.Errorf("%w: transfer amount has more than %d decimal places", apperrors.ErrValidation, accounting.AmountScale)
	}

	for _, id := range []string{req.FromAccountID, req.ToAccountID} {
		account, err := s.accountRepo.FindAccountByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			return nil, err
		}
		if account.AccountType != domain.Asset {
			return nil, fmt.Errorf("%w: account %s is not an asset account", apperrors.ErrValidation, account.Code)
		}
	}

	description := req.Description
	if strings.TrimSpace(description) == "" {
		description = defaultTransferDescription
	}

	return s.PostTransaction(ctx, dto.CreateTransactionRequest{
		Date:        req.Date,
		Type:        domain.BankTransferTxn,
		Description: description,
		Reference:   req.Reference,
		Entries: []dto.CreateEntryRequest{
			{AccountID: req.ToAccountID, Debit: req.Amount, Credit: decimal.Zero},
			{AccountID: req.FromAccountID, Debit: decimal.Zero, Credit: req.Amount},
		},
	}, userID)
}

func (s *journalService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *journalService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, nil, fmt.Errorf("%w: invalid transaction type %q", apperrors.ErrValidation, *filter.Type)
	}
	if filter.Limit < 0 {
		return nil, nil, fmt.Errorf("%w: limit must not be negative", apperrors.ErrValidation)
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions")
		}
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	s.LogDebug(ctx, "Transactions listed successfully", slog.Int("count", len(txns)))
	return txns, nextToken, nil
}

func (s *journalService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	txn, err := s.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}

	inverse := txn.BalanceChanges()
	for accountID, delta := range inverse {
		inverse[accountID] = delta.Neg()
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID, inverse); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("user_id", userID))

	s.notifyObservers(ctx, domain.NewTransactionEvent(*txn, domain.TransactionDeleted, userID, s.Now()))
	return nil
}

// notifyObservers runs after commit; failures are logged and never surface to the caller.
func (s *journalService) notifyObservers(ctx context.Context, event domain.TransactionEvent) {
	for _, observer := range s.observers {
		if err := observer.OnTransactionEvent(ctx, event); err != nil {
			s.LogError(ctx, err, "Transaction observer failed",
				slog.String("transaction_id", event.TransactionID),
				slog.String("kind", string(event.Kind)))
		}
	}
}
