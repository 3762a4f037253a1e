package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// VerifyBalances replays the journal for the given accounts and compares the result
// with their cached running balances.
func (s *balanceEngine) VerifyBalances(ctx context.Context, accountIDs []string) (*domain.IntegrityReport, error) {
	if len(accountIDs) == 0 {
		return &domain.IntegrityReport{CheckedAt: s.Now(), Discrepancies: []domain.BalanceDiscrepancy{}}, nil
	}

	found, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for verification")
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(found))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		account, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		accounts = append(accounts, account)
	}

	return s.verify(ctx, accounts)
}

// VerifyAllBalances checks every account of the chart.
func (s *balanceEngine) VerifyAllBalances(ctx context.Context) (*domain.IntegrityReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for verification")
		return nil, err
	}
	return s.verify(ctx, accounts)
}

func (s *balanceEngine) verify(ctx context.Context, accounts []domain.Account) (*domain.IntegrityReport, error) {
	replayed, err := s.balanceRepo.SumEntriesByAccount(ctx, domain.DateRange{})
	if err != nil {
		s.LogError(ctx, err, "Failed to replay journal")
		return nil, err
	}

	report := &domain.IntegrityReport{
		CheckedAt:       s.Now(),
		AccountsChecked: len(accounts),
		Discrepancies:   []domain.BalanceDiscrepancy{},
	}
	for _, account := range accounts {
		replay := replayed[account.AccountID].Net()
		if replay.Equal(account.Balance) {
			continue
		}
		report.Discrepancies = append(report.Discrepancies, domain.BalanceDiscrepancy{
			AccountSummary: account.Summary(),
			Cached:         account.Balance,
			Replayed:       replay,
			Difference:     account.Balance.Sub(replay),
		})
	}

	if !report.Healthy() {
		s.GetLogger(ctx).Warn("Balance discrepancies detected",
			slog.Int("accounts_checked", report.AccountsChecked),
			slog.Int("discrepancies", len(report.Discrepancies)))
	} else {
		s.LogDebug(ctx, "Balances verified", slog.Int("accounts_checked", report.AccountsChecked))
	}
	return report, nil
}
