package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// balanceEngine derives balances and reports from committed journal entries.
// It never mutates state and never reads cached balances except to verify them.
type balanceEngine struct {
	BaseService
	accountRepo portsrepo.AccountReader
	balanceRepo portsrepo.BalanceReader
}

// BalanceEngineOption is a functional option for configuring the balance engine
type BalanceEngineOption func(*balanceEngine)

// WithBalanceClock overrides the clock used to stamp integrity reports.
func WithBalanceClock(now func() time.Time) BalanceEngineOption {
	return func(s *balanceEngine) {
		s.now = now
	}
}

// NewBalanceEngine creates the read-only balance and reporting service.
func NewBalanceEngine(accountRepo portsrepo.AccountReader, balanceRepo portsrepo.BalanceReader, options ...BalanceEngineOption) portssvc.BalanceEngineSvc {
	svc := &balanceEngine{
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceEngineSvc = (*balanceEngine)(nil)

func (s *balanceEngine) findAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *balanceEngine) AccountBalance(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountBalance, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := s.balanceRepo.SumEntriesForAccount(ctx, accountID, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account entries", slog.String("account_id", accountID))
		return nil, err
	}

	raw := totals.Net()
	return &domain.AccountBalance{
		AccountSummary: account.Summary(),
		From:           window.From,
		AsOf:           window.To,
		Balance:        raw,
		NormalBalance:  accounting.NormalBalance(account.AccountType, raw),
	}, nil
}

func (s *balanceEngine) AccountStatement(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountStatement, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	var lines []domain.StatementLine

	g, gctx := errgroup.WithContext(ctx)
	if window.From != nil {
		g.Go(func() error {
			before := window.From.Add(-time.Nanosecond)
			totals, err := s.balanceRepo.SumEntriesForAccount(gctx, accountID, domain.Until(before))
			if err != nil {
				return err
			}
			opening = totals.Net()
			return nil
		})
	}
	g.Go(func() error {
		var err error
		lines, err = s.balanceRepo.ListAccountEntries(gctx, accountID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build account statement", slog.String("account_id", accountID))
		return nil, err
	}

	statement := &domain.AccountStatement{
		Account:        account.Summary(),
		From:           window.From,
		To:             window.To,
		OpeningBalance: opening,
		Lines:          make([]domain.StatementLine, len(lines)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	running := opening
	for i, line := range lines {
		running = running.Add(line.Debit).Sub(line.Credit)
		line.RunningBalance = running
		statement.Lines[i] = line
		statement.TotalDebit = statement.TotalDebit.Add(line.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(line.Credit)
	}
	statement.ClosingBalance = running

	s.LogDebug(ctx, "Account statement generated",
		slog.String("account_id", accountID),
		slog.Int("lines", len(statement.Lines)))
	return statement, nil
}

// snapshot loads the full chart and the entry totals within window concurrently.
func (s *balanceEngine) snapshot(ctx context.Context, window domain.DateRange) ([]domain.Account, map[string]domain.EntryTotals, error) {
	var (
		accounts []domain.Account
		totals   map[string]domain.EntryTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx, domain.AccountFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.balanceRepo.SumEntriesByAccount(gctx, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if totals == nil {
		totals = map[string]domain.EntryTotals{}
	}
	return accounts, totals, nil
}
