package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// CurrentEarningsName labels the synthetic equity line carrying unclosed revenue minus expenses.
const CurrentEarningsName = "Current Earnings"

// TrialBalance generates a trial balance report as of a specific date
func (s *balanceEngine) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	accounts, totals, err := s.snapshot(ctx, domain.Until(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:     asOf,
		Accounts: make([]domain.TrialBalanceRow, 0, len(accounts)),
		Totals:   domain.TrialBalanceTotals{Debit: decimal.Zero, Credit: decimal.Zero},
		Warnings: []string{},
	}
	for _, account := range accounts {
		debit, credit := accounting.SplitDebitCredit(totals[account.AccountID].Net())
		report.Accounts = append(report.Accounts, domain.TrialBalanceRow{
			AccountSummary: account.Summary(),
			Debit:          debit,
			Credit:         credit,
		})
		report.Totals.Debit = report.Totals.Debit.Add(debit)
		report.Totals.Credit = report.Totals.Credit.Add(credit)
	}

	report.Difference = report.Totals.Debit.Sub(report.Totals.Credit)
	report.Balanced = accounting.WithinTolerance(report.Totals.Debit, report.Totals.Credit)
	if !report.Balanced {
		msg := fmt.Sprintf("trial balance out of balance: debits %s, credits %s, difference %s",
			report.Totals.Debit.StringFixed(2), report.Totals.Credit.StringFixed(2), report.Difference.StringFixed(2))
		report.Warnings = append(report.Warnings, msg)
		s.GetLogger(ctx).Warn("Trial balance does not balance",
			slog.String("asOf", asOf.Format(time.RFC3339)),
			slog.String("difference", report.Difference.String()))
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(report.Accounts)))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *balanceEngine) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	accounts, totals, err := s.snapshot(ctx, domain.Until(asOf))
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data",
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      newBalanceSheetSection(),
		Liabilities: newBalanceSheetSection(),
		Equity:      newBalanceSheetSection(),
		Warnings:    []string{},
	}

	earnings := decimal.Zero
	for _, account := range accounts {
		normal := accounting.NormalBalance(account.AccountType, totals[account.AccountID].Net())
		line := domain.BalanceSheetLine{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
			Balance:   normal,
		}
		switch account.AccountType {
		case domain.Asset:
			report.Assets.Add(line)
		case domain.Liability:
			report.Liabilities.Add(line)
		case domain.Equity:
			report.Equity.Add(line)
		case domain.Revenue:
			earnings = earnings.Add(normal)
		case domain.Expense:
			earnings = earnings.Sub(normal)
		}
	}
	report.Equity.Add(domain.BalanceSheetLine{
		Name:      CurrentEarningsName,
		Balance:   earnings,
		Synthetic: true,
	})

	report.TotalAssets = report.Assets.Total
	report.TotalLiabilities = report.Liabilities.Total
	report.TotalEquity = report.Equity.Total
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)
	report.Difference = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity)
	report.Balanced = accounting.WithinTolerance(report.TotalAssets, report.TotalLiabilitiesAndEquity)
	if !report.Balanced {
		msg := fmt.Sprintf("balance sheet out of balance: assets %s, liabilities and equity %s, difference %s",
			report.TotalAssets.StringFixed(2), report.TotalLiabilitiesAndEquity.StringFixed(2), report.Difference.StringFixed(2))
		report.Warnings = append(report.Warnings, msg)
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("asOf", asOf.Format(time.RFC3339)),
			slog.String("difference", report.Difference.String()))
	}

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)))
	return report, nil
}

func newBalanceSheetSection() domain.BalanceSheetSection {
	return domain.BalanceSheetSection{Accounts: []domain.BalanceSheetLine{}, Total: decimal.Zero}
}

// ProfitAndLoss generates a comparative profit and loss report
func (s *balanceEngine) ProfitAndLoss(ctx context.Context, current domain.Period, previous *domain.Period) (*domain.PAndLReport, error) {
	if current.End.Before(current.Start) {
		return nil, fmt.Errorf("%w: end date must not be before start date", apperrors.ErrValidation)
	}
	prev := PreviousPeriod(current)
	if previous != nil {
		if previous.End.Before(previous.Start) {
			return nil, fmt.Errorf("%w: previous end date must not be before previous start date", apperrors.ErrValidation)
		}
		prev = *previous
	}

	var (
		accounts     []domain.Account
		currentSums  map[string]domain.EntryTotals
		previousSums map[string]domain.EntryTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx, domain.AccountFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		currentSums, err = s.balanceRepo.SumEntriesByAccount(gctx, current.Range())
		return err
	})
	g.Go(func() error {
		var err error
		previousSums, err = s.balanceRepo.SumEntriesByAccount(gctx, prev.Range())
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data",
			slog.String("from", current.Start.Format(time.RFC3339)),
			slog.String("to", current.End.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	revenueCur, revenuePrev := decimal.Zero, decimal.Zero
	expenseCur, expensePrev := decimal.Zero, decimal.Zero
	report := &domain.PAndLReport{
		Current:  current,
		Previous: prev,
		Revenue:  domain.PAndLSection{Accounts: []domain.PAndLLine{}},
		Expenses: domain.PAndLSection{Accounts: []domain.PAndLLine{}},
	}

	for _, account := range accounts {
		if account.AccountType != domain.Revenue && account.AccountType != domain.Expense {
			continue
		}
		cur := activity(account.AccountType, currentSums[account.AccountID])
		old := activity(account.AccountType, previousSums[account.AccountID])
		if cur.IsZero() && old.IsZero() {
			continue
		}
		line := domain.PAndLLine{
			AccountSummary:    account.Summary(),
			ComparativeAmount: accounting.Compare(cur, old),
		}
		if account.AccountType == domain.Revenue {
			report.Revenue.Accounts = append(report.Revenue.Accounts, line)
			revenueCur, revenuePrev = revenueCur.Add(cur), revenuePrev.Add(old)
		} else {
			report.Expenses.Accounts = append(report.Expenses.Accounts, line)
			expenseCur, expensePrev = expenseCur.Add(cur), expensePrev.Add(old)
		}
	}

	report.Revenue.Total = accounting.Compare(revenueCur, revenuePrev)
	report.Expenses.Total = accounting.Compare(expenseCur, expensePrev)
	report.NetIncome = accounting.Compare(revenueCur.Sub(expenseCur), revenuePrev.Sub(expensePrev))

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("from", current.Start.Format(time.RFC3339)),
		slog.String("to", current.End.Format(time.RFC3339)),
		slog.Int("revenue_accounts", len(report.Revenue.Accounts)),
		slog.Int("expense_accounts", len(report.Expenses.Accounts)))
	return report, nil
}

// activity is the period movement of a P&L account: credit − debit for revenue and
// debit − credit for expenses.
func activity(accountType domain.AccountType, totals domain.EntryTotals) decimal.Decimal {
	return accounting.NormalBalance(accountType, totals.Net())
}

// PreviousPeriod returns the window of the same number of calendar days that ends the day
// before current starts.
func PreviousPeriod(current domain.Period) domain.Period {
	y, m, d := current.Start.Date()
	startDay := time.Date(y, m, d, 0, 0, 0, 0, current.Start.Location())
	ey, em, ed := current.End.Date()
	endDay := time.Date(ey, em, ed, 0, 0, 0, 0, current.End.Location())

	days := int(endDay.Sub(startDay).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return domain.Period{
		Start: startDay.AddDate(0, 0, -days),
		End:   dto.EndOfDay(startDay.AddDate(0, 0, -1)),
	}
}
