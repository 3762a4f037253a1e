package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BalanceQuerySvc answers point-in-time questions about single accounts
type BalanceQuerySvc interface {
	// AccountBalance sums debit − credit of the account's entries within the window.
	AccountBalance(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountBalance, error)

	// AccountStatement returns the general ledger of one account with running balances.
	AccountStatement(ctx context.Context, accountID string, window domain.DateRange) (*domain.AccountStatement, error)
}

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// ProfitAndLoss generates a comparative profit and loss report.
	// A nil previous period defaults to the equal-length window preceding current.
	ProfitAndLoss(ctx context.Context, current domain.Period, previous *domain.Period) (*domain.PAndLReport, error)
}

// IntegritySvc compares cached running balances with a full journal replay
type IntegritySvc interface {
	// VerifyBalances checks the given accounts.
	VerifyBalances(ctx context.Context, accountIDs []string) (*domain.IntegrityReport, error)

	// VerifyAllBalances checks every account of the chart.
	VerifyAllBalances(ctx context.Context) (*domain.IntegrityReport, error)
}

// BalanceEngineSvc combines all read-only balance and report operations
type BalanceEngineSvc interface {
	BalanceQuerySvc
	ReportingService
	IntegritySvc
}
