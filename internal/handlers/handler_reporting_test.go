package handlers_test

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func endOfDay(y int, m time.Month, d int) time.Time {
	return dto.EndOfDay(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func sampleTrialBalance(asOf time.Time) *domain.TrialBalanceReport {
	return &domain.TrialBalanceReport{
		AsOf: asOf,
		Accounts: []domain.TrialBalanceRow{
			{AccountSummary: domain.AccountSummary{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset},
				Debit: decimal.NewFromInt(900), Credit: decimal.Zero},
			{AccountSummary: domain.AccountSummary{AccountID: "sales", Code: "4000", Name: "Sales, services", AccountType: domain.Revenue},
				Debit: decimal.Zero, Credit: decimal.NewFromInt(900)},
		},
		Totals:     domain.TrialBalanceTotals{Debit: decimal.NewFromInt(900), Credit: decimal.NewFromInt(900)},
		Balanced:   true,
		Difference: decimal.Zero,
	}
}

func (suite *HandlerTestSuite) TestTrialBalance_AsOfIsEndOfDay() {
	asOf := endOfDay(2025, time.January, 31)
	suite.balances.On("TrialBalance", mock.Anything, mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(asOf)
	})).Return(sampleTrialBalance(asOf), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2025-01-31", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.TrialBalanceResponse
	suite.decode(w, &res)
	suite.Equal("2025-01-31", res.AsOf)
	suite.True(res.Balanced)
	suite.Len(res.Accounts, 2)
	suite.True(res.Totals.Debit.Equal(decimal.NewFromInt(900)))
	suite.NotNil(res.Warnings)
}

func (suite *HandlerTestSuite) TestTrialBalance_DefaultsToToday() {
	suite.balances.On("TrialBalance", mock.Anything, mock.MatchedBy(func(t time.Time) bool {
		return t.After(time.Now().Add(-24 * time.Hour))
	})).Return(sampleTrialBalance(time.Now()), nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/reports/trial-balance", nil).Code)
}

func (suite *HandlerTestSuite) TestTrialBalance_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=yesterday", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid date format. Use YYYY-MM-DD", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestBalanceSheet() {
	asOf := endOfDay(2025, time.March, 31)
	report := &domain.BalanceSheetReport{AsOf: asOf, Balanced: true}
	report.Assets.Add(domain.BalanceSheetLine{AccountID: "cash", Code: "1000", Name: "Cash", Balance: decimal.NewFromInt(1000)})
	report.Equity.Add(domain.BalanceSheetLine{Name: "Current Earnings", Balance: decimal.NewFromInt(1000), Synthetic: true})
	report.TotalAssets = decimal.NewFromInt(1000)
	report.TotalEquity = decimal.NewFromInt(1000)
	report.TotalLiabilitiesAndEquity = decimal.NewFromInt(1000)
	suite.balances.On("BalanceSheet", mock.Anything, mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) })).
		Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2025-03-31", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.BalanceSheetResponse
	suite.decode(w, &res)
	suite.True(res.Balanced)
	suite.Require().Len(res.Equity.Accounts, 1)
	suite.True(res.Equity.Accounts[0].Synthetic)
	suite.True(res.TotalLiabilitiesAndEquity.Equal(res.TotalAssets))
}

func (suite *HandlerTestSuite) TestProfitAndLoss_Periods() {
	current := domain.Period{Start: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), End: endOfDay(2025, time.February, 28)}
	previous := domain.Period{Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), End: endOfDay(2024, time.February, 29)}

	isCurrent := mock.MatchedBy(func(p domain.Period) bool {
		return p.Start.Equal(current.Start) && p.End.Equal(current.End)
	})
	suite.balances.On("ProfitAndLoss", mock.Anything, isCurrent, (*domain.Period)(nil)).
		Return(&domain.PAndLReport{Current: current, Previous: previous}, nil).Once()
	suite.balances.On("ProfitAndLoss", mock.Anything, isCurrent, mock.MatchedBy(func(p *domain.Period) bool {
		return p != nil && p.Start.Equal(previous.Start) && p.End.Equal(previous.End)
	})).Return(&domain.PAndLReport{Current: current, Previous: previous}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?startDate=2025-02-01&endDate=2025-02-28", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.ProfitAndLossResponse
	suite.decode(w, &res)
	suite.Equal("2025-02-28", res.CurrentPeriod.EndDate)

	w = suite.do(http.MethodGet, "/api/v1/reports/profit-and-loss?startDate=2025-02-01&endDate=2025-02-28&previousStartDate=2024-02-01&previousEndDate=2024-02-29", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(w, &res)
	suite.Equal("2024-02-01", res.PreviousPeriod.StartDate)
}

func (suite *HandlerTestSuite) TestProfitAndLoss_Rejections() {
	suite.balances.On("ProfitAndLoss", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrValidation).Once()

	paths := []string{
		"/api/v1/reports/profit-and-loss?endDate=2025-02-28",
		"/api/v1/reports/profit-and-loss?startDate=2025-02-01&endDate=2025-02-28&previousStartDate=2024-02-01",
		"/api/v1/reports/profit-and-loss?startDate=02/01/2025&endDate=2025-02-28",
		"/api/v1/reports/profit-and-loss?startDate=2025-03-01&endDate=2025-02-28",
	}
	for _, path := range paths {
		suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, path, nil).Code, path)
	}
}

func (suite *HandlerTestSuite) TestIntegrity() {
	suite.balances.On("VerifyAllBalances", mock.Anything).Return(&domain.IntegrityReport{AccountsChecked: 7}, nil).Once()
	suite.balances.On("VerifyBalances", mock.Anything, []string{"cash", "sales"}).Return(&domain.IntegrityReport{
		AccountsChecked: 2,
		Discrepancies: []domain.BalanceDiscrepancy{{
			AccountSummary: domain.AccountSummary{AccountID: "cash"},
			Cached:         decimal.NewFromInt(12),
			Replayed:       decimal.NewFromInt(10),
			Difference:     decimal.NewFromInt(2),
		}},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/integrity", nil)
	suite.Equal(http.StatusOK, w.Code)
	var all domain.IntegrityReport
	suite.decode(w, &all)
	suite.Equal(7, all.AccountsChecked)
	suite.NotNil(all.Discrepancies)
	suite.True(all.Healthy())

	w = suite.do(http.MethodGet, "/api/v1/reports/integrity?accountId=cash&accountId=sales", nil)
	suite.Equal(http.StatusOK, w.Code)
	var some domain.IntegrityReport
	suite.decode(w, &some)
	suite.Require().Len(some.Discrepancies, 1)
	suite.True(some.Discrepancies[0].Difference.Equal(decimal.NewFromInt(2)))
}
