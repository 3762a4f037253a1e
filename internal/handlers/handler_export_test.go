package handlers_test

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

func (suite *HandlerTestSuite) readCSV(body string) [][]string {
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	suite.Require().NoError(err)
	return records
}

func (suite *HandlerTestSuite) TestExportTrialBalanceCSV() {
	asOf := endOfDay(2025, 1, 31)
	suite.balances.On("TrialBalance", mock.Anything, mock.Anything).Return(sampleTrialBalance(asOf), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exports/trial-balance.csv?asOf=2025-01-31", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "trial-balance-2025-01-31.csv")

	records := suite.readCSV(w.Body.String())
	suite.Equal([][]string{
		{"code", "name", "type", "debit", "credit"},
		{"1000", "Cash", "ASSET", "900.00", "0.00"},
		{"4000", "Sales, services", "REVENUE", "0.00", "900.00"},
		{"TOTAL", "", "", "900.00", "900.00"},
	}, records)
}

func (suite *HandlerTestSuite) TestExportTransactionsCSV() {
	suite.journal.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 0 && f.NextToken == "" && f.Search == "consult"
	})).Return([]domain.Transaction{*sampleTransaction("txn-1", 250)}, (*string)(nil), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exports/transactions.csv?search=consult&limit=10&nextToken=abc", nil)
	suite.Equal(http.StatusOK, w.Code)

	records := suite.readCSV(w.Body.String())
	suite.Require().Len(records, 3)
	suite.Equal([]string{"date", "transaction_id", "type", "description", "reference", "line", "account_code", "account_name", "debit", "credit"}, records[0])
	suite.Equal([]string{"2025-02-14", "txn-1", "INCOME", "Consulting", "INV-9", "1", "1000", "Cash", "250.00", "0.00"}, records[1])
	suite.Equal([]string{"2025-02-14", "txn-1", "INCOME", "Consulting", "INV-9", "2", "4000", "Sales", "0.00", "250.00"}, records[2])
}

func (suite *HandlerTestSuite) TestExportsAreRateLimited() {
	l, err := middleware.NewLimiter("1-H", nil)
	suite.Require().NoError(err)
	suite.exportGuard = append(suite.exportGuard, middleware.GinMiddlewarize(l))
	suite.buildRouter()

	suite.balances.On("TrialBalance", mock.Anything, mock.Anything).Return(sampleTrialBalance(endOfDay(2025, 1, 31)), nil).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/exports/trial-balance.csv", nil).Code)
	suite.Equal(http.StatusTooManyRequests, suite.do(http.MethodGet, "/api/v1/exports/trial-balance.csv", nil).Code)
}
