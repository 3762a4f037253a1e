package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func sampleAccount(id, code string, t domain.AccountType, balance int64) *domain.Account {
	return &domain.Account{
		AccountID:   id,
		Code:        code,
		Name:        "Account " + code,
		AccountType: t,
		Balance:     decimal.NewFromInt(balance),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			CreatedBy: testUserID,
		},
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	created := sampleAccount("acc-1", "4000", domain.Revenue, -250)
	suite.accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
		return req.Code == "4000" && req.AccountType == domain.Revenue && req.Name == "Sales"
	}), testUserID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "4000", "name": "Sales", "accountType": "REVENUE",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal("acc-1", res.AccountID)
	suite.True(res.Balance.Equal(decimal.NewFromInt(-250)))
	suite.True(res.NormalBalance.Equal(decimal.NewFromInt(250)), "credit-normal balance is sign-flipped")
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingErrors() {
	testCases := []struct {
		name string
		body any
	}{
		{name: "missing code", body: map[string]any{"name": "Cash", "accountType": "ASSET"}},
		{name: "unknown type", body: map[string]any{"code": "1", "name": "Cash", "accountType": "GOODWILL"}},
		{name: "malformed json", body: `{"code":`},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", tc.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(suite.errorBody(w), "Invalid request format")
		})
	}
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_ServiceErrors() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "duplicate code", err: fmt.Errorf("%w: 4000", apperrors.ErrDuplicateCode), wantStatus: http.StatusConflict, wantError: "account code already exists: 4000"},
		{name: "unknown parent", err: fmt.Errorf("%w: parent account p-1", apperrors.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "validation", err: fmt.Errorf("%w: code must not be blank", apperrors.ErrValidation), wantStatus: http.StatusBadRequest},
		{name: "storage", err: apperrors.NewStorageError("save account", errors.New("connection reset")), wantStatus: http.StatusInternalServerError, wantError: "Failed to create account"},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.accounts.On("CreateAccount", mock.Anything, mock.Anything, testUserID).Return(nil, tc.err).Once()
			w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
				"code": "4000", "name": "Sales", "accountType": "REVENUE",
			})
			suite.Equal(tc.wantStatus, w.Code)
			if tc.wantError != "" {
				suite.Equal(tc.wantError, suite.errorBody(w))
			}
		})
	}
}

func (suite *HandlerTestSuite) TestGetAccount() {
	suite.accounts.On("GetAccountByID", mock.Anything, "acc-1").Return(sampleAccount("acc-1", "1000", domain.Asset, 40), nil).Once()
	suite.accounts.On("GetAccountByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal("1000", res.Code)
	suite.True(res.NormalBalance.Equal(decimal.NewFromInt(40)))

	w = suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_Filters() {
	accounts := []domain.Account{
		*sampleAccount("a", "1000", domain.Asset, 0),
		*sampleAccount("b", "1100", domain.Asset, 0),
	}
	suite.accounts.On("ListAccounts", mock.Anything, mock.MatchedBy(func(f domain.AccountFilter) bool {
		return f.Type != nil && *f.Type == domain.Asset && f.Search == "ca" && f.ParentID != nil && *f.ParentID == "root"
	})).Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?type=ASSET&search=ca&parentId=root", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AccountResponse
	suite.decode(w, &res)
	suite.Len(res, 2)
	suite.Equal("1100", res[1].Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts?type=STOCK", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateAccount() {
	updated := sampleAccount("acc-1", "1000", domain.Asset, 0)
	updated.Name = "Petty cash"
	suite.accounts.On("UpdateAccount", mock.Anything, "acc-1", mock.MatchedBy(func(req dto.UpdateAccountRequest) bool {
		return req.Name != nil && *req.Name == "Petty cash" && req.Code == nil
	}), testUserID).Return(updated, nil).Once()
	suite.accounts.On("UpdateAccount", mock.Anything, "acc-1", mock.MatchedBy(func(req dto.UpdateAccountRequest) bool {
		return req.Code != nil
	}), testUserID).Return(nil, fmt.Errorf("%w: account code is immutable", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPut, "/api/v1/accounts/acc-1", map[string]any{"name": "Petty cash"})
	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountResponse
	suite.decode(w, &res)
	suite.Equal("Petty cash", res.Name)

	w = suite.do(http.MethodPut, "/api/v1/accounts/acc-1", map[string]any{"code": "9999"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "immutable")
}

func (suite *HandlerTestSuite) TestDeleteAccount() {
	suite.accounts.On("DeleteAccount", mock.Anything, "leaf", testUserID).Return(nil).Once()
	suite.accounts.On("DeleteAccount", mock.Anything, "parent", testUserID).Return(apperrors.ErrHasChildren).Once()
	suite.accounts.On("DeleteAccount", mock.Anything, "used", testUserID).Return(apperrors.ErrHasTransactions).Once()

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/accounts/leaf", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/api/v1/accounts/parent", nil).Code)
	suite.Equal(http.StatusConflict, suite.do(http.MethodDelete, "/api/v1/accounts/used", nil).Code)
}

func (suite *HandlerTestSuite) TestAccountBalance_Window() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := dto.EndOfDay(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.balances.On("AccountBalance", mock.Anything, "acc-1", mock.MatchedBy(func(w domain.DateRange) bool {
		return w.From != nil && w.From.Equal(from) && w.To != nil && w.To.Equal(asOf)
	})).Return(&domain.AccountBalance{
		AccountSummary: domain.AccountSummary{AccountID: "acc-1", Code: "1000", AccountType: domain.Asset},
		From:           &from,
		AsOf:           &asOf,
		Balance:        decimal.NewFromInt(300),
		NormalBalance:  decimal.NewFromInt(300),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/balance?from=2025-01-01&asOf=2025-01-31", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.decode(w, &res)
	suite.Equal("2025-01-01", res.From)
	suite.Equal("2025-01-31", res.AsOf)
	suite.True(res.Balance.Equal(decimal.NewFromInt(300)))
}

func (suite *HandlerTestSuite) TestAccountBalance_RejectsBadWindow() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/accounts/acc-1/balance?asOf=31/01/2025", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/accounts/acc-1/balance?from=2025-02-01&asOf=2025-01-31", nil).Code)
	suite.balances.AssertNotCalled(suite.T(), "AccountBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestAccountStatement() {
	suite.balances.On("AccountStatement", mock.Anything, "acc-1", mock.MatchedBy(func(w domain.DateRange) bool {
		return w.From == nil && w.To != nil
	})).Return(&domain.AccountStatement{
		Account:        domain.AccountSummary{AccountID: "acc-1", Code: "1000"},
		OpeningBalance: decimal.Zero,
		Lines: []domain.StatementLine{
			{TransactionID: "t1", Debit: decimal.NewFromInt(10), Credit: decimal.Zero, RunningBalance: decimal.NewFromInt(10)},
		},
		ClosingBalance: decimal.NewFromInt(10),
	}, nil).Once()
	suite.balances.On("AccountStatement", mock.Anything, "missing", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/acc-1/statement?to=2025-03-31", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res domain.AccountStatement
	suite.decode(w, &res)
	suite.Require().Len(res.Lines, 1)
	suite.True(res.Lines[0].RunningBalance.Equal(decimal.NewFromInt(10)))

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/accounts/missing/statement", nil).Code)
}
