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

func sampleTransaction(id string, amount int64) *domain.Transaction {
	a := decimal.NewFromInt(amount)
	return &domain.Transaction{
		TransactionID: id,
		Date:          time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Type:          domain.IncomeTxn,
		Description:   "Consulting",
		Reference:     "INV-9",
		Amount:        a,
		Entries: []domain.JournalEntry{
			{EntryID: id + "-1", TransactionID: id, AccountID: "cash", LineNo: 1, Debit: a, Credit: decimal.Zero,
				Account: &domain.AccountSummary{AccountID: "cash", Code: "1000", Name: "Cash", AccountType: domain.Asset}},
			{EntryID: id + "-2", TransactionID: id, AccountID: "sales", LineNo: 2, Debit: decimal.Zero, Credit: a,
				Account: &domain.AccountSummary{AccountID: "sales", Code: "4000", Name: "Sales", AccountType: domain.Revenue}},
		},
		AuditFields: domain.AuditFields{CreatedBy: testUserID},
	}
}

func transactionBody(debit, credit string) map[string]any {
	return map[string]any{
		"date":        "2025-02-14",
		"type":        "INCOME",
		"description": "Consulting",
		"reference":   "INV-9",
		"entries": []map[string]any{
			{"accountId": "cash", "debit": debit, "credit": "0"},
			{"accountId": "sales", "debit": "0", "credit": credit},
		},
	}
}

func (suite *HandlerTestSuite) TestPostTransaction_Success() {
	suite.journal.On("PostTransaction", mock.Anything, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return len(req.Entries) == 2 && req.Entries[0].Debit.Equal(decimal.NewFromInt(500)) && req.Type == domain.IncomeTxn
	}), testUserID).Return(sampleTransaction("txn-1", 500), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", transactionBody("500", "500"))

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.TransactionResponse
	suite.decode(w, &res)
	suite.Equal("txn-1", res.TransactionID)
	suite.Equal("2025-02-14", res.Date)
	suite.Require().Len(res.Entries, 2)
	suite.Equal("4000", res.Entries[1].AccountCode)
}

func (suite *HandlerTestSuite) TestPostTransaction_Rejections() {
	testCases := []struct {
		name      string
		body      any
		err       error // returned by the service; nil means binding rejects first
		wantError string
	}{
		{name: "negative debit", body: transactionBody("-5", "-5")},
		{name: "more than four decimals", body: transactionBody("0.00005", "0.00005")},
		{name: "bad date", body: map[string]any{"date": "14.02.2025", "type": "INCOME", "description": "x"}},
		{name: "unknown type", body: map[string]any{"date": "2025-02-14", "type": "BARTER", "description": "x"}},
		{name: "empty entries", body: map[string]any{"date": "2025-02-14", "type": "INCOME", "description": "x", "entries": []any{}},
			err: apperrors.ErrEmptyEntries, wantError: "transaction must have at least one entry"},
		{name: "unbalanced", body: transactionBody("600", "500"),
			err:       fmt.Errorf("%w: debits sum is 600.00 and credits sum is 500.00", apperrors.ErrUnbalanced),
			wantError: "transaction debits and credits do not balance: debits sum is 600.00 and credits sum is 500.00"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			if tc.err != nil {
				suite.journal.On("PostTransaction", mock.Anything, mock.Anything, testUserID).Return(nil, tc.err).Once()
			}
			w := suite.do(http.MethodPost, "/api/v1/transactions", tc.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			if tc.wantError != "" {
				suite.Equal(tc.wantError, suite.errorBody(w))
			}
		})
	}
}

func (suite *HandlerTestSuite) TestPostTransaction_UnknownAccount() {
	suite.journal.On("PostTransaction", mock.Anything, mock.Anything, testUserID).
		Return(nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, "sales")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", transactionBody("1", "1"))
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(suite.errorBody(w), "sales")
}

func (suite *HandlerTestSuite) TestPostTransaction_StorageFailureIsGeneric() {
	suite.journal.On("PostTransaction", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewStorageError("commit", errors.New("deadlock detected"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", transactionBody("1", "1"))
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to post transaction", suite.errorBody(w))
}

func (suite *HandlerTestSuite) TestPostBankTransfer() {
	suite.journal.On("PostBankTransfer", mock.Anything, mock.MatchedBy(func(req dto.TransferRequest) bool {
		return req.FromAccountID == "bank" && req.ToAccountID == "cash" && req.Amount.Equal(decimal.NewFromInt(75))
	}), testUserID).Return(sampleTransaction("txn-t", 75), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", map[string]any{
		"fromAccountId": "bank", "toAccountId": "cash", "amount": "75", "date": "2025-02-14",
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/transactions/transfer", map[string]any{
		"fromAccountId": "bank", "toAccountId": "bank", "amount": "75", "date": "2025-02-14",
	})
	suite.Equal(http.StatusBadRequest, w.Code, "same account")

	w = suite.do(http.MethodPost, "/api/v1/transactions/transfer", map[string]any{
		"fromAccountId": "bank", "toAccountId": "cash", "amount": "0", "date": "2025-02-14",
	})
	suite.Equal(http.StatusBadRequest, w.Code, "zero amount")

	w = suite.do(http.MethodPost, "/api/v1/transactions/transfer", map[string]any{
		"fromAccountId": "bank", "toAccountId": "cash", "amount": "75.00001", "date": "2025-02-14",
	})
	suite.Equal(http.StatusBadRequest, w.Code, "sub-scale amount")
}

func (suite *HandlerTestSuite) TestListTransactions() {
	next := "token-2"
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := dto.EndOfDay(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.journal.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Type != nil && *f.Type == domain.IncomeTxn &&
			f.Range.From != nil && f.Range.From.Equal(start) &&
			f.Range.To != nil && f.Range.To.Equal(end) &&
			f.AccountID == "cash" && f.Limit == 2 && f.NextToken == "token-1"
	})).Return([]domain.Transaction{*sampleTransaction("t2", 20), *sampleTransaction("t1", 10)}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?type=INCOME&startDate=2025-01-01&endDate=2025-01-31&accountId=cash&limit=2&nextToken=token-1", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListTransactionsResponse
	suite.decode(w, &res)
	suite.Len(res.Transactions, 2)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("token-2", *res.NextToken)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/transactions?limit=501", nil).Code)
}

func (suite *HandlerTestSuite) TestListTransactions_BadToken() {
	suite.journal.On("ListTransactions", mock.Anything, mock.Anything).
		Return(nil, (*string)(nil), fmt.Errorf("%w: invalid next token", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?nextToken=garbage", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAndDeleteTransaction() {
	suite.journal.On("GetTransaction", mock.Anything, "txn-1").Return(sampleTransaction("txn-1", 5), nil).Once()
	suite.journal.On("GetTransaction", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()
	suite.journal.On("DeleteTransaction", mock.Anything, "txn-1", testUserID).Return(nil).Once()
	suite.journal.On("DeleteTransaction", mock.Anything, "nope", testUserID).Return(apperrors.ErrNotFound).Once()

	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/api/v1/transactions/txn-1", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/transactions/nope", nil).Code)
	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/transactions/txn-1", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, "/api/v1/transactions/nope", nil).Code)
}
