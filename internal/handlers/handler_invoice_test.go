package handlers_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func statusChange(oldStatus, newStatus string) map[string]any {
	return map[string]any{
		"number":              "INV-0042",
		"oldStatus":           oldStatus,
		"newStatus":           newStatus,
		"amount":              "120.50",
		"date":                "2025-04-01",
		"cashAccountId":       "cash",
		"receivableAccountId": "receivable",
	}
}

func (suite *HandlerTestSuite) TestInvoiceStatusChange() {
	suite.invoices.On("RecordInvoiceStatusChange", mock.Anything, "inv-42", mock.MatchedBy(func(req dto.InvoiceStatusChangeRequest) bool {
		return req.NewStatus == domain.InvoicePaid
	}), testUserID).Return(sampleTransaction("txn-inv", 120), nil).Once()
	suite.invoices.On("RecordInvoiceStatusChange", mock.Anything, "inv-42", mock.MatchedBy(func(req dto.InvoiceStatusChangeRequest) bool {
		return req.NewStatus == domain.InvoiceOverdue
	}), testUserID).Return(nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/invoices/inv-42/status", statusChange("PENDING", "PAID"))
	suite.Equal(http.StatusCreated, w.Code)
	var posted dto.PostingResponse
	suite.decode(w, &posted)
	suite.True(posted.Posted)
	suite.Require().NotNil(posted.Transaction)
	suite.Equal("txn-inv", posted.Transaction.TransactionID)

	w = suite.do(http.MethodPost, "/api/v1/invoices/inv-42/status", statusChange("PENDING", "OVERDUE"))
	suite.Equal(http.StatusOK, w.Code)
	var skipped dto.PostingResponse
	suite.decode(w, &skipped)
	suite.False(skipped.Posted)
	suite.Nil(skipped.Transaction)

	w = suite.do(http.MethodPost, "/api/v1/invoices/inv-42/status", statusChange("PENDING", "REFUNDED"))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestPurchasePayment() {
	suite.invoices.On("RecordPurchasePayment", mock.Anything, "po-7", mock.MatchedBy(func(req dto.PurchasePaymentRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("80")) && req.PayableAccountID == "payable"
	}), testUserID).Return(sampleTransaction("txn-po", 80), nil).Once()
	suite.invoices.On("RecordPurchasePayment", mock.Anything, "po-8", mock.Anything, testUserID).
		Return(nil, apperrors.ErrNotFound).Once()

	body := map[string]any{"amount": "80", "date": "2025-04-02", "cashAccountId": "cash", "payableAccountId": "payable"}
	suite.Equal(http.StatusCreated, suite.do(http.MethodPost, "/api/v1/purchases/po-7/payment", body).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodPost, "/api/v1/purchases/po-8/payment", body).Code)

	body["amount"] = "0"
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, "/api/v1/purchases/po-7/payment", body).Code)
}

func (suite *HandlerTestSuite) TestReceivableBalance() {
	suite.invoices.On("ReceivableBalance", mock.Anything, "receivable").Return(&domain.AccountBalance{
		AccountSummary: domain.AccountSummary{AccountID: "receivable", Code: "1200", AccountType: domain.Asset},
		Balance:        decimal.NewFromInt(60),
		NormalBalance:  decimal.NewFromInt(60),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/receivables/receivable", nil)
	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.decode(w, &res)
	suite.Equal("1200", res.Code)
	suite.True(res.Balance.Equal(decimal.NewFromInt(60)))
}
