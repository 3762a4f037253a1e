package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProfitAndLossParams defines the windows of a comparative profit and loss report.
type ProfitAndLossParams struct {
	StartDate         string `form:"startDate" binding:"required,ledgerdate"`
	EndDate           string `form:"endDate" binding:"required,ledgerdate"`
	PreviousStartDate string `form:"previousStartDate" binding:"omitempty,ledgerdate"`
	PreviousEndDate   string `form:"previousEndDate" binding:"omitempty,ledgerdate"`
}

// StatementParams defines the window of an account statement.
type StatementParams struct {
	From string `form:"from" binding:"omitempty,ledgerdate"`
	To   string `form:"to" binding:"omitempty,ledgerdate"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     string                    `json:"asOf"`
	Accounts []TrialBalanceRowResponse `json:"accounts"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Balanced   bool            `json:"balanced"`
	Difference decimal.Decimal `json:"difference"`
	Warnings   []string        `json:"warnings"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       report.AsOf.Format(DateLayout),
		Accounts:   make([]TrialBalanceRowResponse, len(report.Accounts)),
		Balanced:   report.Balanced,
		Difference: report.Difference,
		Warnings:   nonNilStrings(report.Warnings),
	}
	for i, row := range report.Accounts {
		response.Accounts[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.Name,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = report.Totals.Debit
	response.Totals.Credit = report.Totals.Credit
	return response
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf                      string                     `json:"asOf"`
	Assets                    domain.BalanceSheetSection `json:"assets"`
	Liabilities               domain.BalanceSheetSection `json:"liabilities"`
	Equity                    domain.BalanceSheetSection `json:"equity"`
	TotalAssets               decimal.Decimal            `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal            `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal            `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal            `json:"totalLiabilitiesAndEquity"`
	Balanced                  bool                       `json:"balanced"`
	Difference                decimal.Decimal            `json:"difference"`
	Warnings                  []string                   `json:"warnings"`
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:                      report.AsOf.Format(DateLayout),
		Assets:                    report.Assets,
		Liabilities:               report.Liabilities,
		Equity:                    report.Equity,
		TotalAssets:               report.TotalAssets,
		TotalLiabilities:          report.TotalLiabilities,
		TotalEquity:               report.TotalEquity,
		TotalLiabilitiesAndEquity: report.TotalLiabilitiesAndEquity,
		Balanced:                  report.Balanced,
		Difference:                report.Difference,
		Warnings:                  nonNilStrings(report.Warnings),
	}
}

// PeriodResponse is a reporting window rendered as calendar dates.
type PeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	CurrentPeriod  PeriodResponse           `json:"currentPeriod"`
	PreviousPeriod PeriodResponse           `json:"previousPeriod"`
	Revenue        domain.PAndLSection      `json:"revenue"`
	Expenses       domain.PAndLSection      `json:"expenses"`
	NetIncome      domain.ComparativeAmount `json:"netIncome"`
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		CurrentPeriod:  toPeriodResponse(report.Current),
		PreviousPeriod: toPeriodResponse(report.Previous),
		Revenue:        report.Revenue,
		Expenses:       report.Expenses,
		NetIncome:      report.NetIncome,
	}
}

func toPeriodResponse(p domain.Period) PeriodResponse {
	return PeriodResponse{StartDate: p.Start.Format(DateLayout), EndDate: p.End.Format(DateLayout)}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
