package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryTotals holds summed debits and credits of one account over a date window.
type EntryTotals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Net returns debit − credit.
func (t EntryTotals) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// AccountBalance is a point-in-time balance of one account.
type AccountBalance struct {
	AccountSummary
	From          *time.Time      `json:"from,omitempty"`
	AsOf          *time.Time      `json:"asOf,omitempty"`
	Balance       decimal.Decimal `json:"balance"`       // Raw Σ(debit − credit)
	NormalBalance decimal.Decimal `json:"normalBalance"` // Sign-flipped for credit-normal types
}

// TrialBalanceRow represents a single row in a trial balance report.
// At most one of Debit and Credit is non-zero.
type TrialBalanceRow struct {
	AccountSummary
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceTotals is the column sum of a trial balance.
type TrialBalanceTotals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account's net balance as of a date.
type TrialBalanceReport struct {
	AsOf       time.Time          `json:"asOf"`
	Accounts   []TrialBalanceRow  `json:"accounts"`
	Totals     TrialBalanceTotals `json:"totals"`
	Balanced   bool               `json:"balanced"`
	Difference decimal.Decimal    `json:"difference"`
	Warnings   []string           `json:"warnings"`
}

// BalanceSheetLine is one account (or synthetic line) in a balance sheet section.
type BalanceSheetLine struct {
	AccountID string          `json:"accountID,omitempty"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"` // Normal balance
	Synthetic bool            `json:"synthetic,omitempty"`
}

// BalanceSheetSection groups lines of the same account type.
type BalanceSheetSection struct {
	Accounts []BalanceSheetLine `json:"accounts"`
	Total    decimal.Decimal    `json:"total"`
}

// Add appends line to the section and adds its balance to the total.
func (s *BalanceSheetSection) Add(line BalanceSheetLine) {
	s.Accounts = append(s.Accounts, line)
	s.Total = s.Total.Add(line.Balance)
}

// BalanceSheetReport represents a balance sheet as of a date.
type BalanceSheetReport struct {
	AsOf                      time.Time           `json:"asOf"`
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	TotalAssets               decimal.Decimal     `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal     `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal     `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"totalLiabilitiesAndEquity"`
	Balanced                  bool                `json:"balanced"`
	Difference                decimal.Decimal     `json:"difference"`
	Warnings                  []string            `json:"warnings"`
}

// Period is an inclusive reporting window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Range converts the period into a DateRange.
func (p Period) Range() DateRange {
	return Between(p.Start, p.End)
}

// ComparativeAmount compares a value between the current and the previous period.
// ChangePercentage is nil when the previous value is zero.
type ComparativeAmount struct {
	Current          decimal.Decimal  `json:"current"`
	Previous         decimal.Decimal  `json:"previous"`
	Change           decimal.Decimal  `json:"change"`
	ChangePercentage *decimal.Decimal `json:"changePercentage"`
}

// PAndLLine is the activity of one account in a profit and loss report.
type PAndLLine struct {
	AccountSummary
	ComparativeAmount
}

// PAndLSection holds the lines and total of revenue or expenses.
type PAndLSection struct {
	Accounts []PAndLLine      `json:"accounts"`
	Total    ComparativeAmount `json:"total"`
}

// PAndLReport represents a comparative profit and loss report.
type PAndLReport struct {
	Current   Period            `json:"currentPeriod"`
	Previous  Period            `json:"previousPeriod"`
	Revenue   PAndLSection      `json:"revenue"`
	Expenses  PAndLSection      `json:"expenses"`
	NetIncome ComparativeAmount `json:"netIncome"`
}

// StatementLine is one journal entry as it appears in an account statement.
type StatementLine struct {
	Date            time.Time       `json:"date"`
	TransactionID   string          `json:"transactionID"`
	TransactionType TransactionType `json:"transactionType"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	EntryID         string          `json:"entryID"`
	LineNo          int             `json:"lineNo"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
	CreatedAt       time.Time       `json:"-"`
}

// AccountStatement is the general ledger of a single account over a window.
type AccountStatement struct {
	Account        AccountSummary  `json:"account"`
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []StatementLine `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// BalanceDiscrepancy records an account whose cached balance differs from the journal replay.
type BalanceDiscrepancy struct {
	AccountSummary
	Cached     decimal.Decimal `json:"cached"`
	Replayed   decimal.Decimal `json:"replayed"`
	Difference decimal.Decimal `json:"difference"`
}

// IntegrityReport is the result of comparing cached balances against the journal.
type IntegrityReport struct {
	CheckedAt       time.Time            `json:"checkedAt"`
	AccountsChecked int                  `json:"accountsChecked"`
	Discrepancies   []BalanceDiscrepancy `json:"discrepancies"`
}

// Healthy reports whether no discrepancy was found.
func (r IntegrityReport) Healthy() bool {
	return len(r.Discrepancies) == 0
}
