package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the largest debit/credit difference still considered balanced.
var Tolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// AmountScale is the number of decimal places amounts and balances are stored with.
const AmountScale = 4

// HasAmountScale reports whether d is exactly representable with AmountScale decimals.
// Trailing zeros beyond the scale are allowed.
func HasAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}

// WithinTolerance reports whether a and b differ by no more than Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// NormalBalance converts a raw Σ(debit − credit) balance into the account type's normal balance.
// ASSET and EXPENSE keep the raw sign; LIABILITY, EQUITY and REVENUE are flipped.
func NormalBalance(accountType domain.AccountType, raw decimal.Decimal) decimal.Decimal {
	if accountType.IsDebitNormal() {
		return raw
	}
	return raw.Neg()
}

// SplitDebitCredit places a raw balance into the debit column when positive and into
// the credit column (as an absolute value) when negative.
func SplitDebitCredit(raw decimal.Decimal) (debit, credit decimal.Decimal) {
	switch raw.Sign() {
	case 1:
		return raw, decimal.Zero
	case -1:
		return decimal.Zero, raw.Abs()
	}
	return decimal.Zero, decimal.Zero
}

// PercentChange returns (current − previous) / previous × 100, or nil when previous is zero.
func PercentChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	pct := current.Sub(previous).Div(previous).Mul(hundred).Round(2)
	return &pct
}

// Compare builds a ComparativeAmount from the current and previous values.
func Compare(current, previous decimal.Decimal) domain.ComparativeAmount {
	return domain.ComparativeAmount{
		Current:          current,
		Previous:         previous,
		Change:           current.Sub(previous),
		ChangePercentage: PercentChange(current, previous),
	}
}
