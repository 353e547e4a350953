package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the maximum number of decimal places accepted on a line amount.
const MoneyScale int32 = 2

// MaxAmount is the exclusive upper bound of a line amount, the limit of a NUMERIC(20,2) column.
var MaxAmount = decimal.New(1, 20-MoneyScale)

// BalanceTolerance is the absolute rounding tolerance used for balancing and for skipping zero deltas.
var BalanceTolerance = decimal.New(1, -MoneyScale)

// IsNegligible reports whether |d| is below BalanceTolerance.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(BalanceTolerance)
}

// BalanceKey identifies a materialized balance row.
type BalanceKey struct {
	AccountID  int64 `json:"accountID"`
	CurrencyID int64 `json:"currencyID"`
}

// Less orders keys by account then currency; row locks are always taken in this order.
func (k BalanceKey) Less(o BalanceKey) bool {
	if k.AccountID != o.AccountID {
		return k.AccountID < o.AccountID
	}
	return k.CurrencyID < o.CurrencyID
}

// AccountBalance is the materialized current balance for one (account, currency) pair.
// There is exactly one row per pair; AsOfDate is the date of the last change.
type AccountBalance struct {
	BalanceID  int64           `json:"balanceID"`
	AccountID  int64           `json:"accountID"`
	CurrencyID int64           `json:"currencyID"`
	Balance    decimal.Decimal `json:"balance"` // Signed debit - credit
	AsOfDate   time.Time       `json:"asOfDate"`
}

// Key returns the (account, currency) pair of the row.
func (b AccountBalance) Key() BalanceKey {
	return BalanceKey{AccountID: b.AccountID, CurrencyID: b.CurrencyID}
}

// LineTotal is the aggregate of all lines posted to one (account, currency) pair.
type LineTotal struct {
	BalanceKey
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Net returns debit - credit.
func (t LineTotal) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// BalanceDrift describes a materialized balance that disagrees with the line history.
type BalanceDrift struct {
	BalanceKey
	Materialized decimal.Decimal `json:"materialized"`
	Expected     decimal.Decimal `json:"expected"`
}

// RecomputeResult summarizes a full recomputation.
type RecomputeResult struct {
	Deleted  int64         `json:"deleted"`
	Inserted int64         `json:"inserted"`
	Duration time.Duration `json:"duration"`
}
