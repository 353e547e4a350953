package dto

import (
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetBalanceParams selects a current or historical balance.
type GetBalanceParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID  int64           `json:"accountID"`
	CurrencyID int64           `json:"currencyID"`
	Balance    decimal.Decimal `json:"balance"`
	AsOfDate   *time.Time      `json:"asOfDate,omitempty"`
}

// ListAccountBalancesResponse holds every currency balance of an account.
type ListAccountBalancesResponse struct {
	AccountID int64                    `json:"accountID"`
	Balances  []AccountBalanceResponse `json:"balances"`
}

// ToAccountBalanceResponses converts materialized balance rows.
func ToAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	res := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		asOf := b.AsOfDate
		res[i] = AccountBalanceResponse{
			AccountID:  b.AccountID,
			CurrencyID: b.CurrencyID,
			Balance:    b.Balance,
			AsOfDate:   &asOf,
		}
	}
	return res
}

// TrialBalanceParams selects the currency of a trial balance.
type TrialBalanceParams struct {
	CurrencyID int64 `form:"currencyID" binding:"required,gt=0"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   int64           `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	CurrencyID  int64                     `json:"currencyID"`
	GeneratedAt time.Time                 `json:"generatedAt"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	Totals      struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	res := TrialBalanceResponse{
		CurrencyID:  tb.CurrencyID,
		GeneratedAt: tb.GeneratedAt,
		Rows:        make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced:    tb.IsBalanced(),
	}
	for i, r := range tb.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	res.Totals.Debit = tb.TotalDebit
	res.Totals.Credit = tb.TotalCredit
	return res
}

// RecomputeBalancesResponse summarizes a full recomputation.
type RecomputeBalancesResponse struct {
	Deleted    int64 `json:"deleted"`
	Inserted   int64 `json:"inserted"`
	DurationMs int64 `json:"durationMs"`
}

// BalanceDriftResponse is one materialized balance that disagrees with the lines.
type BalanceDriftResponse struct {
	AccountID    int64           `json:"accountID"`
	CurrencyID   int64           `json:"currencyID"`
	Materialized decimal.Decimal `json:"materialized"`
	Expected     decimal.Decimal `json:"expected"`
}

// VerifyBalancesResponse is the drift report.
type VerifyBalancesResponse struct {
	Consistent bool                   `json:"consistent"`
	Drifts     []BalanceDriftResponse `json:"drifts"`
}

// ToVerifyBalancesResponse converts a drift list.
func ToVerifyBalancesResponse(drifts []domain.BalanceDrift) VerifyBalancesResponse {
	res := VerifyBalancesResponse{Consistent: len(drifts) == 0, Drifts: make([]BalanceDriftResponse, len(drifts))}
	for i, d := range drifts {
		res.Drifts[i] = BalanceDriftResponse{
			AccountID:    d.AccountID,
			CurrencyID:   d.CurrencyID,
			Materialized: d.Materialized,
			Expected:     d.Expected,
		}
	}
	return res
}

// ApplyPendingRequest bounds a sweep of unapplied entries.
type ApplyPendingRequest struct {
	Limit int `json:"limit" binding:"omitempty,min=1,max=10000"`
}

// ApplyEntryResponse reports whether the call changed balances.
type ApplyEntryResponse struct {
	EntryID int64 `json:"entryID"`
	Applied bool  `json:"applied"`
}

// ApplyPendingResponse reports how many entries were applied.
type ApplyPendingResponse struct {
	Applied int `json:"applied"`
}
