package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account is a node of the chart of accounts.
// The ledger core is sign-agnostic: AccountType only matters to reporting.
type Account struct {
	AccountID       int64       `json:"accountID"`       // Primary Key
	Code            string      `json:"code"`            // Unique, e.g. "1010"
	Name            string      `json:"name"`            // e.g. "Cash on Hand"
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID *int64      `json:"parentAccountID"` // Nullable FK -> accounts.account_id (Self-referencing)
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// AccountNode is an account together with its children, used to render the chart of accounts.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}
