package models

// Account is a row of the accounts table.
type Account struct {
	AccountID       int64  `db:"account_id"`
	Code            string `db:"code"`
	Name            string `db:"name"`
	AccountType     string `db:"account_type"`
	ParentAccountID *int64 `db:"parent_account_id"` // Nullable
	Description     string `db:"description"`
	IsActive        bool   `db:"is_active"`
	AuditFields
}
