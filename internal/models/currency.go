package models

// Currency is a row of the currencies table.
type Currency struct {
	CurrencyID int64  `db:"currency_id"`
	Code       string `db:"code"` // ISO 4217, e.g. "USD"
	Symbol     string `db:"symbol"`
	Name       string `db:"name"`
	AuditFields
}
