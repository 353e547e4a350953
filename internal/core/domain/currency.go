package domain

// Currency represents a supported currency in the domain.
// Currencies are reference data: created at setup time and never mutated by the ledger.
type Currency struct {
	CurrencyID int64  `json:"currencyID"` // Primary Key
	Code       string `json:"code"`       // Unique, e.g. "USD"
	Symbol     string `json:"symbol"`     // e.g., "$"
	Name       string `json:"name"`       // e.g., "US Dollar"
	AuditFields
}
