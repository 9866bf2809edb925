// Package beancount converts ledger log entries to Beancount transactions
// and appends them to monthly files.
package beancount

// Transaction represents a Beancount transaction.
type Transaction struct {
	Date      string            // YYYY-MM-DD
	Narration string            // Transaction description
	Tags      []string          // Tags (e.g., ["billdivider"])
	Metadata  map[string]string // Metadata key-value pairs
	Postings  []Posting         // Transaction postings
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account  string  // Account name (e.g., "Assets:Roommates:Alice")
	Amount   float64 // Amount (positive for debit, negative for credit)
	Currency string  // Currency code (e.g., "USD")
}
