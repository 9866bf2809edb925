// Package ledger implements the household bill-splitting ledger: roommate
// contribution balances, debts relative to the group average and the
// append-only log of adjusting payments.
package ledger

// DocumentKey is the well-known key of the ledger document in a key-value store.
const DocumentKey = "BillDividerData"

// NoParty is the sentinel id for an external giver or recipient.
// Any negative id is treated the same way.
const NoParty = -1

// ContributionRecord is the running total a roommate has paid toward shared expenses.
type ContributionRecord struct {
	ID           int     `json:"id"`
	Contribution float64 `json:"contribution"`
}

// LogEntry is one balance-adjusting payment. Entries are never modified after append.
type LogEntry struct {
	Text      string  `json:"text"`
	Giver     int     `json:"giver"`
	Recipient int     `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// Document is the persisted aggregate: every contribution record plus the log.
type Document struct {
	Contributions []ContributionRecord `json:"contributions"`
	Log           []LogEntry           `json:"log"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Contributions: []ContributionRecord{},
		Log:           []LogEntry{},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Contributions: make([]ContributionRecord, len(d.Contributions)),
		Log:           make([]LogEntry, len(d.Log)),
	}
	copy(out.Contributions, d.Contributions)
	copy(out.Log, d.Log)
	return out
}

// Balance is a roommate's contribution together with their debt.
// Positive Debt means the roommate paid less than average.
type Balance struct {
	ID           int     `json:"id"`
	Contribution float64 `json:"contribution"`
	Debt         float64 `json:"debt"`
}

// Transfer is a suggested payment that moves both parties toward the average.
type Transfer struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Amount float64 `json:"amount"`
}

// IsParty reports whether id refers to a roommate rather than the sentinel.
func IsParty(id int) bool {
	return id >= 0
}
