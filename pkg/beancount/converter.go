package beancount

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
)

// Account roots used for exported postings.
const (
	RoommateAccountPrefix = "Assets:Roommates"
	ExternalAccount       = "Equity:Household:External"
)

// Namer resolves roommate ids to display names.
type Namer interface {
	Name(id int) string
}

// Converter converts ledger log entries to Beancount transactions.
type Converter struct {
	namer    Namer
	currency string
}

// NewConverter creates a new Converter.
func NewConverter(namer Namer, currency string) *Converter {
	if currency == "" {
		currency = "USD"
	}
	return &Converter{
		namer:    namer,
		currency: currency,
	}
}

// ConvertEntry converts one log entry. The giver's account is debited and the
// recipient's credited; an external side posts to ExternalAccount. It returns
// false when both sides are external, since such an entry has no balancing leg.
func (c *Converter) ConvertEntry(index int, entry ledger.LogEntry, date time.Time) (Transaction, bool) {
	if !ledger.IsParty(entry.Giver) && !ledger.IsParty(entry.Recipient) {
		return Transaction{}, false
	}

	giverAccount := ExternalAccount
	if ledger.IsParty(entry.Giver) {
		giverAccount = c.roommateAccount(entry.Giver)
	}
	recipientAccount := ExternalAccount
	if ledger.IsParty(entry.Recipient) {
		recipientAccount = c.roommateAccount(entry.Recipient)
	}

	narration := entry.Text
	if narration == "" {
		narration = fmt.Sprintf("%s to %s", c.namer.Name(entry.Giver), c.namer.Name(entry.Recipient))
	}

	return Transaction{
		Date:      date.Format("2006-01-02"),
		Narration: narration,
		Tags:      []string{"billdivider"},
		Metadata: map[string]string{
			"log-index": strconv.Itoa(index),
		},
		Postings: []Posting{
			{Account: giverAccount, Amount: entry.Amount, Currency: c.currency},
			{Account: recipientAccount, Amount: -entry.Amount, Currency: c.currency},
		},
	}, true
}

func (c *Converter) roommateAccount(id int) string {
	name := sanitizeAccountName(c.namer.Name(id))
	if name == "" {
		name = fmt.Sprintf("Roommate%d", id)
	}
	return RoommateAccountPrefix + ":" + name
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn Transaction) string {
	var sb strings.Builder

	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	sb.WriteString(fmt.Sprintf(" \"%s\"", escape(txn.Narration)))
	if len(txn.Tags) > 0 {
		sb.WriteString(" #")
		sb.WriteString(strings.Join(txn.Tags, " #"))
	}
	sb.WriteString("\n")

	keys := make([]string, 0, len(txn.Metadata))
	for k := range txn.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: \"%s\"\n", k, escape(txn.Metadata[k])))
	}

	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amount (typical Beancount style)
		spaces := int(math.Max(1, 50-float64(len(posting.Account))))
		sb.WriteString(strings.Repeat(" ", spaces))

		amount := decimal.NewFromFloat(posting.Amount).StringFixed(2)
		sb.WriteString(fmt.Sprintf("%s %s\n", amount, posting.Currency))
	}

	return sb.String()
}

// sanitizeAccountName keeps letters and digits and capitalizes the first
// letter, as Beancount account components require.
func sanitizeAccountName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	out := []rune(sb.String())
	if len(out) == 0 || !unicode.IsLetter(out[0]) {
		return ""
	}
	out[0] = unicode.ToUpper(out[0])
	return string(out)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
