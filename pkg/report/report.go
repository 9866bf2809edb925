// Package report renders ledger figures for people: amounts in the household
// currency, roommate names instead of ids.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
)

// Namer resolves roommate ids to display names.
type Namer interface {
	Name(id int) string
}

// Formatter formats amounts and ledger views.
type Formatter struct {
	currency *money.Currency
	names    Namer
}

// New creates a Formatter for an ISO 4217 currency code.
func New(currency string, names Namer) (*Formatter, error) {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency: %s", currency)
	}
	return &Formatter{currency: cur, names: names}, nil
}

// Amount formats a ledger amount, rounded to the currency's minor unit.
func (f *Formatter) Amount(amount float64) string {
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(f.currency.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, f.currency.Code).Display()
}

// Debt describes a debt in words.
func (f *Formatter) Debt(debt float64) string {
	d := decimal.NewFromFloat(debt).Round(int32(f.currency.Fraction))
	switch {
	case d.IsPositive():
		return "owes " + f.Amount(debt)
	case d.IsNegative():
		return "is owed " + f.Amount(-debt)
	default:
		return "settled"
	}
}

// WriteBalances prints one line per roommate.
func (f *Formatter) WriteBalances(w io.Writer, balances []ledger.Balance) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROOMMATE\tCONTRIBUTION\tDEBT")
	for _, b := range balances {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", b.ID, f.names.Name(b.ID), f.Amount(b.Contribution), f.Debt(b.Debt))
	}
	return tw.Flush()
}

// WriteLog prints the log oldest first.
func (f *Formatter) WriteLog(w io.Writer, entries []ledger.LogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "(no payments recorded)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDESCRIPTION\tFROM\tTO\tAMOUNT")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Text, f.names.Name(e.Giver), f.names.Name(e.Recipient), f.Amount(e.Amount))
	}
	return tw.Flush()
}

// WriteSettlements prints suggested transfers.
func (f *Formatter) WriteSettlements(w io.Writer, transfers []ledger.Transfer) error {
	if len(transfers) == 0 {
		_, err := fmt.Fprintln(w, "Everyone is settled up.")
		return err
	}
	for _, t := range transfers {
		if _, err := fmt.Fprintf(w, "%s pays %s %s\n", f.names.Name(t.From), f.names.Name(t.To), f.Amount(t.Amount)); err != nil {
			return err
		}
	}
	return nil
}
