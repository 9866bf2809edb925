package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

// settleThreshold is the smallest debt worth a transfer.
var settleThreshold = decimal.New(5, -3)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validAmount(amount float64) bool {
	return finite(amount) && amount >= 0
}

// adjust adds delta to every record matching id and reports how many matched.
func adjust(records []ContributionRecord, id int, delta decimal.Decimal) int {
	n := 0
	for i := range records {
		if records[i].ID == id {
			records[i].Contribution = dec(records[i].Contribution).Add(delta).InexactFloat64()
			n++
		}
	}
	return n
}

func has(records []ContributionRecord, id int) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}

func total(records []ContributionRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(dec(r.Contribution))
	}
	return sum
}

func average(records []ContributionRecord) (decimal.Decimal, error) {
	if len(records) == 0 {
		return decimal.Zero, ErrEmptyRoommateList
	}
	return total(records).Div(decimal.NewFromInt(int64(len(records)))), nil
}

func lookup(records []ContributionRecord, id int) (ContributionRecord, error) {
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return ContributionRecord{}, ErrNotFound
}
