package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Store loads and saves the whole ledger document.
// Load returns ErrDocumentNotFound when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Ledger runs every operation as one load-(mutate-save) cycle against its
// store. Operations of one Ledger are serialized; separate processes sharing
// a store are not coordinated.
type Ledger struct {
	store  Store
	logger *slog.Logger
	mu     sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for mutation events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Ledger backed by store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// load returns the stored document, or an empty one and false when absent.
func (l *Ledger) load(ctx context.Context) (*Document, bool, error) {
	doc, err := l.store.Load(ctx)
	switch {
	case err == nil:
		if doc == nil {
			return nil, false, fmt.Errorf("%w: store returned no document", ErrStoreCorrupt)
		}
		return doc, true, nil
	case errors.Is(err, ErrDocumentNotFound):
		return NewDocument(), false, nil
	case errors.Is(err, ErrStoreCorrupt):
		return nil, false, err
	default:
		return nil, false, fmt.Errorf("%w: load: %w", ErrStoreUnavailable, err)
	}
}

func (l *Ledger) save(ctx context.Context, doc *Document) error {
	if err := l.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("%w: save: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (l *Ledger) view(ctx context.Context, fn func(doc *Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, _, err := l.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// update is the only path that writes: fn mutates the loaded document and a
// nil return persists it with exactly one save.
func (l *Ledger) update(ctx context.Context, fn func(doc *Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, _, err := l.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return l.save(ctx, doc)
}

// EnsureInitialized stores an empty document if none exists and reports
// whether it did so. Calling it again is a no-op.
func (l *Ledger) EnsureInitialized(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, found, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	if err := l.save(ctx, NewDocument()); err != nil {
		return false, err
	}
	l.logger.Info("Initialized ledger document", "key", DocumentKey)
	return true, nil
}

// GetContribution returns the contribution of roommate id.
func (l *Ledger) GetContribution(ctx context.Context, id int) (float64, error) {
	var amount float64
	err := l.view(ctx, func(doc *Document) error {
		r, err := lookup(doc.Contributions, id)
		if err != nil {
			return fmt.Errorf("%w: id %d", err, id)
		}
		amount = r.Contribution
		return nil
	})
	return amount, err
}

// GetTotalContributions sums every contribution. An empty ledger totals 0.
func (l *Ledger) GetTotalContributions(ctx context.Context) (float64, error) {
	var sum float64
	err := l.view(ctx, func(doc *Document) error {
		sum = total(doc.Contributions).InexactFloat64()
		if !finite(sum) {
			return fmt.Errorf("%w: total contributions exceed the float range", ErrInvalidAmount)
		}
		return nil
	})
	return sum, err
}

// GetAvgContribution divides the total by the number of records.
func (l *Ledger) GetAvgContribution(ctx context.Context) (float64, error) {
	var avg float64
	err := l.view(ctx, func(doc *Document) error {
		a, err := average(doc.Contributions)
		if err != nil {
			return err
		}
		avg = a.InexactFloat64()
		return nil
	})
	return avg, err
}

// GetDebt returns the average contribution minus the contribution of id.
// Positive means the roommate owes the household.
func (l *Ledger) GetDebt(ctx context.Context, id int) (float64, error) {
	var debt float64
	err := l.view(ctx, func(doc *Document) error {
		avg, err := average(doc.Contributions)
		if err != nil {
			return err
		}
		r, err := lookup(doc.Contributions, id)
		if err != nil {
			return fmt.Errorf("%w: id %d", err, id)
		}
		debt, err = debtOf(avg, r)
		return err
	})
	return debt, err
}

// debtOf is the float difference of the values GetAvgContribution and
// GetContribution return, so the two always agree with GetDebt.
func debtOf(avg decimal.Decimal, r ContributionRecord) (float64, error) {
	debt := avg.InexactFloat64() - r.Contribution
	if !finite(debt) {
		return 0, fmt.Errorf("%w: debt of id %d exceeds the float range", ErrInvalidAmount, r.ID)
	}
	return debt, nil
}

// AddPayment moves amount from giver to recipient and appends the entry to
// the log. The giver's contribution grows by amount and the recipient's
// shrinks by it; a negative id is an external party whose side is skipped.
// Every record matching an id is adjusted.
func (l *Ledger) AddPayment(ctx context.Context, text string, giver, recipient int, amount float64) (LogEntry, error) {
	entry := LogEntry{
		Text:      text,
		Giver:     giver,
		Recipient: recipient,
		Amount:    amount,
	}
	if !validAmount(amount) {
		return LogEntry{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	err := l.update(ctx, func(doc *Document) error {
		if IsParty(giver) && !has(doc.Contributions, giver) {
			return fmt.Errorf("%w: giver %d", ErrUnknownRoommate, giver)
		}
		if IsParty(recipient) && !has(doc.Contributions, recipient) {
			return fmt.Errorf("%w: recipient %d", ErrUnknownRoommate, recipient)
		}

		delta := dec(amount)
		if IsParty(giver) {
			adjust(doc.Contributions, giver, delta)
		}
		if IsParty(recipient) {
			adjust(doc.Contributions, recipient, delta.Neg())
		}
		for _, r := range doc.Contributions {
			if !finite(r.Contribution) {
				return fmt.Errorf("%w: %v would push the contribution of id %d out of range", ErrInvalidAmount, amount, r.ID)
			}
		}
		doc.Log = append(doc.Log, entry)
		return nil
	})
	if err != nil {
		return LogEntry{}, err
	}

	l.logger.Debug("Recorded payment",
		"text", text,
		"giver", giver,
		"recipient", recipient,
		"amount", amount,
	)
	return entry, nil
}

// GetLog returns every log entry, oldest first.
func (l *Ledger) GetLog(ctx context.Context) ([]LogEntry, error) {
	var entries []LogEntry
	err := l.view(ctx, func(doc *Document) error {
		entries = make([]LogEntry, len(doc.Log))
		copy(entries, doc.Log)
		return nil
	})
	return entries, err
}

// AddRoommate creates a zero contribution record for id.
func (l *Ledger) AddRoommate(ctx context.Context, id int) (ContributionRecord, error) {
	if !IsParty(id) {
		return ContributionRecord{}, fmt.Errorf("%w: %d", ErrInvalidRoommateID, id)
	}

	record := ContributionRecord{ID: id}
	err := l.update(ctx, func(doc *Document) error {
		if has(doc.Contributions, id) {
			return fmt.Errorf("%w: id %d", ErrDuplicateRoommate, id)
		}
		doc.Contributions = append(doc.Contributions, record)
		return nil
	})
	if err != nil {
		return ContributionRecord{}, err
	}

	l.logger.Info("Added roommate", "id", id)
	return record, nil
}

// Contributions returns every contribution record in stored order.
func (l *Ledger) Contributions(ctx context.Context) ([]ContributionRecord, error) {
	var records []ContributionRecord
	err := l.view(ctx, func(doc *Document) error {
		records = make([]ContributionRecord, len(doc.Contributions))
		copy(records, doc.Contributions)
		return nil
	})
	return records, err
}

// Balances returns the contribution and debt of every record.
func (l *Ledger) Balances(ctx context.Context) ([]Balance, error) {
	var balances []Balance
	err := l.view(ctx, func(doc *Document) error {
		avg, err := average(doc.Contributions)
		if err != nil {
			return err
		}
		balances = make([]Balance, 0, len(doc.Contributions))
		for _, r := range doc.Contributions {
			debt, err := debtOf(avg, r)
			if err != nil {
				return err
			}
			balances = append(balances, Balance{
				ID:           r.ID,
				Contribution: r.Contribution,
				Debt:         debt,
			})
		}
		return nil
	})
	return balances, err
}

// Document returns a copy of the whole stored document.
func (l *Ledger) Document(ctx context.Context) (*Document, error) {
	var out *Document
	err := l.view(ctx, func(doc *Document) error {
		out = doc.Clone()
		return nil
	})
	return out, err
}

type party struct {
	id     int
	amount decimal.Decimal
}

// Settlements suggests transfers that bring every debt to zero. The largest
// debtor pays the largest creditor until nothing above half a cent remains.
// Each transfer can be recorded with AddPayment(text, From, To, Amount).
func (l *Ledger) Settlements(ctx context.Context) ([]Transfer, error) {
	var transfers []Transfer
	err := l.view(ctx, func(doc *Document) error {
		avg, err := average(doc.Contributions)
		if err != nil {
			return err
		}

		var debtors, creditors []party
		for _, r := range doc.Contributions {
			d := avg.Sub(dec(r.Contribution))
			switch {
			case d.GreaterThanOrEqual(settleThreshold):
				debtors = append(debtors, party{id: r.ID, amount: d})
			case d.Neg().GreaterThanOrEqual(settleThreshold):
				creditors = append(creditors, party{id: r.ID, amount: d.Neg()})
			}
		}
		sortParties(debtors)
		sortParties(creditors)

		transfers = []Transfer{}
		i, j := 0, 0
		for i < len(debtors) && j < len(creditors) {
			pay := decimal.Min(debtors[i].amount, creditors[j].amount)
			if pay.GreaterThanOrEqual(settleThreshold) {
				transfers = append(transfers, Transfer{
					From:   debtors[i].id,
					To:     creditors[j].id,
					Amount: pay.Round(2).InexactFloat64(),
				})
			}
			debtors[i].amount = debtors[i].amount.Sub(pay)
			creditors[j].amount = creditors[j].amount.Sub(pay)
			if debtors[i].amount.LessThan(settleThreshold) {
				i++
			}
			if creditors[j].amount.LessThan(settleThreshold) {
				j++
			}
		}
		return nil
	})
	return transfers, err
}

func sortParties(parties []party) {
	sort.SliceStable(parties, func(a, b int) bool {
		if c := parties[a].amount.Cmp(parties[b].amount); c != 0 {
			return c > 0
		}
		return parties[a].id < parties[b].id
	})
}
