package ledger_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shunichi-ikebuchi/billdivider/pkg/ledger"
	"github.com/shunichi-ikebuchi/billdivider/pkg/store/memory"
)

func newLedger(t *testing.T, ids ...int) (*ledger.Ledger, *memory.Store) {
	t.Helper()

	st := memory.New()
	l := ledger.New(st)
	ctx := context.Background()

	if _, err := l.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized() error = %v", err)
	}
	for _, id := range ids {
		if _, err := l.AddRoommate(ctx, id); err != nil {
			t.Fatalf("AddRoommate(%d) error = %v", id, err)
		}
	}
	return l, st
}

func mustContribution(t *testing.T, l *ledger.Ledger, id int) float64 {
	t.Helper()
	c, err := l.GetContribution(context.Background(), id)
	if err != nil {
		t.Fatalf("GetContribution(%d) error = %v", id, err)
	}
	return c
}

func TestDinnerScenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1, 2)

	if _, err := l.AddPayment(ctx, "dinner", 1, 2, 30); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	if got := mustContribution(t, l, 1); got != 30 {
		t.Errorf("contribution(1) = %v, expected 30", got)
	}
	if got := mustContribution(t, l, 2); got != -30 {
		t.Errorf("contribution(2) = %v, expected -30", got)
	}

	log, err := l.GetLog(ctx)
	if err != nil {
		t.Fatalf("GetLog() error = %v", err)
	}
	want := ledger.LogEntry{Text: "dinner", Giver: 1, Recipient: 2, Amount: 30}
	if len(log) != 1 || log[0] != want {
		t.Errorf("GetLog() = %+v, expected [%+v]", log, want)
	}

	avg, err := l.GetAvgContribution(ctx)
	if err != nil {
		t.Fatalf("GetAvgContribution() error = %v", err)
	}
	if avg != 0 {
		t.Errorf("GetAvgContribution() = %v, expected 0", avg)
	}

	tests := []struct {
		id   int
		debt float64
	}{
		{1, -30},
		{2, 30},
	}
	for _, tt := range tests {
		debt, err := l.GetDebt(ctx, tt.id)
		if err != nil {
			t.Fatalf("GetDebt(%d) error = %v", tt.id, err)
		}
		if debt != tt.debt {
			t.Errorf("GetDebt(%d) = %v, expected %v", tt.id, debt, tt.debt)
		}
	}
}

func TestExternalTopUp(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1, 2)

	before, err := l.GetTotalContributions(ctx)
	if err != nil {
		t.Fatalf("GetTotalContributions() error = %v", err)
	}

	if _, err := l.AddPayment(ctx, "external top-up", ledger.NoParty, 1, 20); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	if got := mustContribution(t, l, 1); got != -20 {
		t.Errorf("contribution(1) = %v, expected -20", got)
	}
	if got := mustContribution(t, l, 2); got != 0 {
		t.Errorf("contribution(2) = %v, expected 0", got)
	}

	after, err := l.GetTotalContributions(ctx)
	if err != nil {
		t.Fatalf("GetTotalContributions() error = %v", err)
	}
	if after != before-20 {
		t.Errorf("total = %v, expected %v", after, before-20)
	}

	log, _ := l.GetLog(ctx)
	if len(log) != 1 || log[0].Giver != ledger.NoParty {
		t.Errorf("log should record the sentinel giver literally, got %+v", log)
	}
}

func TestTotalConservation(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1, 2, 3)

	payments := []struct {
		text      string
		giver     int
		recipient int
		amount    float64
		change    float64
	}{
		{"rent", 1, 2, 450, 0},
		{"groceries", 3, 1, 62.5, 0},
		{"utilities", 2, 3, 80.25, 0},
		{"refund from landlord", -1, 2, 40, -40},
		{"deposit", 3, -1, 100, 100},
		{"internet", 1, 3, 0.1, 0},
		{"cleaning", 2, 1, 0.2, 0},
		{"external both", -1, -5, 12, 0},
	}

	for _, p := range payments {
		t.Run(p.text, func(t *testing.T) {
			before, err := l.GetTotalContributions(ctx)
			if err != nil {
				t.Fatalf("GetTotalContributions() error = %v", err)
			}
			logBefore, _ := l.GetLog(ctx)

			if _, err := l.AddPayment(ctx, p.text, p.giver, p.recipient, p.amount); err != nil {
				t.Fatalf("AddPayment() error = %v", err)
			}

			after, err := l.GetTotalContributions(ctx)
			if err != nil {
				t.Fatalf("GetTotalContributions() error = %v", err)
			}
			if math.Abs(after-(before+p.change)) > 1e-9 {
				t.Errorf("total = %v, expected %v", after, before+p.change)
			}

			logAfter, _ := l.GetLog(ctx)
			if len(logAfter) != len(logBefore)+1 {
				t.Fatalf("log length = %d, expected %d", len(logAfter), len(logBefore)+1)
			}
			last := logAfter[len(logAfter)-1]
			if last.Text != p.text {
				t.Errorf("last log entry = %q, expected %q", last.Text, p.text)
			}
		})
	}

	log, _ := l.GetLog(ctx)
	for i, p := range payments {
		if log[i].Text != p.text {
			t.Errorf("log[%d] = %q, expected %q", i, log[i].Text, p.text)
		}
	}
}

func TestDebtIdentity(t *testing.T) {
	tests := []struct {
		name     string
		payments []ledger.LogEntry
	}{
		{
			name: "whole amounts",
			payments: []ledger.LogEntry{
				{Text: "rent", Giver: 1, Recipient: -1, Amount: 1200},
				{Text: "power", Giver: 2, Recipient: -1, Amount: 90},
				{Text: "water", Giver: 3, Recipient: 4, Amount: 30},
			},
		},
		{
			name: "fractional amounts",
			payments: []ledger.LogEntry{
				{Text: "coffee", Giver: 1, Recipient: -1, Amount: 0.1},
				{Text: "snacks", Giver: 2, Recipient: -1, Amount: 0.5},
			},
		},
		{
			name: "repeating thirds",
			payments: []ledger.LogEntry{
				{Text: "bread", Giver: 1, Recipient: 2, Amount: 0.7},
				{Text: "milk", Giver: 3, Recipient: -1, Amount: 1.1},
				{Text: "eggs", Giver: 4, Recipient: 1, Amount: 0.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, _ := newLedger(t, 1, 2, 3, 4)

			for _, p := range tt.payments {
				if _, err := l.AddPayment(ctx, p.Text, p.Giver, p.Recipient, p.Amount); err != nil {
					t.Fatalf("AddPayment(%q) error = %v", p.Text, err)
				}
			}

			avg, err := l.GetAvgContribution(ctx)
			if err != nil {
				t.Fatalf("GetAvgContribution() error = %v", err)
			}
			balances, err := l.Balances(ctx)
			if err != nil {
				t.Fatalf("Balances() error = %v", err)
			}
			for _, b := range balances {
				debt, err := l.GetDebt(ctx, b.ID)
				if err != nil {
					t.Fatalf("GetDebt(%d) error = %v", b.ID, err)
				}
				c := mustContribution(t, l, b.ID)
				if debt != avg-c {
					t.Errorf("GetDebt(%d) = %v, expected %v", b.ID, debt, avg-c)
				}
				if b.Debt != debt {
					t.Errorf("Balances() debt of %d = %v, expected %v", b.ID, b.Debt, debt)
				}
			}
		})
	}
}

func TestDebtIdentityStoredFractions(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	st.Set([]byte(`{"contributions":[{"id":1,"contribution":0.1},{"id":2,"contribution":0.5}],"log":[]}`))
	l := ledger.New(st)

	avg, err := l.GetAvgContribution(ctx)
	if err != nil {
		t.Fatalf("GetAvgContribution() error = %v", err)
	}
	debt, err := l.GetDebt(ctx, 1)
	if err != nil {
		t.Fatalf("GetDebt(1) error = %v", err)
	}
	if c := mustContribution(t, l, 1); debt != avg-c {
		t.Errorf("GetDebt(1) = %v, expected %v", debt, avg-c)
	}
}

func TestOverflowIsInvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		run    func(ctx context.Context, l *ledger.Ledger) error
	}{
		{
			name:   "giver contribution overflows",
			stored: `{"contributions":[{"id":1,"contribution":1e308},{"id":2,"contribution":0}],"log":[]}`,
			run: func(ctx context.Context, l *ledger.Ledger) error {
				_, err := l.AddPayment(ctx, "big", 1, 2, 1e308)
				return err
			},
		},
		{
			name:   "recipient contribution overflows",
			stored: `{"contributions":[{"id":1,"contribution":0},{"id":2,"contribution":-1e308}],"log":[]}`,
			run: func(ctx context.Context, l *ledger.Ledger) error {
				_, err := l.AddPayment(ctx, "big", 1, 2, 1e308)
				return err
			},
		},
		{
			name:   "total overflows",
			stored: `{"contributions":[{"id":1,"contribution":1e308},{"id":2,"contribution":1e308}],"log":[]}`,
			run: func(ctx context.Context, l *ledger.Ledger) error {
				_, err := l.GetTotalContributions(ctx)
				return err
			},
		},
		{
			name:   "debt overflows",
			stored: `{"contributions":[{"id":1,"contribution":1.7e308},{"id":2,"contribution":1.7e308},{"id":3,"contribution":-1.7e308}],"log":[]}`,
			run: func(ctx context.Context, l *ledger.Ledger) error {
				_, err := l.GetDebt(ctx, 3)
				return err
			},
		},
		{
			name:   "balances overflow",
			stored: `{"contributions":[{"id":1,"contribution":1.7e308},{"id":2,"contribution":1.7e308},{"id":3,"contribution":-1.7e308}],"log":[]}`,
			run: func(ctx context.Context, l *ledger.Ledger) error {
				_, err := l.Balances(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := memory.New()
			st.Set([]byte(tt.stored))
			l := ledger.New(st)

			err := tt.run(context.Background(), l)
			if !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Fatalf("error = %v, expected ErrInvalidAmount", err)
			}
			if errors.Is(err, ledger.ErrStoreUnavailable) {
				t.Errorf("error = %v, should not be a store failure", err)
			}
			if st.Saves() != 0 {
				t.Errorf("Saves() = %d, expected no write", st.Saves())
			}
			if string(st.Raw()) != tt.stored {
				t.Errorf("stored document changed to %s", st.Raw())
			}
		})
	}
}

func TestEmptyRoommateList(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	avg, err := l.GetAvgContribution(ctx)
	if !errors.Is(err, ledger.ErrEmptyRoommateList) {
		t.Fatalf("GetAvgContribution() error = %v, expected ErrEmptyRoommateList", err)
	}
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		t.Errorf("GetAvgContribution() = %v, expected a finite value", avg)
	}

	if _, err := l.GetDebt(ctx, 1); !errors.Is(err, ledger.ErrEmptyRoommateList) {
		t.Errorf("GetDebt() error = %v, expected ErrEmptyRoommateList", err)
	}
	if _, err := l.Balances(ctx); !errors.Is(err, ledger.ErrEmptyRoommateList) {
		t.Errorf("Balances() error = %v, expected ErrEmptyRoommateList", err)
	}

	sum, err := l.GetTotalContributions(ctx)
	if err != nil || sum != 0 {
		t.Errorf("GetTotalContributions() = %v, %v, expected 0, nil", sum, err)
	}
}

func TestUnknownRoommate(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t, 1)

	if _, err := l.GetContribution(ctx, 9); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("GetContribution() error = %v, expected ErrNotFound", err)
	}
	if _, err := l.GetDebt(ctx, 9); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("GetDebt() error = %v, expected ErrNotFound", err)
	}

	saves := st.Saves()
	tests := []struct {
		name      string
		giver     int
		recipient int
	}{
		{"unknown giver", 9, 1},
		{"unknown recipient", 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddPayment(ctx, tt.name, tt.giver, tt.recipient, 5)
			if !errors.Is(err, ledger.ErrUnknownRoommate) {
				t.Errorf("AddPayment() error = %v, expected ErrUnknownRoommate", err)
			}
		})
	}

	if st.Saves() != saves {
		t.Errorf("rejected payments must not write, saves = %d, expected %d", st.Saves(), saves)
	}
	if c := mustContribution(t, l, 1); c != 0 {
		t.Errorf("contribution(1) = %v, expected 0", c)
	}
}

func TestInvalidAmount(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t, 1, 2)
	saves := st.Saves()

	tests := []struct {
		name   string
		amount float64
	}{
		{"negative", -1},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddPayment(ctx, tt.name, 1, 2, tt.amount)
			if !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Errorf("AddPayment(%v) error = %v, expected ErrInvalidAmount", tt.amount, err)
			}
		})
	}

	if st.Saves() != saves {
		t.Errorf("invalid amounts must not write, saves = %d, expected %d", st.Saves(), saves)
	}

	if _, err := l.AddPayment(ctx, "zero", 1, 2, 0); err != nil {
		t.Errorf("AddPayment(0) error = %v, expected nil", err)
	}
}

func TestAddPaymentSingleWrite(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t, 1, 2)
	saves := st.Saves()

	if _, err := l.AddPayment(ctx, "dinner", 1, 2, 30); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if st.Saves() != saves+1 {
		t.Errorf("saves = %d, expected %d", st.Saves(), saves+1)
	}
}

func TestDuplicateRecordsAllAdjusted(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	st.Set([]byte(`{"contributions":[{"id":1,"contribution":0},{"id":1,"contribution":5},{"id":2,"contribution":0}],"log":[]}`))
	l := ledger.New(st)

	if _, err := l.AddPayment(ctx, "shared", 1, 2, 10); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	records, err := l.Contributions(ctx)
	if err != nil {
		t.Fatalf("Contributions() error = %v", err)
	}
	want := []float64{10, 15, -10}
	for i, r := range records {
		if r.Contribution != want[i] {
			t.Errorf("records[%d] = %v, expected %v", i, r.Contribution, want[i])
		}
	}
}

func TestEnsureInitializedIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := ledger.New(st)

	created, err := l.EnsureInitialized(ctx)
	if err != nil || !created {
		t.Fatalf("first EnsureInitialized() = %v, %v, expected true, nil", created, err)
	}
	if _, err := l.AddRoommate(ctx, 1); err != nil {
		t.Fatalf("AddRoommate() error = %v", err)
	}
	if _, err := l.AddPayment(ctx, "dinner", 1, -1, 12); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	raw := string(st.Raw())
	saves := st.Saves()

	created, err = l.EnsureInitialized(ctx)
	if err != nil || created {
		t.Fatalf("second EnsureInitialized() = %v, %v, expected false, nil", created, err)
	}
	if st.Saves() != saves {
		t.Errorf("second EnsureInitialized() wrote the document")
	}
	if string(st.Raw()) != raw {
		t.Errorf("document changed: %s, expected %s", st.Raw(), raw)
	}
}

func TestEnsureInitializedTwiceOnEmpty(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := ledger.New(st)

	if _, err := l.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized() error = %v", err)
	}
	first := string(st.Raw())
	if _, err := l.EnsureInitialized(ctx); err != nil {
		t.Fatalf("EnsureInitialized() error = %v", err)
	}

	if st.Saves() != 1 {
		t.Errorf("saves = %d, expected 1", st.Saves())
	}
	if first != `{"contributions":[],"log":[]}` {
		t.Errorf("initial document = %s", first)
	}
	if string(st.Raw()) != first {
		t.Errorf("document changed: %s", st.Raw())
	}
}

func TestLazyDocument(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	l := ledger.New(st)

	log, err := l.GetLog(ctx)
	if err != nil || len(log) != 0 {
		t.Fatalf("GetLog() = %v, %v, expected empty", log, err)
	}
	if st.Raw() != nil {
		t.Errorf("reads must not create the document")
	}

	if _, err := l.AddRoommate(ctx, 3); err != nil {
		t.Fatalf("AddRoommate() error = %v", err)
	}
	if st.Saves() != 1 {
		t.Errorf("saves = %d, expected 1", st.Saves())
	}
}

func TestAddRoommate(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1)

	if _, err := l.AddRoommate(ctx, 1); !errors.Is(err, ledger.ErrDuplicateRoommate) {
		t.Errorf("AddRoommate(1) error = %v, expected ErrDuplicateRoommate", err)
	}
	if _, err := l.AddRoommate(ctx, -2); !errors.Is(err, ledger.ErrInvalidRoommateID) {
		t.Errorf("AddRoommate(-2) error = %v, expected ErrInvalidRoommateID", err)
	}

	r, err := l.AddRoommate(ctx, 0)
	if err != nil {
		t.Fatalf("AddRoommate(0) error = %v", err)
	}
	if r.ID != 0 || r.Contribution != 0 {
		t.Errorf("AddRoommate(0) = %+v", r)
	}

	records, _ := l.Contributions(ctx)
	if len(records) != 2 || records[0].ID != 1 || records[1].ID != 0 {
		t.Errorf("Contributions() = %+v, expected ids [1 0]", records)
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt", func(t *testing.T) {
		st := memory.New()
		st.Set([]byte(`{"contributions":[{"id":"one"}],"log":[]}`))
		l := ledger.New(st)

		if _, err := l.GetTotalContributions(ctx); !errors.Is(err, ledger.ErrStoreCorrupt) {
			t.Errorf("GetTotalContributions() error = %v, expected ErrStoreCorrupt", err)
		}
		if _, err := l.EnsureInitialized(ctx); !errors.Is(err, ledger.ErrStoreCorrupt) {
			t.Errorf("EnsureInitialized() error = %v, expected ErrStoreCorrupt", err)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		st := memory.New()
		l := ledger.New(st)
		boom := errors.New("disk on fire")
		st.Fail(boom)

		_, err := l.GetLog(ctx)
		if !errors.Is(err, ledger.ErrStoreUnavailable) || !errors.Is(err, boom) {
			t.Errorf("GetLog() error = %v, expected ErrStoreUnavailable wrapping the cause", err)
		}
		if _, err := l.AddRoommate(ctx, 1); !errors.Is(err, ledger.ErrStoreUnavailable) {
			t.Errorf("AddRoommate() error = %v, expected ErrStoreUnavailable", err)
		}
	})
}

func TestBalancesAndSettlements(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1, 2, 3)

	_, _ = l.AddPayment(ctx, "rent", 1, -1, 900)
	_, _ = l.AddPayment(ctx, "groceries", 2, -1, 300)

	balances, err := l.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	wantDebt := map[int]float64{1: -500, 2: 100, 3: 400}
	for _, b := range balances {
		if b.Debt != wantDebt[b.ID] {
			t.Errorf("debt(%d) = %v, expected %v", b.ID, b.Debt, wantDebt[b.ID])
		}
	}

	transfers, err := l.Settlements(ctx)
	if err != nil {
		t.Fatalf("Settlements() error = %v", err)
	}
	want := []ledger.Transfer{
		{From: 3, To: 1, Amount: 400},
		{From: 2, To: 1, Amount: 100},
	}
	if len(transfers) != len(want) {
		t.Fatalf("Settlements() = %+v, expected %+v", transfers, want)
	}
	for i := range want {
		if transfers[i] != want[i] {
			t.Errorf("transfers[%d] = %+v, expected %+v", i, transfers[i], want[i])
		}
	}

	for _, tr := range transfers {
		if _, err := l.AddPayment(ctx, "settle up", tr.From, tr.To, tr.Amount); err != nil {
			t.Fatalf("AddPayment() error = %v", err)
		}
	}
	for _, id := range []int{1, 2, 3} {
		debt, _ := l.GetDebt(ctx, id)
		if debt != 0 {
			t.Errorf("debt(%d) after settling = %v, expected 0", id, debt)
		}
	}

	transfers, _ = l.Settlements(ctx)
	if len(transfers) != 0 {
		t.Errorf("Settlements() after settling = %+v, expected none", transfers)
	}
}

func TestConcurrentPaymentsKeepEveryUpdate(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, 1, 2)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.AddPayment(ctx, "coffee", 1, 2, 1); err != nil {
				t.Errorf("AddPayment() error = %v", err)
			}
		}()
	}
	wg.Wait()

	log, _ := l.GetLog(ctx)
	if len(log) != 50 {
		t.Errorf("log length = %d, expected 50", len(log))
	}
	if c := mustContribution(t, l, 1); c != 50 {
		t.Errorf("contribution(1) = %v, expected 50", c)
	}
}
