package cart

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/catalog"
	"github.com/mesh-intelligence/storefront/internal/memstore"
	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// flakyStore fails every Put while failPuts is set.
type flakyStore struct {
	types.Store
	mu       sync.Mutex
	failPuts bool
}

var errDiskFull = errors.New("disk full")

func (s *flakyStore) Put(key string, value []byte) error {
	s.mu.Lock()
	fail := s.failPuts
	s.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return s.Store.Put(key, value)
}

func newMemStore(t *testing.T) types.Store {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendMemory
	s := memstore.NewBackend()
	require.NoError(t, s.Attach(cfg))
	return s
}

func newLedger(t *testing.T, opts ...Option) (*Ledger, types.Store) {
	t.Helper()
	store := newMemStore(t)
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(catalog.Default(), store, opts...), store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAdd(t *testing.T) {
	l, _ := newLedger(t)

	change, err := l.Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, types.Change{Kind: types.ChangeLineAdded, ProductID: 1, Quantity: 2}, change)

	change, err = l.Add(1, 3)
	require.NoError(t, err)
	assert.Equal(t, types.Change{Kind: types.ChangeQuantityIncreased, ProductID: 1, Previous: 2, Quantity: 5}, change)

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, fixedNow, lines[0].AddedAt)
}

func TestAdd_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		productID int
		quantity  int
		wantErr   error
	}{
		{"unknown product", 999, 1, types.ErrProductNotFound},
		{"zero quantity", 1, 0, types.ErrInvalidQuantity},
		{"negative quantity", 1, -2, types.ErrInvalidQuantity},
		{"new line over limit", 2, 100, types.ErrQuantityLimit},
		{"increment over limit", 1, 95, types.ErrQuantityLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newLedger(t)
			_, err := l.Add(1, 5)
			require.NoError(t, err)

			_, err = l.Add(tt.productID, tt.quantity)
			assert.ErrorIs(t, err, tt.wantErr)

			lines := l.Lines()
			require.Len(t, lines, 1, "rejected add must not mutate")
			assert.Equal(t, 5, lines[0].Quantity)
		})
	}
}

func TestAdd_UpToLimit(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(1, 98)
	require.NoError(t, err)
	_, err = l.Add(1, 1)
	require.NoError(t, err)

	line, ok := l.Line(1)
	require.True(t, ok)
	assert.Equal(t, types.MaxQuantity, line.Quantity)
}

func TestRemove(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.Remove(1)
	assert.ErrorIs(t, err, types.ErrLineNotFound)

	_, err = l.Add(1, 2)
	require.NoError(t, err)
	_, err = l.Add(3, 1)
	require.NoError(t, err)

	change, err := l.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, types.Change{Kind: types.ChangeLineRemoved, ProductID: 1, Previous: 2}, change)

	_, ok := l.Line(1)
	assert.False(t, ok)
	assert.Len(t, l.Lines(), 1)
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantKind types.ChangeKind
		wantErr  error
		wantQty  int
		present  bool
	}{
		{"increase", 7, types.ChangeQuantityIncreased, nil, 7, true},
		{"decrease", 2, types.ChangeQuantityDecreased, nil, 2, true},
		{"same", 5, types.ChangeUnchanged, nil, 5, true},
		{"max", 99, types.ChangeQuantityIncreased, nil, 99, true},
		{"over max", 100, "", types.ErrQuantityLimit, 5, true},
		{"zero removes", 0, types.ChangeLineRemoved, nil, 0, false},
		{"negative removes", -3, types.ChangeLineRemoved, nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newLedger(t)
			_, err := l.Add(1, 5)
			require.NoError(t, err)

			change, err := l.UpdateQuantity(1, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKind, change.Kind)
			}

			line, ok := l.Line(1)
			assert.Equal(t, tt.present, ok)
			if ok {
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestUpdateQuantity_AbsentLine(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.UpdateQuantity(1, 3)
	assert.ErrorIs(t, err, types.ErrLineNotFound)
	_, err = l.UpdateQuantity(1, 0)
	assert.ErrorIs(t, err, types.ErrLineNotFound)
	assert.True(t, l.IsEmpty())
}

func TestIncreaseDecrease(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.Increase(1)
	assert.ErrorIs(t, err, types.ErrLineNotFound)
	_, err = l.Decrease(1)
	assert.ErrorIs(t, err, types.ErrLineNotFound)

	_, err = l.Add(1, 1)
	require.NoError(t, err)

	change, err := l.Increase(1)
	require.NoError(t, err)
	assert.Equal(t, types.ChangeQuantityIncreased, change.Kind)
	assert.Equal(t, 2, change.Quantity)

	_, err = l.Decrease(1)
	require.NoError(t, err)
	change, err = l.Decrease(1)
	require.NoError(t, err)
	assert.Equal(t, types.ChangeLineRemoved, change.Kind)
	assert.True(t, l.IsEmpty())
}

func TestIncrease_AtLimit(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(1, types.MaxQuantity)
	require.NoError(t, err)

	_, err = l.Increase(1)
	assert.ErrorIs(t, err, types.ErrQuantityLimit)
	line, _ := l.Line(1)
	assert.Equal(t, types.MaxQuantity, line.Quantity)
}

func TestClear(t *testing.T) {
	l, store := newLedger(t)
	_, err := l.Add(1, 1)
	require.NoError(t, err)
	_, err = l.Add(2, 1)
	require.NoError(t, err)

	change := l.Clear()
	assert.Equal(t, types.ChangeCleared, change.Kind)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 0, l.ItemCount())
	assert.True(t, l.Subtotal().IsZero())

	rec, err := persist.LoadCart(store)
	require.NoError(t, err)
	assert.Empty(t, rec.Items)

	// Clearing an empty cart still succeeds.
	assert.Equal(t, types.ChangeCleared, l.Clear().Kind)
}

func TestTotals(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(1, 2) // 99.99
	require.NoError(t, err)
	_, err = l.Add(3, 1) // 15.99
	require.NoError(t, err)

	untaxed := l.Totals(false, types.DefaultTaxRate)
	assert.Equal(t, "215.97", untaxed.Subtotal.String())
	assert.True(t, untaxed.Tax.IsZero())
	assert.True(t, untaxed.Total.Equal(untaxed.Subtotal))
	assert.Equal(t, 3, untaxed.ItemCount)
	assert.False(t, untaxed.IncludeTax)

	taxed := l.Totals(true, types.DefaultTaxRate)
	assert.Equal(t, "17.2776", taxed.Tax.String())
	assert.Equal(t, "233.2476", taxed.Total.String())
	assert.True(t, taxed.Total.Equal(taxed.Subtotal.Add(taxed.Tax)))
	assert.Equal(t, "233.25", taxed.Total.StringFixed(2))

	assert.Equal(t, "199.98", l.LineSubtotal(1).String())
	assert.True(t, l.LineSubtotal(42).IsZero())
}

func TestTotals_EmptyCart(t *testing.T) {
	l, _ := newLedger(t)
	totals := l.Totals(true, dec("0.2"))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.Equal(t, 0, totals.ItemCount)
}

func TestTotals_CacheValidity(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(1, 1)
	require.NoError(t, err)

	first := l.Totals(true, dec("0.08"))
	assert.True(t, l.totals.valid)

	// Same parameters reuse the slot; different ones overwrite it.
	again := l.Totals(true, dec("0.080"))
	assert.Equal(t, first, again)
	other := l.Totals(false, dec("0.08"))
	assert.True(t, other.Tax.IsZero())
	assert.False(t, l.totals.value.IncludeTax)

	_, err = l.Add(1, 1)
	require.NoError(t, err)
	assert.False(t, l.totals.valid, "mutation must invalidate the totals cache")

	fresh := l.Totals(true, dec("0.08"))
	assert.Equal(t, "199.98", fresh.Subtotal.String())
}

func TestDefaultTotals_UsesPricing(t *testing.T) {
	l, _ := newLedger(t, WithPricing(types.PricingConfig{TaxRate: dec("0.1"), IncludeTax: true}))
	_, err := l.Add(20, 1) // 12.99
	require.NoError(t, err)

	totals := l.DefaultTotals()
	assert.True(t, totals.IncludeTax)
	assert.Equal(t, "1.299", totals.Tax.String())
	assert.Equal(t, "14.289", totals.Total.String())
}

func TestPersistence_RoundTrip(t *testing.T) {
	l, store := newLedger(t)
	_, err := l.Add(2, 1)
	require.NoError(t, err)
	_, err = l.Add(7, 4)
	require.NoError(t, err)

	restored := New(catalog.Default(), store)
	assert.Equal(t, l.Lines(), restored.Lines())
	assert.True(t, l.Subtotal().Equal(restored.Subtotal()))
}

func TestRestore_FiltersLines(t *testing.T) {
	store := newMemStore(t)
	require.NoError(t, persist.SaveCart(store, types.CartRecord{
		Items: []types.CartLine{
			{ProductID: 1, Quantity: 2, AddedAt: fixedNow},
			{ProductID: 999, Quantity: 1, AddedAt: fixedNow},
			{ProductID: 1, Quantity: 7, AddedAt: fixedNow},
			{ProductID: 3, Quantity: 0, AddedAt: fixedNow},
			{ProductID: 4, Quantity: 150, AddedAt: fixedNow},
		},
		LastUpdated: fixedNow,
	}))

	l := New(catalog.Default(), store)
	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, types.CartLine{ProductID: 1, Quantity: 2, AddedAt: fixedNow}, lines[0])
	assert.Equal(t, 4, lines[1].ProductID)
	assert.Equal(t, types.MaxQuantity, lines[1].Quantity)
}

func TestRestore_CorruptRecordStartsEmpty(t *testing.T) {
	store := newMemStore(t)
	require.NoError(t, store.Put(types.RecordCart, []byte(`{"items":"nope"`)))

	l := New(catalog.Default(), store)
	assert.True(t, l.IsEmpty())

	_, err := l.Add(1, 1)
	require.NoError(t, err)
	rec, err := persist.LoadCart(store)
	require.NoError(t, err)
	assert.Len(t, rec.Items, 1)
}

func TestSaveFailure_DoesNotFailMutation(t *testing.T) {
	store := &flakyStore{Store: newMemStore(t), failPuts: true}
	m := metrics.New()

	var events []types.Event
	l := New(catalog.Default(), store,
		WithMetrics(m),
		WithListener(func(ev types.Event) { events = append(events, ev) }),
	)

	change, err := l.Add(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ChangeLineAdded, change.Kind)
	assert.Equal(t, 1, l.ItemCount())

	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].SaveErr, errDiskFull)
	var out strings.Builder
	require.NoError(t, m.WriteText(&out))
	assert.Contains(t, out.String(), `storefront_persist_failures_total{record="shoppingCart"} 1`)
}

func TestListener_ReceivesEventsAndMayReadLedger(t *testing.T) {
	l, _ := newLedger(t)

	var seen []types.ChangeKind
	var counts []int
	l.Subscribe(func(ev types.Event) {
		assert.NoError(t, ev.SaveErr)
		seen = append(seen, ev.Change.Kind)
		counts = append(counts, l.ItemCount())
	})

	_, err := l.Add(1, 1)
	require.NoError(t, err)
	_, err = l.Increase(1)
	require.NoError(t, err)
	_, err = l.Remove(5)
	require.Error(t, err)
	l.Clear()

	assert.Equal(t, []types.ChangeKind{types.ChangeLineAdded, types.ChangeQuantityIncreased, types.ChangeCleared}, seen)
	assert.Equal(t, []int{1, 2, 0}, counts)
}

func TestSummary(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(18, 2) // 18.99
	require.NoError(t, err)

	s := l.Summary()
	assert.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, "37.98", s.TotalPrice.String())
	assert.Equal(t, fixedNow, s.Timestamp)
}

func TestSnapshot(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Add(18, 2) // 18.99
	require.NoError(t, err)
	_, err = l.Add(20, 1) // 12.99
	require.NoError(t, err)

	lines, totals := l.Snapshot()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, "50.97", totals.Subtotal.String())

	lines[0].Quantity = 50
	line, _ := l.Line(18)
	assert.Equal(t, 2, line.Quantity)
}

// quantitySum adds up the line quantities.
func quantitySum(lines []types.CartLine) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

func TestSummaryAndSnapshot_ConsistentDuringMutations(t *testing.T) {
	l, _ := newLedger(t)
	cat := catalog.Default()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			_, _ = l.Add(18, 1)
			_, _ = l.Add(20, 2)
			l.Clear()
		}
	}()

	for range 2000 {
		s := l.Summary()
		require.Equal(t, quantitySum(s.Items), s.TotalItems)

		lines, totals := l.Snapshot()
		require.Equal(t, quantitySum(lines), totals.ItemCount)
		want := decimal.Zero
		for _, line := range lines {
			p, ok := cat.ProductByID(line.ProductID)
			require.True(t, ok)
			want = want.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		require.True(t, want.Equal(totals.Subtotal), "lines %v priced %s, totals say %s", lines, want, totals.Subtotal)
	}
	close(done)
	wg.Wait()
}

func TestWriteHandoff(t *testing.T) {
	l, store := newLedger(t)

	_, err := l.WriteHandoff()
	assert.ErrorIs(t, err, types.ErrEmptyCart)

	_, err = l.Add(5, 2) // 45.99
	require.NoError(t, err)
	_, err = l.Add(8, 1) // 19.99
	require.NoError(t, err)

	h, err := l.WriteHandoff()
	require.NoError(t, err)
	require.Len(t, h.Items, 2)
	assert.Equal(t, "Desk Lamp", h.Items[0].Name)
	assert.Equal(t, 2, h.Items[0].Quantity)
	assert.Equal(t, "111.97", h.Total.String())

	saved, found, err := persist.LoadHandoff(store)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, saved.Total.Equal(h.Total))
}
