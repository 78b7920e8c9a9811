package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/internal/cart"
	"github.com/mesh-intelligence/storefront/internal/catalog"
	"github.com/mesh-intelligence/storefront/internal/memstore"
	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// stubSubmitter returns queued results in order and records requests.
type stubSubmitter struct {
	mu       sync.Mutex
	results  []error
	requests []OrderRequest
}

func (s *stubSubmitter) Submit(ctx context.Context, req OrderRequest) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	var err error
	if len(s.results) > 0 {
		err, s.results = s.results[0], s.results[1:]
	}
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{OrderNumber: "ABC123XYZ", AcceptedAt: time.Now()}, nil
}

type fixture struct {
	store     types.Store
	ledger    *cart.Ledger
	history   *History
	submitter *stubSubmitter
	checkout  *Checkout
}

func newFixture(t *testing.T, results ...error) *fixture {
	t.Helper()
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendMemory
	store := memstore.NewBackend()
	require.NoError(t, store.Attach(cfg))

	products := catalog.Default()
	f := &fixture{
		store:     store,
		ledger:    cart.New(products, store),
		history:   NewHistory(store),
		submitter: &stubSubmitter{results: results},
	}
	f.checkout = NewCheckout(f.ledger, products, f.history, f.submitter, store)
	return f
}

var customer = types.Customer{
	FirstName: "Ada",
	LastName:  "Lovelace",
	Email:     "ada@example.com",
	Address:   "12 Analytical Way",
	City:      "London",
	State:     "CA",
	ZipCode:   "90210",
}

func TestPlace_Success(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Add(1, 2)
	require.NoError(t, err)
	_, err = f.ledger.Add(20, 1)
	require.NoError(t, err)
	_, err = f.ledger.WriteHandoff()
	require.NoError(t, err)

	order, err := f.checkout.Place(context.Background(), customer)
	require.NoError(t, err)

	assert.Equal(t, "ABC123XYZ", order.OrderNumber)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, customer, order.Customer)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "199.98", order.Items[0].LineTotal.String())
	assert.Equal(t, "212.97", order.Totals.Total.String())
	assert.Equal(t, 3, order.Totals.ItemCount)

	assert.True(t, f.ledger.IsEmpty())
	_, found, err := persist.LoadHandoff(f.store)
	require.NoError(t, err)
	assert.False(t, found)

	history, err := f.history.List()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.OrderID, history[0].OrderID)
}

func TestPlace_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Place(context.Background(), customer)
	assert.ErrorIs(t, err, types.ErrEmptyCart)
	assert.Empty(t, f.submitter.requests)
}

func TestPlace_TransientFailurePreservesCart(t *testing.T) {
	f := newFixture(t, types.ErrTransientFailure)
	_, err := f.ledger.Add(3, 1)
	require.NoError(t, err)
	_, err = f.ledger.WriteHandoff()
	require.NoError(t, err)

	_, err = f.checkout.Place(context.Background(), customer)
	assert.ErrorIs(t, err, types.ErrTransientFailure)

	assert.Equal(t, 1, f.ledger.ItemCount())
	_, found, err := persist.LoadHandoff(f.store)
	require.NoError(t, err)
	assert.True(t, found)
	history, err := f.history.List()
	require.NoError(t, err)
	assert.Empty(t, history)

	// The retry succeeds.
	_, err = f.checkout.Place(context.Background(), customer)
	require.NoError(t, err)
	assert.True(t, f.ledger.IsEmpty())
}

func TestPlace_Canceled(t *testing.T) {
	f := newFixture(t, context.Canceled)
	_, err := f.ledger.Add(3, 1)
	require.NoError(t, err)

	_, err = f.checkout.Place(context.Background(), customer)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, f.ledger.IsEmpty())
}

func TestPlace_RequestItemsMatchTotals(t *testing.T) {
	const attempts = 500
	failures := make([]error, attempts)
	for i := range failures {
		failures[i] = types.ErrTransientFailure
	}
	f := newFixture(t, failures...)

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
			_, _ = f.ledger.Add(3, 1)
			_, _ = f.ledger.Add(7, 2)
			f.ledger.Clear()
		}
	}()
	for range attempts {
		_, _ = f.checkout.Place(context.Background(), customer)
	}
	close(done)
	wg.Wait()

	f.submitter.mu.Lock()
	defer f.submitter.mu.Unlock()
	for _, req := range f.submitter.requests {
		n := 0
		for _, item := range req.Items {
			n += item.Quantity
		}
		require.Equal(t, n, req.Totals.ItemCount)
		require.NotEmpty(t, req.Items)
	}
}

func TestPlaceAsync(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Add(22, 4)
	require.NoError(t, err)

	results := f.checkout.PlaceAsync(context.Background(), customer)

	select {
	case res, ok := <-results:
		require.True(t, ok)
		require.NoError(t, res.Err)
		assert.Equal(t, 4, res.Order.Items[0].Quantity)
	case <-time.After(5 * time.Second):
		t.Fatal("PlaceAsync did not deliver a result")
	}

	_, open := <-results
	assert.False(t, open, "channel must be closed after the result")
	assert.True(t, f.ledger.IsEmpty())
}

func TestHistory_AppendsInOrder(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, f.history.Append(types.OrderSnapshot{OrderNumber: n}))
	}
	list, err := f.history.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[2].OrderNumber)
}
