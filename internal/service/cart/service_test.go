package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumera/internal/domain"
	"lumera/internal/repository/cartstore"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]cartstore.Record
	saves   int
	saveErr error
	loadRec *cartstore.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]cartstore.Record)}
}

func (m *memStore) Save(_ context.Context, sessionID string, rec cartstore.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[sessionID] = rec
	return nil
}

func (m *memStore) Load(_ context.Context, sessionID string) (*cartstore.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadRec != nil {
		return m.loadRec, nil
	}
	rec, ok := m.records[sessionID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func TestAddItemMergesByRef(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "LUM-001", Quantity: 2})
	c := svc.AddItem(ctx, "s", AddInput{ProductRef: "LUM-001", Quantity: 3, Notes: "sample"})

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, "sample", c.Items[0].Notes)
	assert.Equal(t, 5, c.ItemCount)
}

func TestTotalsAlwaysRecomputed(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2, UnitPrice: 10})
	c := svc.AddItem(ctx, "s", AddInput{ProductRef: "B", Quantity: 1, UnitPrice: 5.5})

	assert.Equal(t, 3, c.ItemCount)
	assert.InDelta(t, 25.5, c.Subtotal, 1e-9)
	assert.InDelta(t, 25.5, c.Total, 1e-9)

	c = svc.UpdateItem(ctx, "s", "A", 4, nil)
	assert.Equal(t, 5, c.ItemCount)
	assert.InDelta(t, 45.5, c.Subtotal, 1e-9)
}

func TestUpdateItemZeroOrNegativeRemoves(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2, UnitPrice: 10})
	c := svc.UpdateItem(ctx, "s", "A", 0, nil)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Subtotal)

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2, UnitPrice: 10})
	c = svc.UpdateItem(ctx, "s", "A", -5, nil)
	assert.Empty(t, c.Items)
}

func TestUpdateItemUnknownRefIsNoop(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 1})
	c := svc.UpdateItem(ctx, "s", "missing", 3, nil)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "A", c.Items[0].ProductRef)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateItemPriceAbsentItemWarnsOnly(t *testing.T) {
	svc := New(nil, nil)
	c := svc.UpdateItemPrice(context.Background(), "s", "missing", 12)
	assert.Empty(t, c.Items)
}

// The walkthrough from the storefront: add unpriced, price resolves later,
// add more, then remove via zero-quantity update.
func TestPriceResolutionScenario(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	c := svc.AddItem(ctx, "s", AddInput{ProductRef: "SKU1", Quantity: 2})
	assert.Equal(t, 2, c.ItemCount)
	assert.Zero(t, c.Subtotal)

	c = svc.UpdateItemPrice(ctx, "s", "SKU1", 50)
	assert.InDelta(t, 100, c.Subtotal, 1e-9)

	c = svc.AddItem(ctx, "s", AddInput{ProductRef: "SKU1", Quantity: 1})
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.InDelta(t, 150, c.Subtotal, 1e-9)

	c = svc.UpdateItem(ctx, "s", "SKU1", 0, nil)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Subtotal)
}

func TestApplyPricesPrefersDiscount(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2})
	svc.AddItem(ctx, "s", AddInput{ProductRef: "B", Quantity: 1, UnitPrice: 7})

	discount := 8.0
	c := svc.ApplyPrices(ctx, "s", map[string]domain.PriceInfo{
		"A": {UnitPrice: 10, DiscountPrice: &discount},
	})

	assert.InDelta(t, 8, c.Items[0].UnitPrice, 1e-9)
	// B has no price row and keeps its last known price.
	assert.InDelta(t, 7, c.Items[1].UnitPrice, 1e-9)
	assert.InDelta(t, 23, c.Subtotal, 1e-9)
}

func TestClearResetsCart(t *testing.T) {
	svc := New(nil, nil)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 3, UnitPrice: 2})
	c := svc.Clear(ctx, "s")
	assert.Empty(t, c.Items)
	assert.Zero(t, c.ItemCount)
	assert.Zero(t, c.Subtotal)
}

func TestDebounceCoalescesWrites(t *testing.T) {
	store := newMemStore()
	svc := New(store, nil)
	svc.SetDebounce(30 * time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 1, UnitPrice: 2})
	}
	assert.Equal(t, 0, store.saveCount())

	require.Eventually(t, func() bool { return store.saveCount() == 1 }, time.Second, 10*time.Millisecond)

	rec := store.records["s"]
	require.Len(t, rec.Items, 1)
	assert.Equal(t, 5, rec.Items[0].Quantity)
	assert.Equal(t, cartstore.SchemaVersion, rec.Version)
}

func TestSaveErrorKeepsInMemoryCart(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("quota exceeded")
	svc := New(store, nil)
	svc.SetDebounce(10 * time.Millisecond)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2, UnitPrice: 3})
	require.Eventually(t, func() bool { return store.saveCount() > 0 }, time.Second, 5*time.Millisecond)

	c := svc.Get(ctx, "s")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRehydrationFromStore(t *testing.T) {
	store := newMemStore()
	store.loadRec = &cartstore.Record{
		Items:   []domain.CartItem{{ProductRef: "A", Quantity: 2, UnitPrice: 4}},
		Version: cartstore.SchemaVersion,
	}
	svc := New(store, nil)

	c := svc.Get(context.Background(), "s")
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.ItemCount)
	assert.InDelta(t, 8, c.Subtotal, 1e-9)
}

func TestFlushWritesPendingState(t *testing.T) {
	store := newMemStore()
	svc := New(store, nil)
	svc.SetDebounce(time.Hour)
	ctx := context.Background()

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 1})
	svc.Flush(ctx)

	assert.Equal(t, 1, store.saveCount())
}

func TestReturnedCartIsDetached(t *testing.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	snap := &domain.ProductSnapshot{NameEN: "Gentle Foaming Cleanser"}
	before := svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 2, UnitPrice: 10, Snapshot: snap})

	svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 3})
	svc.RemoveItem(ctx, "s", "A")

	require.Len(t, before.Items, 1)
	assert.Equal(t, 2, before.Items[0].Quantity)
	assert.Equal(t, 20.0, before.Items[0].TotalPrice)
	assert.NotSame(t, snap, before.Items[0].Snapshot)
	assert.Equal(t, "Gentle Foaming Cleanser", before.Items[0].Snapshot.NameEN)
}

func TestConcurrentSessionRequests(t *testing.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				cart := svc.AddItem(ctx, "s", AddInput{ProductRef: "A", Quantity: 1, UnitPrice: 5})
				for _, item := range cart.Items {
					_ = item.Quantity
				}
			}
		}()
	}
	wg.Wait()

	final := svc.Get(ctx, "s")
	require.Len(t, final.Items, 1)
	assert.Equal(t, 200, final.Items[0].Quantity)
	assert.Equal(t, 1000.0, final.Subtotal)
}
