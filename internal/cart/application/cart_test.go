package application

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

type fakeGateway struct {
	mu      sync.Mutex
	calls   [][]domain.LineItem
	url     string
	err     error
	release chan struct{}
	entered chan struct{}
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, items []domain.LineItem) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, items)
	g.mu.Unlock()

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.url, g.err
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func lineItem(variantID, price string, qty int) domain.LineItem {
	return domain.LineItem{
		VariantID: variantID,
		Product:   domain.ProductSummary{ID: "p-" + variantID, Title: variantID, Handle: variantID},
		Price:     domain.EUR(decimal.RequireFromString(price)),
		Quantity:  qty,
	}
}

func TestAddItemNotifies(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeGateway{})

	var changes []Change
	svc.Subscribe(func(c Change) { changes = append(changes, c) })

	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "19.99", 1)}))
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "19.99", 1)}))

	require.Len(t, changes, 2)
	assert.Equal(t, ChangeItemAdded, changes[1].Kind)
	assert.Equal(t, uint64(2), changes[1].Revision)
	assert.Equal(t, 2, changes[1].Cart.Items[0].Quantity)
	assert.Equal(t, 2, svc.TotalItemCount())
	assert.Equal(t, "39.98", svc.TotalPrice().StringFixed(2))
}

func TestAddItemRejectsInvalid(t *testing.T) {
	svc := NewCartService(&fakeGateway{})
	err := svc.AddItem(context.Background(), AddItemCommand{Item: lineItem("", "1", 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Empty(t, svc.Snapshot().Items)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeGateway{})
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "5", 1)}))

	var kinds []ChangeKind
	svc.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	svc.UpdateQuantity(ctx, UpdateQuantityCommand{VariantID: "v1", Quantity: 4})
	svc.UpdateQuantity(ctx, UpdateQuantityCommand{VariantID: "v1", Quantity: 0})
	svc.UpdateQuantity(ctx, UpdateQuantityCommand{VariantID: "v1", Quantity: 2})

	assert.Equal(t, []ChangeKind{ChangeItemUpdated, ChangeItemRemoved}, kinds)
	assert.Empty(t, svc.Snapshot().Items)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeGateway{})
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "5", 1)}))

	notified := false
	svc.Subscribe(func(Change) { notified = true })
	svc.RemoveItem(ctx, RemoveItemCommand{VariantID: "v2"})

	assert.False(t, notified)
	assert.Len(t, svc.Snapshot().Items, 1)
}

func TestCreateCheckoutEmptyCart(t *testing.T) {
	gw := &fakeGateway{url: "https://shop.example/c/1"}
	svc := NewCartService(gw)

	url, err := svc.CreateCheckout(context.Background())
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Zero(t, gw.callCount())
}

func TestCreateCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{url: "https://shop.example/c/1"}
	svc := NewCartService(gw)
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "19.99", 2)}))

	var kinds []ChangeKind
	svc.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	url, err := svc.CreateCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/c/1", url)

	snap := svc.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Equal(t, url, snap.CheckoutURL)
	assert.Equal(t, []ChangeKind{ChangeCheckoutStarted, ChangeCheckoutCreated}, kinds)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, 2, gw.calls[0][0].Quantity)
}

func TestCreateCheckoutFailure(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("backend unavailable")
	svc := NewCartService(&fakeGateway{err: backendErr})
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "1", 1)}))

	url, err := svc.CreateCheckout(ctx)
	assert.ErrorIs(t, err, backendErr)
	assert.Empty(t, url)

	snap := svc.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.CheckoutURL)
	assert.Len(t, snap.Items, 1)
}

func TestCreateCheckoutInProgress(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		url:     "https://shop.example/c/2",
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewCartService(gw)
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "1", 1)}))

	done := make(chan error, 1)
	go func() {
		_, err := svc.CreateCheckout(ctx)
		done <- err
	}()
	<-gw.entered

	assert.True(t, svc.Snapshot().IsLoading)
	_, err := svc.CreateCheckout(ctx)
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress)

	// 请求进行中的修改不影响已发出的快照
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v2", "1", 1)}))

	close(gw.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.callCount())
	assert.Len(t, gw.calls[0], 1)
	assert.Len(t, svc.Snapshot().Items, 2)
}

func TestRestoreSkipsInvalidLines(t *testing.T) {
	svc := NewCartService(&fakeGateway{})
	notified := false
	svc.Subscribe(func(Change) { notified = true })

	svc.Restore([]domain.LineItem{lineItem("v1", "1", 2), lineItem("", "1", 1), lineItem("v1", "1", 1)})

	snap := svc.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.False(t, notified)
	assert.True(t, svc.ContainsProduct("p-v1"))
}

func TestClearNotifies(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeGateway{})
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "1", 1)}))

	var last Change
	svc.Subscribe(func(c Change) { last = c })
	svc.Clear(ctx)

	assert.Equal(t, ChangeCleared, last.Kind)
	assert.Empty(t, last.Cart.Items)
}

func TestAddItemHugeQuantityStaysPositive(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(&fakeGateway{})

	var last Change
	svc.Subscribe(func(c Change) { last = c })

	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "1", math.MaxInt)}))
	assert.Equal(t, domain.MaxQuantity, last.Item.Quantity)
	require.NoError(t, svc.AddItem(ctx, AddItemCommand{Item: lineItem("v1", "1", 1)}))

	assert.Equal(t, domain.MaxQuantity, svc.TotalItemCount())
	assert.True(t, svc.TotalPrice().IsPositive())
}
