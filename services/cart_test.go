package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/cartstore"
	"github.com/Kariqs/farmers-market-api/models"
)

func TestCartService_AddAndCheckout(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	p1 := seedProduct(t, db, seller.ID, "Tomatoes", 10.0)
	p2 := seedProduct(t, db, seller.ID, "Kale", 5.0)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess", p1.ID, 2)
	require.NoError(t, err)
	lines, err := svc.AddItem(ctx, "sess", p2.ID, 1)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 20.0, lines[0].Amount)
	assert.Equal(t, seller.ID, lines[0].SellerID)
	assert.NotEqual(t, lines[0].ID, lines[1].ID)

	cart, err := svc.Checkout(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 25.0, cart.GrandTotal)

	again, err := svc.Checkout(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, cart, again, "checkout must not mutate the cart")
}

func TestCartService_AmountIsSnapshot(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	item := seedProduct(t, db, seller.ID, "Potatoes", 4)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess", item.ID, 3)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.StockItem{}).Where("id = ?", item.ID).Update("price", 100.0).Error)

	cart, err := svc.Checkout(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 12.0, cart.GrandTotal)
	assert.Equal(t, 4.0, cart.Items[0].Price)
}

func TestCartService_AmountsAreWholeCents(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	seeds := seedProduct(t, db, seller.ID, "Seeds", 0.1)
	herbs := seedProduct(t, db, seller.ID, "Herbs", 0.2)
	ctx := context.Background()

	lines, err := svc.AddItem(ctx, "sess", seeds.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.3, lines[0].Amount)

	_, err = svc.AddItem(ctx, "sess", herbs.ID, 1)
	require.NoError(t, err)
	cart, err := svc.Checkout(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 0.5, cart.GrandTotal)
}

func TestCartService_AddItemErrors(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	item := seedProduct(t, db, seller.ID, "Peas", 4)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess", item.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AddItem(ctx, "sess", item.ID+1000, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	lines, err := svc.Lines(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartService_Remove(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	a := seedProduct(t, db, seller.ID, "A", 1)
	b := seedProduct(t, db, seller.ID, "B", 2)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess", a.ID, 1)
	require.NoError(t, err)
	lines, err := svc.AddItem(ctx, "sess", b.ID, 1)
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, "sess", 5)
	assert.ErrorIs(t, err, apperr.ErrIndexOutOfRange)

	_, err = svc.RemoveLine(ctx, "sess", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	lines, err = svc.RemoveLine(ctx, "sess", lines[1].ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "A", lines[0].Item)

	lines, err = svc.RemoveItem(ctx, "sess", 0)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartService_SessionsAreSeparate(t *testing.T) {
	db := setupDB(t)
	svc := NewCartService(db, cartstore.NewMemoryStore())
	seller := seedSeller(t, db, "s@farm.test")
	item := seedProduct(t, db, seller.ID, "Garlic", 3)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "first-login", item.ID, 1)
	require.NoError(t, err)

	cart, err := svc.Checkout(ctx, "second-login")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.GrandTotal)

	require.NoError(t, svc.Clear(ctx, "first-login"))
	lines, err := svc.Lines(ctx, "first-login")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
