package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

func TestReserve_IdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: "p1", BasePrice: 100, Stock: 5}))

	require.NoError(t, s.Reserve(ctx, "o1:p1", "p1", 3))
	require.NoError(t, s.Reserve(ctx, "o1:p1", "p1", 3))

	p, err := s.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	err = s.Reserve(ctx, "o2:p1", "p1", 3)
	assert.True(t, apperr.Is(err, apperr.KindOutOfStock))
	assert.Equal(t, "only 2 left", err.Error())

	require.NoError(t, s.Release(ctx, "o1:p1"))
	require.NoError(t, s.Release(ctx, "o1:p1"))
	p, _ = s.Product(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
}

func TestSettle_KeepsStockTaken(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: "p1", BasePrice: 100, Stock: 5}))
	require.NoError(t, s.Reserve(ctx, "o1:p1", "p1", 2))

	require.NoError(t, s.Settle(ctx, []string{"o1:p1", "o9:p1"}))
	require.NoError(t, s.Release(ctx, "o1:p1"))

	p, err := s.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestReserve_UnknownProduct(t *testing.T) {
	err := New().Reserve(context.Background(), "k", "nope", 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProduct_KeepsStock(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{ID: "p1", Name: "old", BasePrice: 100, Stock: 5}
	require.NoError(t, s.CreateProduct(ctx, p))

	require.NoError(t, s.UpdateProduct(ctx, &models.Product{ID: "p1", Name: "new", BasePrice: 200, Stock: 99}))

	got, err := s.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, 5, got.Stock)
}

func TestProduct_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateProduct(ctx, &models.Product{ID: "p1", BasePrice: 100, Offer: &models.Offer{Price: 80}}))

	got, _ := s.Product(ctx, "p1")
	got.Offer.Price = 1

	again, _ := s.Product(ctx, "p1")
	assert.Equal(t, models.Money(80), again.Offer.Price)
}

func TestCartEntries_Upsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.PutCartEntry(ctx, "u1", models.CartEntry{ProductID: "p1", Quantity: 1}))
	require.NoError(t, s.PutCartEntry(ctx, "u1", models.CartEntry{ProductID: "p1", Quantity: 4}))
	require.NoError(t, s.PutCartEntry(ctx, "u1", models.CartEntry{ProductID: "p2", Quantity: 2}))

	entries, _ := s.CartEntries(ctx, "u1")
	require.Len(t, entries, 2)
	assert.Equal(t, 4, entries[0].Quantity)

	assert.True(t, apperr.Is(s.SetCartQuantity(ctx, "u1", "p9", 1), apperr.KindNotFound))
	require.NoError(t, s.RemoveCartEntry(ctx, "u1", "p1"))
	entries, _ = s.CartEntries(ctx, "u1")
	assert.Len(t, entries, 1)
}

func TestCreateOrder_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	o := &models.Order{ID: "o1", UserID: "u1"}

	require.NoError(t, s.CreateOrder(ctx, o))
	require.NoError(t, s.CreateOrder(ctx, o))

	all, _ := s.AllOrders(ctx, 10, 0)
	assert.Len(t, all, 1)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@example.com"}))

	err := s.CreateUser(ctx, &models.User{Email: "A@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	u, err := s.UserByEmail(ctx, "a@EXAMPLE.com")
	require.NoError(t, err)
	require.NoError(t, s.UpdateProfile(ctx, u.ID, "Asha", "", ""))
	u, _ = s.User(ctx, u.ID)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Seed(ctx))

	products, _ := s.Products(ctx)
	cats, _ := s.Categories(ctx)
	assert.Len(t, products, 6)
	assert.Len(t, cats, 4)

	hits, _ := s.SearchProducts(ctx, "SAREE")
	assert.Len(t, hits, 2)
}
