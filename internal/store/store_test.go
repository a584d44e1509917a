package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, wrap("op", nil))
	assert.True(t, apperr.Is(wrap("load order", mongo.ErrNoDocuments), apperr.KindNotFound))
	assert.True(t, apperr.Is(wrap("load order", errors.New("socket closed")), apperr.KindNetwork))

	own := apperr.Validation("bad")
	assert.Same(t, own, wrap("op", own))
}

func TestObjectID(t *testing.T) {
	_, err := objectID("product", "not-hex")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	want := primitive.NewObjectID()
	got, err := objectID("product", want.Hex())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"})
}

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestMongoStore(t *testing.T) {
	ctx := context.Background()
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "teakspice.products"

	mt.Run("product found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Kundan Necklace"},
			{Key: "basePrice", Value: int64(8999)},
			{Key: "stock", Value: 2},
			{Key: "offer", Value: bson.D{{Key: "name", Value: "Diwali"}, {Key: "price", Value: int64(7999)}}},
		}))
		s := New(mt.DB, zap.NewNop())

		p, err := s.Product(ctx, oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), p.ID)
		assert.Equal(mt, models.Money(8999), p.BasePrice)
		require.NotNil(mt, p.Offer)
		assert.Equal(mt, models.Money(7999), p.Offer.Price)
	})

	mt.Run("product missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := New(mt.DB, zap.NewNop())

		_, err := s.Product(ctx, primitive.NewObjectID().Hex())
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("repeated order insert succeeds", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		s := New(mt.DB, zap.NewNop())

		assert.NoError(mt, s.CreateOrder(ctx, &models.Order{ID: "o1", UserID: "u1"}))
	})

	mt.Run("reserve applies", func(mt *mtest.T) {
		mt.AddMockResponses(updated(1))
		s := New(mt.DB, zap.NewNop())

		oid := primitive.NewObjectID()
		assert.NoError(mt, s.Reserve(ctx, "o1:"+oid.Hex(), oid.Hex(), 1))
	})

	mt.Run("reserve repeated after a lost reply", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		key := "o1:" + oid.Hex()
		// The earlier attempt already holds the key, so the guarded update
		// matches nothing and no second decrement is issued.
		mt.AddMockResponses(
			updated(0),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "stock", Value: 3},
				{Key: "holds", Value: bson.A{bson.D{{Key: "key", Value: key}, {Key: "quantity", Value: 2}}}},
			}),
		)
		s := New(mt.DB, zap.NewNop())

		assert.NoError(mt, s.Reserve(ctx, key, oid.Hex(), 2))
	})

	mt.Run("reserve short of stock", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			updated(0),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: oid}, {Key: "stock", Value: 1}}),
		)
		s := New(mt.DB, zap.NewNop())

		err := s.Reserve(ctx, "o1:"+oid.Hex(), oid.Hex(), 3)
		assert.True(mt, apperr.Is(err, apperr.KindOutOfStock))
		assert.Equal(mt, "only 1 left", err.Error())
	})

	mt.Run("reserve deleted product", func(mt *mtest.T) {
		mt.AddMockResponses(updated(0), mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := New(mt.DB, zap.NewNop())

		oid := primitive.NewObjectID()
		err := s.Reserve(ctx, "o1:"+oid.Hex(), oid.Hex(), 1)
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("reserve update fails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Message: "shutdown in progress"}))
		s := New(mt.DB, zap.NewNop())

		oid := primitive.NewObjectID()
		err := s.Reserve(ctx, "o1:"+oid.Hex(), oid.Hex(), 1)
		assert.True(mt, apperr.Is(err, apperr.KindNetwork))
	})

	mt.Run("release returns held stock", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "holds", Value: bson.A{bson.D{{Key: "key", Value: "o1:p1"}, {Key: "quantity", Value: 2}}}},
			}),
			updated(1),
		)
		s := New(mt.DB, zap.NewNop())

		assert.NoError(mt, s.Release(ctx, "o1:p1"))
	})

	mt.Run("release unknown key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := New(mt.DB, zap.NewNop())

		assert.NoError(mt, s.Release(ctx, "o9:p1"))
	})

	mt.Run("set cart quantity on missing entry", func(mt *mtest.T) {
		mt.AddMockResponses(updated(0))
		s := New(mt.DB, zap.NewNop())

		err := s.SetCartQuantity(ctx, "u1", "p1", 2)
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		s := New(mt.DB, zap.NewNop())

		err := s.CreateUser(ctx, &models.User{Email: "asha@example.com"})
		assert.True(mt, apperr.Is(err, apperr.KindValidation))
	})

	mt.Run("empty cart", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "teakspice.carts", mtest.FirstBatch))
		s := New(mt.DB, zap.NewNop())

		entries, err := s.CartEntries(ctx, "u1")
		require.NoError(mt, err)
		assert.Empty(mt, entries)
	})
}
