package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teakspice-catalog/internal/apperr"
)

// A hold records stock taken for one order line. Holds live in the product
// document's holds array so the decrement and the record of it are one write.
type hold struct {
	Key       string    `bson:"key"`
	Quantity  int       `bson:"quantity"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Reserve takes quantity units of the product under key. The update only
// matches while stock covers the quantity and the key is not yet held, so a
// repeated call after a lost reply never decrements twice.
func (s *Store) Reserve(ctx context.Context, key, productID string, quantity int) error {
	oid, err := objectID("product", productID)
	if err != nil {
		return err
	}
	products := s.db.Collection(colProducts)
	res, err := products.UpdateOne(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}, "holds.key": bson.M{"$ne": key}},
		bson.M{
			"$inc":  bson.M{"stock": -quantity},
			"$push": bson.M{"holds": hold{Key: key, Quantity: quantity, CreatedAt: now()}},
			"$set":  bson.M{"updatedAt": now()},
		})
	if err != nil {
		return wrap("reserve stock", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var current struct {
		Stock int    `bson:"stock"`
		Holds []hold `bson:"holds"`
	}
	err = products.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{
			"stock": 1,
			"holds": bson.M{"$elemMatch": bson.M{"key": key}},
		})).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return apperr.NotFoundf("product %s no longer exists", productID)
	}
	if err != nil {
		return wrap("reserve stock", err)
	}
	if len(current.Holds) > 0 {
		return nil
	}
	if current.Stock <= 0 {
		return apperr.OutOfStock("out of stock")
	}
	return apperr.OutOfStock(fmt.Sprintf("only %d left", current.Stock))
}

// Release returns the stock held under key. Unknown keys are ignored.
func (s *Store) Release(ctx context.Context, key string) error {
	products := s.db.Collection(colProducts)
	var held struct {
		ID    primitive.ObjectID `bson:"_id"`
		Holds []hold             `bson:"holds"`
	}
	err := products.FindOne(ctx, bson.M{"holds.key": key},
		options.FindOne().SetProjection(bson.M{"holds.$": 1})).Decode(&held)
	if err == mongo.ErrNoDocuments {
		return nil
	}
	if err != nil {
		return wrap("release stock", err)
	}
	if len(held.Holds) == 0 {
		return nil
	}
	// The key filter makes a concurrent or repeated release match nothing.
	_, err = products.UpdateOne(ctx,
		bson.M{"_id": held.ID, "holds.key": key},
		bson.M{
			"$inc":  bson.M{"stock": held.Holds[0].Quantity},
			"$pull": bson.M{"holds": bson.M{"key": key}},
			"$set":  bson.M{"updatedAt": now()},
		})
	return wrap("release stock", err)
}

// Settle forgets the holds under keys without returning stock. Called once
// the goods have left, so product documents do not keep growing.
func (s *Store) Settle(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.Collection(colProducts).UpdateMany(ctx,
		bson.M{"holds.key": bson.M{"$in": keys}},
		bson.M{"$pull": bson.M{"holds": bson.M{"key": bson.M{"$in": keys}}}})
	return wrap("settle stock", err)
}
