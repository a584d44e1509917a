package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

// Carts and wishlists are one document per user holding an items array.

type cartDoc struct {
	UserID string             `bson:"userId"`
	Items  []models.CartEntry `bson:"items"`
}

type wishlistDoc struct {
	UserID string                 `bson:"userId"`
	Items  []models.WishlistEntry `bson:"items"`
}

func (s *Store) CartEntries(ctx context.Context, userID string) ([]models.CartEntry, error) {
	var d cartDoc
	err := s.db.Collection(colCarts).FindOne(ctx, bson.M{"userId": userID}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return []models.CartEntry{}, nil
	}
	if err != nil {
		return nil, wrap("load cart", err)
	}
	return d.Items, nil
}

// putItem replaces the array element for productID, or appends entry when
// there is none. The append filters on the element being absent, so two
// racing appends cannot both land; the loser retries as a replace.
func (s *Store) putItem(ctx context.Context, col, userID, productID string, entry interface{}) error {
	coll := s.db.Collection(col)
	for attempt := 0; attempt < 2; attempt++ {
		res, err := coll.UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": productID},
			bson.M{"$set": bson.M{"items.$": entry}})
		if err != nil {
			return wrap("save "+col, err)
		}
		if res.MatchedCount > 0 {
			return nil
		}
		_, err = coll.UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
			bson.M{"$push": bson.M{"items": entry}},
			options.Update().SetUpsert(true))
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		return wrap("save "+col, err)
	}
	return apperr.Network("save "+col, nil)
}

func (s *Store) PutCartEntry(ctx context.Context, userID string, entry models.CartEntry) error {
	return s.putItem(ctx, colCarts, userID, entry.ProductID, entry)
}

func (s *Store) SetCartQuantity(ctx context.Context, userID, productID string, quantity int) error {
	res, err := s.db.Collection(colCarts).UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{"$set": bson.M{"items.$.quantity": quantity}})
	if err != nil {
		return wrap("update cart", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("product %s is not in your cart", productID)
	}
	return nil
}

func (s *Store) RemoveCartEntry(ctx context.Context, userID, productID string) error {
	_, err := s.db.Collection(colCarts).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}})
	return wrap("remove cart entry", err)
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.Collection(colCarts).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartEntry{}}})
	return wrap("clear cart", err)
}

func (s *Store) WishlistEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	var d wishlistDoc
	err := s.db.Collection(colWishlists).FindOne(ctx, bson.M{"userId": userID}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return []models.WishlistEntry{}, nil
	}
	if err != nil {
		return nil, wrap("load wishlist", err)
	}
	return d.Items, nil
}

func (s *Store) PutWishlistEntry(ctx context.Context, userID string, entry models.WishlistEntry) error {
	return s.putItem(ctx, colWishlists, userID, entry.ProductID, entry)
}

func (s *Store) RemoveWishlistEntry(ctx context.Context, userID, productID string) error {
	_, err := s.db.Collection(colWishlists).UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"productId": productID}}})
	return wrap("remove wishlist entry", err)
}
