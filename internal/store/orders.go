package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

// CreateOrder inserts o under its own id. Inserting the same id again is
// treated as success so a retried placement does not fail on its own write.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := s.db.Collection(colOrders).InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return wrap("create order", err)
}

func (s *Store) Order(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.Collection(colOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return nil, wrap("load order", err)
	}
	return &o, nil
}

func (s *Store) findOrders(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cur, err := s.db.Collection(colOrders).Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, wrap("list orders", err)
	}
	return orders, nil
}

func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.findOrders(ctx, bson.M{"userId": userID}, opts)
}

func (s *Store) AllOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return s.findOrders(ctx, bson.M{}, opts)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, payment models.PaymentStatus, at time.Time) error {
	res, err := s.db.Collection(colOrders).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "paymentStatus": payment, "updatedAt": at}})
	if err != nil {
		return wrap("update order", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("order %s not found", id)
	}
	return nil
}
