package store

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

type productDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Image         string             `bson:"image"`
	BasePrice     models.Money       `bson:"basePrice"`
	OriginalPrice models.Money       `bson:"originalPrice,omitempty"`
	Offer         *models.Offer      `bson:"offer,omitempty"`
	Stock         int                `bson:"stock"`
	CategoryID    string             `bson:"categoryId"`
	Occasions     []string           `bson:"occasions"`
	Badge         string             `bson:"badge,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d productDoc) model() models.Product {
	return models.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Image:         d.Image,
		BasePrice:     d.BasePrice,
		OriginalPrice: d.OriginalPrice,
		Offer:         d.Offer,
		Stock:         d.Stock,
		CategoryID:    d.CategoryID,
		Occasions:     d.Occasions,
		Badge:         d.Badge,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

var withoutHolds = bson.M{"holds": 0}

func productFields(p *models.Product) bson.M {
	return bson.M{
		"name":          p.Name,
		"description":   p.Description,
		"image":         p.Image,
		"basePrice":     p.BasePrice,
		"originalPrice": p.OriginalPrice,
		"categoryId":    p.CategoryID,
		"occasions":     p.Occasions,
		"badge":         p.Badge,
	}
}

func (s *Store) findProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(withoutHolds)
	cur, err := s.db.Collection(colProducts).Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap("list products", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrap("list products", err)
	}
	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	return s.findProducts(ctx, bson.M{})
}

// SearchProducts matches name or description case-insensitively.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(query)), Options: "i"}
	return s.findProducts(ctx, bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"description": re},
	}})
}

func (s *Store) Product(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID("product", id)
	if err != nil {
		return nil, err
	}
	var d productDoc
	err = s.db.Collection(colProducts).FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(withoutHolds)).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFoundf("product %s not found", id)
	}
	if err != nil {
		return nil, wrap("load product", err)
	}
	p := d.model()
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	d := productDoc{
		ID:            primitive.NewObjectID(),
		Name:          p.Name,
		Description:   p.Description,
		Image:         p.Image,
		BasePrice:     p.BasePrice,
		OriginalPrice: p.OriginalPrice,
		Offer:         p.Offer,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		Occasions:     p.Occasions,
		Badge:         p.Badge,
		CreatedAt:     now(),
	}
	d.UpdatedAt = d.CreatedAt
	if _, err := s.db.Collection(colProducts).InsertOne(ctx, d); err != nil {
		return wrap("create product", err)
	}
	p.ID = d.ID.Hex()
	p.CreatedAt = d.CreatedAt
	p.UpdatedAt = d.UpdatedAt
	return nil
}

// UpdateProduct writes everything but stock and the creation time.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	oid, err := objectID("product", p.ID)
	if err != nil {
		return err
	}
	set := productFields(p)
	set["updatedAt"] = now()
	update := bson.M{"$set": set}
	if p.Offer != nil {
		set["offer"] = p.Offer
	} else {
		update["$unset"] = bson.M{"offer": ""}
	}
	res, err := s.db.Collection(colProducts).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return wrap("update product", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("product %s not found", p.ID)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	oid, err := objectID("product", id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(colProducts).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("delete product", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("product %s not found", id)
	}
	return nil
}

func (s *Store) SetStock(ctx context.Context, id string, level int) error {
	oid, err := objectID("product", id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(colProducts).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"stock": level, "updatedAt": now()}})
	if err != nil {
		return wrap("set stock", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("product %s not found", id)
	}
	return nil
}

type categoryDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	NameKey  string             `bson:"nameKey"`
	IsActive bool               `bson:"isActive"`
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	cur, err := s.db.Collection(colCategories).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, wrap("list categories", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, wrap("list categories", err)
	}
	out := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Category{ID: d.ID.Hex(), Name: d.Name, IsActive: d.IsActive})
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	d := categoryDoc{
		ID:       primitive.NewObjectID(),
		Name:     c.Name,
		NameKey:  strings.ToLower(c.Name),
		IsActive: c.IsActive,
	}
	_, err := s.db.Collection(colCategories).InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validationf("category %q already exists", c.Name)
	}
	if err != nil {
		return wrap("create category", err)
	}
	c.ID = d.ID.Hex()
	return nil
}

func (s *Store) SetCategoryActive(ctx context.Context, id string, active bool) error {
	oid, err := objectID("category", id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(colCategories).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isActive": active}})
	if err != nil {
		return wrap("update category", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("category %s not found", id)
	}
	return nil
}
