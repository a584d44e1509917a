package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/models"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Phone    string             `bson:"phone"`
	Password string             `bson:"password"`
	Role     string             `bson:"role"`
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		Phone:    d.Phone,
		Password: d.Password,
		Role:     d.Role,
	}
}

// CreateUser stores u with its email lowercased. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	d := userDoc{
		ID:       primitive.NewObjectID(),
		Name:     u.Name,
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
		Phone:    u.Phone,
		Password: u.Password,
		Role:     u.Role,
	}
	_, err := s.db.Collection(colUsers).InsertOne(ctx, d)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validation("an account with this email already exists")
	}
	if err != nil {
		return wrap("create user", err)
	}
	u.ID = d.ID.Hex()
	u.Email = d.Email
	return nil
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var d userDoc
	err := s.db.Collection(colUsers).FindOne(ctx, filter).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, wrap("load user", err)
	}
	return d.model(), nil
}

func (s *Store) User(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID("user", id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// UpdateProfile sets the non-empty fields.
func (s *Store) UpdateProfile(ctx context.Context, id, name, email, phone string) error {
	oid, err := objectID("user", id)
	if err != nil {
		return err
	}
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	if phone != "" {
		set["phone"] = phone
	}
	if len(set) == 0 {
		return nil
	}
	res, err := s.db.Collection(colUsers).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validation("an account with this email already exists")
	}
	if err != nil {
		return wrap("update profile", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
