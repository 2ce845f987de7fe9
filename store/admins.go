package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-shop/apperr"
	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAdminStore keeps admins in the "admins" collection.
type MongoAdminStore struct {
	collection *mongo.Collection
}

func NewMongoAdminStore(db *mongo.Database) *MongoAdminStore {
	return &MongoAdminStore{collection: db.Collection(adminsCollection)}
}

func (s *MongoAdminStore) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now().UTC()
	if _, err := s.collection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (s *MongoAdminStore) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoAdminStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoAdminStore) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var admin models.Admin
	err := s.collection.FindOne(ctx, filter).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}
