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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore keeps users in the "users" collection.
type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection(usersCollection)}
}

func (s *MongoUserStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"verificationToken": token, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// MarkVerified only matches unverified users, so concurrent verifications
// flip the flag once.
func (s *MongoUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id, "isVerified": false}, bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"verificationToken": ""},
	})
	if err != nil {
		return false, fmt.Errorf("mark user verified: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (s *MongoUserStore) UpdateProfilePic(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"profilePic": url, "updatedAt": time.Now().UTC()},
	}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile pic: %w", err)
	}
	return &user, nil
}
