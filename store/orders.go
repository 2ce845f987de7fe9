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

// MongoOrderStore keeps orders in the "orders" collection.
type MongoOrderStore struct {
	collection *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{collection: db.Collection(ordersCollection)}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *MongoOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}

	if _, err := s.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrDuplicatePaymentRef
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *MongoOrderStore) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (s *MongoOrderStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user": userID})
}

func (s *MongoOrderStore) FindOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	if filter.IsEmpty() {
		return nil, errEmptyFilter
	}
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.PaymentRef != "" {
		query["paymentRef"] = filter.PaymentRef
	}
	return s.find(ctx, query)
}

func (s *MongoOrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *MongoOrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.password", Value: 0},
			{Key: "owner.verificationToken", Value: 0},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus sets the status unconditionally; concurrent updates are
// last-write-wins.
func (s *MongoOrderStore) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &order, nil
}
