package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) AddressRepository {
	return &mongoRepository{
		collection: db.Collection("addresses"),
	}
}

func (m mongoRepository) ListAddresses(ctx context.Context, userID string) ([]domain.SavedAddress, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []domain.SavedAddress
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}
	return addresses, nil
}

func (m mongoRepository) InsertAddress(ctx context.Context, addr *domain.SavedAddress) error {
	if addr.CreatedAt.IsZero() {
		addr.CreatedAt = time.Now()
	}
	if _, err := m.collection.InsertOne(ctx, addr); err != nil {
		return fmt.Errorf("failed to insert address: %w", err)
	}
	return nil
}

func (m mongoRepository) DeleteAddress(ctx context.Context, userID, addressID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": addressID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m mongoRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	if err := m.ClearDefault(ctx, userID); err != nil {
		return err
	}

	result, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": addressID, "user_id": userID},
		bson.M{"$set": bson.M{"is_default": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (m mongoRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := m.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_default": true},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear default flag: %w", err)
	}
	return nil
}

func (m mongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
