package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPriceSnapshotRepository implements PriceSnapshotRepository
type MongoPriceSnapshotRepository struct {
	collection *mongo.Collection
}

// NewMongoPriceSnapshotRepository creates a new price snapshot repository
func NewMongoPriceSnapshotRepository(db *mongo.Database) repository.PriceSnapshotRepository {
	collection := db.Collection("price_snapshots")

	// Index for history queries, newest first
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "subscriptionId", Value: 1}, {Key: "foundAt", Value: -1}},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoPriceSnapshotRepository{
		collection: collection,
	}
}

// Insert stores one scan result snapshot
func (r *MongoPriceSnapshotRepository) Insert(ctx context.Context, snapshot *entity.PriceSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = primitive.NewObjectID().Hex()
	}
	if snapshot.FoundAt.IsZero() {
		snapshot.FoundAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, snapshot)
	return err
}

// ListBySubscription returns the most recent snapshots for a subscription
func (r *MongoPriceSnapshotRepository) ListBySubscription(ctx context.Context, subscriptionID uint, limit int) ([]entity.PriceSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "foundAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"subscriptionId": subscriptionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []entity.PriceSnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
