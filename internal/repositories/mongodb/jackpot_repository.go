package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure JackpotRepository implements the interface
var _ repositories.JackpotRepository = (*JackpotRepository)(nil)

// JackpotRepository handles the jackpot tracker singleton. All writes are
// guarded by the row's version so two admins acting concurrently cannot
// silently lose an update.
type JackpotRepository struct {
	collection *mongo.Collection
}

// NewJackpotRepository creates a new JackpotRepository
func NewJackpotRepository(db *mongo.Database) *JackpotRepository {
	return &JackpotRepository{
		collection: db.Collection("jackpot"),
	}
}

// Get returns the tracker, creating a zeroed row on first use
func (r *JackpotRepository) Get(ctx context.Context) (*models.JackpotTracker, error) {
	var tracker models.JackpotTracker
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&tracker)
	if err == nil {
		return &tracker, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	tracker = models.JackpotTracker{
		ID:          primitive.NewObjectID(),
		Amount:      0,
		Version:     1,
		LastUpdated: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, &tracker); err != nil {
		return nil, err
	}
	return &tracker, nil
}

// Set writes a new amount guarded by the version read previously
func (r *JackpotRepository) Set(ctx context.Context, amount float64, lastDrawID primitive.ObjectID, expectedVersion int64) error {
	filter := bson.M{"version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"amount":      amount,
			"lastDrawId":  lastDrawID,
			"lastUpdated": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrVersionConflict
	}
	return nil
}
