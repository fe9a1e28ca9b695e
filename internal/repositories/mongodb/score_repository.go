package mongodb

import (
	"context"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ScoreRepository implements the interface
var _ repositories.ScoreRepository = (*ScoreRepository)(nil)

// ScoreRepository handles MongoDB operations for ScoreRecord
type ScoreRepository struct {
	collection *mongo.Collection
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *mongo.Database) *ScoreRepository {
	return &ScoreRepository{
		collection: db.Collection("scores"),
	}
}

// Create inserts a new score record
func (r *ScoreRepository) Create(ctx context.Context, score *models.ScoreRecord) error {
	score.ID = primitive.NewObjectID()
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, score)
	return err
}

// CreateMany bulk-inserts score records (used by the CSV import)
func (r *ScoreRepository) CreateMany(ctx context.Context, scores []*models.ScoreRecord) error {
	if len(scores) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(scores))
	for _, s := range scores {
		s.ID = primitive.NewObjectID()
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now()
		}
		docs = append(docs, s)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByUserID finds a user's score records, newest first
func (r *ScoreRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.ScoreRecord, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []*models.ScoreRecord
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	if scores == nil {
		scores = []*models.ScoreRecord{}
	}
	return scores, nil
}

// AggregateFrequencies groups submitted scores within [min, max] created at
// or after since, sorted by ascending count with the score value breaking
// ties ascending. Returns an empty slice when nothing matches.
func (r *ScoreRepository) AggregateFrequencies(ctx context.Context, min, max int, since time.Time) ([]models.ScoreFrequency, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"score":     bson.M{"$gte": min, "$lte": max},
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$score",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: 1},
			{Key: "_id", Value: 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var frequencies []models.ScoreFrequency
	if err := cursor.All(ctx, &frequencies); err != nil {
		return nil, err
	}
	if frequencies == nil {
		frequencies = []models.ScoreFrequency{}
	}
	return frequencies, nil
}

// RecentScoreValues returns up to limit most recent score values for a user
func (r *ScoreRepository) RecentScoreValues(ctx context.Context, userID primitive.ObjectID, limit int) ([]int, error) {
	records, err := r.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	values := make([]int, 0, len(records))
	for _, rec := range records {
		values = append(values, rec.Score)
	}
	return values, nil
}

// Count returns the total number of score records
func (r *ScoreRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
