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

// Compile-time check to ensure DrawRepository implements the interface
var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for Draw
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// Create creates a new draw
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, draw)
	if err != nil {
		return err
	}
	draw.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindByMonthYear finds the draw for a given cycle label
func (r *DrawRepository) FindByMonthYear(ctx context.Context, monthYear string) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"monthYear": monthYear}).Decode(&draw)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &draw, nil
}

// FindByStatus finds draws by status, newest first
func (r *DrawRepository) FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	opts := options.Find().SetSort(bson.M{"drawDate": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}

// FindOldestByStatus finds the oldest draw in a status by draw date
func (r *DrawRepository) FindOldestByStatus(ctx context.Context, status models.DrawStatus) (*models.Draw, error) {
	opts := options.FindOne().SetSort(bson.M{"drawDate": 1})
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"status": status}, opts).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// FindNewest finds the most recent draw regardless of status
func (r *DrawRepository) FindNewest(ctx context.Context) (*models.Draw, error) {
	opts := options.FindOne().SetSort(bson.M{"drawDate": -1})
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// Update updates a draw
func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	draw.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draw.ID}, draw)
	return err
}

// Delete deletes a draw by ID
func (r *DrawRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAll finds all draws, newest first
func (r *DrawRepository) FindAll(ctx context.Context) ([]*models.Draw, error) {
	opts := options.Find().SetSort(bson.M{"drawDate": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var draws []*models.Draw
	if err := cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	if draws == nil {
		draws = []*models.Draw{}
	}
	return draws, nil
}
