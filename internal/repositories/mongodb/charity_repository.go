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

// Compile-time check to ensure CharityRepository implements the interface
var _ repositories.CharityRepository = (*CharityRepository)(nil)

// CharityRepository handles MongoDB operations for Charity
type CharityRepository struct {
	collection *mongo.Collection
}

// NewCharityRepository creates a new CharityRepository
func NewCharityRepository(db *mongo.Database) *CharityRepository {
	return &CharityRepository{
		collection: db.Collection("charities"),
	}
}

// Create inserts a new charity
func (r *CharityRepository) Create(ctx context.Context, charity *models.Charity) error {
	charity.ID = primitive.NewObjectID()
	charity.CreatedAt = time.Now()
	charity.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, charity)
	return err
}

// FindByID finds a charity by ID
func (r *CharityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Charity, error) {
	var charity models.Charity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&charity)
	if err != nil {
		return nil, err
	}
	return &charity, nil
}

// FindAll finds all charities sorted by name
func (r *CharityRepository) FindAll(ctx context.Context) ([]*models.Charity, error) {
	return r.find(ctx, bson.M{})
}

// FindVerified finds charities cleared for the public directory
func (r *CharityRepository) FindVerified(ctx context.Context) ([]*models.Charity, error) {
	return r.find(ctx, bson.M{"verified": true})
}

// Update replaces a charity document
func (r *CharityRepository) Update(ctx context.Context, charity *models.Charity) error {
	charity.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": charity.ID}, charity)
	return err
}

// Delete deletes a charity by ID
func (r *CharityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *CharityRepository) find(ctx context.Context, filter bson.M) ([]*models.Charity, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var charities []*models.Charity
	if err := cursor.All(ctx, &charities); err != nil {
		return nil, err
	}
	if charities == nil {
		charities = []*models.Charity{}
	}
	return charities, nil
}
