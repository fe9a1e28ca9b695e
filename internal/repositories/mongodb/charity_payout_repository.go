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

// Compile-time check to ensure CharityPayoutRepository implements the interface
var _ repositories.CharityPayoutRepository = (*CharityPayoutRepository)(nil)

// CharityPayoutRepository handles MongoDB operations for CharityPayout
type CharityPayoutRepository struct {
	collection *mongo.Collection
}

// NewCharityPayoutRepository creates a new CharityPayoutRepository
func NewCharityPayoutRepository(db *mongo.Database) *CharityPayoutRepository {
	return &CharityPayoutRepository{
		collection: db.Collection("charity_payouts"),
	}
}

// Create inserts a new payout
func (r *CharityPayoutRepository) Create(ctx context.Context, payout *models.CharityPayout) error {
	payout.ID = primitive.NewObjectID()
	payout.CreatedAt = time.Now()
	payout.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, payout)
	return err
}

// FindByID finds a payout by ID
func (r *CharityPayoutRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CharityPayout, error) {
	var payout models.CharityPayout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payout)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// FindByCharityID finds a charity's payouts, newest first
func (r *CharityPayoutRepository) FindByCharityID(ctx context.Context, charityID primitive.ObjectID) ([]*models.CharityPayout, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"charityId": charityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payouts []*models.CharityPayout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, err
	}
	if payouts == nil {
		payouts = []*models.CharityPayout{}
	}
	return payouts, nil
}

// Update replaces a payout document
func (r *CharityPayoutRepository) Update(ctx context.Context, payout *models.CharityPayout) error {
	payout.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": payout.ID}, payout)
	return err
}

// Delete deletes a payout by ID
func (r *CharityPayoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
