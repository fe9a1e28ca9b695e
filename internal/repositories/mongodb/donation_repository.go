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

// Compile-time check to ensure DonationRepository implements the interface
var _ repositories.DonationRepository = (*DonationRepository)(nil)

// DonationRepository handles MongoDB operations for Donation
type DonationRepository struct {
	collection *mongo.Collection
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *mongo.Database) *DonationRepository {
	return &DonationRepository{
		collection: db.Collection("donations"),
	}
}

// Create inserts a new donation
func (r *DonationRepository) Create(ctx context.Context, donation *models.Donation) error {
	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, donation)
	return err
}

// CreateMany bulk-inserts donations, unordered
func (r *DonationRepository) CreateMany(ctx context.Context, donations []*models.Donation) error {
	if len(donations) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(donations))
	now := time.Now()
	for _, d := range donations {
		d.ID = primitive.NewObjectID()
		d.CreatedAt = now
		d.UpdatedAt = now
		docs = append(docs, d)
	}
	opts := options.InsertMany().SetOrdered(false)
	_, err := r.collection.InsertMany(ctx, docs, opts)
	return err
}

// FindByID finds a donation by ID
func (r *DonationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var donation models.Donation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindByDrawID finds all donations created by a draw run
func (r *DonationRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Donation, error) {
	return r.find(ctx, bson.M{"drawId": drawID})
}

// FindPayableByCharity finds pending, unlinked donations for a charity
func (r *DonationRepository) FindPayableByCharity(ctx context.Context, charityID primitive.ObjectID) ([]*models.Donation, error) {
	filter := bson.M{
		"charityId": charityID,
		"status":    models.DonationPending,
		"$or": []bson.M{
			{"charityPayoutId": bson.M{"$exists": false}},
			{"charityPayoutId": primitive.NilObjectID},
		},
	}
	return r.find(ctx, filter)
}

// FindByPayoutID finds the donations aggregated into a payout
func (r *DonationRepository) FindByPayoutID(ctx context.Context, payoutID primitive.ObjectID) ([]*models.Donation, error) {
	return r.find(ctx, bson.M{"charityPayoutId": payoutID})
}

// DeleteByDrawID removes every donation created for a draw (reset path)
func (r *DonationRepository) DeleteByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// LinkToPayout stamps the payout id on the donations and moves them to processing
func (r *DonationRepository) LinkToPayout(ctx context.Context, donationIDs []primitive.ObjectID, payoutID primitive.ObjectID) error {
	filter := bson.M{"_id": bson.M{"$in": donationIDs}}
	update := bson.M{"$set": bson.M{
		"charityPayoutId": payoutID,
		"status":          models.DonationProcessing,
		"updatedAt":       time.Now(),
	}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// UnlinkPayout detaches donations from a rolled-back payout
func (r *DonationRepository) UnlinkPayout(ctx context.Context, payoutID primitive.ObjectID) error {
	filter := bson.M{"charityPayoutId": payoutID}
	update := bson.M{
		"$set":   bson.M{"status": models.DonationPending, "updatedAt": time.Now()},
		"$unset": bson.M{"charityPayoutId": ""},
	}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// UpdateStatusByPayout sets the status of every donation in a payout
func (r *DonationRepository) UpdateStatusByPayout(ctx context.Context, payoutID primitive.ObjectID, status string) error {
	filter := bson.M{"charityPayoutId": payoutID}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *DonationRepository) find(ctx context.Context, filter bson.M) ([]*models.Donation, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var donations []*models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []*models.Donation{}
	}
	return donations, nil
}
