package mongodb

import (
	"context"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure SubscriptionRepository implements the interface
var _ repositories.SubscriptionRepository = (*SubscriptionRepository)(nil)

// SubscriptionRepository handles MongoDB operations for Subscription
type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, sub)
	return err
}

// FindByID finds a subscription by ID
func (r *SubscriptionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByUserID finds all subscriptions belonging to a user
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Subscription, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// Update replaces a subscription document
func (r *SubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	sub.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": sub.ID}, sub)
	return err
}

// FindLive finds subscriptions with status active or trialing
func (r *SubscriptionRepository) FindLive(ctx context.Context) ([]*models.Subscription, error) {
	filter := bson.M{"status": bson.M{"$in": []string{models.SubscriptionActive, models.SubscriptionTrialing}}}
	return r.find(ctx, filter)
}

// FindByAssignedDraw finds subscriptions assigned to a specific draw
func (r *SubscriptionRepository) FindByAssignedDraw(ctx context.Context, drawID primitive.ObjectID) ([]*models.Subscription, error) {
	return r.find(ctx, bson.M{"assignedDrawId": drawID})
}

// FindUnassignedMonthly finds live monthly subscriptions with no draw assignment
func (r *SubscriptionRepository) FindUnassignedMonthly(ctx context.Context) ([]*models.Subscription, error) {
	filter := bson.M{
		"plan":   models.PlanMonthly,
		"status": bson.M{"$in": []string{models.SubscriptionActive, models.SubscriptionTrialing}},
		"$or": []bson.M{
			{"assignedDrawId": bson.M{"$exists": false}},
			{"assignedDrawId": primitive.NilObjectID},
		},
	}
	return r.find(ctx, filter)
}

// ExpireMonthlyByDraw cancels every monthly subscription assigned to the draw
func (r *SubscriptionRepository) ExpireMonthlyByDraw(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"plan":           models.PlanMonthly,
		"assignedDrawId": drawID,
		"status":         bson.M{"$in": []string{models.SubscriptionActive, models.SubscriptionTrialing}},
	}
	update := bson.M{"$set": bson.M{
		"status":         models.SubscriptionCancelled,
		"drawsRemaining": 0,
		"updatedAt":      time.Now(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// ReactivateMonthlyByDraw reverses ExpireMonthlyByDraw for a reset draw
func (r *SubscriptionRepository) ReactivateMonthlyByDraw(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"plan":           models.PlanMonthly,
		"assignedDrawId": drawID,
		"status":         models.SubscriptionCancelled,
	}
	update := bson.M{"$set": bson.M{
		"status":         models.SubscriptionActive,
		"drawsRemaining": 1,
		"updatedAt":      time.Now(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// FindByMonthLabel finds legacy subscriptions assigned by month name only
func (r *SubscriptionRepository) FindByMonthLabel(ctx context.Context, monthLabel string) ([]*models.Subscription, error) {
	filter := bson.M{
		"assignedDrawMonth": monthLabel,
		"$or": []bson.M{
			{"assignedDrawId": bson.M{"$exists": false}},
			{"assignedDrawId": primitive.NilObjectID},
		},
	}
	return r.find(ctx, filter)
}

func (r *SubscriptionRepository) find(ctx context.Context, filter bson.M) ([]*models.Subscription, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}
	return subs, nil
}
