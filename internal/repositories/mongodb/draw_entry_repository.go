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

// Compile-time check to ensure DrawEntryRepository implements the interface
var _ repositories.DrawEntryRepository = (*DrawEntryRepository)(nil)

// DrawEntryRepository handles MongoDB operations for DrawEntry
type DrawEntryRepository struct {
	collection *mongo.Collection
}

// NewDrawEntryRepository creates a new DrawEntryRepository
func NewDrawEntryRepository(db *mongo.Database) *DrawEntryRepository {
	return &DrawEntryRepository{
		collection: db.Collection("draw_entries"),
	}
}

// Create inserts a single draw entry
func (r *DrawEntryRepository) Create(ctx context.Context, entry *models.DrawEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany bulk-inserts draw entries. Unordered so one bad document does
// not abort the rest of the batch.
func (r *DrawEntryRepository) CreateMany(ctx context.Context, entries []*models.DrawEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	now := time.Now()
	for _, e := range entries {
		e.ID = primitive.NewObjectID()
		e.CreatedAt = now
		e.UpdatedAt = now
		docs = append(docs, e)
	}
	opts := options.InsertMany().SetOrdered(false)
	_, err := r.collection.InsertMany(ctx, docs, opts)
	return err
}

// FindByID finds a draw entry by ID
func (r *DrawEntryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawEntry, error) {
	var entry models.DrawEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByDrawID finds all entries for a draw
func (r *DrawEntryRepository) FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error) {
	return r.find(ctx, bson.M{"drawId": drawID})
}

// FindWinnersByDrawID finds the entries for a draw that landed in a prize tier
func (r *DrawEntryRepository) FindWinnersByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error) {
	return r.find(ctx, bson.M{"drawId": drawID, "tier": bson.M{"$gt": 0}})
}

// DeleteByDrawID removes every entry belonging to a draw (reset path)
func (r *DrawEntryRepository) DeleteByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"drawId": drawID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// UpdateVerification sets the verification status on an entry
func (r *DrawEntryRepository) UpdateVerification(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{
		"verificationStatus": status,
		"updatedAt":          time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkPaid conditionally flips isPaid. The filter requires isPaid=false so
// a second call matches nothing and the caller can treat it as already
// settled.
func (r *DrawEntryRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, reference string, paidAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "isPaid": false}
	update := bson.M{"$set": bson.M{
		"isPaid":           true,
		"paymentReference": reference,
		"paidAt":           paidAt,
		"updatedAt":        time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// UnmarkPaid reverses MarkPaid when the wallet credit fails afterwards
func (r *DrawEntryRepository) UnmarkPaid(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":   bson.M{"isPaid": false, "updatedAt": time.Now()},
		"$unset": bson.M{"paymentReference": "", "paidAt": ""},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *DrawEntryRepository) find(ctx context.Context, filter bson.M) ([]*models.DrawEntry, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.DrawEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.DrawEntry{}
	}
	return entries, nil
}
