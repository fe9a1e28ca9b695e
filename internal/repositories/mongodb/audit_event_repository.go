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

// Compile-time check to ensure AuditEventRepository implements the interface
var _ repositories.AuditEventRepository = (*AuditEventRepository)(nil)

// AuditEventRepository handles MongoDB operations for AuditEvent
type AuditEventRepository struct {
	collection *mongo.Collection
}

// NewAuditEventRepository creates a new AuditEventRepository
func NewAuditEventRepository(db *mongo.Database) *AuditEventRepository {
	return &AuditEventRepository{
		collection: db.Collection("audit_events"),
	}
}

// Create inserts a new audit event
func (r *AuditEventRepository) Create(ctx context.Context, event *models.AuditEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindRecent returns the most recent audit events
func (r *AuditEventRepository) FindRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.AuditEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.AuditEvent{}
	}
	return events, nil
}
