package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure DrawSettingsRepository implements the interface
var _ repositories.DrawSettingsRepository = (*DrawSettingsRepository)(nil)

// DrawSettingsRepository handles the prize-pool settings singleton
type DrawSettingsRepository struct {
	collection *mongo.Collection
}

// NewDrawSettingsRepository creates a new DrawSettingsRepository
func NewDrawSettingsRepository(db *mongo.Database) *DrawSettingsRepository {
	return &DrawSettingsRepository{
		collection: db.Collection("draw_settings"),
	}
}

// GetSettings returns the stored settings, or the defaults when none exist
func (r *DrawSettingsRepository) GetSettings(ctx context.Context) (*models.DrawSettings, error) {
	var settings models.DrawSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultDrawSettings(), nil
	}
	return nil, err
}

// UpdateSettings upserts the settings singleton
func (r *DrawSettingsRepository) UpdateSettings(ctx context.Context, settings *models.DrawSettings) error {
	settings.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"baseAmountPerSub": settings.BaseAmountPerSub,
		"tier1Percent":     settings.Tier1Percent,
		"tier2Percent":     settings.Tier2Percent,
		"tier3Percent":     settings.Tier3Percent,
		"jackpotCap":       settings.JackpotCap,
		"updatedBy":        settings.UpdatedBy,
		"updatedAt":        settings.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"createdAt": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
