package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreRecord is a single submitted round, expressed in Stableford points.
// Immutable once created; the draw engine only ever reads these in aggregate.
type ScoreRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Score     int                `bson:"score" json:"score"`
	CourseRef string             `bson:"courseRef,omitempty" json:"courseRef,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ScoreFrequency is one row of the score distribution used to derive
// winning numbers. Rows are ordered by ascending count, score ascending
// on ties.
type ScoreFrequency struct {
	Score int `bson:"_id" json:"score"`
	Count int `bson:"count" json:"count"`
}
