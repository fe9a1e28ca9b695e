package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JackpotTracker is the singleton row holding the rolling jackpot. It is
// consumed into the tier-1 pool when a draw runs: a 5-match winner resets
// it to zero, otherwise the unclaimed tier-1 pool becomes the new amount.
// Writes carry a version for optimistic concurrency.
type JackpotTracker struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Amount      float64            `bson:"amount" json:"amount"`
	Version     int64              `bson:"version" json:"version"`
	LastDrawID  primitive.ObjectID `bson:"lastDrawId,omitempty" json:"lastDrawId,omitempty"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}
