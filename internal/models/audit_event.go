package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditEvent records an administrative action against the draw pipeline.
// Writes are fire-and-forget: a failed audit insert never blocks the
// operation it describes.
type AuditEvent struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Actor     string                 `bson:"actor" json:"actor"` // admin user id or email
	Action    string                 `bson:"action" json:"action"`
	Subject   string                 `bson:"subject,omitempty" json:"subject,omitempty"` // e.g. draw id, entry id
	Detail    map[string]interface{} `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
