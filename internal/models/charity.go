package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Charity is a directory entry players can direct their prize share to.
type Charity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	LogoURL     string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	Verified    bool               `bson:"verified" json:"verified"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
