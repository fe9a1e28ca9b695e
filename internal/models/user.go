package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// User represents a registered golfer or an administrative account
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName          string             `bson:"firstName" json:"firstName"`
	LastName           string             `bson:"lastName" json:"lastName"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role               string             `bson:"role" json:"role"`
	WalletBalance      float64            `bson:"walletBalance" json:"walletBalance"`
	SelectedCharityID  primitive.ObjectID `bson:"selectedCharityId,omitempty" json:"selectedCharityId,omitempty"`
	DonationPercentage float64            `bson:"donationPercentage" json:"donationPercentage"` // fraction of gross prize, default 0.10
	IsTestAccount      bool               `bson:"isTestAccount" json:"isTestAccount"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
