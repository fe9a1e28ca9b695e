package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation sources
const (
	DonationSourceDirect       = "direct"
	DonationSourcePrizeSplit   = "prize_split"
	DonationSourceSubscription = "subscription"
)

// Donation statuses
const (
	DonationPending    = "pending"
	DonationProcessing = "processing"
	DonationPaid       = "paid"
)

// Donation records money earmarked for a charity: the charity share of a
// winning entry, a direct gift, or a subscription contribution. Settled
// donations link back to the CharityPayout that aggregated them.
type Donation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CharityID       primitive.ObjectID `bson:"charityId" json:"charityId"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	DrawID          primitive.ObjectID `bson:"drawId,omitempty" json:"drawId,omitempty"` // zero for direct gifts
	Amount          float64            `bson:"amount" json:"amount"`
	Source          string             `bson:"source" json:"source"`
	Status          string             `bson:"status" json:"status"`
	CharityPayoutID primitive.ObjectID `bson:"charityPayoutId,omitempty" json:"charityPayoutId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
