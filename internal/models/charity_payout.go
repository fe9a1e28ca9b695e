package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Charity payout statuses
const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
)

// CharityPayout aggregates one or more Donations into a single transfer to
// a charity. Donations reference the payout; rolling a payout back unlinks
// them and deletes the record.
type CharityPayout struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CharityID     primitive.ObjectID `bson:"charityId" json:"charityId"`
	Amount        float64            `bson:"amount" json:"amount"`
	DonationCount int                `bson:"donationCount" json:"donationCount"`
	Status        string             `bson:"status" json:"status"`
	PayoutRef     string             `bson:"payoutRef,omitempty" json:"payoutRef,omitempty"`
	PaidAt        time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
