package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification statuses for draw entries
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// DrawEntry is one eligible user's ticket in a run draw: their five scores,
// the match count against the winning numbers, and the resulting money
// split. CharityAmount + NetPayout always equals GrossPrize. Tier is 0 for
// non-winning entries.
type DrawEntry struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID             primitive.ObjectID `bson:"drawId" json:"drawId"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	Scores             []int              `bson:"scores" json:"scores"`
	Matches            int                `bson:"matches" json:"matches"`
	Tier               int                `bson:"tier" json:"tier"` // 1, 2, 3, or 0 for no prize
	GrossPrize         float64            `bson:"grossPrize" json:"grossPrize"`
	CharityAmount      float64            `bson:"charityAmount" json:"charityAmount"`
	NetPayout          float64            `bson:"netPayout" json:"netPayout"`
	CharityID          primitive.ObjectID `bson:"charityId,omitempty" json:"charityId,omitempty"`
	IsPaid             bool               `bson:"isPaid" json:"isPaid"`
	VerificationStatus string             `bson:"verificationStatus" json:"verificationStatus"`
	PaidAt             time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	PaymentReference   string             `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
