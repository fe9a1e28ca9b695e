package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription plans
const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionTrialing  = "trialing"
	SubscriptionCancelled = "cancelled"
)

// Subscription ties a user to the draws they may enter. An annual
// subscription covers every draw while active; a monthly subscription is
// good for exactly one draw (its assignment) and is expired when that draw
// is published.
type Subscription struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Plan              string             `bson:"plan" json:"plan"`
	Status            string             `bson:"status" json:"status"`
	AssignedDrawID    primitive.ObjectID `bson:"assignedDrawId,omitempty" json:"assignedDrawId,omitempty"`
	AssignedDrawMonth string             `bson:"assignedDrawMonth,omitempty" json:"assignedDrawMonth,omitempty"` // legacy label, reconciled by backfill
	CurrentPeriodEnd  time.Time          `bson:"currentPeriodEnd" json:"currentPeriodEnd"`
	DrawsRemaining    int                `bson:"drawsRemaining" json:"drawsRemaining"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsLive reports whether the subscription currently counts for eligibility.
func (s *Subscription) IsLive() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
