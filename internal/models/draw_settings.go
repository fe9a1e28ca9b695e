package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawSettings holds the configurable prize-pool parameters. Tier percents
// are whole percentages and must sum to 100.
type DrawSettings struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BaseAmountPerSub float64            `bson:"baseAmountPerSub" json:"baseAmountPerSub"`
	Tier1Percent     float64            `bson:"tier1Percent" json:"tier1Percent"`
	Tier2Percent     float64            `bson:"tier2Percent" json:"tier2Percent"`
	Tier3Percent     float64            `bson:"tier3Percent" json:"tier3Percent"`
	JackpotCap       float64            `bson:"jackpotCap" json:"jackpotCap"`
	UpdatedBy        string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultDrawSettings returns the stock configuration used until an admin
// overrides it.
func DefaultDrawSettings() *DrawSettings {
	return &DrawSettings{
		BaseAmountPerSub: 5,
		Tier1Percent:     40,
		Tier2Percent:     35,
		Tier3Percent:     25,
		JackpotCap:       250000,
	}
}
