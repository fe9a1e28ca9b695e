package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle state of a monthly draw
type DrawStatus string

const (
	DrawStatusOpen      DrawStatus = "open"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusPublished DrawStatus = "published"
)

// Draw represents one monthly lottery cycle. Created open; run moves it to
// completed and fills in every computed field; publish announces it; reset
// reverses run+publish and returns it to open.
type Draw struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MonthYear           string             `bson:"monthYear" json:"monthYear"` // e.g. "August 2026", unique per cycle
	Status              DrawStatus         `bson:"status" json:"status"`
	ScoreRangeMin       int                `bson:"scoreRangeMin" json:"scoreRangeMin"`
	ScoreRangeMax       int                `bson:"scoreRangeMax" json:"scoreRangeMax"`
	WinningNumbers      []int              `bson:"winningNumbers,omitempty" json:"winningNumbers,omitempty"`
	PrizePool           float64            `bson:"prizePool" json:"prizePool"`
	JackpotAdded        float64            `bson:"jackpotAdded" json:"jackpotAdded"` // jackpot carried into this draw, restored on reset
	Tier1Pool           float64            `bson:"tier1Pool" json:"tier1Pool"`
	Tier2Pool           float64            `bson:"tier2Pool" json:"tier2Pool"`
	Tier3Pool           float64            `bson:"tier3Pool" json:"tier3Pool"`
	ParticipantsCount   int                `bson:"participantsCount" json:"participantsCount"`
	Tier1Winners        int                `bson:"tier1Winners" json:"tier1Winners"`
	Tier2Winners        int                `bson:"tier2Winners" json:"tier2Winners"`
	Tier3Winners        int                `bson:"tier3Winners" json:"tier3Winners"`
	Tier1RolloverAmount float64            `bson:"tier1RolloverAmount" json:"tier1RolloverAmount"` // unclaimed tier-1 pool carried to the next draw
	Tier2RolloverAmount float64            `bson:"tier2RolloverAmount" json:"tier2RolloverAmount"` // cap overflow diverted into tier 2
	JackpotCapReached   bool               `bson:"jackpotCapReached" json:"jackpotCapReached"`
	DrawDate            time.Time          `bson:"drawDate" json:"drawDate"`
	PublishedAt         time.Time          `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
