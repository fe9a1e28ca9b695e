package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TierResult summarizes one prize tier in a simulation: how many entries
// hit it, the pool allocated to it, and the per-winner payout.
type TierResult struct {
	Winners int     `json:"winners"`
	Pool    float64 `json:"pool"`
	Payout  float64 `json:"payout"`
}

// SimulatedEntry is one eligible user's scored entry in a dry run. The same
// values are persisted as a DrawEntry when the draw is actually run.
type SimulatedEntry struct {
	UserID             primitive.ObjectID `json:"userId"`
	Scores             []int              `json:"scores"`
	Matches            int                `json:"matches"`
	Tier               int                `json:"tier"`
	GrossPrize         float64            `json:"grossPrize"`
	CharityAmount      float64            `json:"charityAmount"`
	NetPayout          float64            `json:"netPayout"`
	CharityID          primitive.ObjectID `json:"charityId,omitempty"`
	DonationPercentage float64            `json:"donationPercentage"`
}

// DrawSimulation is the full preview of a draw: everything run would
// persist, computed without side effects.
type DrawSimulation struct {
	WinningNumbers    []int            `json:"winningNumbers"`
	Participants      int              `json:"participants"`
	BasePrizePool     float64          `json:"basePrizePool"`
	CurrentJackpot    float64          `json:"currentJackpot"` // tracker value consumed by this draw
	Tier1             TierResult       `json:"tier1"`
	Tier2             TierResult       `json:"tier2"`
	Tier3             TierResult       `json:"tier3"`
	Tier2Rollover     float64          `json:"tier2Rollover"` // cap overflow diverted into tier 2
	JackpotRollover   float64          `json:"jackpotRollover"`
	JackpotCapReached bool             `json:"jackpotCapReached"`
	Entries           []SimulatedEntry `json:"entries"`
}

// RunResult reports a persisted draw run, including any entries or
// donations that failed to insert so the operator can remediate before
// publishing.
type RunResult struct {
	Success         bool                 `json:"success"`
	Simulation      *DrawSimulation      `json:"simulation"`
	FailedEntries   []primitive.ObjectID `json:"failedEntries,omitempty"`
	FailedDonations []primitive.ObjectID `json:"failedDonations,omitempty"`
}
