package services

import (
	"math"

	"github.com/birdieplay/birdieplay-backend/internal/models"
)

// WinningNumberCount is the size of every winning-number set: the three
// rarest score values plus the two most common.
const WinningNumberCount = 5

// ScoresPerEntry is how many recent scores make up a player's entry.
const ScoresPerEntry = 5

// GenerateWinningNumbers derives the draw's five numbers from a frequency
// table already sorted by ascending count (score ascending on ties): the
// first three rows are the rarest scores, the last two the most common.
// Purely deterministic; returns nil when fewer than five distinct score
// values exist.
func GenerateWinningNumbers(frequencies []models.ScoreFrequency) []int {
	if len(frequencies) < WinningNumberCount {
		return nil
	}

	numbers := make([]int, 0, WinningNumberCount)
	for _, f := range frequencies[:3] {
		numbers = append(numbers, f.Score)
	}
	for _, f := range frequencies[len(frequencies)-2:] {
		numbers = append(numbers, f.Score)
	}
	return numbers
}

// CountMatches counts how many of the user's scores appear in the winning
// set. The count runs over the user's score list, so a duplicated score
// that is a winning number counts once per occurrence.
func CountMatches(userScores, winningNumbers []int) int {
	winning := make(map[int]struct{}, len(winningNumbers))
	for _, n := range winningNumbers {
		winning[n] = struct{}{}
	}

	matches := 0
	for _, s := range userScores {
		if _, ok := winning[s]; ok {
			matches++
		}
	}
	return matches
}

// TierForMatches maps a match count to a prize tier. 0 means no prize;
// two or fewer matches never win.
func TierForMatches(matches int) int {
	switch matches {
	case 5:
		return 1
	case 4:
		return 2
	case 3:
		return 3
	default:
		return 0
	}
}

// PrizeAllocation is the full money breakdown of one draw cycle.
type PrizeAllocation struct {
	BasePrizePool   float64
	Tier1Standard   float64 // tier 1's own share of the base pool, after any cap clamp
	Tier1Pool       float64 // headline jackpot for this draw, never above the cap
	Tier2Pool       float64
	Tier3Pool       float64
	Tier1Payout     float64 // per-winner
	Tier2Payout     float64
	Tier3Payout     float64
	Tier2Rollover   float64 // cap overflow diverted into tier 2
	JackpotRollover float64 // unclaimed tier-1 pool carried to the next draw
	CapReached      bool
}

// ComputeAllocation sizes the three prize pools from the participant count,
// the configured percentages, the jackpot carried into this draw, and the
// per-tier winner counts.
//
// The jackpot cap is a hard ceiling on tier 1: any overflow is diverted in
// full to tier 2 rather than retained, so no value raised ever leaves the
// prize pools. When nobody hits five matches the entire tier-1 pool rolls
// over to the next draw's jackpot; a five-match winner consumes it and the
// tracker resets to zero.
func ComputeAllocation(participants int, settings *models.DrawSettings, currentJackpot float64, tier1Winners, tier2Winners, tier3Winners int) PrizeAllocation {
	basePool := float64(participants) * settings.BaseAmountPerSub

	tier1Standard := basePool * settings.Tier1Percent / 100
	tier2Standard := basePool * settings.Tier2Percent / 100
	tier3Standard := basePool * settings.Tier3Percent / 100

	totalPotentialJackpot := currentJackpot + tier1Standard

	alloc := PrizeAllocation{
		BasePrizePool: basePool,
		Tier1Standard: tier1Standard,
		Tier3Pool:     tier3Standard,
	}

	if totalPotentialJackpot > settings.JackpotCap {
		alloc.CapReached = true
		alloc.Tier2Rollover = totalPotentialJackpot - settings.JackpotCap
		alloc.Tier1Standard = math.Max(0, settings.JackpotCap-currentJackpot)
	}

	alloc.Tier1Pool = math.Min(totalPotentialJackpot, settings.JackpotCap)
	alloc.Tier2Pool = tier2Standard + alloc.Tier2Rollover

	if tier1Winners > 0 {
		alloc.Tier1Payout = alloc.Tier1Pool / float64(tier1Winners)
	} else {
		alloc.JackpotRollover = alloc.Tier1Pool
	}
	if tier2Winners > 0 {
		alloc.Tier2Payout = alloc.Tier2Pool / float64(tier2Winners)
	}
	if tier3Winners > 0 {
		alloc.Tier3Payout = alloc.Tier3Pool / float64(tier3Winners)
	}

	return alloc
}

// PadScores zero-pads a score list up to ScoresPerEntry. Users with fewer
// than five recent rounds still get a full-width entry; zero is not a
// valid Stableford winning number in practice so padding cannot match.
func PadScores(scores []int) []int {
	if len(scores) >= ScoresPerEntry {
		return scores[:ScoresPerEntry]
	}
	padded := make([]int, ScoresPerEntry)
	copy(padded, scores)
	return padded
}
