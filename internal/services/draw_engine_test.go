package services

import (
	"testing"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWinningNumbers(t *testing.T) {
	t.Run("picks three rarest and two most common", func(t *testing.T) {
		frequencies := []models.ScoreFrequency{
			{Score: 18, Count: 1},
			{Score: 27, Count: 2},
			{Score: 32, Count: 2},
			{Score: 35, Count: 3},
			{Score: 41, Count: 5},
		}
		numbers := GenerateWinningNumbers(frequencies)
		require.Len(t, numbers, 5)
		assert.Equal(t, []int{18, 27, 32, 35, 41}, numbers)
	})

	t.Run("rarest come from the front and common from the back", func(t *testing.T) {
		frequencies := []models.ScoreFrequency{
			{Score: 12, Count: 1},
			{Score: 19, Count: 1},
			{Score: 23, Count: 2},
			{Score: 30, Count: 4},
			{Score: 36, Count: 7},
			{Score: 38, Count: 9},
			{Score: 40, Count: 12},
		}
		numbers := GenerateWinningNumbers(frequencies)
		require.Len(t, numbers, 5)
		assert.Equal(t, []int{12, 19, 23}, numbers[:3])
		assert.ElementsMatch(t, []int{38, 40}, numbers[3:])
	})

	t.Run("refuses sparse distributions", func(t *testing.T) {
		frequencies := []models.ScoreFrequency{
			{Score: 20, Count: 3},
			{Score: 25, Count: 1},
			{Score: 30, Count: 2},
			{Score: 35, Count: 4},
		}
		assert.Nil(t, GenerateWinningNumbers(frequencies))
	})

	t.Run("refuses empty distribution", func(t *testing.T) {
		assert.Nil(t, GenerateWinningNumbers(nil))
	})
}

func TestCountMatches(t *testing.T) {
	winning := []int{18, 27, 32, 35, 41}

	t.Run("counts each occurrence including duplicates", func(t *testing.T) {
		assert.Equal(t, 3, CountMatches([]int{32, 18, 40, 27, 22}, winning))
		assert.Equal(t, 2, CountMatches([]int{18, 18, 0, 0, 0}, winning))
		assert.Equal(t, 5, CountMatches([]int{18, 27, 32, 35, 41}, winning))
	})

	t.Run("zero matches", func(t *testing.T) {
		assert.Equal(t, 0, CountMatches([]int{1, 2, 3, 4, 5}, winning))
		assert.Equal(t, 0, CountMatches(nil, winning))
	})
}

func TestTierForMatches(t *testing.T) {
	assert.Equal(t, 1, TierForMatches(5))
	assert.Equal(t, 2, TierForMatches(4))
	assert.Equal(t, 3, TierForMatches(3))
	assert.Equal(t, 0, TierForMatches(2))
	assert.Equal(t, 0, TierForMatches(1))
	assert.Equal(t, 0, TierForMatches(0))
}

func TestPadScores(t *testing.T) {
	assert.Equal(t, []int{31, 28, 0, 0, 0}, PadScores([]int{31, 28}))
	assert.Equal(t, []int{0, 0, 0, 0, 0}, PadScores(nil))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PadScores([]int{1, 2, 3, 4, 5, 6}))
}

func TestComputeAllocation(t *testing.T) {
	settings := models.DefaultDrawSettings() // $5 per sub, 40/35/25, cap $250,000

	t.Run("jackpot below cap", func(t *testing.T) {
		alloc := ComputeAllocation(100, settings, 240000, 0, 2, 5)

		assert.InDelta(t, 500.0, alloc.BasePrizePool, 0.001)
		assert.InDelta(t, 200.0, alloc.Tier1Standard, 0.001)
		assert.InDelta(t, 240200.0, alloc.Tier1Pool, 0.001)
		assert.False(t, alloc.CapReached)
		assert.InDelta(t, 0.0, alloc.Tier2Rollover, 0.001)
		assert.InDelta(t, 175.0, alloc.Tier2Pool, 0.001)
		assert.InDelta(t, 125.0, alloc.Tier3Pool, 0.001)
		assert.InDelta(t, 87.5, alloc.Tier2Payout, 0.001)
		assert.InDelta(t, 25.0, alloc.Tier3Payout, 0.001)
		// No 5-match winner: the whole tier-1 pool rolls.
		assert.InDelta(t, 240200.0, alloc.JackpotRollover, 0.001)
	})

	t.Run("jackpot cap clamps tier-1 contribution", func(t *testing.T) {
		alloc := ComputeAllocation(100, settings, 249900, 0, 2, 5)

		assert.True(t, alloc.CapReached)
		// Only $100 of the $200 standard share fits under the cap.
		assert.InDelta(t, 100.0, alloc.Tier1Standard, 0.001)
		assert.InDelta(t, 250000.0, alloc.Tier1Pool, 0.001)
		// The overflow is diverted to tier 2.
		assert.InDelta(t, 100.0, alloc.Tier2Rollover, 0.001)
		assert.InDelta(t, 275.0, alloc.Tier2Pool, 0.001)
	})

	t.Run("jackpot already at cap diverts the full share", func(t *testing.T) {
		alloc := ComputeAllocation(100, settings, 250000, 0, 0, 0)

		assert.True(t, alloc.CapReached)
		assert.InDelta(t, 0.0, alloc.Tier1Standard, 0.001)
		assert.InDelta(t, 250000.0, alloc.Tier1Pool, 0.001)
		assert.InDelta(t, 200.0, alloc.Tier2Rollover, 0.001)
	})

	t.Run("tier-1 winner consumes the pool", func(t *testing.T) {
		alloc := ComputeAllocation(100, settings, 240000, 2, 0, 0)

		assert.InDelta(t, 240200.0, alloc.Tier1Pool, 0.001)
		assert.InDelta(t, 120100.0, alloc.Tier1Payout, 0.001)
		assert.InDelta(t, 0.0, alloc.JackpotRollover, 0.001)
	})

	t.Run("zero winners yield zero payouts", func(t *testing.T) {
		alloc := ComputeAllocation(50, settings, 0, 0, 0, 0)

		assert.InDelta(t, 0.0, alloc.Tier1Payout, 0.001)
		assert.InDelta(t, 0.0, alloc.Tier2Payout, 0.001)
		assert.InDelta(t, 0.0, alloc.Tier3Payout, 0.001)
	})

	t.Run("no participants means empty pools", func(t *testing.T) {
		alloc := ComputeAllocation(0, settings, 1000, 0, 0, 0)

		assert.InDelta(t, 0.0, alloc.BasePrizePool, 0.001)
		assert.InDelta(t, 1000.0, alloc.Tier1Pool, 0.001)
		assert.InDelta(t, 1000.0, alloc.JackpotRollover, 0.001)
	})
}
