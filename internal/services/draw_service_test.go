package services

import (
	"context"
	"testing"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// drawFixture wires a DrawServiceImpl against in-memory fakes with a known
// score distribution, two subscribed players, and a seeded jackpot.
type drawFixture struct {
	svc          *DrawServiceImpl
	drawRepo     *fakeDrawRepo
	entryRepo    *fakeDrawEntryRepo
	donationRepo *fakeDonationRepo
	scoreRepo    *fakeScoreRepo
	subRepo      *fakeSubscriptionRepo
	userRepo     *fakeUserRepo
	jackpotRepo  *fakeJackpotRepo
	notifier     *fakeNotifier

	draw      *models.Draw
	playerA   *models.User // five recent scores, three of them winning numbers
	playerB   *models.User // five recent scores, none winning
	charityID primitive.ObjectID
}

func newDrawFixture(t *testing.T) *drawFixture {
	t.Helper()
	f := &drawFixture{
		drawRepo:     newFakeDrawRepo(),
		entryRepo:    newFakeDrawEntryRepo(),
		donationRepo: newFakeDonationRepo(),
		scoreRepo:    newFakeScoreRepo(),
		subRepo:      newFakeSubscriptionRepo(),
		userRepo:     newFakeUserRepo(),
		jackpotRepo:  newFakeJackpotRepo(100),
		notifier:     &fakeNotifier{},
	}
	ctx := context.Background()

	f.charityID = primitive.NewObjectID()

	f.playerA = &models.User{
		Email:              "a@example.com",
		Role:               models.RolePlayer,
		SelectedCharityID:  f.charityID,
		DonationPercentage: 0.10,
	}
	f.playerB = &models.User{Email: "b@example.com", Role: models.RolePlayer, DonationPercentage: 0.10}
	require.NoError(t, f.userRepo.Create(ctx, f.playerA))
	require.NoError(t, f.userRepo.Create(ctx, f.playerB))

	// A user with no subscription holds the bulk of the distribution so the
	// winning numbers are fully determined: counts make 11, 12, 13 the three
	// rarest and 40, 41 the two most common, giving {11 12 13 40 41}.
	seed := &models.User{Email: "seed@example.com", Role: models.RolePlayer}
	require.NoError(t, f.userRepo.Create(ctx, seed))
	addScores := func(userID primitive.ObjectID, values []int) {
		base := time.Now().Add(-time.Hour)
		for i, v := range values {
			require.NoError(t, f.scoreRepo.Create(ctx, &models.ScoreRecord{
				UserID:    userID,
				Score:     v,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}
	}
	addScores(seed.ID, []int{
		40, 40, 40, 40, 40, 40,
		41, 41, 41, 41, 41, 41, 41,
		23, 23, 23, 23, 23,
		24, 24, 24, 24, 24,
		25, 25, 25, 25, 25,
	})
	addScores(f.playerA.ID, []int{11, 12, 13, 24, 25}) // 3 matches, tier 3
	addScores(f.playerB.ID, []int{30, 31, 32, 33, 34}) // 0 matches

	f.draw = &models.Draw{
		MonthYear:     "August 2026",
		Status:        models.DrawStatusOpen,
		ScoreRangeMin: 10,
		ScoreRangeMax: 50,
		DrawDate:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.drawRepo.Create(ctx, f.draw))

	for _, u := range []*models.User{f.playerA, f.playerB} {
		require.NoError(t, f.subRepo.Create(ctx, &models.Subscription{
			UserID:           u.ID,
			Plan:             models.PlanMonthly,
			Status:           models.SubscriptionActive,
			AssignedDrawID:   f.draw.ID,
			DrawsRemaining:   1,
			CurrentPeriodEnd: time.Now().AddDate(0, 2, 0),
		}))
	}

	eligibility := NewEligibilityService(f.subRepo, f.userRepo, f.scoreRepo, "")
	audit := NewAuditService(newFakeAuditRepo())
	f.svc = NewDrawService(
		f.drawRepo, f.entryRepo, f.donationRepo, f.scoreRepo, f.subRepo, f.userRepo,
		f.jackpotRepo, newFakeSettingsRepo(), eligibility, audit, f.notifier,
	)
	return f
}

func TestSimulateDraw(t *testing.T) {
	t.Run("full preview without side effects", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		sim, err := f.svc.SimulateDraw(ctx, 10, 50, &f.draw.ID)
		require.NoError(t, err)

		assert.Equal(t, []int{11, 12, 13, 40, 41}, sim.WinningNumbers)
		assert.Equal(t, 2, sim.Participants)
		assert.InDelta(t, 10.0, sim.BasePrizePool, 0.001)
		assert.InDelta(t, 100.0, sim.CurrentJackpot, 0.001)
		assert.Equal(t, 0, sim.Tier1.Winners)
		assert.Equal(t, 0, sim.Tier2.Winners)
		assert.Equal(t, 1, sim.Tier3.Winners)
		assert.InDelta(t, 104.0, sim.Tier1.Pool, 0.001) // 100 carried + 40% of 10
		assert.InDelta(t, 104.0, sim.JackpotRollover, 0.001)
		assert.InDelta(t, 2.5, sim.Tier3.Payout, 0.001)

		// Nothing persisted.
		assert.Empty(t, f.entryRepo.entries)
		assert.Empty(t, f.donationRepo.donations)
		tracker, _ := f.jackpotRepo.Get(ctx)
		assert.InDelta(t, 100.0, tracker.Amount, 0.001)
		stored, _ := f.drawRepo.FindByID(ctx, f.draw.ID)
		assert.Equal(t, models.DrawStatusOpen, stored.Status)

		// The tier-3 winner's money split.
		var winner models.SimulatedEntry
		for _, e := range sim.Entries {
			if e.Tier == 3 {
				winner = e
			}
		}
		assert.Equal(t, f.playerA.ID, winner.UserID)
		assert.InDelta(t, 2.5, winner.GrossPrize, 0.001)
		assert.InDelta(t, 0.25, winner.CharityAmount, 0.001)
		assert.InDelta(t, 2.25, winner.NetPayout, 0.001)
	})

	t.Run("insufficient score data", func(t *testing.T) {
		f := newDrawFixture(t)
		// Narrow range leaves fewer than five distinct values.
		_, err := f.svc.SimulateDraw(context.Background(), 40, 41, &f.draw.ID)
		assert.ErrorIs(t, err, models.ErrInsufficientData)
	})

	t.Run("no eligible participants", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()
		for _, sub := range f.subRepo.subs {
			sub.Status = models.SubscriptionCancelled
		}
		_, err := f.svc.SimulateDraw(ctx, 10, 50, &f.draw.ID)
		assert.ErrorIs(t, err, models.ErrNoEligibleParticipants)
	})
}

func TestRunDraw(t *testing.T) {
	t.Run("persists entries, donations, and the jackpot rollover", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		result, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.FailedEntries)

		stored, err := f.drawRepo.FindByID(ctx, f.draw.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DrawStatusCompleted, stored.Status)
		assert.Equal(t, []int{11, 12, 13, 40, 41}, stored.WinningNumbers)
		assert.InDelta(t, 100.0, stored.JackpotAdded, 0.001)
		assert.InDelta(t, 104.0, stored.Tier1Pool, 0.001)
		assert.Equal(t, 2, stored.ParticipantsCount)
		assert.Equal(t, 1, stored.Tier3Winners)

		entries, err := f.entryRepo.FindByDrawID(ctx, f.draw.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		// The winning entry spawned a pending prize-split donation.
		donations, err := f.donationRepo.FindByDrawID(ctx, f.draw.ID)
		require.NoError(t, err)
		require.Len(t, donations, 1)
		assert.Equal(t, f.charityID, donations[0].CharityID)
		assert.Equal(t, models.DonationSourcePrizeSplit, donations[0].Source)
		assert.InDelta(t, 0.25, donations[0].Amount, 0.001)

		// No tier-1 winner: the unclaimed pool becomes the new jackpot.
		tracker, _ := f.jackpotRepo.Get(ctx)
		assert.InDelta(t, 104.0, tracker.Amount, 0.001)
	})

	t.Run("partial entry failures are enumerated", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()
		f.entryRepo.failUserIDs[f.playerB.ID] = true

		result, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.Len(t, result.FailedEntries, 1)
		assert.Equal(t, f.playerB.ID, result.FailedEntries[0])

		entries, _ := f.entryRepo.FindByDrawID(ctx, f.draw.ID)
		assert.Len(t, entries, 1)
	})

	t.Run("cannot run a published draw", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()
		f.draw.Status = models.DrawStatusPublished
		require.NoError(t, f.drawRepo.Update(ctx, f.draw))

		_, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("simulation failure leaves the draw untouched", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		_, err := f.svc.RunDraw(ctx, f.draw.ID, 40, 41)
		assert.ErrorIs(t, err, models.ErrInsufficientData)

		stored, _ := f.drawRepo.FindByID(ctx, f.draw.ID)
		assert.Equal(t, models.DrawStatusOpen, stored.Status)
		tracker, _ := f.jackpotRepo.Get(ctx)
		assert.InDelta(t, 100.0, tracker.Amount, 0.001)
	})
}

func TestPublishDraw(t *testing.T) {
	t.Run("publishes and expires monthly subscriptions", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		_, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		require.NoError(t, f.svc.PublishDraw(ctx, f.draw.ID))

		stored, _ := f.drawRepo.FindByID(ctx, f.draw.ID)
		assert.Equal(t, models.DrawStatusPublished, stored.Status)
		assert.False(t, stored.PublishedAt.IsZero())

		for _, sub := range f.subRepo.subs {
			assert.Equal(t, models.SubscriptionCancelled, sub.Status)
			assert.Equal(t, 0, sub.DrawsRemaining)
		}

		// The tier-3 winner got a notification.
		assert.Equal(t, []string{"a@example.com"}, f.notifier.notified)
	})

	t.Run("cannot publish an open draw", func(t *testing.T) {
		f := newDrawFixture(t)
		err := f.svc.PublishDraw(context.Background(), f.draw.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})
}

func TestResetDraw(t *testing.T) {
	t.Run("run then reset restores everything", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		_, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		require.NoError(t, f.svc.PublishDraw(ctx, f.draw.ID))
		require.NoError(t, f.svc.ResetDraw(ctx, f.draw.ID))

		stored, _ := f.drawRepo.FindByID(ctx, f.draw.ID)
		assert.Equal(t, models.DrawStatusOpen, stored.Status)
		assert.Nil(t, stored.WinningNumbers)
		assert.Zero(t, stored.PrizePool)
		assert.Zero(t, stored.JackpotAdded)
		assert.Zero(t, stored.Tier1Pool)
		assert.Zero(t, stored.ParticipantsCount)
		assert.Zero(t, stored.Tier3Winners)
		assert.True(t, stored.PublishedAt.IsZero())

		entries, _ := f.entryRepo.FindByDrawID(ctx, f.draw.ID)
		assert.Empty(t, entries)
		donations, _ := f.donationRepo.FindByDrawID(ctx, f.draw.ID)
		assert.Empty(t, donations)

		// Jackpot back to its pre-run value, subscriptions live again.
		tracker, _ := f.jackpotRepo.Get(ctx)
		assert.InDelta(t, 100.0, tracker.Amount, 0.001)
		for _, sub := range f.subRepo.subs {
			assert.Equal(t, models.SubscriptionActive, sub.Status)
		}
	})

	t.Run("resetting an open draw is a no-op", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		_, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		require.NoError(t, f.svc.ResetDraw(ctx, f.draw.ID))
		require.NoError(t, f.svc.ResetDraw(ctx, f.draw.ID))

		// The second reset must not clobber the restored jackpot.
		tracker, _ := f.jackpotRepo.Get(ctx)
		assert.InDelta(t, 100.0, tracker.Amount, 0.001)
	})

	t.Run("run reset run is repeatable", func(t *testing.T) {
		f := newDrawFixture(t)
		ctx := context.Background()

		first, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)
		require.NoError(t, f.svc.ResetDraw(ctx, f.draw.ID))
		second, err := f.svc.RunDraw(ctx, f.draw.ID, 10, 50)
		require.NoError(t, err)

		assert.Equal(t, first.Simulation.WinningNumbers, second.Simulation.WinningNumbers)
		assert.InDelta(t, first.Simulation.Tier1.Pool, second.Simulation.Tier1.Pool, 0.001)
	})
}

func TestGetCurrentDraw(t *testing.T) {
	f := newDrawFixture(t)
	ctx := context.Background()

	// Only one open draw exists: it is current.
	current, err := f.svc.GetCurrentDraw(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.draw.ID, current.ID)

	// A completed draw takes priority over an open one.
	older := &models.Draw{
		MonthYear: "July 2026",
		Status:    models.DrawStatusCompleted,
		DrawDate:  time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.drawRepo.Create(ctx, older))
	current, err = f.svc.GetCurrentDraw(ctx)
	require.NoError(t, err)
	assert.Equal(t, older.ID, current.ID)

	// With everything published, fall back to the newest draw.
	older.Status = models.DrawStatusPublished
	require.NoError(t, f.drawRepo.Update(ctx, older))
	f.draw.Status = models.DrawStatusPublished
	require.NoError(t, f.drawRepo.Update(ctx, f.draw))
	current, err = f.svc.GetCurrentDraw(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.draw.ID, current.ID)
}

func TestCreateDraw(t *testing.T) {
	f := newDrawFixture(t)
	ctx := context.Background()

	draw, err := f.svc.CreateDraw(ctx, "September 2026", time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), 10, 50)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusOpen, draw.Status)

	_, err = f.svc.CreateDraw(ctx, "September 2026", time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), 10, 50)
	assert.Error(t, err)
}
