package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"github.com/birdieplay/birdieplay-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// FrequencyLookbackDays is how far back score submissions count toward the
// frequency distribution. Fixed at 90 days to avoid sparse-data artifacts.
const FrequencyLookbackDays = 90

// WinnerNotifier delivers a fire-and-forget win notification. Failures are
// logged and swallowed; the draw pipeline never blocks on it.
type WinnerNotifier interface {
	NotifyWinner(ctx context.Context, email string, amount float64, drawLabel string) error
}

// DrawServiceImpl orchestrates the draw lifecycle: simulate, run, publish,
// reset. Simulation is pure; run persists its output; reset is the exact
// compensating transaction for run+publish.
type DrawServiceImpl struct {
	drawRepo     repositories.DrawRepository
	entryRepo    repositories.DrawEntryRepository
	donationRepo repositories.DonationRepository
	scoreRepo    repositories.ScoreRepository
	subRepo      repositories.SubscriptionRepository
	userRepo     repositories.UserRepository
	jackpotRepo  repositories.JackpotRepository
	settingsRepo repositories.DrawSettingsRepository
	eligibility  EligibilityService
	audit        AuditService
	notifier     WinnerNotifier
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	drawRepo repositories.DrawRepository,
	entryRepo repositories.DrawEntryRepository,
	donationRepo repositories.DonationRepository,
	scoreRepo repositories.ScoreRepository,
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	jackpotRepo repositories.JackpotRepository,
	settingsRepo repositories.DrawSettingsRepository,
	eligibility EligibilityService,
	audit AuditService,
	notifier WinnerNotifier,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:     drawRepo,
		entryRepo:    entryRepo,
		donationRepo: donationRepo,
		scoreRepo:    scoreRepo,
		subRepo:      subRepo,
		userRepo:     userRepo,
		jackpotRepo:  jackpotRepo,
		settingsRepo: settingsRepo,
		eligibility:  eligibility,
		audit:        audit,
		notifier:     notifier,
	}
}

// GetScoreFrequencies returns the score distribution over the lookback window
func (s *DrawServiceImpl) GetScoreFrequencies(ctx context.Context, min, max int) ([]models.ScoreFrequency, error) {
	since := time.Now().AddDate(0, 0, -FrequencyLookbackDays)
	frequencies, err := s.scoreRepo.AggregateFrequencies(ctx, min, max, since)
	if err != nil {
		slog.Error("Failed to aggregate score frequencies", "error", err, "min", min, "max", max)
		return nil, fmt.Errorf("failed to aggregate score frequencies: %w", err)
	}
	return frequencies, nil
}

// SimulateDraw is the pure preview of a draw: winning numbers, per-tier
// pools and payouts, and the full scored entry list, with nothing persisted.
func (s *DrawServiceImpl) SimulateDraw(ctx context.Context, minScore, maxScore int, drawID *primitive.ObjectID) (*models.DrawSimulation, error) {
	tracker, err := s.jackpotRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read jackpot tracker: %w", err)
	}
	return s.simulate(ctx, minScore, maxScore, drawID, tracker.Amount)
}

// simulate runs the full pipeline against a given jackpot amount. Shared by
// SimulateDraw and RunDraw so a run persists exactly what a preview showed.
func (s *DrawServiceImpl) simulate(ctx context.Context, minScore, maxScore int, drawID *primitive.ObjectID, jackpotAmount float64) (*models.DrawSimulation, error) {
	frequencies, err := s.GetScoreFrequencies(ctx, minScore, maxScore)
	if err != nil {
		return nil, err
	}

	winningNumbers := GenerateWinningNumbers(frequencies)
	if winningNumbers == nil {
		slog.Warn("Refusing to generate winning numbers from sparse data", "distinctScores", len(frequencies))
		return nil, models.ErrInsufficientData
	}

	eligible, err := s.eligibility.Resolve(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve eligibility: %w", err)
	}
	if len(eligible) == 0 {
		return nil, models.ErrNoEligibleParticipants
	}

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}

	entries := make([]models.SimulatedEntry, 0, len(eligible))
	var tier1Count, tier2Count, tier3Count int
	for _, user := range eligible {
		scores := PadScores(user.Scores)
		matches := CountMatches(scores, winningNumbers)
		tier := TierForMatches(matches)
		switch tier {
		case 1:
			tier1Count++
		case 2:
			tier2Count++
		case 3:
			tier3Count++
		}
		entries = append(entries, models.SimulatedEntry{
			UserID:             user.ID,
			Scores:             scores,
			Matches:            matches,
			Tier:               tier,
			CharityID:          user.SelectedCharityID,
			DonationPercentage: user.DonationPercentage,
		})
	}

	alloc := ComputeAllocation(len(eligible), settings, jackpotAmount, tier1Count, tier2Count, tier3Count)

	for i := range entries {
		var gross float64
		switch entries[i].Tier {
		case 1:
			gross = alloc.Tier1Payout
		case 2:
			gross = alloc.Tier2Payout
		case 3:
			gross = alloc.Tier3Payout
		}
		charity := utils.Round2(gross * entries[i].DonationPercentage)
		entries[i].GrossPrize = gross
		entries[i].CharityAmount = charity
		entries[i].NetPayout = gross - charity
	}

	return &models.DrawSimulation{
		WinningNumbers:    winningNumbers,
		Participants:      len(eligible),
		BasePrizePool:     alloc.BasePrizePool,
		CurrentJackpot:    jackpotAmount,
		Tier1:             models.TierResult{Winners: tier1Count, Pool: alloc.Tier1Pool, Payout: alloc.Tier1Payout},
		Tier2:             models.TierResult{Winners: tier2Count, Pool: alloc.Tier2Pool, Payout: alloc.Tier2Payout},
		Tier3:             models.TierResult{Winners: tier3Count, Pool: alloc.Tier3Pool, Payout: alloc.Tier3Payout},
		Tier2Rollover:     alloc.Tier2Rollover,
		JackpotRollover:   alloc.JackpotRollover,
		JackpotCapReached: alloc.CapReached,
		Entries:           entries,
	}, nil
}

// RunDraw executes a draw: simulates, then persists the draw fields, the
// per-user entries, the prize-split donations, and the jackpot update.
// Entry and donation inserts are fail-soft; failures are logged and
// enumerated in the result so the operator can remediate before publishing.
func (s *DrawServiceImpl) RunDraw(ctx context.Context, drawID primitive.ObjectID, minScore, maxScore int) (*models.RunResult, error) {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		slog.Error("RunDraw: failed to find draw", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusOpen && draw.Status != models.DrawStatusCompleted {
		return nil, fmt.Errorf("%w: cannot run draw in status %q", models.ErrInvalidTransition, draw.Status)
	}

	tracker, err := s.jackpotRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read jackpot tracker: %w", err)
	}

	// Any simulation failure aborts before the draw row is touched.
	sim, err := s.simulate(ctx, minScore, maxScore, &drawID, tracker.Amount)
	if err != nil {
		return nil, err
	}

	draw.Status = models.DrawStatusCompleted
	draw.ScoreRangeMin = minScore
	draw.ScoreRangeMax = maxScore
	draw.WinningNumbers = sim.WinningNumbers
	draw.PrizePool = sim.BasePrizePool
	draw.JackpotAdded = tracker.Amount
	draw.Tier1Pool = sim.Tier1.Pool
	draw.Tier2Pool = sim.Tier2.Pool
	draw.Tier3Pool = sim.Tier3.Pool
	draw.ParticipantsCount = sim.Participants
	draw.Tier1Winners = sim.Tier1.Winners
	draw.Tier2Winners = sim.Tier2.Winners
	draw.Tier3Winners = sim.Tier3.Winners
	draw.Tier1RolloverAmount = sim.JackpotRollover
	draw.Tier2RolloverAmount = sim.Tier2Rollover
	draw.JackpotCapReached = sim.JackpotCapReached

	if err := s.drawRepo.Update(ctx, draw); err != nil {
		slog.Error("RunDraw: failed to persist draw results", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to persist draw results: %w", err)
	}

	result := &models.RunResult{Success: true, Simulation: sim}

	// Entries insert one by one so a single bad document costs exactly one
	// entry, and the failed users can be listed for manual remediation.
	for _, se := range sim.Entries {
		entry := &models.DrawEntry{
			DrawID:             drawID,
			UserID:             se.UserID,
			Scores:             se.Scores,
			Matches:            se.Matches,
			Tier:               se.Tier,
			GrossPrize:         se.GrossPrize,
			CharityAmount:      se.CharityAmount,
			NetPayout:          se.NetPayout,
			CharityID:          se.CharityID,
			VerificationStatus: models.VerificationPending,
		}
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			slog.Error("RunDraw: failed to insert draw entry", "error", err, "drawId", drawID, "userId", se.UserID)
			result.FailedEntries = append(result.FailedEntries, se.UserID)
			continue
		}

		if se.Tier > 0 && se.CharityAmount > 0 && !se.CharityID.IsZero() {
			donation := &models.Donation{
				CharityID: se.CharityID,
				UserID:    se.UserID,
				DrawID:    drawID,
				Amount:    se.CharityAmount,
				Source:    models.DonationSourcePrizeSplit,
				Status:    models.DonationPending,
			}
			if err := s.donationRepo.Create(ctx, donation); err != nil {
				slog.Error("RunDraw: failed to insert prize-split donation", "error", err, "drawId", drawID, "userId", se.UserID)
				result.FailedDonations = append(result.FailedDonations, se.UserID)
			}
		}
	}

	// A five-match winner consumes the jackpot; otherwise the unclaimed
	// tier-1 pool becomes the next draw's jackpot.
	newJackpot := 0.0
	if sim.Tier1.Winners == 0 {
		newJackpot = sim.JackpotRollover
	}
	if err := s.jackpotRepo.Set(ctx, newJackpot, drawID, tracker.Version); err != nil {
		slog.Error("RunDraw: failed to update jackpot tracker", "error", err, "drawId", drawID, "newAmount", newJackpot)
		return result, fmt.Errorf("draw completed but jackpot update failed: %w", err)
	}

	s.audit.Record(ctx, "", "draw.run", drawID.Hex(), map[string]interface{}{
		"participants":   sim.Participants,
		"winningNumbers": sim.WinningNumbers,
		"tier1Winners":   sim.Tier1.Winners,
		"tier2Winners":   sim.Tier2.Winners,
		"tier3Winners":   sim.Tier3.Winners,
		"failedEntries":  len(result.FailedEntries),
	})

	slog.Info("Draw run completed", "drawId", drawID, "participants", sim.Participants,
		"tier1Winners", sim.Tier1.Winners, "jackpotRollover", sim.JackpotRollover)
	return result, nil
}

// PublishDraw announces a completed draw and expires every monthly
// subscription assigned to it, so a one-cycle subscriber cannot re-enter a
// future draw without resubscribing.
func (s *DrawServiceImpl) PublishDraw(ctx context.Context, drawID primitive.ObjectID) error {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusCompleted {
		return fmt.Errorf("%w: cannot publish draw in status %q", models.ErrInvalidTransition, draw.Status)
	}

	draw.Status = models.DrawStatusPublished
	draw.PublishedAt = time.Now()
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		return fmt.Errorf("failed to publish draw: %w", err)
	}

	expired, err := s.subRepo.ExpireMonthlyByDraw(ctx, drawID)
	if err != nil {
		slog.Error("PublishDraw: failed to expire monthly subscriptions", "error", err, "drawId", drawID)
		return fmt.Errorf("draw published but subscription expiry failed: %w", err)
	}

	s.audit.Record(ctx, "", "draw.publish", drawID.Hex(), map[string]interface{}{
		"monthYear":            draw.MonthYear,
		"expiredSubscriptions": expired,
	})
	slog.Info("Draw published", "drawId", drawID, "monthYear", draw.MonthYear, "expiredSubscriptions", expired)

	s.notifyWinners(ctx, draw)
	return nil
}

// notifyWinners is fire-and-forget; a gateway outage never blocks publish.
func (s *DrawServiceImpl) notifyWinners(ctx context.Context, draw *models.Draw) {
	if s.notifier == nil {
		return
	}
	winners, err := s.entryRepo.FindWinnersByDrawID(ctx, draw.ID)
	if err != nil {
		slog.Error("Failed to load winners for notification", "error", err, "drawId", draw.ID)
		return
	}
	for _, entry := range winners {
		user, err := s.userRepo.FindByID(ctx, entry.UserID)
		if err != nil {
			slog.Warn("Winner notification skipped, user not found", "userId", entry.UserID)
			continue
		}
		if err := s.notifier.NotifyWinner(ctx, user.Email, entry.NetPayout, draw.MonthYear); err != nil {
			slog.Warn("Winner notification failed", "error", err, "userId", entry.UserID)
		}
	}
}

// ResetDraw is the compensating transaction for run+publish: it restores
// the jackpot to the draw's pre-run carryover, deletes the entries and
// donations created by the run, reactivates the monthly subscriptions
// expired by publish, and returns the draw row to its open defaults.
// Resetting an already-open draw is a no-op.
func (s *DrawServiceImpl) ResetDraw(ctx context.Context, drawID primitive.ObjectID) error {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status == models.DrawStatusOpen {
		// Never run, or already reset: nothing to compensate. Restoring the
		// jackpot here would clobber the tracker with a cleared zero.
		slog.Info("ResetDraw: draw already open, nothing to do", "drawId", drawID)
		return nil
	}

	tracker, err := s.jackpotRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read jackpot tracker: %w", err)
	}
	if err := s.jackpotRepo.Set(ctx, draw.JackpotAdded, drawID, tracker.Version); err != nil {
		slog.Error("ResetDraw: failed to restore jackpot tracker", "error", err, "drawId", drawID)
		return fmt.Errorf("failed to restore jackpot tracker: %w", err)
	}

	deletedEntries, err := s.entryRepo.DeleteByDrawID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to delete draw entries: %w", err)
	}
	deletedDonations, err := s.donationRepo.DeleteByDrawID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to delete draw donations: %w", err)
	}
	reactivated, err := s.subRepo.ReactivateMonthlyByDraw(ctx, drawID)
	if err != nil {
		return fmt.Errorf("failed to reactivate monthly subscriptions: %w", err)
	}

	draw.Status = models.DrawStatusOpen
	draw.WinningNumbers = nil
	draw.PrizePool = 0
	draw.JackpotAdded = 0
	draw.Tier1Pool = 0
	draw.Tier2Pool = 0
	draw.Tier3Pool = 0
	draw.ParticipantsCount = 0
	draw.Tier1Winners = 0
	draw.Tier2Winners = 0
	draw.Tier3Winners = 0
	draw.Tier1RolloverAmount = 0
	draw.Tier2RolloverAmount = 0
	draw.JackpotCapReached = false
	draw.PublishedAt = time.Time{}
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		return fmt.Errorf("failed to reset draw fields: %w", err)
	}

	s.audit.Record(ctx, "", "draw.reset", drawID.Hex(), map[string]interface{}{
		"deletedEntries":   deletedEntries,
		"deletedDonations": deletedDonations,
		"reactivatedSubs":  reactivated,
	})
	slog.Info("Draw reset", "drawId", drawID, "deletedEntries", deletedEntries,
		"deletedDonations", deletedDonations, "reactivatedSubs", reactivated)
	return nil
}

// CreateDraw opens a new monthly cycle. MonthYear labels are unique.
func (s *DrawServiceImpl) CreateDraw(ctx context.Context, monthYear string, drawDate time.Time, minScore, maxScore int) (*models.Draw, error) {
	existing, err := s.drawRepo.FindByMonthYear(ctx, monthYear)
	if err == nil && existing != nil {
		return existing, fmt.Errorf("a draw already exists for %s", monthYear)
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check for existing draw: %w", err)
	}

	draw := &models.Draw{
		MonthYear:     monthYear,
		Status:        models.DrawStatusOpen,
		ScoreRangeMin: minScore,
		ScoreRangeMax: maxScore,
		DrawDate:      drawDate,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		slog.Error("Failed to create draw", "error", err, "monthYear", monthYear)
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}
	slog.Info("Draw created", "drawId", draw.ID, "monthYear", monthYear, "drawDate", drawDate)
	return draw, nil
}

// GetDrawByID retrieves a draw by its ID
func (s *DrawServiceImpl) GetDrawByID(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error) {
	return s.drawRepo.FindByID(ctx, drawID)
}

// GetCurrentDraw applies the priority search: a completed draw awaiting
// audit/publish first, then the oldest open draw, then the newest draw
// overall.
func (s *DrawServiceImpl) GetCurrentDraw(ctx context.Context) (*models.Draw, error) {
	draw, err := s.drawRepo.FindOldestByStatus(ctx, models.DrawStatusCompleted)
	if err == nil {
		return draw, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to find completed draw: %w", err)
	}

	draw, err = s.drawRepo.FindOldestByStatus(ctx, models.DrawStatusOpen)
	if err == nil {
		return draw, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to find open draw: %w", err)
	}

	return s.drawRepo.FindNewest(ctx)
}

// GetDraws lists all draws, newest first
func (s *DrawServiceImpl) GetDraws(ctx context.Context) ([]*models.Draw, error) {
	return s.drawRepo.FindAll(ctx)
}

// GetEntriesByDrawID lists every entry persisted for a draw
func (s *DrawServiceImpl) GetEntriesByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error) {
	return s.entryRepo.FindByDrawID(ctx, drawID)
}
