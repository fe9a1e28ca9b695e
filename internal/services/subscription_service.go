package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SubscriptionServiceImpl implements SubscriptionService
var _ SubscriptionService = (*SubscriptionServiceImpl)(nil)

// SubscriptionServiceImpl manages subscription lifecycle and draw assignment
type SubscriptionServiceImpl struct {
	subRepo  repositories.SubscriptionRepository
	drawRepo repositories.DrawRepository
	userRepo repositories.UserRepository
}

// NewSubscriptionService creates a new SubscriptionServiceImpl
func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	drawRepo repositories.DrawRepository,
	userRepo repositories.UserRepository,
) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		subRepo:  subRepo,
		drawRepo: drawRepo,
		userRepo: userRepo,
	}
}

// Create starts a subscription for a user. A monthly plan is assigned to the
// current open draw immediately when one exists; otherwise assignment waits
// for backfill.
func (s *SubscriptionServiceImpl) Create(ctx context.Context, userID primitive.ObjectID, plan string, periodEnd time.Time) (*models.Subscription, error) {
	if plan != models.PlanMonthly && plan != models.PlanAnnual {
		return nil, fmt.Errorf("unknown plan %q", plan)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	sub := &models.Subscription{
		UserID:           userID,
		Plan:             plan,
		Status:           models.SubscriptionActive,
		CurrentPeriodEnd: periodEnd,
	}
	if plan == models.PlanMonthly {
		sub.DrawsRemaining = 1
		if draw, err := s.drawRepo.FindOldestByStatus(ctx, models.DrawStatusOpen); err == nil {
			sub.AssignedDrawID = draw.ID
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to find open draw: %w", err)
		}
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	slog.Info("Subscription created", "subscriptionId", sub.ID, "userId", userID,
		"plan", plan, "assignedDrawId", sub.AssignedDrawID)
	return sub, nil
}

// AssignToDraw points a monthly subscription at a specific draw
func (s *SubscriptionServiceImpl) AssignToDraw(ctx context.Context, subscriptionID, drawID primitive.ObjectID) error {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("subscription not found: %w", err)
	}
	if sub.Plan != models.PlanMonthly {
		return fmt.Errorf("only monthly subscriptions carry a draw assignment")
	}
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusOpen {
		return fmt.Errorf("%w: cannot assign to a %q draw", models.ErrInvalidTransition, draw.Status)
	}

	sub.AssignedDrawID = drawID
	sub.AssignedDrawMonth = ""
	return s.subRepo.Update(ctx, sub)
}

// BackfillAssignments repairs subscriptions left without a draw id: legacy
// rows carrying only a month label are resolved against the draws table,
// and unassigned monthly subscriptions are pointed at the oldest open draw.
// Returns the number of subscriptions repaired.
func (s *SubscriptionServiceImpl) BackfillAssignments(ctx context.Context) (int, error) {
	repaired := 0

	draws, err := s.drawRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list draws: %w", err)
	}
	for _, draw := range draws {
		subs, err := s.subRepo.FindByMonthLabel(ctx, draw.MonthYear)
		if err != nil {
			slog.Error("Backfill: failed to query month label", "error", err, "monthYear", draw.MonthYear)
			continue
		}
		for _, sub := range subs {
			sub.AssignedDrawID = draw.ID
			sub.AssignedDrawMonth = ""
			if err := s.subRepo.Update(ctx, sub); err != nil {
				slog.Error("Backfill: failed to update subscription", "error", err, "subscriptionId", sub.ID)
				continue
			}
			repaired++
		}
	}

	openDraw, err := s.drawRepo.FindOldestByStatus(ctx, models.DrawStatusOpen)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			slog.Info("Backfill complete, no open draw for unassigned subscriptions", "repaired", repaired)
			return repaired, nil
		}
		return repaired, fmt.Errorf("failed to find open draw: %w", err)
	}

	unassigned, err := s.subRepo.FindUnassignedMonthly(ctx)
	if err != nil {
		return repaired, fmt.Errorf("failed to list unassigned subscriptions: %w", err)
	}
	for _, sub := range unassigned {
		sub.AssignedDrawID = openDraw.ID
		if err := s.subRepo.Update(ctx, sub); err != nil {
			slog.Error("Backfill: failed to assign subscription", "error", err, "subscriptionId", sub.ID)
			continue
		}
		repaired++
	}

	slog.Info("Backfill complete", "repaired", repaired)
	return repaired, nil
}

// GetByUser lists a user's subscriptions
func (s *SubscriptionServiceImpl) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Subscription, error) {
	return s.subRepo.FindByUserID(ctx, userID)
}

// NextDrawDate returns the first day of the month after now, in UTC
func (s *SubscriptionServiceImpl) NextDrawDate(now time.Time) time.Time {
	year, month, _ := now.UTC().Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
