package services

import (
	"context"
	"fmt"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure EligibilityServiceImpl implements EligibilityService
var _ EligibilityService = (*EligibilityServiceImpl)(nil)

// eligibilityRule is one named predicate in the ordered rule chain. The
// resolver evaluates rules in sequence and stops at the first that matches,
// so eligibility decisions are auditable to a single rule name.
type eligibilityRule struct {
	name    string
	matches func(sub *models.Subscription, drawID *primitive.ObjectID, nextDraw time.Time) bool
}

// The rule order is load-bearing: an annual subscriber assigned to a draw
// must still be attributed to the annual rule, and the global fallback only
// applies when no specific draw was requested.
var eligibilityRules = []eligibilityRule{
	{
		name: "annual-active",
		matches: func(sub *models.Subscription, _ *primitive.ObjectID, _ time.Time) bool {
			return sub.Plan == models.PlanAnnual && sub.IsLive()
		},
	},
	{
		name: "assigned-to-draw",
		matches: func(sub *models.Subscription, drawID *primitive.ObjectID, _ time.Time) bool {
			return drawID != nil && sub.Plan == models.PlanMonthly && sub.IsLive() &&
				!sub.AssignedDrawID.IsZero() && sub.AssignedDrawID == *drawID
		},
	},
	{
		name: "period-covers-next-draw",
		matches: func(sub *models.Subscription, drawID *primitive.ObjectID, nextDraw time.Time) bool {
			return drawID != nil && sub.Plan == models.PlanMonthly && sub.IsLive() &&
				sub.AssignedDrawID.IsZero() && !sub.CurrentPeriodEnd.Before(nextDraw)
		},
	},
	{
		name: "global-active",
		matches: func(sub *models.Subscription, drawID *primitive.ObjectID, _ time.Time) bool {
			return drawID == nil && sub.IsLive()
		},
	},
}

// EligibilityServiceImpl resolves which subscribers qualify for a draw.
// The same rule chain backs counting, listing, and draw execution so the
// three can never diverge.
type EligibilityServiceImpl struct {
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	scoreRepo        repositories.ScoreRepository
	testAccountEmail string
}

// NewEligibilityService creates a new EligibilityServiceImpl. testAccountEmail
// names the one administrative account that still participates in draws.
func NewEligibilityService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	scoreRepo repositories.ScoreRepository,
	testAccountEmail string,
) *EligibilityServiceImpl {
	return &EligibilityServiceImpl{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		scoreRepo:        scoreRepo,
		testAccountEmail: testAccountEmail,
	}
}

// Resolve returns all eligible users for a draw, enriched with their most
// recent scores (up to ScoresPerEntry, newest first, not padded here).
func (s *EligibilityServiceImpl) Resolve(ctx context.Context, drawID *primitive.ObjectID) ([]EligibleUser, error) {
	subs, err := s.subscriptionRepo.FindLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load live subscriptions: %w", err)
	}

	nextDraw := nextMonthStart(time.Now())

	// One user can hold several subscriptions (a lapsed monthly plus a new
	// annual); the first matching subscription wins and the user appears once.
	matchedRule := make(map[primitive.ObjectID]string)
	order := make([]primitive.ObjectID, 0, len(subs))
	for _, sub := range subs {
		if _, seen := matchedRule[sub.UserID]; seen {
			continue
		}
		for _, rule := range eligibilityRules {
			if rule.matches(sub, drawID, nextDraw) {
				matchedRule[sub.UserID] = rule.name
				order = append(order, sub.UserID)
				break
			}
		}
	}

	if len(order) == 0 {
		return []EligibleUser{}, nil
	}

	users, err := s.userRepo.FindByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible users: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	eligible := make([]EligibleUser, 0, len(order))
	for _, userID := range order {
		user, ok := byID[userID]
		if !ok {
			slog.Warn("Eligible subscription references missing user", "userId", userID)
			continue
		}
		if user.Role == models.RoleAdmin && user.Email != s.testAccountEmail {
			continue
		}

		scores, err := s.scoreRepo.RecentScoreValues(ctx, userID, ScoresPerEntry)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores for user %s: %w", userID.Hex(), err)
		}

		donationPct := user.DonationPercentage
		if donationPct <= 0 {
			donationPct = 0.10
		}

		eligible = append(eligible, EligibleUser{
			ID:                 userID,
			Scores:             scores,
			SelectedCharityID:  user.SelectedCharityID,
			DonationPercentage: donationPct,
			Rule:               matchedRule[userID],
		})
	}

	return eligible, nil
}

// CountEligible counts eligible users through the exact same rule chain
func (s *EligibilityServiceImpl) CountEligible(ctx context.Context, drawID *primitive.ObjectID) (int, error) {
	eligible, err := s.Resolve(ctx, drawID)
	if err != nil {
		return 0, err
	}
	return len(eligible), nil
}

// nextMonthStart returns midnight on the first day of the following month,
// the date the next draw cycle opens.
func nextMonthStart(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
}
