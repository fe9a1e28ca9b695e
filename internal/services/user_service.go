package services

import (
	"context"
	"fmt"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// Stableford totals outside this band are rejected as data-entry errors
// before they can skew the frequency distribution.
const (
	MinValidScore = 0
	MaxValidScore = 60
)

// UserServiceImpl handles user profile operations and score submission
type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	scoreRepo   repositories.ScoreRepository
	charityRepo repositories.CharityRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(
	userRepo repositories.UserRepository,
	scoreRepo repositories.ScoreRepository,
	charityRepo repositories.CharityRepository,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:    userRepo,
		scoreRepo:   scoreRepo,
		charityRepo: charityRepo,
	}
}

// GetByID retrieves a user by ID
func (s *UserServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetAll retrieves all users
func (s *UserServiceImpl) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx)
}

// SetDonationPreferences sets which charity a user's prize share goes to and
// what fraction of a gross prize is donated
func (s *UserServiceImpl) SetDonationPreferences(ctx context.Context, userID, charityID primitive.ObjectID, percentage float64) error {
	if percentage < 0 || percentage > 1 {
		return fmt.Errorf("donation percentage must be between 0 and 1")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	if !charityID.IsZero() {
		if _, err := s.charityRepo.FindByID(ctx, charityID); err != nil {
			return fmt.Errorf("charity not found: %w", err)
		}
	}

	user.SelectedCharityID = charityID
	user.DonationPercentage = percentage
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update donation preferences: %w", err)
	}
	slog.Info("Donation preferences updated", "userId", userID, "charityId", charityID, "percentage", percentage)
	return nil
}

// SubmitScore records a completed round. Scores are immutable once accepted.
func (s *UserServiceImpl) SubmitScore(ctx context.Context, userID primitive.ObjectID, score int, courseRef string) (*models.ScoreRecord, error) {
	if score < MinValidScore || score > MaxValidScore {
		return nil, fmt.Errorf("score %d out of range [%d, %d]", score, MinValidScore, MaxValidScore)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	record := &models.ScoreRecord{
		UserID:    userID,
		Score:     score,
		CourseRef: courseRef,
	}
	if err := s.scoreRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}
	return record, nil
}
