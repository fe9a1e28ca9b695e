package services

import (
	"context"
	"fmt"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure CharityServiceImpl implements CharityService
var _ CharityService = (*CharityServiceImpl)(nil)

// CharityServiceImpl manages the charity directory
type CharityServiceImpl struct {
	charityRepo repositories.CharityRepository
}

// NewCharityService creates a new CharityServiceImpl
func NewCharityService(charityRepo repositories.CharityRepository) *CharityServiceImpl {
	return &CharityServiceImpl{charityRepo: charityRepo}
}

// Create adds a charity to the directory. New charities start unverified and
// are hidden from players until an admin verifies them.
func (s *CharityServiceImpl) Create(ctx context.Context, charity *models.Charity) error {
	if charity.Name == "" {
		return fmt.Errorf("charity name is required")
	}
	charity.Verified = false
	return s.charityRepo.Create(ctx, charity)
}

// GetByID retrieves a charity by ID
func (s *CharityServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Charity, error) {
	return s.charityRepo.FindByID(ctx, id)
}

// List returns the directory; verifiedOnly hides unvetted entries
func (s *CharityServiceImpl) List(ctx context.Context, verifiedOnly bool) ([]*models.Charity, error) {
	if verifiedOnly {
		return s.charityRepo.FindVerified(ctx)
	}
	return s.charityRepo.FindAll(ctx)
}

// Update modifies a charity record
func (s *CharityServiceImpl) Update(ctx context.Context, charity *models.Charity) error {
	if charity.Name == "" {
		return fmt.Errorf("charity name is required")
	}
	return s.charityRepo.Update(ctx, charity)
}

// Delete removes a charity from the directory
func (s *CharityServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.charityRepo.Delete(ctx, id)
}
