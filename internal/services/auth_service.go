package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"github.com/birdieplay/birdieplay-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// ErrInvalidCredentials is returned for any login failure. The same error
// covers unknown email and wrong password so responses don't leak which
// accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthServiceImpl handles registration and login
type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{userRepo: userRepo, cfg: cfg}
}

// Register creates a new player account with a hashed password
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              email,
		Password:           string(hashed),
		Role:               models.RolePlayer,
		DonationPercentage: 0.10,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered", "userId", user.ID, "email", email)
	return user, nil
}

// Login verifies credentials and returns a signed token
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}
