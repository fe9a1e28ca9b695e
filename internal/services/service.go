package services

import (
	"context"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawService defines the interface for the draw lifecycle and engine
type DrawService interface {
	// GetScoreFrequencies returns the score distribution over the lookback window
	GetScoreFrequencies(ctx context.Context, min, max int) ([]models.ScoreFrequency, error)

	// SimulateDraw is a pure preview: it runs the full pipeline without persisting anything
	SimulateDraw(ctx context.Context, minScore, maxScore int, drawID *primitive.ObjectID) (*models.DrawSimulation, error)

	// RunDraw executes and persists a draw, returning the simulation plus any partial failures
	RunDraw(ctx context.Context, drawID primitive.ObjectID, minScore, maxScore int) (*models.RunResult, error)

	// PublishDraw announces a completed draw and expires its monthly subscriptions
	PublishDraw(ctx context.Context, drawID primitive.ObjectID) error

	// ResetDraw reverses run+publish entirely; safe to repeat
	ResetDraw(ctx context.Context, drawID primitive.ObjectID) error

	CreateDraw(ctx context.Context, monthYear string, drawDate time.Time, minScore, maxScore int) (*models.Draw, error)
	GetDrawByID(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error)
	// GetCurrentDraw applies the priority search: completed needing audit
	// first, then the oldest open draw, then the newest draw overall.
	GetCurrentDraw(ctx context.Context) (*models.Draw, error)
	GetDraws(ctx context.Context) ([]*models.Draw, error)
	GetEntriesByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error)
}

// EligibleUser is a subscriber who qualifies for a draw, enriched with
// their recent scores and donation preferences.
type EligibleUser struct {
	ID                 primitive.ObjectID `json:"id"`
	Scores             []int              `json:"scores"`
	SelectedCharityID  primitive.ObjectID `json:"selectedCharityId,omitempty"`
	DonationPercentage float64            `json:"donationPercentage"`
	Rule               string             `json:"rule"` // name of the eligibility rule that matched
}

// EligibilityService defines the interface for draw eligibility resolution
type EligibilityService interface {
	// Resolve returns all eligible users for a draw; a nil drawID means
	// global mode (every live subscriber counts).
	Resolve(ctx context.Context, drawID *primitive.ObjectID) ([]EligibleUser, error)
	CountEligible(ctx context.Context, drawID *primitive.ObjectID) (int, error)
}

// SettlementService defines the interface for paying winners and charities
type SettlementService interface {
	// MarkWinnerAsPaid is idempotent: paying an already-paid entry succeeds
	// without effect. The wallet credit and the paid flag move together.
	MarkWinnerAsPaid(ctx context.Context, entryID primitive.ObjectID, reference, adminID string) error
	VerifyEntry(ctx context.Context, entryID primitive.ObjectID, status string) error
	// ListPayableWinners returns winning entries whose draw has been published
	ListPayableWinners(ctx context.Context) ([]*models.DrawEntry, error)
	CreateCharityPayout(ctx context.Context, charityID primitive.ObjectID) (*models.CharityPayout, error)
	MarkCharityPayoutAsPaid(ctx context.Context, payoutID primitive.ObjectID, reference string) error
	RollbackCharityPayout(ctx context.Context, payoutID primitive.ObjectID) error
	RecordDirectDonation(ctx context.Context, userID, charityID primitive.ObjectID, amount float64) (*models.Donation, error)
}

// SubscriptionService defines the interface for subscription management
type SubscriptionService interface {
	Create(ctx context.Context, userID primitive.ObjectID, plan string, periodEnd time.Time) (*models.Subscription, error)
	AssignToDraw(ctx context.Context, subscriptionID, drawID primitive.ObjectID) error
	// BackfillAssignments resolves legacy month-name assignments to draw ids
	BackfillAssignments(ctx context.Context) (int, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Subscription, error)
	// NextDrawDate computes the first day of the next monthly cycle
	NextDrawDate(now time.Time) time.Time
}

// SettingsService defines the interface for prize-pool configuration
type SettingsService interface {
	GetDrawSettings(ctx context.Context) (*models.DrawSettings, error)
	UpdateDrawSettings(ctx context.Context, settings *models.DrawSettings, updatedBy string) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// UserService defines the interface for user profile operations
type UserService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	SetDonationPreferences(ctx context.Context, userID, charityID primitive.ObjectID, percentage float64) error
	SubmitScore(ctx context.Context, userID primitive.ObjectID, score int, courseRef string) (*models.ScoreRecord, error)
}

// CharityService defines the interface for the charity directory
type CharityService interface {
	Create(ctx context.Context, charity *models.Charity) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Charity, error)
	List(ctx context.Context, verifiedOnly bool) ([]*models.Charity, error)
	Update(ctx context.Context, charity *models.Charity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AuditService is the fire-and-forget audit log sink
type AuditService interface {
	// Record never returns an error; audit failures are logged and swallowed
	Record(ctx context.Context, actor, action, subject string, detail map[string]interface{})
	Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error)
}
