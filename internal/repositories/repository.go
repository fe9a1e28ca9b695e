package repositories

import (
	"context"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]*models.User, error)
	// IncrementWalletBalance must be an atomic increment; settlement depends on it.
	IncrementWalletBalance(ctx context.Context, userID primitive.ObjectID, amount float64) error
	Count(ctx context.Context) (int64, error)
}

// ScoreRepository defines the interface for score record operations
type ScoreRepository interface {
	Create(ctx context.Context, score *models.ScoreRecord) error
	CreateMany(ctx context.Context, scores []*models.ScoreRecord) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.ScoreRecord, error)
	// AggregateFrequencies groups scores within [min, max] submitted at or
	// after since, returning rows sorted by ascending count with ascending
	// score as the tie-break.
	AggregateFrequencies(ctx context.Context, min, max int, since time.Time) ([]models.ScoreFrequency, error)
	// RecentScoreValues returns up to limit most recent score values for a
	// user, newest first.
	RecentScoreValues(ctx context.Context, userID primitive.ObjectID, limit int) ([]int, error)
	Count(ctx context.Context) (int64, error)
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Subscription, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
	// FindLive returns subscriptions with status active or trialing.
	FindLive(ctx context.Context) ([]*models.Subscription, error)
	FindByAssignedDraw(ctx context.Context, drawID primitive.ObjectID) ([]*models.Subscription, error)
	// FindUnassignedMonthly returns live monthly subscriptions with no draw assignment.
	FindUnassignedMonthly(ctx context.Context) ([]*models.Subscription, error)
	// ExpireMonthlyByDraw cancels every monthly subscription assigned to the
	// draw and zeroes its remaining draws; returns the number expired.
	ExpireMonthlyByDraw(ctx context.Context, drawID primitive.ObjectID) (int64, error)
	// ReactivateMonthlyByDraw reverses ExpireMonthlyByDraw; returns the number reactivated.
	ReactivateMonthlyByDraw(ctx context.Context, drawID primitive.ObjectID) (int64, error)
	// FindByMonthLabel returns subscriptions carrying a legacy month-name
	// assignment and no draw id, for backfill.
	FindByMonthLabel(ctx context.Context, monthLabel string) ([]*models.Subscription, error)
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByMonthYear(ctx context.Context, monthYear string) (*models.Draw, error)
	FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error)
	// FindOldestByStatus returns the oldest draw in the given status by draw date.
	FindOldestByStatus(ctx context.Context, status models.DrawStatus) (*models.Draw, error)
	// FindNewest returns the most recent draw regardless of status.
	FindNewest(ctx context.Context) (*models.Draw, error)
	Update(ctx context.Context, draw *models.Draw) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]*models.Draw, error)
}

// DrawEntryRepository defines the interface for draw entry operations
type DrawEntryRepository interface {
	Create(ctx context.Context, entry *models.DrawEntry) error
	CreateMany(ctx context.Context, entries []*models.DrawEntry) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DrawEntry, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error)
	FindWinnersByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.DrawEntry, error)
	DeleteByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error)
	UpdateVerification(ctx context.Context, id primitive.ObjectID, status string) error
	// MarkPaid flips isPaid only when it is currently false; it returns false
	// when the entry was already paid, which callers treat as a no-op.
	MarkPaid(ctx context.Context, id primitive.ObjectID, reference string, paidAt time.Time) (bool, error)
	// UnmarkPaid is the compensating write used when the wallet credit fails
	// after MarkPaid succeeded.
	UnmarkPaid(ctx context.Context, id primitive.ObjectID) error
}

// DonationRepository defines the interface for donation operations
type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	CreateMany(ctx context.Context, donations []*models.Donation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	FindByDrawID(ctx context.Context, drawID primitive.ObjectID) ([]*models.Donation, error)
	FindPayableByCharity(ctx context.Context, charityID primitive.ObjectID) ([]*models.Donation, error)
	FindByPayoutID(ctx context.Context, payoutID primitive.ObjectID) ([]*models.Donation, error)
	DeleteByDrawID(ctx context.Context, drawID primitive.ObjectID) (int64, error)
	// LinkToPayout stamps the payout id and moves the donations to processing.
	LinkToPayout(ctx context.Context, donationIDs []primitive.ObjectID, payoutID primitive.ObjectID) error
	// UnlinkPayout clears the payout id and returns the donations to pending.
	UnlinkPayout(ctx context.Context, payoutID primitive.ObjectID) error
	UpdateStatusByPayout(ctx context.Context, payoutID primitive.ObjectID, status string) error
}

// JackpotRepository defines the interface for the jackpot tracker singleton
type JackpotRepository interface {
	// Get returns the tracker, creating a zeroed row on first use.
	Get(ctx context.Context) (*models.JackpotTracker, error)
	// Set writes a new amount guarded by the version read previously;
	// returns models.ErrVersionConflict on a lost race.
	Set(ctx context.Context, amount float64, lastDrawID primitive.ObjectID, expectedVersion int64) error
}

// CharityRepository defines the interface for charity directory operations
type CharityRepository interface {
	Create(ctx context.Context, charity *models.Charity) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Charity, error)
	FindAll(ctx context.Context) ([]*models.Charity, error)
	FindVerified(ctx context.Context) ([]*models.Charity, error)
	Update(ctx context.Context, charity *models.Charity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CharityPayoutRepository defines the interface for charity payout operations
type CharityPayoutRepository interface {
	Create(ctx context.Context, payout *models.CharityPayout) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CharityPayout, error)
	FindByCharityID(ctx context.Context, charityID primitive.ObjectID) ([]*models.CharityPayout, error)
	Update(ctx context.Context, payout *models.CharityPayout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// DrawSettingsRepository defines the interface for the settings singleton
type DrawSettingsRepository interface {
	// GetSettings returns the stored settings, or the defaults when none exist.
	GetSettings(ctx context.Context) (*models.DrawSettings, error)
	UpdateSettings(ctx context.Context, settings *models.DrawSettings) error
}

// AuditEventRepository defines the interface for the audit log sink
type AuditEventRepository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
	FindRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error)
}
