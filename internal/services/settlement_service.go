package services

import (
	"context"
	"fmt"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"github.com/birdieplay/birdieplay-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SettlementServiceImpl implements SettlementService
var _ SettlementService = (*SettlementServiceImpl)(nil)

// SettlementServiceImpl handles the money movement after a draw publishes:
// crediting winner wallets and paying accumulated donations out to charities.
// Nothing here runs against a draw that is not published.
type SettlementServiceImpl struct {
	entryRepo   repositories.DrawEntryRepository
	drawRepo    repositories.DrawRepository
	userRepo    repositories.UserRepository
	donRepo     repositories.DonationRepository
	charityRepo repositories.CharityRepository
	payoutRepo  repositories.CharityPayoutRepository
	audit       AuditService
}

// NewSettlementService creates a new SettlementServiceImpl
func NewSettlementService(
	entryRepo repositories.DrawEntryRepository,
	drawRepo repositories.DrawRepository,
	userRepo repositories.UserRepository,
	donRepo repositories.DonationRepository,
	charityRepo repositories.CharityRepository,
	payoutRepo repositories.CharityPayoutRepository,
	audit AuditService,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		entryRepo:   entryRepo,
		drawRepo:    drawRepo,
		userRepo:    userRepo,
		donRepo:     donRepo,
		charityRepo: charityRepo,
		payoutRepo:  payoutRepo,
		audit:       audit,
	}
}

// MarkWinnerAsPaid credits a winner's wallet with the entry's net payout.
// The paid flag is claimed first with a conditional update, so two admins
// clicking pay at once produce exactly one wallet credit. If the credit
// fails after the claim, the claim is released.
func (s *SettlementServiceImpl) MarkWinnerAsPaid(ctx context.Context, entryID primitive.ObjectID, reference, adminID string) error {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}
	if entry.Tier == 0 {
		return fmt.Errorf("entry %s is not a winning entry", entryID.Hex())
	}

	draw, err := s.drawRepo.FindByID(ctx, entry.DrawID)
	if err != nil {
		return fmt.Errorf("draw not found: %w", err)
	}
	if draw.Status != models.DrawStatusPublished {
		return fmt.Errorf("%w: draw %s is %q", models.ErrNotPublished, draw.ID.Hex(), draw.Status)
	}

	if reference == "" {
		reference, err = utils.GenerateRandomString(16)
		if err != nil {
			return fmt.Errorf("failed to generate payment reference: %w", err)
		}
	}

	claimed, err := s.entryRepo.MarkPaid(ctx, entryID, reference, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark entry as paid: %w", err)
	}
	if !claimed {
		slog.Info("Entry already settled, skipping wallet credit", "entryId", entryID)
		return nil
	}

	if err := s.userRepo.IncrementWalletBalance(ctx, entry.UserID, entry.NetPayout); err != nil {
		// Release the claim so the payment can be retried.
		if unErr := s.entryRepo.UnmarkPaid(ctx, entryID); unErr != nil {
			slog.Error("Failed to release paid claim after wallet credit failure",
				"error", unErr, "entryId", entryID, "userId", entry.UserID)
		}
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	s.audit.Record(ctx, adminID, "settlement.pay_winner", entryID.Hex(), map[string]interface{}{
		"userId":    entry.UserID.Hex(),
		"netPayout": entry.NetPayout,
		"reference": reference,
	})
	slog.Info("Winner settled", "entryId", entryID, "userId", entry.UserID, "netPayout", entry.NetPayout)
	return nil
}

// VerifyEntry records the manual verification outcome for a winning entry
func (s *SettlementServiceImpl) VerifyEntry(ctx context.Context, entryID primitive.ObjectID, status string) error {
	if status != models.VerificationVerified && status != models.VerificationRejected {
		return fmt.Errorf("invalid verification status %q", status)
	}
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}
	if entry.IsPaid {
		return fmt.Errorf("%w: entry %s has already been paid", models.ErrAlreadySettled, entryID.Hex())
	}
	return s.entryRepo.UpdateVerification(ctx, entryID, status)
}

// ListPayableWinners returns winning entries across every published draw
func (s *SettlementServiceImpl) ListPayableWinners(ctx context.Context) ([]*models.DrawEntry, error) {
	draws, err := s.drawRepo.FindByStatus(ctx, models.DrawStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list published draws: %w", err)
	}

	payable := make([]*models.DrawEntry, 0)
	for _, draw := range draws {
		winners, err := s.entryRepo.FindWinnersByDrawID(ctx, draw.ID)
		if err != nil {
			slog.Error("Failed to load winners for published draw", "error", err, "drawId", draw.ID)
			continue
		}
		for _, entry := range winners {
			if !entry.IsPaid {
				payable = append(payable, entry)
			}
		}
	}
	return payable, nil
}

// CreateCharityPayout bundles every payable donation for a charity into a
// single pending payout. The donations move to processing and carry the
// payout id so the bundle can be rolled back before it is paid.
func (s *SettlementServiceImpl) CreateCharityPayout(ctx context.Context, charityID primitive.ObjectID) (*models.CharityPayout, error) {
	charity, err := s.charityRepo.FindByID(ctx, charityID)
	if err != nil {
		return nil, fmt.Errorf("charity not found: %w", err)
	}

	donations, err := s.donRepo.FindPayableByCharity(ctx, charityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payable donations: %w", err)
	}

	// Prize-linked donations settle only once their draw is published; a
	// completed draw can still be reset, which deletes its donations. Direct
	// gifts carry no draw and are always payable.
	published := make(map[primitive.ObjectID]bool)
	var total float64
	ids := make([]primitive.ObjectID, 0, len(donations))
	for _, d := range donations {
		if !d.DrawID.IsZero() {
			ok, seen := published[d.DrawID]
			if !seen {
				draw, err := s.drawRepo.FindByID(ctx, d.DrawID)
				if err != nil {
					return nil, fmt.Errorf("failed to load draw for donation %s: %w", d.ID.Hex(), err)
				}
				ok = draw.Status == models.DrawStatusPublished
				published[d.DrawID] = ok
			}
			if !ok {
				continue
			}
		}
		total += d.Amount
		ids = append(ids, d.ID)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no payable donations for charity %s", charity.Name)
	}

	payout := &models.CharityPayout{
		CharityID:     charityID,
		Amount:        utils.Round2(total),
		DonationCount: len(ids),
		Status:        models.PayoutPending,
	}
	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to create charity payout: %w", err)
	}

	if err := s.donRepo.LinkToPayout(ctx, ids, payout.ID); err != nil {
		// The payout row exists but claimed nothing; remove it rather than
		// leave an empty bundle behind.
		if delErr := s.payoutRepo.Delete(ctx, payout.ID); delErr != nil {
			slog.Error("Failed to delete orphaned payout", "error", delErr, "payoutId", payout.ID)
		}
		return nil, fmt.Errorf("failed to link donations to payout: %w", err)
	}

	s.audit.Record(ctx, "", "settlement.create_payout", payout.ID.Hex(), map[string]interface{}{
		"charityId": charityID.Hex(),
		"amount":    payout.Amount,
		"donations": len(ids),
	})
	slog.Info("Charity payout created", "payoutId", payout.ID, "charityId", charityID,
		"amount", payout.Amount, "donations", len(ids))
	return payout, nil
}

// MarkCharityPayoutAsPaid finalizes a pending payout and settles its donations
func (s *SettlementServiceImpl) MarkCharityPayoutAsPaid(ctx context.Context, payoutID primitive.ObjectID, reference string) error {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("payout not found: %w", err)
	}
	if payout.Status == models.PayoutPaid {
		slog.Info("Charity payout already paid, skipping", "payoutId", payoutID)
		return nil
	}

	payout.Status = models.PayoutPaid
	payout.PayoutRef = reference
	payout.PaidAt = time.Now()
	if err := s.payoutRepo.Update(ctx, payout); err != nil {
		return fmt.Errorf("failed to mark payout as paid: %w", err)
	}

	if err := s.donRepo.UpdateStatusByPayout(ctx, payoutID, models.DonationPaid); err != nil {
		return fmt.Errorf("payout marked paid but donation status update failed: %w", err)
	}

	s.audit.Record(ctx, "", "settlement.pay_charity", payoutID.Hex(), map[string]interface{}{
		"charityId": payout.CharityID.Hex(),
		"amount":    payout.Amount,
		"reference": reference,
	})
	return nil
}

// RollbackCharityPayout releases a pending bundle: donations return to
// pending with no payout id, and the payout row is deleted. Paid payouts
// cannot be rolled back.
func (s *SettlementServiceImpl) RollbackCharityPayout(ctx context.Context, payoutID primitive.ObjectID) error {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return fmt.Errorf("payout not found: %w", err)
	}
	if payout.Status == models.PayoutPaid {
		return fmt.Errorf("%w: payout %s has been paid", models.ErrAlreadySettled, payoutID.Hex())
	}

	if err := s.donRepo.UnlinkPayout(ctx, payoutID); err != nil {
		return fmt.Errorf("failed to unlink donations: %w", err)
	}
	if err := s.payoutRepo.Delete(ctx, payoutID); err != nil {
		return fmt.Errorf("failed to delete payout: %w", err)
	}

	s.audit.Record(ctx, "", "settlement.rollback_payout", payoutID.Hex(), map[string]interface{}{
		"charityId": payout.CharityID.Hex(),
		"amount":    payout.Amount,
	})
	slog.Info("Charity payout rolled back", "payoutId", payoutID, "charityId", payout.CharityID)
	return nil
}

// RecordDirectDonation records a standalone donation outside the prize flow
func (s *SettlementServiceImpl) RecordDirectDonation(ctx context.Context, userID, charityID primitive.ObjectID, amount float64) (*models.Donation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("donation amount must be positive")
	}
	if _, err := s.charityRepo.FindByID(ctx, charityID); err != nil {
		return nil, fmt.Errorf("charity not found: %w", err)
	}

	donation := &models.Donation{
		CharityID: charityID,
		UserID:    userID,
		Amount:    utils.Round2(amount),
		Source:    models.DonationSourceDirect,
		Status:    models.DonationPending,
	}
	if err := s.donRepo.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}
	return donation, nil
}
