package services

import (
	"context"
	"fmt"
	"math"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SettingsServiceImpl implements SettingsService
var _ SettingsService = (*SettingsServiceImpl)(nil)

// SettingsServiceImpl manages the prize-pool configuration singleton
type SettingsServiceImpl struct {
	settingsRepo repositories.DrawSettingsRepository
	audit        AuditService
}

// NewSettingsService creates a new SettingsServiceImpl
func NewSettingsService(settingsRepo repositories.DrawSettingsRepository, audit AuditService) *SettingsServiceImpl {
	return &SettingsServiceImpl{settingsRepo: settingsRepo, audit: audit}
}

// GetDrawSettings returns the current settings, or the defaults when none are stored
func (s *SettingsServiceImpl) GetDrawSettings(ctx context.Context) (*models.DrawSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

// UpdateDrawSettings validates and stores new prize-pool parameters. Changes
// apply to the next run; draws already run keep their persisted pools.
func (s *SettingsServiceImpl) UpdateDrawSettings(ctx context.Context, settings *models.DrawSettings, updatedBy string) error {
	if settings.BaseAmountPerSub <= 0 {
		return fmt.Errorf("base amount per subscription must be positive")
	}
	if settings.JackpotCap <= 0 {
		return fmt.Errorf("jackpot cap must be positive")
	}
	if settings.Tier1Percent < 0 || settings.Tier2Percent < 0 || settings.Tier3Percent < 0 {
		return fmt.Errorf("tier percentages must be non-negative")
	}
	if total := settings.Tier1Percent + settings.Tier2Percent + settings.Tier3Percent; math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("tier percentages must sum to 100, got %v", total)
	}

	settings.UpdatedBy = updatedBy
	if err := s.settingsRepo.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update draw settings: %w", err)
	}

	s.audit.Record(ctx, updatedBy, "settings.update", "draw_settings", map[string]interface{}{
		"baseAmountPerSub": settings.BaseAmountPerSub,
		"tier1Percent":     settings.Tier1Percent,
		"tier2Percent":     settings.Tier2Percent,
		"tier3Percent":     settings.Tier3Percent,
		"jackpotCap":       settings.JackpotCap,
	})
	slog.Info("Draw settings updated", "updatedBy", updatedBy, "jackpotCap", settings.JackpotCap)
	return nil
}
