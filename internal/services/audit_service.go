package services

import (
	"context"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuditServiceImpl implements AuditService
var _ AuditService = (*AuditServiceImpl)(nil)

// AuditServiceImpl writes administrative actions to the audit log. Writes
// are fire-and-forget: a failed insert is logged and swallowed so the
// operation being audited never fails because of its audit trail.
type AuditServiceImpl struct {
	auditRepo repositories.AuditEventRepository
}

// NewAuditService creates a new AuditServiceImpl
func NewAuditService(auditRepo repositories.AuditEventRepository) *AuditServiceImpl {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

// Record logs an administrative action
func (s *AuditServiceImpl) Record(ctx context.Context, actor, action, subject string, detail map[string]interface{}) {
	event := &models.AuditEvent{
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
	if err := s.auditRepo.Create(ctx, event); err != nil {
		slog.Error("Failed to write audit event", "error", err, "action", action, "subject", subject)
	}
}

// Recent returns the most recent audit events, newest first
func (s *AuditServiceImpl) Recent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.FindRecent(ctx, limit)
}
