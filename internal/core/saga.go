package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/models"
)

// saga runs the strictly sequential steps of a multi-document write flow.
// The user record and the premium grant record live in independent documents
// with no transactional link, so the flow cannot be atomic; instead every
// step is recorded in the audit trail before the next one starts, which makes
// partial-failure states diagnosable after the fact. The first failing step
// aborts the sequence.
type saga struct {
	action   string
	userID   string
	auditSvc AuditService
	logger   *zap.Logger
	now      func() time.Time
}

// step executes fn and writes one audit entry with the step's outcome.
// On failure the returned error is wrapped with the step name.
func (g *saga) step(ctx context.Context, name string, fn func(context.Context) error) error {
	err := fn(ctx)

	outcome := "ok"
	details := map[string]interface{}{}
	if err != nil {
		outcome = "error"
		details["error"] = err.Error()
	}
	g.record(ctx, name, outcome, details)

	if err != nil {
		return fmt.Errorf("step '%s' failed: %w", name, err)
	}
	return nil
}

func (g *saga) record(ctx context.Context, step, outcome string, details map[string]interface{}) {
	if g.auditSvc == nil {
		return
	}
	entry := models.AuditLog{
		Timestamp: g.now(),
		UserID:    g.userID,
		Action:    g.action,
		Step:      step,
		Outcome:   outcome,
		Details:   details,
	}
	if err := g.auditSvc.CreateAuditLog(ctx, entry); err != nil {
		g.logger.Warn("failed to write saga audit entry",
			zap.String("action", g.action),
			zap.String("step", step),
			zap.Error(err),
		)
	}
}
