package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/engine"
	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
)

// SetThresholdInput carries the fields of a new threshold config
type SetThresholdInput struct {
	Threshold      string
	LowerRole      document.Role
	EscalationRole document.Role
}

// ThresholdService manages threshold configs and exposes stage
// resolution for UI display.
type ThresholdService interface {
	// Set creates a new config for the actor's organization and
	// activates it, deactivating all siblings in the same transaction.
	Set(ctx context.Context, actor document.Actor, input SetThresholdInput) (*document.ThresholdConfig, error)

	// Active returns the organization's single active config.
	Active(ctx context.Context, actor document.Actor) (*document.ThresholdConfig, error)

	// Resolve answers which role approves terminally for the given
	// amount and whether the director stage is required.
	Resolve(ctx context.Context, actor document.Actor, amount string, docType document.Type) (*engine.StageResolution, error)
}

type thresholdServiceImpl struct {
	repo      port.ThresholdRepository
	txManager port.TransactionManager
	policy    *engine.ThresholdPolicy
	logger    *zap.Logger
}

// NewThresholdService creates a new ThresholdService
func NewThresholdService(repo port.ThresholdRepository, txManager port.TransactionManager, policy *engine.ThresholdPolicy, logger *zap.Logger) ThresholdService {
	return &thresholdServiceImpl{repo: repo, txManager: txManager, policy: policy, logger: logger}
}

// Set creates and activates a config for the actor's organization.
// Only directors configure thresholds.
func (s *thresholdServiceImpl) Set(ctx context.Context, actor document.Actor, input SetThresholdInput) (*document.ThresholdConfig, error) {
	if actor.Role != document.RoleDirector {
		return nil, document.ErrUnauthorized
	}

	threshold, err := decimal.NewFromString(input.Threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid threshold %q: %w", input.Threshold, err)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("threshold must not be negative")
	}
	if !input.LowerRole.IsValid() || !input.EscalationRole.IsValid() {
		return nil, fmt.Errorf("invalid role in threshold config")
	}

	cfg := &document.ThresholdConfig{
		OrganizationID: actor.OrganizationID,
		Threshold:      threshold,
		LowerRole:      input.LowerRole,
		EscalationRole: input.EscalationRole,
	}

	// Create and activate in one transaction so a reader never sees
	// zero or two active configs.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, cfg); err != nil {
			return err
		}
		return s.repo.Activate(txCtx, actor.OrganizationID, cfg.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("set threshold config: %w", err)
	}
	cfg.Active = true

	s.logger.Info("threshold config activated",
		zap.Int64("org_id", actor.OrganizationID),
		zap.Int64("config_id", cfg.ID),
		zap.String("threshold", threshold.String()),
	)
	return cfg, nil
}

// Active returns the organization's active config
func (s *thresholdServiceImpl) Active(ctx context.Context, actor document.Actor) (*document.ThresholdConfig, error) {
	return s.repo.GetActive(ctx, actor.OrganizationID)
}

// Resolve exposes stage resolution to the API layer
func (s *thresholdServiceImpl) Resolve(ctx context.Context, actor document.Actor, amount string, docType document.Type) (*engine.StageResolution, error) {
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return s.policy.ResolveRequiredStage(ctx, actor.OrganizationID, parsed, docType)
}

// Verify interface compliance
var _ ThresholdService = (*thresholdServiceImpl)(nil)
