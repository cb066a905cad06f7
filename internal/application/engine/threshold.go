package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
)

// StageResolution is the outcome of a threshold lookup: which role
// approves terminally and whether the director stage is required first.
type StageResolution struct {
	FinalStageRole     document.Role `json:"final_stage_role"`
	RequiresEscalation bool          `json:"requires_escalation"`
}

// ThresholdPolicy resolves, per organization, whether an amount-gated
// approval escalates to the director stage.
type ThresholdPolicy struct {
	repo port.ThresholdRepository
}

// NewThresholdPolicy creates a new threshold policy
func NewThresholdPolicy(repo port.ThresholdRepository) *ThresholdPolicy {
	return &ThresholdPolicy{repo: repo}
}

// ResolveRequiredStage reads the organization's single active config.
// A missing config is an explicit error, never a default-allow.
func (p *ThresholdPolicy) ResolveRequiredStage(ctx context.Context, orgID int64, amount decimal.Decimal, docType document.Type) (*StageResolution, error) {
	cfg, err := p.repo.GetActive(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("resolve threshold for org %d (%s): %w", orgID, docType, err)
	}

	if cfg.RequiresEscalation(amount) {
		return &StageResolution{FinalStageRole: cfg.EscalationRole, RequiresEscalation: true}, nil
	}
	return &StageResolution{FinalStageRole: cfg.LowerRole, RequiresEscalation: false}, nil
}
