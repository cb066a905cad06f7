package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// ThresholdConfig holds the monetary cutoff that decides whether an
// approval must be escalated to the director stage. At most one config
// per organization is active at any time; activating one deactivates
// all siblings atomically.
type ThresholdConfig struct {
	ID             int64
	OrganizationID int64
	Threshold      decimal.Decimal

	// LowerRole approves terminally below the threshold.
	LowerRole Role

	// EscalationRole approves the escalated stage at or above the threshold.
	EscalationRole Role

	Active    bool
	CreatedAt time.Time
}

// RequiresEscalation returns true if the amount meets or exceeds the cutoff
func (c *ThresholdConfig) RequiresEscalation(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(c.Threshold)
}
