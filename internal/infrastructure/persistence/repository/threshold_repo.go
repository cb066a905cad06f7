package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/infrastructure/persistence/sqlite"
)

// ThresholdRepository implements port.ThresholdRepository over sqlite
type ThresholdRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewThresholdRepository creates a new threshold repository
func NewThresholdRepository(db *sqlite.DB, logger *zap.Logger) port.ThresholdRepository {
	return &ThresholdRepository{db: db, logger: logger}
}

// Create persists a new, inactive config row
func (r *ThresholdRepository) Create(ctx context.Context, cfg *document.ThresholdConfig) error {
	query := `
		INSERT INTO threshold_configs (organization_id, threshold, lower_role, escalation_role, active)
		VALUES (?, ?, ?, ?, 0)
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		cfg.OrganizationID,
		cfg.Threshold.String(),
		cfg.LowerRole.String(),
		cfg.EscalationRole.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create threshold config", zap.Int64("org_id", cfg.OrganizationID), zap.Error(err))
		return fmt.Errorf("failed to create threshold config: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	cfg.ID = id
	return nil
}

// GetActive returns the single active config for an organization
func (r *ThresholdRepository) GetActive(ctx context.Context, orgID int64) (*document.ThresholdConfig, error) {
	query := `
		SELECT id, organization_id, threshold, lower_role, escalation_role, active, created_at
		FROM threshold_configs
		WHERE organization_id = ? AND active = 1
	`

	row := r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, orgID)
	cfg, err := scanThresholdConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, document.ErrThresholdNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active threshold config: %w", err)
	}
	return cfg, nil
}

// Activate marks one config active and deactivates its siblings. The
// single CASE update keeps activation atomic even outside an explicit
// transaction: a reader never observes zero or two active rows.
func (r *ThresholdRepository) Activate(ctx context.Context, orgID, configID int64) error {
	exec := r.db.ExecutorFrom(ctx)

	var exists int
	row := exec.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM threshold_configs WHERE id = ? AND organization_id = ?", configID, orgID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("failed to check threshold config: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("threshold config %d not found in organization %d", configID, orgID)
	}

	query := `
		UPDATE threshold_configs
		SET active = CASE WHEN id = ? THEN 1 ELSE 0 END
		WHERE organization_id = ?
	`
	if _, err := exec.ExecContext(ctx, query, configID, orgID); err != nil {
		r.logger.Error("Failed to activate threshold config",
			zap.Int64("org_id", orgID),
			zap.Int64("config_id", configID),
			zap.Error(err))
		return fmt.Errorf("failed to activate threshold config: %w", err)
	}
	return nil
}

// ListByOrganization returns all configs of an organization, newest first
func (r *ThresholdRepository) ListByOrganization(ctx context.Context, orgID int64) ([]*document.ThresholdConfig, error) {
	query := `
		SELECT id, organization_id, threshold, lower_role, escalation_role, active, created_at
		FROM threshold_configs
		WHERE organization_id = ?
		ORDER BY id DESC
	`

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threshold configs: %w", err)
	}
	defer rows.Close()

	var configs []*document.ThresholdConfig
	for rows.Next() {
		cfg, err := scanThresholdConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan threshold config: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func scanThresholdConfig(row rowScanner) (*document.ThresholdConfig, error) {
	var cfg document.ThresholdConfig
	var threshold, lowerRole, escalationRole string

	err := row.Scan(
		&cfg.ID,
		&cfg.OrganizationID,
		&threshold,
		&lowerRole,
		&escalationRole,
		&cfg.Active,
		&cfg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(threshold)
	if err != nil {
		return nil, fmt.Errorf("invalid stored threshold %q: %w", threshold, err)
	}
	cfg.Threshold = parsed
	cfg.LowerRole = document.Role(lowerRole)
	cfg.EscalationRole = document.Role(escalationRole)
	return &cfg, nil
}

// Verify interface compliance
var _ port.ThresholdRepository = (*ThresholdRepository)(nil)
