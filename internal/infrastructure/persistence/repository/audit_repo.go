package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/infrastructure/persistence/sqlite"
)

// AuditRepository implements port.AuditRepository over sqlite.
// The table is append-only; no update or delete statement exists here.
type AuditRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlite.DB, logger *zap.Logger) port.AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

const auditColumns = `id, doc_type, doc_id, organization_id, transition, actor_id,
	actor_role, outcome, comment, reason, timestamp`

// Append writes one audit record
func (r *AuditRepository) Append(ctx context.Context, rec *document.AuditRecord) error {
	query := fmt.Sprintf("INSERT INTO audit_records (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", auditColumns)

	_, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		rec.ID,
		rec.DocType.String(),
		rec.DocID,
		rec.OrganizationID,
		rec.Transition,
		rec.ActorID,
		rec.ActorRole.String(),
		rec.Outcome.String(),
		rec.Comment,
		rec.Reason,
		rec.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append audit record",
			zap.String("doc_type", rec.DocType.String()),
			zap.Int64("doc_id", rec.DocID),
			zap.Error(err))
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// ByDocument returns the trail of one document, timestamp ascending
func (r *AuditRepository) ByDocument(ctx context.Context, docType document.Type, docID int64) ([]*document.AuditRecord, error) {
	return r.query(ctx, "doc_type = ? AND doc_id = ?", docType.String(), docID)
}

// ByActor returns every attempt made by one actor, timestamp ascending
func (r *AuditRepository) ByActor(ctx context.Context, actorID string) ([]*document.AuditRecord, error) {
	return r.query(ctx, "actor_id = ?", actorID)
}

// ByType returns every attempt against one document type, timestamp ascending
func (r *AuditRepository) ByType(ctx context.Context, docType document.Type) ([]*document.AuditRecord, error) {
	return r.query(ctx, "doc_type = ?", docType.String())
}

// ByOutcome returns every attempt with the given outcome, timestamp ascending
func (r *AuditRepository) ByOutcome(ctx context.Context, outcome document.Outcome) ([]*document.AuditRecord, error) {
	return r.query(ctx, "outcome = ?", outcome.String())
}

// ByOrganization returns an organization's full trail, timestamp ascending
func (r *AuditRepository) ByOrganization(ctx context.Context, orgID int64) ([]*document.AuditRecord, error) {
	return r.query(ctx, "organization_id = ?", orgID)
}

func (r *AuditRepository) query(ctx context.Context, where string, args ...interface{}) ([]*document.AuditRecord, error) {
	// rowid breaks timestamp ties in insertion order
	query := fmt.Sprintf("SELECT %s FROM audit_records WHERE %s ORDER BY timestamp ASC, rowid ASC", auditColumns, where)

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []*document.AuditRecord
	for rows.Next() {
		var rec document.AuditRecord
		var docType, actorRole, outcome string
		err := rows.Scan(
			&rec.ID,
			&docType,
			&rec.DocID,
			&rec.OrganizationID,
			&rec.Transition,
			&rec.ActorID,
			&actorRole,
			&outcome,
			&rec.Comment,
			&rec.Reason,
			&rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.DocType = document.Type(docType)
		rec.ActorRole = document.Role(actorRole)
		rec.Outcome = document.Outcome(outcome)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Verify interface compliance
var _ port.AuditRepository = (*AuditRepository)(nil)
