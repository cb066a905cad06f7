package port

import (
	"context"

	"github.com/hbenali/procflow/internal/domain/document"
)

// DocumentRepository defines persistence operations for documents of all types
type DocumentRepository interface {
	// Create persists a new document and assigns its per-type id.
	Create(ctx context.Context, doc *document.Document) error

	// GetByRef loads a document by type and id. Returns
	// document.ErrNotFound if no such document exists.
	GetByRef(ctx context.Context, ref document.Ref) (*document.Document, error)

	// ListByOrganization returns documents of one type scoped to an
	// organization, newest first.
	ListByOrganization(ctx context.Context, docType document.Type, orgID int64, limit, offset int) ([]*document.Document, error)

	// UpdateStatus moves a document to a new status, guarded by the
	// version the caller loaded. Returns document.ErrConcurrentModification
	// if the document changed in between.
	UpdateStatus(ctx context.Context, ref document.Ref, status document.Status, rejectionComment string, expectedVersion int64) error

	// SetChainedTo records the generated successor on the source
	// document. Returns document.ErrAlreadyChained if a successor was
	// already recorded.
	SetChainedTo(ctx context.Context, source, successor document.Ref) error
}

// ThresholdRepository defines persistence operations for ThresholdConfig
type ThresholdRepository interface {
	// Create persists a new, inactive config row.
	Create(ctx context.Context, cfg *document.ThresholdConfig) error

	// GetActive returns the organization's single active config, or
	// document.ErrThresholdNotConfigured if none is active.
	GetActive(ctx context.Context, orgID int64) (*document.ThresholdConfig, error)

	// Activate marks one config active and deactivates all siblings of
	// the same organization atomically.
	Activate(ctx context.Context, orgID, configID int64) error

	// ListByOrganization returns all configs of an organization, newest first.
	ListByOrganization(ctx context.Context, orgID int64) ([]*document.ThresholdConfig, error)
}

// AuditRepository defines the append-only audit trail store.
// There is no update or delete.
type AuditRepository interface {
	Append(ctx context.Context, rec *document.AuditRecord) error
	ByDocument(ctx context.Context, docType document.Type, docID int64) ([]*document.AuditRecord, error)
	ByActor(ctx context.Context, actorID string) ([]*document.AuditRecord, error)
	ByType(ctx context.Context, docType document.Type) ([]*document.AuditRecord, error)
	ByOutcome(ctx context.Context, outcome document.Outcome) ([]*document.AuditRecord, error)
	ByOrganization(ctx context.Context, orgID int64) ([]*document.AuditRecord, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
