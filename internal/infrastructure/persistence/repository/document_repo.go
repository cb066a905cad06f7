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

// DocumentRepository implements port.DocumentRepository over sqlite
type DocumentRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sqlite.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

const documentColumns = `doc_type, id, organization_id, status, amount, reference, description,
	supplier, created_by, source_type, source_id, chained_type, chained_id,
	rejection_comment, version, created_at, updated_at`

// Create persists a new document, allocating the next id for its type
func (r *DocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	query := `
		INSERT INTO documents (
			doc_type, id, organization_id, status, amount, reference, description,
			supplier, created_by, source_type, source_id, version
		) VALUES (
			?, (SELECT COALESCE(MAX(id), 0) + 1 FROM documents WHERE doc_type = ?),
			?, ?, ?, ?, ?, ?, ?, ?, ?, 1
		)
	`

	var sourceType interface{}
	var sourceID interface{}
	if doc.Source != nil {
		sourceType = doc.Source.Type.String()
		sourceID = doc.Source.ID
	}

	exec := r.db.ExecutorFrom(ctx)
	result, err := exec.ExecContext(ctx, query,
		doc.Type.String(),
		doc.Type.String(),
		doc.OrganizationID,
		doc.Status.String(),
		doc.Amount.String(),
		doc.Reference,
		doc.Description,
		doc.Supplier,
		doc.CreatedBy,
		sourceType,
		sourceID,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.String("doc_type", doc.Type.String()), zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	rowid, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	// The composite primary key means LastInsertId returns the rowid,
	// not the per-type id; read the allocated id back.
	row := exec.QueryRowContext(ctx, "SELECT id, created_at, updated_at FROM documents WHERE rowid = ?", rowid)
	if err := row.Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return fmt.Errorf("failed to read back document id: %w", err)
	}
	doc.Version = 1
	return nil
}

// GetByRef loads a document by type and id
func (r *DocumentRepository) GetByRef(ctx context.Context, ref document.Ref) (*document.Document, error) {
	query := fmt.Sprintf("SELECT %s FROM documents WHERE doc_type = ? AND id = ?", documentColumns)

	row := r.db.ExecutorFrom(ctx).QueryRowContext(ctx, query, ref.Type.String(), ref.ID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, document.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get document",
			zap.String("doc_type", ref.Type.String()),
			zap.Int64("doc_id", ref.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListByOrganization returns documents of one type for an organization, newest first
func (r *DocumentRepository) ListByOrganization(ctx context.Context, docType document.Type, orgID int64, limit, offset int) ([]*document.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE doc_type = ? AND organization_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, documentColumns)

	rows, err := r.db.ExecutorFrom(ctx).QueryContext(ctx, query, docType.String(), orgID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UpdateStatus moves a document to a new status if its version is unchanged
func (r *DocumentRepository) UpdateStatus(ctx context.Context, ref document.Ref, status document.Status, rejectionComment string, expectedVersion int64) error {
	query := `
		UPDATE documents
		SET status = ?, rejection_comment = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE doc_type = ? AND id = ? AND version = ?
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		status.String(), rejectionComment, ref.Type.String(), ref.ID, expectedVersion)
	if err != nil {
		r.logger.Error("Failed to update document status",
			zap.String("doc_type", ref.Type.String()),
			zap.Int64("doc_id", ref.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return document.ErrConcurrentModification
	}
	return nil
}

// SetChainedTo records the successor link on the source document.
// The chained_id IS NULL guard makes chaining at-most-once.
func (r *DocumentRepository) SetChainedTo(ctx context.Context, source, successor document.Ref) error {
	query := `
		UPDATE documents
		SET chained_type = ?, chained_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE doc_type = ? AND id = ? AND chained_id IS NULL
	`

	result, err := r.db.ExecutorFrom(ctx).ExecContext(ctx, query,
		successor.Type.String(), successor.ID, source.Type.String(), source.ID)
	if err != nil {
		return fmt.Errorf("failed to set chain link: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return document.ErrAlreadyChained
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var doc document.Document
	var docType, status, amount string
	var sourceType, chainedType sql.NullString
	var sourceID, chainedID sql.NullInt64

	err := row.Scan(
		&docType,
		&doc.ID,
		&doc.OrganizationID,
		&status,
		&amount,
		&doc.Reference,
		&doc.Description,
		&doc.Supplier,
		&doc.CreatedBy,
		&sourceType,
		&sourceID,
		&chainedType,
		&chainedID,
		&doc.RejectionComment,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Type = document.Type(docType)
	doc.Status = document.Status(status)

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	doc.Amount = parsed

	if sourceType.Valid && sourceID.Valid {
		doc.Source = &document.Ref{Type: document.Type(sourceType.String), ID: sourceID.Int64}
	}
	if chainedType.Valid && chainedID.Valid {
		doc.ChainedTo = &document.Ref{Type: document.Type(chainedType.String), ID: chainedID.Int64}
	}
	return &doc, nil
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
