package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
)

// CreateDocumentInput carries the caller-supplied fields for a new document
type CreateDocumentInput struct {
	Type        document.Type
	Reference   string
	Description string
	Supplier    string
	Amount      string
}

// DocumentService creates and reads documents. Status mutation is the
// engine's job; this service never touches it.
type DocumentService interface {
	Create(ctx context.Context, actor document.Actor, input CreateDocumentInput) (*document.Document, error)
	Get(ctx context.Context, actor document.Actor, ref document.Ref) (*document.Document, error)
	List(ctx context.Context, actor document.Actor, docType document.Type, limit, offset int) ([]*document.Document, error)
}

type documentServiceImpl struct {
	docRepo port.DocumentRepository
	logger  *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(docRepo port.DocumentRepository, logger *zap.Logger) DocumentService {
	return &documentServiceImpl{docRepo: docRepo, logger: logger}
}

// Create persists a new document in IN_PROGRESS, owned by the actor's
// organization.
func (s *documentServiceImpl) Create(ctx context.Context, actor document.Actor, input CreateDocumentInput) (*document.Document, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("unknown document type %q", input.Type)
	}
	if strings.TrimSpace(input.Reference) == "" {
		return nil, fmt.Errorf("reference is required")
	}

	amount := decimal.Zero
	if input.Amount != "" {
		parsed, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", input.Amount, err)
		}
		if parsed.IsNegative() {
			return nil, fmt.Errorf("amount must not be negative")
		}
		amount = parsed
	}

	doc := &document.Document{
		Type:           input.Type,
		OrganizationID: actor.OrganizationID,
		Status:         document.StatusInProgress,
		Amount:         amount,
		Reference:      strings.TrimSpace(input.Reference),
		Description:    input.Description,
		Supplier:       input.Supplier,
		CreatedBy:      actor.ID,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("document created",
		zap.String("doc_type", doc.Type.String()),
		zap.Int64("doc_id", doc.ID),
		zap.Int64("org_id", doc.OrganizationID),
		zap.String("created_by", actor.ID),
	)
	return doc, nil
}

// Get loads one document, enforcing tenant scope for regular actors
func (s *documentServiceImpl) Get(ctx context.Context, actor document.Actor, ref document.Ref) (*document.Document, error) {
	doc, err := s.docRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if doc.OrganizationID != actor.OrganizationID && !actor.CanReadAcrossTenants() {
		return nil, document.ErrCrossTenantAccess
	}
	return doc, nil
}

// List returns the actor's organization's documents of one type
func (s *documentServiceImpl) List(ctx context.Context, actor document.Actor, docType document.Type, limit, offset int) ([]*document.Document, error) {
	if !docType.IsValid() {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.docRepo.ListByOrganization(ctx, docType, actor.OrganizationID, limit, offset)
}

// Verify interface compliance
var _ DocumentService = (*documentServiceImpl)(nil)
