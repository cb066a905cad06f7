package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
)

// AuditService exposes the read side of the audit trail plus the
// spreadsheet export. Writes go through the engine only.
type AuditService interface {
	ByDocument(ctx context.Context, actor document.Actor, docType document.Type, docID int64) ([]*document.AuditRecord, error)
	ByActor(ctx context.Context, actor document.Actor, actorID string) ([]*document.AuditRecord, error)
	ByType(ctx context.Context, actor document.Actor, docType document.Type) ([]*document.AuditRecord, error)
	ByOutcome(ctx context.Context, actor document.Actor, outcome document.Outcome) ([]*document.AuditRecord, error)

	// ExportOrganization renders the organization's full audit trail as
	// an xlsx workbook.
	ExportOrganization(ctx context.Context, actor document.Actor) (*bytes.Buffer, error)
}

type auditServiceImpl struct {
	auditRepo port.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo port.AuditRepository, logger *zap.Logger) AuditService {
	return &auditServiceImpl{auditRepo: auditRepo, logger: logger}
}

// ByDocument returns the trail of one document, timestamp ascending
func (s *auditServiceImpl) ByDocument(ctx context.Context, actor document.Actor, docType document.Type, docID int64) ([]*document.AuditRecord, error) {
	records, err := s.auditRepo.ByDocument(ctx, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("audit by document: %w", err)
	}
	return s.scope(actor, records), nil
}

// ByActor returns every attempt made by one actor, timestamp ascending
func (s *auditServiceImpl) ByActor(ctx context.Context, actor document.Actor, actorID string) ([]*document.AuditRecord, error) {
	records, err := s.auditRepo.ByActor(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("audit by actor: %w", err)
	}
	return s.scope(actor, records), nil
}

// ByType returns every attempt against one document type, timestamp ascending
func (s *auditServiceImpl) ByType(ctx context.Context, actor document.Actor, docType document.Type) ([]*document.AuditRecord, error) {
	records, err := s.auditRepo.ByType(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("audit by type: %w", err)
	}
	return s.scope(actor, records), nil
}

// ByOutcome returns every attempt with the given outcome, timestamp ascending
func (s *auditServiceImpl) ByOutcome(ctx context.Context, actor document.Actor, outcome document.Outcome) ([]*document.AuditRecord, error) {
	if !outcome.IsValid() {
		return nil, fmt.Errorf("unknown outcome %q", outcome)
	}
	records, err := s.auditRepo.ByOutcome(ctx, outcome)
	if err != nil {
		return nil, fmt.Errorf("audit by outcome: %w", err)
	}
	return s.scope(actor, records), nil
}

var exportHeader = []string{
	"Timestamp", "Document Type", "Document ID", "Transition",
	"Actor", "Role", "Outcome", "Comment", "Reason",
}

// ExportOrganization renders the organization's audit trail as an xlsx
// workbook with a header row and one row per record.
func (s *auditServiceImpl) ExportOrganization(ctx context.Context, actor document.Actor) (*bytes.Buffer, error) {
	records, err := s.auditRepo.ByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("audit by organization: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close export workbook", zap.Error(err))
		}
	}()

	sheet := f.GetSheetName(0)
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, rec := range records {
		row := []interface{}{
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.DocType.String(),
			rec.DocID,
			rec.Transition,
			rec.ActorID,
			rec.ActorRole.String(),
			rec.Outcome.String(),
			rec.Comment,
			rec.Reason,
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("Audit trail exported",
		zap.Int64("org_id", actor.OrganizationID),
		zap.Int("records", len(records)),
	)
	return buf, nil
}

// scope filters records to the actor's organization unless the actor
// reads across tenants.
func (s *auditServiceImpl) scope(actor document.Actor, records []*document.AuditRecord) []*document.AuditRecord {
	if actor.CanReadAcrossTenants() {
		return records
	}
	scoped := make([]*document.AuditRecord, 0, len(records))
	for _, rec := range records {
		if rec.OrganizationID == actor.OrganizationID {
			scoped = append(scoped, rec)
		}
	}
	return scoped
}

// Verify interface compliance
var _ AuditService = (*auditServiceImpl)(nil)
