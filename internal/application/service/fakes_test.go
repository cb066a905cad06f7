package service

import (
	"context"

	"github.com/hbenali/procflow/internal/domain/document"
)

// stubDocRepo keeps documents in a slice; enough for service-level tests
// which never touch status mutation.
type stubDocRepo struct {
	docs    []*document.Document
	nextIDs map[document.Type]int64
}

func newStubDocRepo() *stubDocRepo {
	return &stubDocRepo{nextIDs: make(map[document.Type]int64)}
}

func (r *stubDocRepo) Create(_ context.Context, doc *document.Document) error {
	r.nextIDs[doc.Type]++
	doc.ID = r.nextIDs[doc.Type]
	doc.Version = 1
	cp := *doc
	r.docs = append(r.docs, &cp)
	return nil
}

func (r *stubDocRepo) GetByRef(_ context.Context, ref document.Ref) (*document.Document, error) {
	for _, d := range r.docs {
		if d.Type == ref.Type && d.ID == ref.ID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, document.ErrNotFound
}

func (r *stubDocRepo) ListByOrganization(_ context.Context, docType document.Type, orgID int64, limit, offset int) ([]*document.Document, error) {
	var out []*document.Document
	for _, d := range r.docs {
		if d.Type == docType && d.OrganizationID == orgID {
			cp := *d
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubDocRepo) UpdateStatus(_ context.Context, _ document.Ref, _ document.Status, _ string, _ int64) error {
	return nil
}

func (r *stubDocRepo) SetChainedTo(_ context.Context, _, _ document.Ref) error {
	return nil
}

type stubAuditRepo struct {
	records []*document.AuditRecord
}

func (r *stubAuditRepo) Append(_ context.Context, rec *document.AuditRecord) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *stubAuditRepo) ByDocument(_ context.Context, docType document.Type, docID int64) ([]*document.AuditRecord, error) {
	return r.filter(func(rec *document.AuditRecord) bool {
		return rec.DocType == docType && rec.DocID == docID
	}), nil
}

func (r *stubAuditRepo) ByActor(_ context.Context, actorID string) ([]*document.AuditRecord, error) {
	return r.filter(func(rec *document.AuditRecord) bool { return rec.ActorID == actorID }), nil
}

func (r *stubAuditRepo) ByType(_ context.Context, docType document.Type) ([]*document.AuditRecord, error) {
	return r.filter(func(rec *document.AuditRecord) bool { return rec.DocType == docType }), nil
}

func (r *stubAuditRepo) ByOutcome(_ context.Context, outcome document.Outcome) ([]*document.AuditRecord, error) {
	return r.filter(func(rec *document.AuditRecord) bool { return rec.Outcome == outcome }), nil
}

func (r *stubAuditRepo) ByOrganization(_ context.Context, orgID int64) ([]*document.AuditRecord, error) {
	return r.filter(func(rec *document.AuditRecord) bool { return rec.OrganizationID == orgID }), nil
}

func (r *stubAuditRepo) filter(keep func(*document.AuditRecord) bool) []*document.AuditRecord {
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

type stubThresholdRepo struct {
	configs []*document.ThresholdConfig
	nextID  int64
}

func (r *stubThresholdRepo) Create(_ context.Context, cfg *document.ThresholdConfig) error {
	r.nextID++
	cfg.ID = r.nextID
	cp := *cfg
	r.configs = append(r.configs, &cp)
	return nil
}

func (r *stubThresholdRepo) GetActive(_ context.Context, orgID int64) (*document.ThresholdConfig, error) {
	for _, c := range r.configs {
		if c.OrganizationID == orgID && c.Active {
			cp := *c
			return &cp, nil
		}
	}
	return nil, document.ErrThresholdNotConfigured
}

func (r *stubThresholdRepo) Activate(_ context.Context, orgID, configID int64) error {
	for _, c := range r.configs {
		if c.OrganizationID == orgID {
			c.Active = c.ID == configID
		}
	}
	return nil
}

func (r *stubThresholdRepo) ListByOrganization(_ context.Context, orgID int64) ([]*document.ThresholdConfig, error) {
	var out []*document.ThresholdConfig
	for _, c := range r.configs {
		if c.OrganizationID == orgID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubThresholdRepo) activeCount(orgID int64) int {
	n := 0
	for _, c := range r.configs {
		if c.OrganizationID == orgID && c.Active {
			n++
		}
	}
	return n
}

// stubTxManager runs the callback directly; service tests do not need
// rollback emulation.
type stubTxManager struct{}

func (stubTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
