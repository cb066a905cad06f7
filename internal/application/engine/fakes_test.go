package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/hbenali/procflow/internal/domain/document"
)

// fakeDocRepo is an in-memory DocumentRepository with real optimistic
// concurrency semantics.
type fakeDocRepo struct {
	mu     sync.Mutex
	docs   map[document.Ref]*document.Document
	nextID map[document.Type]int64
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		docs:   make(map[document.Ref]*document.Document),
		nextID: make(map[document.Type]int64),
	}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID[doc.Type]++
	doc.ID = r.nextID[doc.Type]
	doc.Version = 1
	copied := *doc
	r.docs[doc.Ref()] = &copied
	return nil
}

func (r *fakeDocRepo) GetByRef(_ context.Context, ref document.Ref) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[ref]
	if !ok {
		return nil, document.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocRepo) ListByOrganization(_ context.Context, docType document.Type, orgID int64, _, _ int) ([]*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.Document
	for _, doc := range r.docs {
		if doc.Type == docType && doc.OrganizationID == orgID {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) UpdateStatus(_ context.Context, ref document.Ref, status document.Status, rejectionComment string, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[ref]
	if !ok {
		return document.ErrNotFound
	}
	if doc.Version != expectedVersion {
		return document.ErrConcurrentModification
	}
	doc.Status = status
	doc.RejectionComment = rejectionComment
	doc.Version++
	return nil
}

func (r *fakeDocRepo) SetChainedTo(_ context.Context, source, successor document.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[source]
	if !ok {
		return document.ErrNotFound
	}
	if doc.ChainedTo != nil {
		return document.ErrAlreadyChained
	}
	chained := successor
	doc.ChainedTo = &chained
	return nil
}

// snapshot and restore back the full state, used by fakeTxManager to
// emulate rollback.
func (r *fakeDocRepo) snapshot() map[document.Ref]document.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[document.Ref]document.Document, len(r.docs))
	for ref, doc := range r.docs {
		snap[ref] = *doc
	}
	return snap
}

func (r *fakeDocRepo) restore(snap map[document.Ref]document.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[document.Ref]*document.Document, len(snap))
	for ref, doc := range snap {
		copied := doc
		r.docs[ref] = &copied
	}
}

// fakeAuditRepo collects audit records in memory
type fakeAuditRepo struct {
	mu       sync.Mutex
	records  []*document.AuditRecord
	failNext bool
}

func (r *fakeAuditRepo) Append(_ context.Context, rec *document.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		r.failNext = false
		return errors.New("audit store unavailable")
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeAuditRepo) all() []*document.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*document.AuditRecord(nil), r.records...)
}

func (r *fakeAuditRepo) last() *document.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return nil
	}
	return r.records[len(r.records)-1]
}

func (r *fakeAuditRepo) ByDocument(_ context.Context, docType document.Type, docID int64) ([]*document.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if rec.DocType == docType && rec.DocID == docID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ByActor(_ context.Context, actorID string) ([]*document.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if rec.ActorID == actorID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ByType(_ context.Context, docType document.Type) ([]*document.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if rec.DocType == docType {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ByOutcome(_ context.Context, outcome document.Outcome) ([]*document.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if rec.Outcome == outcome {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ByOrganization(_ context.Context, orgID int64) ([]*document.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.AuditRecord
	for _, rec := range r.records {
		if rec.OrganizationID == orgID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fakeTxManager runs fn directly, restoring the document snapshot on
// error so status mutation and audit write behave as one unit.
// Transactions are serialized so a restore never clobbers a commit that
// happened in between.
type fakeTxManager struct {
	mu      sync.Mutex
	docRepo *fakeDocRepo
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.docRepo.snapshot()
	if err := fn(ctx); err != nil {
		m.docRepo.restore(snap)
		return err
	}
	return nil
}

// fakeThresholdRepo serves a single active config per organization
type fakeThresholdRepo struct {
	mu      sync.Mutex
	nextID  int64
	configs map[int64][]*document.ThresholdConfig
}

func newFakeThresholdRepo() *fakeThresholdRepo {
	return &fakeThresholdRepo{configs: make(map[int64][]*document.ThresholdConfig)}
}

func (r *fakeThresholdRepo) Create(_ context.Context, cfg *document.ThresholdConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cfg.ID = r.nextID
	copied := *cfg
	r.configs[cfg.OrganizationID] = append(r.configs[cfg.OrganizationID], &copied)
	return nil
}

func (r *fakeThresholdRepo) GetActive(_ context.Context, orgID int64) (*document.ThresholdConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cfg := range r.configs[orgID] {
		if cfg.Active {
			copied := *cfg
			return &copied, nil
		}
	}
	return nil, document.ErrThresholdNotConfigured
}

func (r *fakeThresholdRepo) Activate(_ context.Context, orgID, configID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := false
	for _, cfg := range r.configs[orgID] {
		if cfg.ID == configID {
			found = true
			break
		}
	}
	if !found {
		return errors.New("config not found")
	}
	for _, cfg := range r.configs[orgID] {
		cfg.Active = cfg.ID == configID
	}
	return nil
}

func (r *fakeThresholdRepo) ListByOrganization(_ context.Context, orgID int64) ([]*document.ThresholdConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*document.ThresholdConfig
	for _, cfg := range r.configs[orgID] {
		copied := *cfg
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeThresholdRepo) activeCount(orgID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, cfg := range r.configs[orgID] {
		if cfg.Active {
			count++
		}
	}
	return count
}
