package engine

import (
	"context"
	"fmt"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

// GeneratorFunc constructs the successor document from an approved
// source. It must be a pure function of the source's fields.
type GeneratorFunc func(source *document.Document, actor document.Actor) *document.Document

// ChainGenerator creates the next document in the procurement chain
// when a predecessor reaches its chain-triggering status. Generation
// happens at most once per source document.
type ChainGenerator struct {
	docRepo    port.DocumentRepository
	generators map[document.Type]GeneratorFunc
}

// NewChainGenerator creates a generator pre-registered with the default
// procurement chain (need sheet through payment order).
func NewChainGenerator(docRepo port.DocumentRepository) *ChainGenerator {
	g := &ChainGenerator{
		docRepo:    docRepo,
		generators: make(map[document.Type]GeneratorFunc),
	}
	for source, successor := range workflow.ChainSuccessors {
		g.Register(source, defaultGenerator(successor))
	}
	return g
}

// Register binds a generator function to a source document type,
// replacing any previous binding.
func (g *ChainGenerator) Register(sourceType document.Type, fn GeneratorFunc) {
	g.generators[sourceType] = fn
}

// CanGenerate returns true if a generator is registered for the type
func (g *ChainGenerator) CanGenerate(sourceType document.Type) bool {
	_, ok := g.generators[sourceType]
	return ok
}

// Generate creates and persists the successor of the source document
// and records the forward link on the source. A second call for the
// same source fails with document.ErrAlreadyChained.
func (g *ChainGenerator) Generate(ctx context.Context, source *document.Document, actor document.Actor) (*document.Document, error) {
	if source.IsChained() {
		return nil, document.ErrAlreadyChained
	}

	fn, ok := g.generators[source.Type]
	if !ok {
		return nil, fmt.Errorf("no chain successor registered for %s", source.Type)
	}

	successor := fn(source, actor)
	if err := g.docRepo.Create(ctx, successor); err != nil {
		return nil, fmt.Errorf("create successor document: %w", err)
	}

	// The guarded update is what makes generation idempotent under
	// concurrent attempts.
	if err := g.docRepo.SetChainedTo(ctx, source.Ref(), successor.Ref()); err != nil {
		return nil, err
	}

	chained := successor.Ref()
	source.ChainedTo = &chained
	return successor, nil
}

// defaultGenerator copies the core procurement fields onto a successor
// of the given type, starting in IN_PROGRESS with a backlink to the source.
func defaultGenerator(successorType document.Type) GeneratorFunc {
	return func(source *document.Document, actor document.Actor) *document.Document {
		src := source.Ref()
		return &document.Document{
			Type:           successorType,
			OrganizationID: source.OrganizationID,
			Status:         document.StatusInProgress,
			Amount:         source.Amount,
			Reference:      source.Reference,
			Description:    source.Description,
			Supplier:       source.Supplier,
			CreatedBy:      actor.ID,
			Source:         &src,
		}
	}
}
