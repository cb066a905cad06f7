package engine

import (
	"context"

	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

// Result is the outcome of a successfully applied transition
type Result struct {
	NewStatus document.Status `json:"new_status"`

	// Escalated is true when a threshold-gated approval was rerouted
	// through the director stage instead of reaching its target.
	Escalated bool `json:"escalated"`

	// Generated references the chained successor document, if the
	// transition triggered chain generation.
	Generated *document.Ref `json:"generated,omitempty"`
}

// WorkflowEngine applies transitions to procurement documents
type WorkflowEngine interface {
	// Apply validates, authorizes and executes one transition. Every
	// attempt, applied or denied, leaves an audit record.
	Apply(ctx context.Context, ref document.Ref, transition workflow.Transition, actor document.Actor, comment string) (*Result, error)

	// PermittedTransitions returns the transitions defined from the
	// document's current status.
	PermittedTransitions(ctx context.Context, ref document.Ref, actor document.Actor) ([]workflow.Transition, error)
}
