package engine

import (
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

// TransitionAuthorizer decides whether an actor may apply a transition
// to a document. Role requirements come from the rule; ownership is
// checked independently of role.
type TransitionAuthorizer struct{}

// NewTransitionAuthorizer creates a new authorizer
func NewTransitionAuthorizer() *TransitionAuthorizer {
	return &TransitionAuthorizer{}
}

// Check returns nil if the actor may apply the rule's transition to the
// document. Super admins read across tenants but never transition.
func (a *TransitionAuthorizer) Check(actor document.Actor, rule workflow.Rule, doc *document.Document) error {
	if actor.Role == document.RoleSuperAdmin {
		return document.ErrUnauthorized
	}
	if actor.OrganizationID != doc.OrganizationID {
		return document.ErrCrossTenantAccess
	}
	if !rule.Allows(actor.Role) {
		return document.ErrUnauthorized
	}
	return nil
}
