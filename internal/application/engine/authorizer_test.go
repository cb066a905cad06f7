package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

func TestAuthorizer_Check(t *testing.T) {
	auth := NewTransitionAuthorizer()
	doc := &document.Document{Type: document.TypePurchaseRequest, ID: 1, OrganizationID: 5}
	rule := workflow.Rule{
		DocType:    document.TypePurchaseRequest,
		From:       document.StatusInProgress,
		Transition: workflow.TransitionValidate,
		To:         document.StatusValidated,
		Roles:      []document.Role{document.RoleManager},
	}

	tests := []struct {
		name    string
		actor   document.Actor
		wantErr error
	}{
		{"allowed role same org", document.Actor{ID: "a", Role: document.RoleManager, OrganizationID: 5}, nil},
		{"wrong role", document.Actor{ID: "b", Role: document.RoleAgent, OrganizationID: 5}, document.ErrUnauthorized},
		{"other organization", document.Actor{ID: "c", Role: document.RoleManager, OrganizationID: 6}, document.ErrCrossTenantAccess},
		{"super admin same org", document.Actor{ID: "d", Role: document.RoleSuperAdmin, OrganizationID: 5}, document.ErrUnauthorized},
		{"super admin other org", document.Actor{ID: "e", Role: document.RoleSuperAdmin, OrganizationID: 6}, document.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.Check(tt.actor, rule, doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
