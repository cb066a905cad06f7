package workflow

import (
	"github.com/hbenali/procflow/internal/domain/document"
)

// DefaultRules builds the transition table for the eight procurement
// document types. Sequences are fixed per type; adding a type means
// adding a block here, the engine itself never changes.
func DefaultRules() *RuleSet {
	b := NewBuilder()

	// Need sheet stops at VALIDATED and spawns the purchase request.
	b.Configure(document.TypeNeedSheet).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleManager).Chains().
		Reject(document.RoleManager)

	b.Configure(document.TypePurchaseRequest).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleManager).
		Reject(document.RoleManager).
		From(document.StatusValidated).
		Permit(TransitionApprove, document.StatusApproved, document.RoleAccountant).Chains().
		Reject(document.RoleAccountant)

	b.Configure(document.TypePurchaseOrder).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleResponsible).
		Reject(document.RoleResponsible).
		From(document.StatusValidated).
		Permit(TransitionApprove, document.StatusApproved, document.RoleResponsible).Chains().
		Reject(document.RoleResponsible)

	// Service attestation stops at VALIDATED and spawns the payment order.
	b.Configure(document.TypeServiceAttestation).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleResponsible).Chains().
		Reject(document.RoleResponsible)

	// Withdrawal decisions and payment orders are amount-gated: at or
	// above the organization's threshold the approval reroutes through
	// the director stage.
	b.Configure(document.TypeWithdrawalDecision).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleResponsible).
		Reject(document.RoleResponsible).
		From(document.StatusValidated).
		PermitGated(TransitionApprove, document.StatusApproved, document.RoleResponsible).
		Reject(document.RoleResponsible).
		From(document.StatusPendingDirector).
		Permit(TransitionApprove, document.StatusApproved, document.RoleDirector).
		Reject(document.RoleDirector)

	b.Configure(document.TypePaymentOrder).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleAccountant).
		Reject(document.RoleAccountant).
		From(document.StatusValidated).
		PermitGated(TransitionApprove, document.StatusApproved, document.RoleResponsible).
		Reject(document.RoleResponsible).
		From(document.StatusPendingDirector).
		Permit(TransitionApprove, document.StatusApproved, document.RoleDirector).
		Reject(document.RoleDirector)

	b.Configure(document.TypeBudget).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleResponsible).
		Reject(document.RoleResponsible).
		From(document.StatusValidated).
		Permit(TransitionApprove, document.StatusApproved, document.RoleDirector).
		Reject(document.RoleDirector)

	b.Configure(document.TypeCreditLine).
		From(document.StatusInProgress).
		Permit(TransitionValidate, document.StatusValidated, document.RoleAccountant).
		Reject(document.RoleAccountant).
		From(document.StatusValidated).
		Permit(TransitionApprove, document.StatusApproved, document.RoleResponsible).
		Reject(document.RoleResponsible)

	return b.Build()
}

// ChainSuccessors maps each document type to the type its approval
// generates. Types absent from the map end their chain.
var ChainSuccessors = map[document.Type]document.Type{
	document.TypeNeedSheet:          document.TypePurchaseRequest,
	document.TypePurchaseRequest:    document.TypePurchaseOrder,
	document.TypePurchaseOrder:      document.TypeServiceAttestation,
	document.TypeServiceAttestation: document.TypePaymentOrder,
}
