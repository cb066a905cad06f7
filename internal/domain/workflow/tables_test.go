package workflow

import (
	"testing"

	"github.com/hbenali/procflow/internal/domain/document"
)

var allTypes = []document.Type{
	document.TypeNeedSheet,
	document.TypePurchaseRequest,
	document.TypePurchaseOrder,
	document.TypeServiceAttestation,
	document.TypeWithdrawalDecision,
	document.TypePaymentOrder,
	document.TypeBudget,
	document.TypeCreditLine,
}

var allStatuses = []document.Status{
	document.StatusInProgress,
	document.StatusValidated,
	document.StatusPendingDirector,
	document.StatusApproved,
	document.StatusRejected,
}

func TestDefaultRules_EveryTypeStartsInProgress(t *testing.T) {
	rules := DefaultRules()
	for _, docType := range allTypes {
		if len(rules.PermittedTransitions(docType, document.StatusInProgress)) == 0 {
			t.Errorf("%s has no transitions out of IN_PROGRESS", docType)
		}
	}
}

func TestDefaultRules_RejectionAlwaysAvailable(t *testing.T) {
	rules := DefaultRules()
	for _, docType := range allTypes {
		for _, status := range allStatuses {
			out := rules.PermittedTransitions(docType, status)
			if len(out) == 0 {
				continue
			}
			rule, ok := rules.Find(docType, status, TransitionReject)
			if !ok {
				t.Errorf("%s in %s permits transitions but cannot reject", docType, status)
				continue
			}
			if !rule.Rejection {
				t.Errorf("%s %s reject rule lacks the rejection flag", docType, status)
			}
			if rule.To != document.StatusRejected {
				t.Errorf("%s %s reject targets %s", docType, status, rule.To)
			}
		}
	}
}

func TestDefaultRules_TerminalStatuses(t *testing.T) {
	rules := DefaultRules()
	for _, docType := range allTypes {
		if out := rules.PermittedTransitions(docType, document.StatusRejected); len(out) != 0 {
			t.Errorf("%s has transitions out of REJECTED: %v", docType, out)
		}
		if out := rules.PermittedTransitions(docType, document.StatusApproved); len(out) != 0 {
			t.Errorf("%s has transitions out of APPROVED: %v", docType, out)
		}
	}
}

func TestDefaultRules_ChainTriggersMatchSuccessorMap(t *testing.T) {
	rules := DefaultRules()
	triggers := make(map[document.Type]int)
	for _, docType := range allTypes {
		for _, status := range allStatuses {
			for _, tr := range rules.PermittedTransitions(docType, status) {
				rule, _ := rules.Find(docType, status, tr)
				if rule.ChainTrigger {
					triggers[docType]++
				}
			}
		}
	}

	for docType := range ChainSuccessors {
		if triggers[docType] != 1 {
			t.Errorf("%s chains to %s but has %d chain triggers", docType, ChainSuccessors[docType], triggers[docType])
		}
	}
	for docType, n := range triggers {
		if _, ok := ChainSuccessors[docType]; !ok {
			t.Errorf("%s has %d chain triggers but no successor", docType, n)
		}
	}
}

func TestDefaultRules_GatedApprovals(t *testing.T) {
	rules := DefaultRules()
	gated := map[document.Type]bool{
		document.TypeWithdrawalDecision: true,
		document.TypePaymentOrder:       true,
	}

	for _, docType := range allTypes {
		for _, status := range allStatuses {
			for _, tr := range rules.PermittedTransitions(docType, status) {
				rule, _ := rules.Find(docType, status, tr)
				if !rule.ThresholdGated {
					continue
				}
				if !gated[docType] {
					t.Errorf("%s has an unexpected gated rule at %s %s", docType, status, tr)
				}
				if status != document.StatusValidated || tr != TransitionApprove {
					t.Errorf("gated rule on %s must be the VALIDATED approve, got %s %s", docType, status, tr)
				}
			}
		}
	}

	// Gated types also carry the director stage for rerouted approvals.
	for docType := range gated {
		rule, ok := rules.Find(docType, document.StatusPendingDirector, TransitionApprove)
		if !ok {
			t.Errorf("%s has no approve out of PENDING_DIRECTOR", docType)
			continue
		}
		if rule.To != document.StatusApproved {
			t.Errorf("%s director approve targets %s", docType, rule.To)
		}
		if !rule.Allows(document.RoleDirector) {
			t.Errorf("%s director stage must allow the director", docType)
		}
		if rule.Allows(document.RoleResponsible) || rule.Allows(document.RoleAccountant) {
			t.Errorf("%s director stage must not allow lower roles", docType)
		}
	}
}

func TestDefaultRules_ChainOrder(t *testing.T) {
	want := map[document.Type]document.Type{
		document.TypeNeedSheet:          document.TypePurchaseRequest,
		document.TypePurchaseRequest:    document.TypePurchaseOrder,
		document.TypePurchaseOrder:      document.TypeServiceAttestation,
		document.TypeServiceAttestation: document.TypePaymentOrder,
	}
	if len(ChainSuccessors) != len(want) {
		t.Fatalf("chain has %d links, want %d", len(ChainSuccessors), len(want))
	}
	for src, succ := range want {
		if ChainSuccessors[src] != succ {
			t.Errorf("ChainSuccessors[%s] = %s, want %s", src, ChainSuccessors[src], succ)
		}
	}
}
