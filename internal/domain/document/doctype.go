package document

// Type identifies a document type in the procurement chain
type Type string

const (
	TypeNeedSheet          Type = "NEED_SHEET"
	TypePurchaseRequest    Type = "PURCHASE_REQUEST"
	TypePurchaseOrder      Type = "PURCHASE_ORDER"
	TypeServiceAttestation Type = "SERVICE_ATTESTATION"
	TypeWithdrawalDecision Type = "WITHDRAWAL_DECISION"
	TypePaymentOrder       Type = "PAYMENT_ORDER"
	TypeBudget             Type = "BUDGET"
	TypeCreditLine         Type = "CREDIT_LINE"
)

var validTypes = map[Type]bool{
	TypeNeedSheet:          true,
	TypePurchaseRequest:    true,
	TypePurchaseOrder:      true,
	TypeServiceAttestation: true,
	TypeWithdrawalDecision: true,
	TypePaymentOrder:       true,
	TypeBudget:             true,
	TypeCreditLine:         true,
}

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the type is a known document type
func (t Type) IsValid() bool {
	return validTypes[t]
}
