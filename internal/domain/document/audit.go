package document

import "time"

// Outcome classifies a transition attempt
type Outcome string

const (
	OutcomeApplied Outcome = "APPLIED"
	OutcomeDenied  Outcome = "DENIED"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsValid returns true if the outcome is a known outcome
func (o Outcome) IsValid() bool {
	return o == OutcomeApplied || o == OutcomeDenied
}

// AuditRecord captures one transition attempt, successful or not.
// Records are immutable once written; there is no update or delete.
type AuditRecord struct {
	ID             string
	DocType        Type
	DocID          int64
	OrganizationID int64
	Transition     string
	ActorID        string
	ActorRole      Role
	Outcome        Outcome
	Comment        string

	// Reason holds the denial cause for DENIED outcomes, empty otherwise.
	Reason string

	Timestamp time.Time
}
