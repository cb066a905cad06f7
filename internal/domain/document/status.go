package document

// Status represents a document status in the approval lifecycle
type Status string

const (
	StatusInProgress      Status = "IN_PROGRESS"
	StatusValidated       Status = "VALIDATED"
	StatusPendingDirector Status = "PENDING_DIRECTOR"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
)

var validStatuses = map[Status]bool{
	StatusInProgress:      true,
	StatusValidated:       true,
	StatusPendingDirector: true,
	StatusApproved:        true,
	StatusRejected:        true,
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known document status
func (s Status) IsValid() bool {
	return validStatuses[s]
}
