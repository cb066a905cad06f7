package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ref identifies a document by type and id. IDs are unique per type.
type Ref struct {
	Type Type  `json:"type"`
	ID   int64 `json:"id"`
}

// Document is a single instance of any procurement document type.
// One row per instance; the type discriminates the fixed transition
// table that applies to it.
type Document struct {
	ID             int64
	Type           Type
	OrganizationID int64
	Status         Status
	Amount         decimal.Decimal
	Reference      string
	Description    string
	Supplier       string
	CreatedBy      string

	// Source points back to the document that generated this one via
	// chaining; nil for documents created directly.
	Source *Ref

	// ChainedTo points forward to the generated successor; set at most
	// once per document.
	ChainedTo *Ref

	// RejectionComment is non-empty if and only if Status is REJECTED.
	RejectionComment string

	// Version is the optimistic concurrency counter, incremented on
	// every status mutation.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref returns the document's own reference
func (d *Document) Ref() Ref {
	return Ref{Type: d.Type, ID: d.ID}
}

// IsChained returns true if a successor document was already generated
func (d *Document) IsChained() bool {
	return d.ChainedTo != nil
}
