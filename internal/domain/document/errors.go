package document

import "errors"

var (
	// ErrNotFound is returned when no document exists for the given type and id
	ErrNotFound = errors.New("document not found")

	// ErrCrossTenantAccess is returned when an actor touches a document of another organization
	ErrCrossTenantAccess = errors.New("cross-tenant access denied")

	// ErrInvalidTransition is returned when a transition is not legal from the current status
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized is returned when the actor's role does not permit the transition
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCommentRequired is returned when a rejection is attempted without a comment
	ErrCommentRequired = errors.New("rejection comment required")

	// ErrThresholdNotConfigured is returned when no active threshold config exists for the organization
	ErrThresholdNotConfigured = errors.New("threshold not configured")

	// ErrAlreadyChained is returned when a successor document was already generated for the source
	ErrAlreadyChained = errors.New("document already chained")

	// ErrConcurrentModification is returned when the document changed since it was loaded
	ErrConcurrentModification = errors.New("concurrent modification")
)
