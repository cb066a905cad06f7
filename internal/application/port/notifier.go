package port

import (
	"context"

	"github.com/hbenali/procflow/internal/domain/document"
)

// Notifier delivers downstream side effects (rendering, messaging) after
// a committed approval-class transition. Execution is fire-and-forget:
// failures never roll back the transition.
type Notifier interface {
	NotifyStatusChanged(ctx context.Context, doc *document.Document, previous document.Status) error
}
