package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
)

// LogNotifier is the default Notifier: it records the status change in
// the log. Rendering and message delivery are collaborator systems that
// plug in behind the same port.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new logging notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyStatusChanged logs the committed transition
func (n *LogNotifier) NotifyStatusChanged(_ context.Context, doc *document.Document, previous document.Status) error {
	n.logger.Info("document status notification",
		zap.String("doc_type", doc.Type.String()),
		zap.Int64("doc_id", doc.ID),
		zap.Int64("org_id", doc.OrganizationID),
		zap.String("previous", previous.String()),
		zap.String("status", doc.Status.String()),
	)
	return nil
}

// Verify interface compliance
var _ port.Notifier = (*LogNotifier)(nil)
