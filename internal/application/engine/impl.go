package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hbenali/procflow/internal/application/port"
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

// engineImpl is the concrete implementation of WorkflowEngine
type engineImpl struct {
	docRepo    port.DocumentRepository
	auditRepo  port.AuditRepository
	txManager  port.TransactionManager
	rules      *workflow.RuleSet
	authorizer *TransitionAuthorizer
	threshold  *ThresholdPolicy
	chain      *ChainGenerator
	notifier   port.Notifier
	logger     *zap.Logger
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithNotifier sets the downstream notifier fired after approval-class
// transitions.
func WithNotifier(n port.Notifier) EngineOption {
	return func(e *engineImpl) {
		e.notifier = n
	}
}

// WithRules replaces the default transition table
func WithRules(rules *workflow.RuleSet) EngineOption {
	return func(e *engineImpl) {
		e.rules = rules
	}
}

// NewEngine creates a new workflow engine over the default transition table
func NewEngine(
	docRepo port.DocumentRepository,
	auditRepo port.AuditRepository,
	txManager port.TransactionManager,
	threshold *ThresholdPolicy,
	chain *ChainGenerator,
	logger *zap.Logger,
	opts ...EngineOption,
) WorkflowEngine {
	e := &engineImpl{
		docRepo:    docRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		rules:      workflow.DefaultRules(),
		authorizer: NewTransitionAuthorizer(),
		threshold:  threshold,
		chain:      chain,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Apply validates, authorizes and executes one transition.
func (e *engineImpl) Apply(ctx context.Context, ref document.Ref, transition workflow.Transition, actor document.Actor, comment string) (*Result, error) {
	doc, err := e.docRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Tenant scope first. Super admins pass this check but are refused
	// by the authorizer below: they read everywhere, transition nowhere.
	if doc.OrganizationID != actor.OrganizationID && !actor.CanReadAcrossTenants() {
		return nil, e.deny(ctx, doc, transition, actor, comment, document.ErrCrossTenantAccess)
	}

	rule, ok := e.rules.Find(doc.Type, doc.Status, transition)
	if !ok {
		return nil, e.deny(ctx, doc, transition, actor, comment, document.ErrInvalidTransition)
	}

	if rule.Rejection && strings.TrimSpace(comment) == "" {
		return nil, e.deny(ctx, doc, transition, actor, comment, document.ErrCommentRequired)
	}

	if err := e.authorizer.Check(actor, rule, doc); err != nil {
		return nil, e.deny(ctx, doc, transition, actor, comment, err)
	}

	target := rule.To
	escalated := false
	if rule.ThresholdGated {
		res, err := e.threshold.ResolveRequiredStage(ctx, doc.OrganizationID, doc.Amount, doc.Type)
		if err != nil {
			return nil, e.deny(ctx, doc, transition, actor, comment, err)
		}
		if res.RequiresEscalation {
			target = document.StatusPendingDirector
			escalated = true
		}
	}

	rejectionComment := ""
	if rule.Rejection {
		rejectionComment = comment
	}

	// Status mutation, chain generation and the audit row commit as one
	// unit; a failed audit write rolls the transition back.
	var generated *document.Ref
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.docRepo.UpdateStatus(txCtx, ref, target, rejectionComment, doc.Version); err != nil {
			return err
		}

		if rule.ChainTrigger && target == rule.To {
			successor, err := e.chain.Generate(txCtx, doc, actor)
			if err != nil {
				return err
			}
			succRef := successor.Ref()
			generated = &succRef
		}

		return e.auditRepo.Append(txCtx, e.newRecord(doc, transition, actor, comment, document.OutcomeApplied, ""))
	})
	if err != nil {
		return nil, err
	}

	previous := doc.Status
	doc.Status = target

	e.logger.Info("transition applied",
		zap.String("doc_type", doc.Type.String()),
		zap.Int64("doc_id", doc.ID),
		zap.String("transition", transition.String()),
		zap.String("from", previous.String()),
		zap.String("to", target.String()),
		zap.String("actor", actor.ID),
		zap.Bool("escalated", escalated),
	)

	if e.notifier != nil && (target == document.StatusApproved || rule.ChainTrigger) {
		go e.notify(doc, previous)
	}

	return &Result{NewStatus: target, Escalated: escalated, Generated: generated}, nil
}

// PermittedTransitions returns the transitions defined from the
// document's current status.
func (e *engineImpl) PermittedTransitions(ctx context.Context, ref document.Ref, actor document.Actor) ([]workflow.Transition, error) {
	doc, err := e.docRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if doc.OrganizationID != actor.OrganizationID && !actor.CanReadAcrossTenants() {
		return nil, document.ErrCrossTenantAccess
	}
	return e.rules.PermittedTransitions(doc.Type, doc.Status), nil
}

// deny records the failed attempt and returns its cause. The denial
// record is written outside any transaction: there is no state to roll
// back, and it must survive the error return.
func (e *engineImpl) deny(ctx context.Context, doc *document.Document, transition workflow.Transition, actor document.Actor, comment string, cause error) error {
	rec := e.newRecord(doc, transition, actor, comment, document.OutcomeDenied, cause.Error())
	if err := e.auditRepo.Append(ctx, rec); err != nil {
		e.logger.Error("failed to record denied attempt",
			zap.String("doc_type", doc.Type.String()),
			zap.Int64("doc_id", doc.ID),
			zap.Error(err),
		)
	}

	e.logger.Warn("transition denied",
		zap.String("doc_type", doc.Type.String()),
		zap.Int64("doc_id", doc.ID),
		zap.String("transition", transition.String()),
		zap.String("actor", actor.ID),
		zap.String("reason", cause.Error()),
	)
	return cause
}

func (e *engineImpl) newRecord(doc *document.Document, transition workflow.Transition, actor document.Actor, comment string, outcome document.Outcome, reason string) *document.AuditRecord {
	return &document.AuditRecord{
		ID:             uuid.NewString(),
		DocType:        doc.Type,
		DocID:          doc.ID,
		OrganizationID: doc.OrganizationID,
		Transition:     transition.String(),
		ActorID:        actor.ID,
		ActorRole:      actor.Role,
		Outcome:        outcome,
		Comment:        comment,
		Reason:         reason,
		Timestamp:      time.Now().UTC(),
	}
}

func (e *engineImpl) notify(doc *document.Document, previous document.Status) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.notifier.NotifyStatusChanged(ctx, doc, previous); err != nil {
		e.logger.Error("notification failed",
			zap.String("doc_type", doc.Type.String()),
			zap.Int64("doc_id", doc.ID),
			zap.Error(err),
		)
	}
}
