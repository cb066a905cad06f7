package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hbenali/procflow/internal/application/engine"
	"github.com/hbenali/procflow/internal/application/service"
	"github.com/hbenali/procflow/internal/domain/document"
	"github.com/hbenali/procflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine           engine.WorkflowEngine
	documentService  service.DocumentService
	auditService     service.AuditService
	thresholdService service.ThresholdService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	wf engine.WorkflowEngine,
	documentService service.DocumentService,
	auditService service.AuditService,
	thresholdService service.ThresholdService,
) *Handlers {
	return &Handlers{
		engine:           wf,
		documentService:  documentService,
		auditService:     auditService,
		thresholdService: thresholdService,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID               int64         `json:"id"`
	Type             string        `json:"type"`
	OrganizationID   int64         `json:"organization_id"`
	Status           string        `json:"status"`
	Amount           string        `json:"amount"`
	Reference        string        `json:"reference"`
	Description      string        `json:"description,omitempty"`
	Supplier         string        `json:"supplier,omitempty"`
	CreatedBy        string        `json:"created_by"`
	Source           *document.Ref `json:"source,omitempty"`
	ChainedTo        *document.Ref `json:"chained_to,omitempty"`
	RejectionComment string        `json:"rejection_comment,omitempty"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
}

func toDocumentResponse(doc *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:               doc.ID,
		Type:             doc.Type.String(),
		OrganizationID:   doc.OrganizationID,
		Status:           doc.Status.String(),
		Amount:           doc.Amount.String(),
		Reference:        doc.Reference,
		Description:      doc.Description,
		Supplier:         doc.Supplier,
		CreatedBy:        doc.CreatedBy,
		Source:           doc.Source,
		ChainedTo:        doc.ChainedTo,
		RejectionComment: doc.RejectionComment,
		CreatedAt:        doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        doc.UpdatedAt.Format(time.RFC3339),
	}
}

// AuditRecordResponse represents an audit record in API responses
type AuditRecordResponse struct {
	ID         string `json:"id"`
	DocType    string `json:"doc_type"`
	DocID      int64  `json:"doc_id"`
	Transition string `json:"transition"`
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	Outcome    string `json:"outcome"`
	Comment    string `json:"comment,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func toAuditResponses(records []*document.AuditRecord) []AuditRecordResponse {
	out := make([]AuditRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, AuditRecordResponse{
			ID:         rec.ID,
			DocType:    rec.DocType.String(),
			DocID:      rec.DocID,
			Transition: rec.Transition,
			ActorID:    rec.ActorID,
			ActorRole:  rec.ActorRole.String(),
			Outcome:    rec.Outcome.String(),
			Comment:    rec.Comment,
			Reason:     rec.Reason,
			Timestamp:  rec.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}

// CreateDocumentRequest is the payload for document creation
type CreateDocumentRequest struct {
	Type        string `json:"type" binding:"required"`
	Reference   string `json:"reference" binding:"required"`
	Description string `json:"description"`
	Supplier    string `json:"supplier"`
	Amount      string `json:"amount"`
}

// TransitionRequest is the payload for applying a transition
type TransitionRequest struct {
	Transition string `json:"transition" binding:"required"`
	Comment    string `json:"comment"`
}

// SetThresholdRequest is the payload for threshold configuration
type SetThresholdRequest struct {
	Threshold      string `json:"threshold" binding:"required"`
	LowerRole      string `json:"lower_role" binding:"required"`
	EscalationRole string `json:"escalation_role" binding:"required"`
}

// CreateDocument handles POST /api/v1/documents
func (h *Handlers) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), actorFrom(c), service.CreateDocumentInput{
		Type:        document.Type(strings.ToUpper(req.Type)),
		Reference:   req.Reference,
		Description: req.Description,
		Supplier:    req.Supplier,
		Amount:      req.Amount,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: toDocumentResponse(doc)})
}

// GetDocument handles GET /api/v1/documents/:type/:id
func (h *Handlers) GetDocument(c *gin.Context) {
	ref, ok := h.refFromParams(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), actorFrom(c), ref)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toDocumentResponse(doc)})
}

// ListDocuments handles GET /api/v1/documents/:type
func (h *Handlers) ListDocuments(c *gin.Context) {
	docType := document.Type(strings.ToUpper(c.Param("type")))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.documentService.List(c.Request.Context(), actorFrom(c), docType, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: out})
}

// ApplyTransition handles POST /api/v1/documents/:type/:id/transitions
func (h *Handlers) ApplyTransition(c *gin.Context) {
	ref, ok := h.refFromParams(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	transition, ok := workflow.ParseTransition(req.Transition)
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown transition " + req.Transition})
		return
	}

	result, err := h.engine.Apply(c.Request.Context(), ref, transition, actorFrom(c), req.Comment)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// PermittedTransitions handles GET /api/v1/documents/:type/:id/transitions
func (h *Handlers) PermittedTransitions(c *gin.Context) {
	ref, ok := h.refFromParams(c)
	if !ok {
		return
	}

	transitions, err := h.engine.PermittedTransitions(c.Request.Context(), ref, actorFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: transitions})
}

// AuditByDocument handles GET /api/v1/audit/documents/:type/:id
func (h *Handlers) AuditByDocument(c *gin.Context) {
	ref, ok := h.refFromParams(c)
	if !ok {
		return
	}

	records, err := h.auditService.ByDocument(c.Request.Context(), actorFrom(c), ref.Type, ref.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toAuditResponses(records)})
}

// AuditByActor handles GET /api/v1/audit/actors/:id
func (h *Handlers) AuditByActor(c *gin.Context) {
	records, err := h.auditService.ByActor(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toAuditResponses(records)})
}

// AuditByType handles GET /api/v1/audit/types/:type
func (h *Handlers) AuditByType(c *gin.Context) {
	docType := document.Type(strings.ToUpper(c.Param("type")))
	if !docType.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown document type " + c.Param("type")})
		return
	}

	records, err := h.auditService.ByType(c.Request.Context(), actorFrom(c), docType)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toAuditResponses(records)})
}

// AuditByOutcome handles GET /api/v1/audit/outcomes/:outcome
func (h *Handlers) AuditByOutcome(c *gin.Context) {
	outcome := document.Outcome(strings.ToUpper(c.Param("outcome")))
	records, err := h.auditService.ByOutcome(c.Request.Context(), actorFrom(c), outcome)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: toAuditResponses(records)})
}

// ExportAudit handles GET /api/v1/audit/export
func (h *Handlers) ExportAudit(c *gin.Context) {
	buf, err := h.auditService.ExportOrganization(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="audit_trail.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// SetThreshold handles POST /api/v1/thresholds
func (h *Handlers) SetThreshold(c *gin.Context) {
	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	cfg, err := h.thresholdService.Set(c.Request.Context(), actorFrom(c), service.SetThresholdInput{
		Threshold:      req.Threshold,
		LowerRole:      document.Role(strings.ToUpper(req.LowerRole)),
		EscalationRole: document.Role(strings.ToUpper(req.EscalationRole)),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: cfg})
}

// ActiveThreshold handles GET /api/v1/thresholds/active
func (h *Handlers) ActiveThreshold(c *gin.Context) {
	cfg, err := h.thresholdService.Active(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: cfg})
}

// ResolveThreshold handles GET /api/v1/thresholds/resolve
func (h *Handlers) ResolveThreshold(c *gin.Context) {
	amount := c.Query("amount")
	docType := document.Type(strings.ToUpper(c.Query("type")))
	if amount == "" || !docType.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "amount and type query parameters are required"})
		return
	}

	res, err := h.thresholdService.Resolve(c.Request.Context(), actorFrom(c), amount, docType)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: res})
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) refFromParams(c *gin.Context) (document.Ref, bool) {
	docType := document.Type(strings.ToUpper(c.Param("type")))
	if !docType.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown document type " + c.Param("type")})
		return document.Ref{}, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid document id"})
		return document.Ref{}, false
	}

	return document.Ref{Type: docType, ID: id}, true
}

// renderError maps domain errors to HTTP status codes
func (h *Handlers) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, document.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, document.ErrCrossTenantAccess),
		errors.Is(err, document.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, document.ErrInvalidTransition),
		errors.Is(err, document.ErrConcurrentModification),
		errors.Is(err, document.ErrAlreadyChained):
		status = http.StatusConflict
	case errors.Is(err, document.ErrCommentRequired),
		errors.Is(err, document.ErrThresholdNotConfigured):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
