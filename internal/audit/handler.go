package audit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caseflow_backend/internal/cases/domain"
	"caseflow_backend/platform/apperr"
	"caseflow_backend/platform/httpkit"
	"caseflow_backend/platform/validator"
)

// ListRequest binds the audit log query string.
type ListRequest struct {
	ActionType *string    `form:"actionType" validate:"omitempty,min=1,max=50"`
	EntityType *string    `form:"entityType" validate:"omitempty,min=1,max=50"`
	EntityID   *string    `form:"entityId" validate:"omitempty,min=1,max=100"`
	ActorID    *uuid.UUID `form:"actorId"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type EntryResponse struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actorId"`
	ActorName  string         `json:"actorName"`
	ActorRole  string         `json:"actorRole"`
	ActionType string         `json:"actionType"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Before     map[string]any `json:"before,omitempty"`
	After      map[string]any `json:"after,omitempty"`
	Changes    string         `json:"changes,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type ListResponse struct {
	Items    []EntryResponse `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// Handler exposes the audit log read API. The log itself has no write
// endpoints; entries only arrive through the Recorder.
type Handler struct {
	repo *Repository
	val  *validator.Validator
}

func NewHandler(repo *Repository, val *validator.Validator) *Handler {
	return &Handler{repo: repo, val: val}
}

// List returns audit entries, newest first.
// GET /api/v1/audit-log
func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", "")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !domain.Can(domain.ActionViewAudit, domain.Role(identity.Role())) {
		httpkit.HandleError(c, apperr.Unauthorized())
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	entries, total, err := h.repo.List(c.Request.Context(), ListParams{
		ActionType: req.ActionType,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		ActorID:    req.ActorID,
		From:       req.From,
		To:         req.To,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = EntryResponse{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			ActorName:  entry.ActorName,
			ActorRole:  entry.ActorRole,
			ActionType: entry.ActionType,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			Before:     entry.Before,
			After:      entry.After,
			Changes:    entry.Changes,
			Metadata:   entry.Metadata,
			CreatedAt:  entry.CreatedAt,
		}
	}

	httpkit.OK(c, ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}
