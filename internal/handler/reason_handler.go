package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// ReasonHandler handles the point reason catalog.
type ReasonHandler struct {
	reasonService *service.ReasonService
}

// NewReasonHandler creates a new ReasonHandler.
func NewReasonHandler(reasonService *service.ReasonService) *ReasonHandler {
	return &ReasonHandler{reasonService: reasonService}
}

// ListReasons godoc
// GET /api/v1/reasons?q=&category=&active=
func (h *ReasonHandler) ListReasons(c *gin.Context) {
	filter := model.ReasonFilter{
		Q:        c.Query("q"),
		Category: model.ReasonCategory(c.Query("category")),
		Active:   queryBool(c, "active"),
	}

	reasons, err := h.reasonService.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reasons": reasons})
}

// UsableReasons godoc
// GET /api/v1/reasons/usable
// Lists the active reasons the caller's role may grant.
func (h *ReasonHandler) UsableReasons(c *gin.Context) {
	reasons, err := h.reasonService.Usable(c.Request.Context(), middleware.GetActor(c).Role)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reasons": reasons})
}

// CreateReason godoc
// POST /api/v1/reasons
func (h *ReasonHandler) CreateReason(c *gin.Context) {
	var req model.ReasonRequest
	if !bind(c, &req) {
		return
	}

	reason, err := h.reasonService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"reason": reason})
}

// UpdateReason godoc
// PUT /api/v1/reasons/:id
func (h *ReasonHandler) UpdateReason(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.ReasonRequest
	if !bind(c, &req) {
		return
	}

	reason, err := h.reasonService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reason": reason})
}

// DisableReason godoc
// DELETE /api/v1/reasons/:id
// Reasons are never removed, only disabled, so past ledger rows keep their label.
func (h *ReasonHandler) DisableReason(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reasonService.Disable(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
