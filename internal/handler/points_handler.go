package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// PointsHandler handles ledger credits.
type PointsHandler struct {
	pointsService *service.PointsService
}

// NewPointsHandler creates a new PointsHandler.
func NewPointsHandler(pointsService *service.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// GrantByReason godoc
// POST /api/v1/points/grant
// Credits a student with the points of a catalog reason.
func (h *PointsHandler) GrantByReason(c *gin.Context) {
	var req model.GrantByReasonRequest
	if !bind(c, &req) {
		return
	}

	txn, err := h.pointsService.GrantByReason(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transaction": txn})
}

// GrantManual godoc
// POST /api/v1/points/manual
// Credits a student with free-text points. Admins only.
func (h *PointsHandler) GrantManual(c *gin.Context) {
	var req model.GrantManualRequest
	if !bind(c, &req) {
		return
	}

	txn, err := h.pointsService.GrantManual(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transaction": txn})
}
