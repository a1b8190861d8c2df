package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// GradeHandler handles grade management.
type GradeHandler struct {
	gradeService *service.GradeService
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(gradeService *service.GradeService) *GradeHandler {
	return &GradeHandler{gradeService: gradeService}
}

// ListGrades godoc
// GET /api/v1/grades
func (h *GradeHandler) ListGrades(c *gin.Context) {
	grades, err := h.gradeService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// CreateGrade godoc
// POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req model.GradeRequest
	if !bind(c, &req) {
		return
	}

	grade, err := h.gradeService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grade": grade})
}

// UpdateGrade godoc
// PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.GradeRequest
	if !bind(c, &req) {
		return
	}

	grade, err := h.gradeService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// DeleteGrade godoc
// DELETE /api/v1/grades/:id
// Refused while classes still reference the grade.
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.gradeService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
