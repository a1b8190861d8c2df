package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// ClassHandler handles class management (CRUD).
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/classes?grade_id=&gender=&q=
// Lists all classes without pagination.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	gradeID, ok := queryID(c, "grade_id")
	if !ok {
		return
	}
	filter := model.ClassFilter{GradeID: gradeID, Gender: model.Gender(c.Query("gender")), Q: c.Query("q")}

	classes, err := h.classService.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// CreateClass godoc
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.ClassRequest
	if !bind(c, &req) {
		return
	}

	class, err := h.classService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.ClassRequest
	if !bind(c, &req) {
		return
	}

	class, err := h.classService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// DeleteClass godoc
// DELETE /api/v1/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
