package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// StudentHandler handles student enrollment and the per-student ledger views.
type StudentHandler struct {
	studentService *service.StudentService
	pointsService  *service.PointsService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, pointsService *service.PointsService) *StudentHandler {
	return &StudentHandler{studentService: studentService, pointsService: pointsService}
}

// ListStudents godoc
// GET /api/v1/students?q=&class_id=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	classID, ok := queryID(c, "class_id")
	if !ok {
		return
	}

	students, err := h.studentService.List(c.Request.Context(), model.StudentFilter{Q: c.Query("q"), ClassID: classID})
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// GetStudent godoc
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.StudentRequest
	if !bind(c, &req) {
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.StudentRequest
	if !bind(c, &req) {
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
// Soft-deletes the student; the ledger is kept.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetBalance godoc
// GET /api/v1/students/:id/balance
func (h *StudentHandler) GetBalance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	balance, err := h.pointsService.Balance(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, balance)
}

// ListTransactions godoc
// GET /api/v1/students/:id/transactions
// Returns the most recent ledger entries, newest first.
func (h *StudentHandler) ListTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	txns, err := h.pointsService.History(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}
