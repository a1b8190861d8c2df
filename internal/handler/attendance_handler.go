package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// AttendanceHandler handles the daily roster and check-ins.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// Today godoc
// GET /api/v1/attendance/today?class_id=
// Returns the class roster with today's check-ins.
func (h *AttendanceHandler) Today(c *gin.Context) {
	classID, ok := queryID(c, "class_id")
	if !ok {
		return
	}
	if classID == nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]any{
			"class_id": "class_id is a required field",
		})
		return
	}

	roster, err := h.attendanceService.TodayRoster(c.Request.Context(), middleware.GetActor(c), *classID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, roster)
}

// Mark godoc
// POST /api/v1/attendance/mark
// Checks a student in to today's session.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.attendanceService.MarkAttendance(c.Request.Context(), middleware.GetActor(c), req.StudentID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// SetStatus godoc
// PUT /api/v1/attendance/today/status
// Opens, closes or cancels today's session.
func (h *AttendanceHandler) SetStatus(c *gin.Context) {
	var req model.SessionStatusRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.attendanceService.SetTodaySessionStatus(c.Request.Context(), middleware.GetActor(c), req.Status)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
