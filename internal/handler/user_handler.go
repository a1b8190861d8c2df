package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// UserHandler handles staff accounts and their class assignments.
type UserHandler struct {
	userService       *service.UserService
	assignmentService *service.AssignmentService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, assignmentService *service.AssignmentService) *UserHandler {
	return &UserHandler{userService: userService, assignmentService: assignmentService}
}

// ListUsers godoc
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// CreateUser godoc
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// UpdateUser godoc
// PUT /api/v1/users/:id
// A role change, deactivation or password reset ends the user's logins.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// DisableUser godoc
// DELETE /api/v1/users/:id
func (h *UserHandler) DisableUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.userService.Disable(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListAssignments godoc
// GET /api/v1/assignments?user_id=
func (h *UserHandler) ListAssignments(c *gin.Context) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	if userID == nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]any{
			"user_id": "user_id is a required field",
		})
		return
	}

	assignments, err := h.assignmentService.ListByUser(c.Request.Context(), *userID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// AddAssignment godoc
// POST /api/v1/assignments
func (h *UserHandler) AddAssignment(c *gin.Context) {
	var req model.AssignmentRequest
	if !bind(c, &req) {
		return
	}

	assignment, err := h.assignmentService.Add(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// RemoveAssignment godoc
// DELETE /api/v1/assignments
// The pair to remove is carried in the body.
func (h *UserHandler) RemoveAssignment(c *gin.Context) {
	var req model.AssignmentRequest
	if !bind(c, &req) {
		return
	}

	if err := h.assignmentService.Remove(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
