package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
	"github.com/khedma/sunday-school-backend/internal/validator"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindValidation, service.KindBusinessRule:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// failWith writes err as an error envelope. Unclassified errors are attached
// to the context for the request logger and reported as INTERNAL_ERROR.
func failWith(c *gin.Context, err error) {
	var ib *service.InsufficientBalanceError
	if errors.As(err, &ib) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInsufficientBalance, map[string]any{
			"balance":  ib.Balance,
			"required": ib.Required,
		})
		return
	}

	status := statusFor(service.KindOf(err))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		response.Fail(c, status, response.ErrInternal)
		return
	}
	response.Fail(c, status, service.CodeOf(err))
}

// bind decodes and validates the JSON body, writing a 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter. A malformed value is a
// 400; an absent one yields nil.
func queryID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	return &id, true
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}
