package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erdsketch/internal/diagram"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// failGesture maps a session error to a status code. Guard rejections carry
// their reason as the message so the surface can show it directly.
func failGesture(c *gin.Context, err error, message string) {
	var rejection *diagram.RejectionError
	switch {
	case errors.As(err, &rejection):
		fail(c, http.StatusConflict, err, rejection.Reason)
	case errors.Is(err, diagram.ErrStaleEditor):
		fail(c, http.StatusConflict, err, message)
	case errors.Is(err, diagram.ErrTableNotFound),
		errors.Is(err, diagram.ErrAttributeNotFound),
		errors.Is(err, diagram.ErrRelationshipNotFound):
		fail(c, http.StatusNotFound, err, message)
	case errors.Is(err, diagram.ErrInvalidHandle),
		errors.Is(err, diagram.ErrInvalidConnection),
		errors.Is(err, diagram.ErrInvalidFieldType),
		errors.Is(err, diagram.ErrInvalidField),
		errors.Is(err, diagram.ErrInvalidKind):
		fail(c, http.StatusBadRequest, err, message)
	default:
		fail(c, http.StatusInternalServerError, err, message)
	}
}
