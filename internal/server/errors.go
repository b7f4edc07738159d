package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// apiError is the server's error taxonomy: a status, a machine-readable
// code, and a user-facing message. Anything else escaping a handler is an
// internal error with details logged, not exposed.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func errValidation(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "validation_error", Message: message}
}

func errNotFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: "not_found", Message: message}
}

func errConflict(code string) *apiError {
	return &apiError{Status: http.StatusConflict, Code: code, Message: code}
}

// respondError writes an error response in the taxonomy's shape.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Code, "message": apiErr.Message})
		return
	}

	log.WithError(err).Error("unexpected handler error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal server error"})
}
