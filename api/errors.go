// Package api exposes the HTTP surface: the gin API server and the
// chi ops endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "orion/internal/errors"
)

// respondError maps application error codes onto HTTP statuses and
// writes the uniform error envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeComputation:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, apperrors.InvalidInput(message))
}
