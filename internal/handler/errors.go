package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const hideInternalKey = "hideInternalErrors"

// HideInternalErrors replaces the message of unexpected failures with a
// generic one. The cause still reaches the request logger.
func HideInternalErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(hideInternalKey, true)
		c.Next()
	}
}

// respondError writes {"message": ...} and records the error on the context
// for the request logger.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	message := err.Error()
	if status == http.StatusInternalServerError && c.GetBool(hideInternalKey) {
		message = "Server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}
