package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/socialgraph/internal/httputil"
	"github.com/persistorai/socialgraph/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternalError    = "internal_error"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeValidationError  = "validation_error"
	ErrCodeStoreUnavailable = "store_unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	httputil.RespondError(c, status, code, message)
}

// validationErrors are the sentinels a service returns for bad input.
var validationErrors = []error{
	models.ErrMissingUsername,
	models.ErrInvalidUsername,
	models.ErrMissingFriendA,
	models.ErrMissingFriendB,
	models.ErrSelfFriendship,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// respondServiceError maps a service error onto its HTTP status. Anything
// unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, log *logrus.Logger, action string, err error) {
	switch {
	case errors.Is(err, models.ErrStoreRead):
		log.WithError(err).WithField("action", action).Error("store read failed")
		respondError(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "graph store unavailable")
	case errors.Is(err, models.ErrUserNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, models.ErrFriendshipNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "friendship not found")
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "already exists")
	case errors.Is(err, models.ErrInvalidMethod):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case isValidation(err):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).WithField("action", action).Error("request failed")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
