package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"deal-rater/internal/dealerrors"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
)

// CallerKey is the gin context key holding the authenticated user ID
const CallerKey = "userID"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, dealerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, dealerrors.ErrPostNotFound):
		return http.StatusNotFound, "post not found"
	case errors.Is(err, dealerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, dealerrors.ErrInvalidScore):
		return http.StatusBadRequest, "rating must be between 1 and 5"
	case errors.Is(err, dealerrors.ErrInvalidPost):
		return http.StatusBadRequest, "invalid post details"
	case errors.Is(err, dealerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	case errors.Is(err, dealerrors.ErrPendingPostExists):
		return http.StatusBadRequest, "pending post exists"
	case errors.Is(err, dealerrors.ErrAlreadyRated):
		return http.StatusBadRequest, "already rated this post"
	case errors.Is(err, dealerrors.ErrPostNotRatable):
		return http.StatusBadRequest, "post is not open for rating"
	case errors.Is(err, dealerrors.ErrConflict):
		return http.StatusBadRequest, "conflict"
	case errors.Is(err, dealerrors.ErrSelfRating):
		return http.StatusBadRequest, "cannot rate own post"
	case errors.Is(err, dealerrors.ErrForbidden):
		return http.StatusBadRequest, "forbidden"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error. Server side failures are logged as errors, the rest as warnings.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// CallerID returns the authenticated user ID set by the auth middleware
func CallerID(c *gin.Context) (string, error) {
	userID := c.GetString(CallerKey)
	if userID == "" {
		return "", fmt.Errorf("handler: %w - no caller identity", dealerrors.ErrUnauthorized)
	}
	return userID, nil
}

// PageParam parses the zero-based page query parameter
func PageParam(c *gin.Context) (int, error) {
	raw := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, fmt.Errorf("handler: %w - page must be a non-negative integer, got %q", dealerrors.ErrInvalidArgument, raw)
	}
	return page, nil
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
