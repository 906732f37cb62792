package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
	emailquotadomain "github.com/staffsort/staffsort/internal/emailquota/domain"
	paymentdomain "github.com/staffsort/staffsort/internal/payment/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware maps domain errors recorded on the context to HTTP
// responses after the handler chain runs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, clientdomain.ErrSlugConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "slug already taken, retry",
		}
	case errors.Is(err, emailquotadomain.ErrEmailDisabled):
		return http.StatusConflict, errorPayload{
			Type:    "email_disabled",
			Message: "email sending is disabled for this client",
		}
	case errors.Is(err, emailquotadomain.ErrQuotaExceeded):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "quota_exceeded",
			Message: "monthly email quota exceeded",
		}
	case errors.Is(err, paymentdomain.ErrGatewayUnconfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "gateway_unconfigured",
			Message: "payment gateway is not configured",
		}
	case errors.Is(err, paymentdomain.ErrGatewayRequestFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "gateway_request_failed",
			Message: "payment provider request failed",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, clientdomain.ErrInvalidCompanyName),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, clientdomain.ErrInvalidStatus),
		errors.Is(err, clientdomain.ErrInvalidQuota),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidEmail),
		errors.Is(err, paymentdomain.ErrInvalidReference),
		errors.Is(err, paymentdomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}
