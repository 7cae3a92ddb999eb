package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	assignmentdomain "github.com/moonstead/moonstead/internal/assignment/domain"
	journaldomain "github.com/moonstead/moonstead/internal/journal/domain"
	kiddomain "github.com/moonstead/moonstead/internal/kid/domain"
	ledgerdomain "github.com/moonstead/moonstead/internal/ledger/domain"
	purchasedomain "github.com/moonstead/moonstead/internal/purchase/domain"
	rewarddomain "github.com/moonstead/moonstead/internal/reward/domain"
	"gorm.io/gorm"
)

// The API contract for failures is {"success":false,"error":"..."} with the
// status carrying the class: 400 validation, 404 missing, 429 throttled,
// 500 everything else.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

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

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "Something went wrong"

	case errors.Is(err, kiddomain.ErrInsufficientMoons):
		return http.StatusBadRequest, "Not enough moons"
	case errors.Is(err, purchasedomain.ErrAlreadyOwned):
		return http.StatusBadRequest, "Item already owned"
	case errors.Is(err, purchasedomain.ErrInvalidTier):
		return http.StatusBadRequest, "Invalid tier upgrade"
	case errors.Is(err, ledgerdomain.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be between 1 and 100"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Too many bonus awards, slow down"
	case isValidationError(err):
		return http.StatusBadRequest, "Invalid request"

	case errors.Is(err, kiddomain.ErrNotFound):
		return http.StatusNotFound, "Kid not found"
	case errors.Is(err, purchasedomain.ErrItemNotFound):
		return http.StatusNotFound, "Item not found"
	case errors.Is(err, assignmentdomain.ErrNotFound):
		return http.StatusNotFound, "Assignment not found"
	case errors.Is(err, rewarddomain.ErrNotFound):
		return http.StatusNotFound, "Reward not found"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"

	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, kiddomain.ErrInvalidID),
		errors.Is(err, kiddomain.ErrInvalidName),
		errors.Is(err, ledgerdomain.ErrInvalidKid),
		errors.Is(err, ledgerdomain.ErrInvalidSource),
		errors.Is(err, ledgerdomain.ErrInvalidSourceRef),
		errors.Is(err, assignmentdomain.ErrInvalidID),
		errors.Is(err, assignmentdomain.ErrInvalidTitle),
		errors.Is(err, assignmentdomain.ErrInvalidValue),
		errors.Is(err, journaldomain.ErrInvalidBody),
		errors.Is(err, rewarddomain.ErrInvalidID),
		errors.Is(err, rewarddomain.ErrInvalidTitle),
		errors.Is(err, rewarddomain.ErrInvalidCost),
		errors.Is(err, rewarddomain.ErrInactive):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the request logger's error_type/error_code fields
// without leaking internals into the response.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusTooManyRequests:
		return "rate_limited", err.Error()
	case status >= http.StatusInternalServerError:
		return "internal", "internal_error"
	case status == http.StatusNotFound:
		return "not_found", err.Error()
	default:
		return "validation", err.Error()
	}
}
