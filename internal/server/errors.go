package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/tigfin/tigfin/internal/auth/domain"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	financedomain "github.com/tigfin/tigfin/internal/finance/domain"
	"github.com/tigfin/tigfin/internal/observability/logger"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
	"go.uber.org/zap"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

var (
	ErrUnauthorized       = &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	ErrNotFound           = &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
	ErrTooManyRequests    = &apiError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
	ErrServiceUnavailable = &apiError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
)

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

// AbortWithError translates service errors into the API error envelope.
// Unrecognized errors surface as 500 without leaking internals.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	switch {
	case isValidationError(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": &apiError{
			Status: http.StatusBadRequest, Code: err.Error(), Message: err.Error(),
		}})
	case isNotFoundError(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": &apiError{
			Status: http.StatusNotFound, Code: err.Error(), Message: err.Error(),
		}})
	case errors.Is(err, authdomain.ErrInvalidCredentials), errors.Is(err, authdomain.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthorized})
	case errors.Is(err, authdomain.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": &apiError{
			Status: http.StatusConflict, Code: "email_taken", Message: "email is already registered",
		}})
	case errors.Is(err, expensedomain.ErrExpensePaid):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": &apiError{
			Status: http.StatusConflict, Code: "expense_paid", Message: "paid expenses cannot be modified",
		}})
	default:
		logger.FromContext(c.Request.Context()).Error("unhandled api error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &apiError{
			Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error",
		}})
	}
}

func isValidationError(err error) bool {
	validation := []error{
		authdomain.ErrInvalidEmail,
		authdomain.ErrInvalidPassword,
		clientdomain.ErrInvalidName,
		clientdomain.ErrInvalidStatus,
		taskdomain.ErrInvalidTitle,
		taskdomain.ErrInvalidStatus,
		taskdomain.ErrInvalidPriority,
		expensedomain.ErrInvalidAmount,
		expensedomain.ErrInvalidDate,
		expensedomain.ErrInvalidStatus,
		paymentdomain.ErrInvalidName,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidFrequency,
		paymentdomain.ErrInvalidDueDate,
		paymentdomain.ErrInvalidStatus,
		paymentdomain.ErrInvalidClient,
		financedomain.ErrInvalidPeriod,
	}
	for _, candidate := range validation {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	notFound := []error{
		clientdomain.ErrClientNotFound,
		taskdomain.ErrTaskNotFound,
		expensedomain.ErrExpenseNotFound,
		paymentdomain.ErrPaymentNotFound,
		financedomain.ErrReportNotFound,
	}
	for _, candidate := range notFound {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
