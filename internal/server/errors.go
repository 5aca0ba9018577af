package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/roamclearlabs/roamclear/internal/billing/domain"
	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	querydomain "github.com/roamclearlabs/roamclear/internal/query/domain"
	roamingdomain "github.com/roamclearlabs/roamclear/internal/roaming/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AbortWithError maps domain sentinels onto HTTP statuses and stable error
// codes. The message keeps the offending keys from the wrapped error.
func AbortWithError(c *gin.Context, err error) {
	status, code := classify(err)
	c.AbortWithStatusJSON(status, gin.H{"error": apiError{Code: code, Message: err.Error()}})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, cspdomain.ErrCSPExists) || errors.Is(err, simdomain.ErrSimExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, cspdomain.ErrCSPNotFound) ||
		errors.Is(err, simdomain.ErrSimNotFound) ||
		errors.Is(err, querydomain.ErrAssetNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, simdomain.ErrHomeOperatorNotFound) ||
		errors.Is(err, simdomain.ErrRoamingPartnerNotFound):
		return http.StatusUnprocessableEntity, "REFERENCE_NOT_FOUND"
	case errors.Is(err, cspdomain.ErrCSPInUse):
		return http.StatusConflict, "REFERENTIAL_CONFLICT"
	case errors.Is(err, simdomain.ErrFraudulentSim):
		return http.StatusForbidden, "FRAUD"
	case errors.Is(err, billingdomain.ErrOverageDenied):
		return http.StatusForbidden, "OVERAGE_DENIED"
	case errors.Is(err, billingdomain.ErrNoOpenCall):
		return http.StatusConflict, "NO_OPEN_CALL"
	case errors.Is(err, billingdomain.ErrCallNotFound) ||
		errors.Is(err, billingdomain.ErrCallNotClosed):
		return http.StatusUnprocessableEntity, "INVALID_CALL"
	case errors.Is(err, roamingdomain.ErrNoOperatorFound):
		return http.StatusNotFound, "NO_OPERATOR_FOUND"
	case errors.Is(err, roamingdomain.ErrOperatorMismatch):
		return http.StatusConflict, "OPERATOR_MISMATCH"
	case errors.Is(err, cspdomain.ErrInvalidRate) ||
		errors.Is(err, cspdomain.ErrMissingField) ||
		errors.Is(err, simdomain.ErrInvalidDecimal) ||
		errors.Is(err, simdomain.ErrMissingField):
		return http.StatusBadRequest, "VALIDATION"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func newValidationError(field, reason string) error {
	return &validationError{field: field, reason: reason}
}

type validationError struct {
	field  string
	reason string
}

func (e *validationError) Error() string { return e.field + ": " + e.reason }

func (e *validationError) Is(target error) bool {
	return target == simdomain.ErrMissingField
}
