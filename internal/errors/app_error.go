package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeDuplicateEntry  = "DUPLICATE_ENTRY"
	ErrCodeThirdPartyError = "THIRD_PARTY_ERROR"

	// Coupon evaluation rejections.
	ErrCodeCouponNotFound    = "COUPON_NOT_FOUND"
	ErrCodeCouponInactive    = "COUPON_INACTIVE"
	ErrCodeCouponExpired     = "COUPON_EXPIRED"
	ErrCodeCouponNotYetValid = "COUPON_NOT_YET_VALID"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeNoEligibleItems   = "NO_ELIGIBLE_ITEMS"

	// Checkout rejections.
	ErrCodeMissingAddress = "MISSING_ADDRESS"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func DuplicateEntryError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateEntry, message, http.StatusConflict)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func CouponNotFoundError(code string) *AppError {
	return NewAppError(ErrCodeCouponNotFound, fmt.Sprintf("Coupon '%s' does not exist", code), http.StatusNotFound)
}

func CouponInactiveError(code string) *AppError {
	return NewAppError(ErrCodeCouponInactive, fmt.Sprintf("Coupon '%s' is not active", code), http.StatusBadRequest)
}

func CouponExpiredError(code string) *AppError {
	return NewAppError(ErrCodeCouponExpired, fmt.Sprintf("Coupon '%s' has expired", code), http.StatusBadRequest)
}

func CouponNotYetValidError(code string) *AppError {
	return NewAppError(ErrCodeCouponNotYetValid, fmt.Sprintf("Coupon '%s' is not valid yet", code), http.StatusBadRequest)
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cart is empty", http.StatusBadRequest)
}

func NoEligibleItemsError(code string) *AppError {
	return NewAppError(ErrCodeNoEligibleItems, fmt.Sprintf("No items in the cart are eligible for coupon '%s'", code), http.StatusBadRequest)
}

func MissingAddressError(message string) *AppError {
	return NewAppError(ErrCodeMissingAddress, message, http.StatusBadRequest)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// IsAuthenticationRequired reports whether err should send the caller to the
// login flow instead of a generic failure screen.
func IsAuthenticationRequired(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
