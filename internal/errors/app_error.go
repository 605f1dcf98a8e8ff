package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Reason is the closed set of user-facing failure categories. Provider
// specific codes are translated into one of these at the provider boundary.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonAlreadyInUse        Reason = "already-in-use"
	ReasonWeakCredential      Reason = "weak-credential"
	ReasonMalformedInput      Reason = "malformed-input"
	ReasonRateLimited         Reason = "rate-limited"
	ReasonNotFound            Reason = "not-found"
	ReasonWrongCredential     Reason = "wrong-credential"
	ReasonDisallowedOperation Reason = "disallowed-operation"
	ReasonCancelled           Reason = "cancelled"
	ReasonUnknown             Reason = "unknown"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Reason     Reason
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

func (e *AppError) WithReason(reason Reason) *AppError {
	e.Reason = reason

	return e
}

const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeAuthentication       = "AUTHENTICATION_ERROR"
	ErrCodeAccountCreation      = "ACCOUNT_CREATION_ERROR"
	ErrCodeAuthorization        = "AUTHORIZATION_ERROR"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeSubmission           = "SUBMISSION_ERROR"
	ErrCodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	ErrCodeCartEmpty            = "CART_EMPTY"
	ErrCodeTermsNotAccepted     = "TERMS_NOT_ACCEPTED"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeThirdPartyError      = "THIRD_PARTY_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func AuthenticationError(reason Reason, message string) *AppError {
	return NewAppError(ErrCodeAuthentication, message, http.StatusUnauthorized).WithReason(reason)
}

func AccountCreationError(reason Reason, message string) *AppError {
	return NewAppError(ErrCodeAccountCreation, message, http.StatusBadRequest).WithReason(reason)
}

func AuthorizationError(message string) *AppError {
	return NewAppError(ErrCodeAuthorization, message, http.StatusUnauthorized)
}

func InvalidCredentialsError(message string) *AppError {
	return NewAppError(ErrCodeInvalidCredentials, message, http.StatusUnauthorized)
}

func SubmissionError(message string) *AppError {
	return NewAppError(ErrCodeSubmission, message, http.StatusBadGateway)
}

func SubmissionInProgressError() *AppError {
	return NewAppError(ErrCodeSubmissionInProgress, "An order is already being placed", http.StatusConflict)
}

func CartEmptyError() *AppError {
	return NewAppError(ErrCodeCartEmpty, "Your cart is empty!", http.StatusConflict)
}

func TermsNotAcceptedError() *AppError {
	return NewAppError(ErrCodeTermsNotAccepted, "You must agree to the terms and conditions to proceed.", http.StatusUnprocessableEntity)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusBadGateway)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// FieldError is one failed field of a form schema.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds every failed field of a form, in schema order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}

	return strings.Join(msgs, "; ")
}

// Field returns the message recorded for field, if any.
func (v ValidationErrors) Field(field string) (string, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message, true
		}
	}

	return "", false
}

// FieldValidationError wraps per-field failures into a single VALIDATION_ERROR.
func FieldValidationError(fields ValidationErrors) *AppError {
	return ValidationError("Validation failed").WithError(fields)
}

// Fields extracts per-field failures from err, if it carries any.
func Fields(err error) (ValidationErrors, bool) {
	var fields ValidationErrors
	if errors.As(err, &fields) {
		return fields, true
	}

	return nil, false
}
