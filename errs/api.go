package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrCORSBlocked  = errors.New("request blocked by CORS policy")
)

// Request & Input-Validation Errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidJSON          = errors.New("invalid JSON")
)

type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: fmt.Errorf("%w: %s", ErrBadRequest, message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: fmt.Errorf("%w: %s", ErrUnauthorized, message)}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
