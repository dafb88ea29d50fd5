package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Data service & third-party errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("timeout")
	ErrAuthRejected       = errors.New("authentication rejected")
	ErrStorage            = errors.New("storage operation failed")
	ErrNotifier           = errors.New("notification failed")
)

// GenericAuthMessage is shown when the auth provider rejects a login without a reason.
const GenericAuthMessage = "An unexpected error occurred"

func NewTimeoutError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGatewayTimeout,
		err:        ErrTimeout,
		Details:    fmt.Sprintf("%s timed out", operation),
		Cause:      cause,
	}
}

// NewServiceError wraps a failed call to an external service.
func NewServiceError(service, operation string, cause error) *ApiErr {
	if errors.Is(cause, context.DeadlineExceeded) {
		return NewTimeoutError(service+" "+operation, cause)
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s: failed to %s", service, operation),
		Cause:      cause,
	}
}

// NewAuthRejected carries the provider's human readable message in Details.
func NewAuthRejected(message string, cause error) *ApiErr {
	if message == "" {
		message = GenericAuthMessage
	}
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrAuthRejected,
		Details:    message,
		Cause:      cause,
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	if errors.Is(cause, context.DeadlineExceeded) {
		return NewTimeoutError("storage "+operation, cause)
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

func NewNotifierError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotifier,
		Details:    fmt.Sprintf("Failed to deliver %s notification", channel),
		Cause:      cause,
	}
}

// UserMessage extracts the message a person should see for a failed call.
func UserMessage(err error) string {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) && errors.Is(err, ErrAuthRejected) && apiErr.Details != "" {
		return apiErr.Details
	}
	return GenericAuthMessage
}

func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrAuthRejected)
}
