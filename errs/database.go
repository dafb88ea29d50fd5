package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		if errors.Is(cause, context.DeadlineExceeded) {
			return NewTimeoutError(operation+" "+entity, cause)
		}

		// Check for common database errors and provide more specific messages
		errStr := cause.Error()
		switch {
		case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "UNIQUE constraint failed"):
			return &ApiErr{
				StatusCode: http.StatusConflict,
				err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "not found"):
			return &ApiErr{
				StatusCode: http.StatusNotFound,
				err:        fmt.Errorf("%s %w", entity, ErrNotFound),
				Details:    details,
				Cause:      cause,
			}
		case strings.Contains(errStr, "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
