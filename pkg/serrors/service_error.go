package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError carries an HTTP status and stable code from the service layer
// to the controllers, which map it onto the API error envelope.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func NewServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func NotFound(code, message string) *ServiceError {
	return NewServiceError(http.StatusNotFound, code, message, nil)
}

func Conflict(code, message string, cause error) *ServiceError {
	return NewServiceError(http.StatusConflict, code, message, cause)
}

func Invalid(code, message string) *ServiceError {
	return NewServiceError(http.StatusUnprocessableEntity, code, message, nil)
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// AsServiceError extracts a ServiceError from an error chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
