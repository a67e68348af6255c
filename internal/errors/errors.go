package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Field returns the message recorded for field, or "" when the field passed.
func (e *ValidationError) Field(field string) string {
	for _, d := range e.Details {
		if d.Field == field {
			return d.Message
		}
	}
	return ""
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// NetworkError covers every failed round trip to the storefront API: transport
// failures and non-2xx responses other than 404.
type NetworkError struct {
	Op         string
	StatusCode int
	Cause      error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(op string, statusCode int, cause error) *NetworkError {
	return &NetworkError{
		Op:         op,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

func IsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if stderrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

// SubscriptionError reports a push channel that errored or was closed by the
// server.
type SubscriptionError struct {
	OrderID string
	Cause   error
}

func (e *SubscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("status stream for order %s: %v", e.OrderID, e.Cause)
	}
	return fmt.Sprintf("status stream for order %s closed", e.OrderID)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Cause
}

func NewSubscriptionError(orderID string, cause error) *SubscriptionError {
	return &SubscriptionError{
		OrderID: orderID,
		Cause:   cause,
	}
}

func IsSubscriptionError(err error) (*SubscriptionError, bool) {
	var se *SubscriptionError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// DeadlockError is returned when a transaction kept deadlocking after every
// retry attempt.
type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}
