package apperrors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("registration is currently closed for this event")
	ErrCapacityExceeded     = errors.New("slots are full")
	ErrInvalidTicket        = errors.New("invalid ticket - registration not found")
)

// ValidationError names the field that failed so the client can fix it
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AlreadyScannedError carries the original scan timestamp so the scanner
// UI can tell "already entered" apart from "fake ticket"
type AlreadyScannedError struct {
	ScannedAt time.Time
}

func (e *AlreadyScannedError) Error() string {
	return "this ticket has already been scanned"
}

// AsAlreadyScanned extracts an AlreadyScannedError if err wraps one
func AsAlreadyScanned(err error) (*AlreadyScannedError, bool) {
	var ase *AlreadyScannedError
	if errors.As(err, &ase) {
		return ase, true
	}
	return nil, false
}
