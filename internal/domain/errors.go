package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectX is returned when X is missing or not one of the permitted values.
	ErrSelectX = errors.New("select X")
	// ErrYOutOfRange is returned when Y is not a finite number inside the open interval.
	ErrYOutOfRange = errors.New("Y out of range")
	// ErrSelectR is returned when R is missing or not one of the radius choices.
	ErrSelectR = errors.New("select R")

	// ErrMalformedResponse is returned when the calculation service answers with
	// a body that lacks the expected fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSubmitInFlight is returned when a submission is attempted while another
	// one is still outstanding.
	ErrSubmitInFlight = errors.New("a request is already in progress")

	// ErrNotFound is returned by storage backends for absent keys.
	ErrNotFound = errors.New("not found")
	// ErrQuotaExceeded is returned when a storage backend refuses a write for size reasons.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// ValidationError carries the user-facing message for a rejected form.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError describes a failed call to the calculation service.
// Status is zero when no HTTP response was received.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("HTTP error! Status: %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
