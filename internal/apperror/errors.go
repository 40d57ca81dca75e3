// Package apperror defines the failure kinds the core operations can
// return. Handlers translate them to transport status codes with errors.Is;
// anything not listed here is treated as an internal storage failure.
package apperror

import "errors"

var (
	// ErrInvalidRange means the requested window is malformed or shorter
	// than a single slot.
	ErrInvalidRange = errors.New("invalid appointment time")

	// ErrInvalidInput means a claim arrived without a patient name or
	// phone number.
	ErrInvalidInput = errors.New("patient name and phone number are required")

	ErrNotFound = errors.New("appointment not found")

	// ErrAlreadyTaken is the conflict outcome for claimants that lost the
	// race or targeted a slot that was never open to them.
	ErrAlreadyTaken = errors.New("appointment is already taken")

	ErrCannotDeleteTaken = errors.New("cannot delete a taken appointment")
)
