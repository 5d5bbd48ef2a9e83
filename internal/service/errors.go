package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when a franchise has no active GBP credential.
	ErrNotConnected = errors.New("franchise is not connected")

	// ErrInvalidLocationFormat is returned when a location identifier does not
	// match accounts/{accountId}/locations/{locationId}.
	ErrInvalidLocationFormat = errors.New("invalid location identifier format")

	// ErrNoSelectedLocation is returned when a connected franchise has not
	// picked a default listing yet.
	ErrNoSelectedLocation = errors.New("no location selected")

	// ErrUnknownLocation is returned when a selection names a listing the
	// connected account does not manage.
	ErrUnknownLocation = errors.New("location not among the account's listings")

	// ErrExchangeFailed is returned when the provider rejects the
	// authorization code.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrStateMismatch is returned when the callback state cannot be resolved
	// to a franchise.
	ErrStateMismatch = errors.New("oauth state could not be resolved")

	// ErrRefreshTransient is returned for retryable refresh failures; the
	// stored credential is left unchanged.
	ErrRefreshTransient = errors.New("transient token refresh failure")

	// ErrReauthorizationRequired is returned after a permanent refresh
	// failure; the credential has been deactivated and the franchise must
	// reconnect.
	ErrReauthorizationRequired = errors.New("reauthorization required")
)

// ValidationError names the missing or malformed input field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

func NewValidationError(field string) error {
	return &ValidationError{Field: field}
}
