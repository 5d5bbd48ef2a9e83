package service

import (
	"fmt"
	"regexp"
)

// Composite identifiers look like accounts/{accountId}/locations/{locationId}.
var locationNameRe = regexp.MustCompile(`^accounts/[A-Za-z0-9_-]+/locations/([A-Za-z0-9_-]+)$`)

const gbpPostComposerURL = "https://business.google.com/posts/l/%s"

// ValidateLocationName checks the composite identifier shape.
func ValidateLocationName(name string) error {
	if !locationNameRe.MatchString(name) {
		return ErrInvalidLocationFormat
	}
	return nil
}

// ExtractLocationID returns the trailing location id of a composite identifier.
func ExtractLocationID(name string) (string, error) {
	m := locationNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", ErrInvalidLocationFormat
	}
	return m[1], nil
}

// BuildPostURL returns the deep link into the provider's post composer for a
// location. Pure function, no I/O.
func BuildPostURL(locationID string) string {
	return fmt.Sprintf(gbpPostComposerURL, locationID)
}
