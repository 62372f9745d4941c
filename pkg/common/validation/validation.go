// Package validation provides common validation helpers for configuration
// parameters across the threadpool library.
//
// The helpers produce errors.ValidationError values so constructors and
// configuration setters report failures in a consistent shape.
package validation

import (
	"strconv"
	"time"

	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return tperrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateAtLeast validates that an integer value is >= min.
func ValidateAtLeast(module, field string, value, min int) error {
	if value < min {
		return tperrors.NewValidationError(module, field, value, "below minimum").
			WithHint("value must be at least " + strconv.Itoa(min))
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive (> 0).
func ValidatePositiveDuration(module, field string, value time.Duration) error {
	if value <= 0 {
		return tperrors.NewValidationError(module, field, value, "must be positive").
			WithHint("use a duration greater than 0")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return tperrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return tperrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
