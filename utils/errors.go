package utils

import (
	"github.com/pkg/errors"
)

// NewConfigValidationFieldRequiredError is used when a required configuration field is missing or zero.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return errors.Errorf("%s: %q is required", path, field)
}

// NewConfigValidationPositiveError is used when a configuration value must be strictly positive.
func NewConfigValidationPositiveError(path, field string, value float64) error {
	return errors.Errorf("%s: %q must be greater than zero, got %v", path, field, value)
}

// NewOutOfRangeError is used when a value falls outside of an inclusive range.
func NewOutOfRangeError(field string, value, lo, hi float64) error {
	return errors.Errorf("%s must be within [%v, %v], got %v", field, lo, hi, value)
}

