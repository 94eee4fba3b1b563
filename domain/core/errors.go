package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Normalization errors
	ErrEmptyInput      = errors.New("no data rows after boilerplate strip")
	ErrParse           = errors.New("unparseable period label")
	ErrDuplicatePeriod = errors.New("duplicate observation period")

	// Fetch errors
	ErrReleaseNotFound  = errors.New("no release link found on landing page")
	ErrFileNotInRelease = errors.New("expected workbook missing from release archive")
	ErrBadStatus        = errors.New("unexpected HTTP status")

	// Archive errors
	ErrRunNotFound = errors.New("run not found")
)

// Error constructors with context
func NewParseError(row int, label string) error {
	return fmt.Errorf("%w: %q at row %d", ErrParse, label, row)
}

func NewDuplicatePeriodError(label string) error {
	return fmt.Errorf("%w: %s", ErrDuplicatePeriod, label)
}

func NewEmptyInputError(file, sheet string) error {
	return fmt.Errorf("%w: %s / %s", ErrEmptyInput, file, sheet)
}

// Error checking helpers
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

func IsNormalizationError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrDuplicatePeriod)
}

func IsFetchError(err error) bool {
	return errors.Is(err, ErrReleaseNotFound) ||
		errors.Is(err, ErrFileNotInRelease) ||
		errors.Is(err, ErrBadStatus)
}
