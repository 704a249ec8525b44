package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Schema errors
	ErrSchema         = errors.New("input table schema invalid")
	ErrMissingColumns = fmt.Errorf("%w: missing required columns", ErrSchema)
	ErrBadRowValue    = fmt.Errorf("%w: non-integer key value", ErrSchema)

	// Configuration errors
	ErrInvalidCondition      = errors.New("invalid condition definition")
	ErrOverlappingConditions = fmt.Errorf("%w: ranges overlap", ErrInvalidCondition)
	ErrDuplicateCondition    = fmt.Errorf("%w: duplicate code", ErrInvalidCondition)

	// Computation errors
	ErrEmptyBucket = errors.New("bucket has no trials")
	ErrShape       = errors.New("matrix shape mismatch")
)

// NewMissingColumnsError lists the absent columns in a stable order
func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(columns, ", "))
}

// NewRowValueError reports a key column that could not be read as an integer
func NewRowValueError(row int, column, value string) error {
	return fmt.Errorf("%w: row %d column %s value %q", ErrBadRowValue, row, column, value)
}

// NewOverlapError names the two conditions whose ranges intersect
func NewOverlapError(a, b string) error {
	return fmt.Errorf("%w: %s and %s", ErrOverlappingConditions, a, b)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}

func IsConditionError(err error) bool {
	return errors.Is(err, ErrInvalidCondition)
}
