package barneshut

import (
	"errors"
	"fmt"
)

// Configuration and input errors. Build returns them wrapped in a
// *ConfigError; match with errors.Is.
var (
	// ErrInvalidLimit indicates a non-positive leaf limit or a depth limit above MaxDepth.
	ErrInvalidLimit = errors.New("barneshut: invalid leaf limit")

	// ErrInvalidTheta indicates a negative or NaN opening angle.
	ErrInvalidTheta = errors.New("barneshut: opening angle must be non-negative")

	// ErrInvalidG indicates a non-positive or non-finite gravitational constant.
	ErrInvalidG = errors.New("barneshut: gravitational constant must be positive")

	// ErrInvalidMass indicates a body with a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("barneshut: body mass must be positive")

	// ErrNonFinite indicates a NaN or infinite coordinate.
	ErrNonFinite = errors.New("barneshut: non-finite coordinate")

	// ErrOutsideRegion indicates a body the root region does not contain.
	ErrOutsideRegion = errors.New("barneshut: body outside root region")

	// ErrDimensionMismatch indicates bodies and region of different dimension.
	ErrDimensionMismatch = errors.New("barneshut: dimension mismatch between bodies and region")

	// ErrInvalidDimension indicates a region dimension the tree cannot split.
	ErrInvalidDimension = errors.New("barneshut: unsupported dimension")

	// ErrUnknownRule indicates an unrecognised stop rule or multipole order name.
	ErrUnknownRule = errors.New("barneshut: unknown option")
)

// ConfigError wraps a validation failure with the offending field and, for
// per-body failures, the body's index in the input slice.
type ConfigError struct {
	Field string
	Index int
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s (body %d): %v", e.Field, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return &ConfigError{Field: field, Index: -1, Err: err}
}

func bodyError(field string, idx int, err error) error {
	return &ConfigError{Field: field, Index: idx, Err: err}
}
