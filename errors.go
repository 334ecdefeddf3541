package seismix

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a database or query configuration that can
// never succeed: missing required mesh subfolders, a component the database
// carries no fields for, or a source time function sampled incompatibly with
// the database. Non-retryable.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// GeometryError reports that no database element contains the transformed
// query point. It signals a mismatch between the query and the database's
// spatial coverage. Non-retryable.
type GeometryError struct {
	S, Z float64
	Err  error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: no element contains query point (s=%g, z=%g)", e.S, e.Z)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// UnsupportedOperationError reports a request the database kind cannot
// serve: force sources in forward mode, forward extraction from a
// non-displacement database, or reconvolution without a source time
// function. Non-retryable.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %s: %s", e.Op, e.Reason)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsGeometryError reports whether err is or wraps a GeometryError.
func IsGeometryError(err error) bool {
	var ge *GeometryError
	return errors.As(err, &ge)
}

// IsUnsupportedOperationError reports whether err is or wraps an
// UnsupportedOperationError.
func IsUnsupportedOperationError(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
