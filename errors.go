package filesort

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrInvalidArgument is matched by every validation failure: missing paths,
	// a buffer size out of range or an unknown comparison mode.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIO is matched by every read, write or delete failure while sorting.
	ErrIO = errors.New("i/o failure")
)

// ConfigError represents an error in configuration parameters
type ConfigError struct {
	// Field is the name of the configuration field that's invalid
	Field string
	// Value is the invalid value provided
	Value interface{}
	// Reason explains why the value is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %s", e.Field, e.Value, e.Reason)
}

// Is reports ConfigError as an ErrInvalidArgument.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewConfigError creates a ConfigError
func NewConfigError(field string, value interface{}, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// DiskError represents a filesystem failure during one step of a sort.
type DiskError struct {
	// Op names the step that failed, such as "write chunk" or "open input"
	Op string
	// Path is the file or directory involved, if any
	Path string
	// Err is the underlying error
	Err error
}

func (e *DiskError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk error during %s on %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("disk error during %s: %v", e.Op, e.Err)
}

func (e *DiskError) Unwrap() error {
	return e.Err
}

// Is reports DiskError as an ErrIO.
func (e *DiskError) Is(target error) bool {
	return target == ErrIO
}

// NewDiskError creates a DiskError wrapping the underlying I/O error.
// A nil err yields nil so call sites can wrap unconditionally.
func NewDiskError(err error, operation, path string) error {
	if err == nil {
		return nil
	}
	var de *DiskError
	if errors.As(err, &de) {
		return err
	}
	return &DiskError{Op: operation, Path: path, Err: err}
}

// combineErrors returns err with the cleanup failure appended.
// When only one of them is set it is returned unchanged.
func combineErrors(err, cleanup error) error {
	if cleanup == nil {
		return err
	}
	if err == nil {
		return cleanup
	}
	return multierror.Append(err, cleanup)
}
