package core

import (
	"errors"
	"fmt"
)

// ErrorCategory defines standardized error categories for scan audit trails
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryFileAccess    ErrorCategory = "file_access"
	ErrorCategoryScan          ErrorCategory = "scan"
)

// ConfigurationError is a fatal error raised when required configuration is
// missing or invalid, e.g. no description column in a spreadsheet. Nothing is
// partially exported when it occurs.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", ErrorCategoryConfiguration, e.Reason, e.Err)
	}
	return fmt.Sprintf("[%s] %s", ErrorCategoryConfiguration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// FileAccessError is a recoverable error for a single unreadable or
// undecodable file during a source scan. The file contributes zero matches
// and the scan continues.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("[%s] cannot read %s: %v", ErrorCategoryFileAccess, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ScanFailure is a fatal error for an untraversable scan root. No partial
// report is considered valid when it occurs.
type ScanFailure struct {
	Root string
	Err  error
}

func (e *ScanFailure) Error() string {
	return fmt.Sprintf("[%s] cannot scan %s: %v", ErrorCategoryScan, e.Root, e.Err)
}

func (e *ScanFailure) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether an error may be recorded and skipped rather
// than aborting the whole operation.
func IsRecoverable(err error) bool {
	var accessErr *FileAccessError
	return errors.As(err, &accessErr)
}
