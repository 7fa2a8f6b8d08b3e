package app

import (
	"fmt"
	"strings"
)

// MissingDependencyError reports that the converter could not be found.
type MissingDependencyError struct {
	Path string
	Err  error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("path to AAXtoMP3 not found (%s): %v", e.Path, e.Err)
}

func (e *MissingDependencyError) Unwrap() error { return e.Err }

// CreateDirectoryError reports that the output directory could not be prepared.
type CreateDirectoryError struct {
	Path string
	Err  error
}

func (e *CreateDirectoryError) Error() string {
	return fmt.Sprintf("create output directory %q: %v", e.Path, e.Err)
}

func (e *CreateDirectoryError) Unwrap() error { return e.Err }

// ConversionFailedError is only returned when exit-status checking was requested.
type ConversionFailedError struct {
	Failed []string
	Total  int
}

func (e *ConversionFailedError) Error() string {
	return fmt.Sprintf("%d of %d conversion(s) failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}
