package services

import "errors"

var (
	// ErrParsingFailed marks uploads that could not be turned into rows.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrDirectoryUnavailable marks a batch refused because the directory
	// cannot be reached with the current configuration.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrDirectoryStatus marks a non-2xx, non-404 directory response.
	ErrDirectoryStatus = errors.New("unexpected directory status")
)
