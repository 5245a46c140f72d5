package pdfdocx

import "errors"

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Capturer].
	ErrClosed = errors.New("pdfdocx: capturer is closed")

	// ErrPageRange is returned when a requested page number is outside the
	// bounds of the source PDF.
	ErrPageRange = errors.New("pdfdocx: page out of range")

	// ErrNoPages is returned when a screenshot capture matched no page
	// sections.
	ErrNoPages = errors.New("pdfdocx: no page sections matched")

	// ErrInvalidPlan is returned when a plan fails validation.
	ErrInvalidPlan = errors.New("pdfdocx: invalid plan")
)
