package landmark

import "errors"

var (
	// ErrTooFewRootPoints is returned when fewer than three root points are supplied.
	ErrTooFewRootPoints = errors.New("at least three root points required")

	// ErrMissingRootRole is returned when a three-point root set does not contain
	// exactly one LV outflow, one aortic valve and one ascending aorta point.
	ErrMissingRootRole = errors.New("three-point root set must contain each required role once")

	// ErrWrongCuspCount is returned when the annulus point set is not exactly three points.
	ErrWrongCuspCount = errors.New("exactly three cusp points required")

	// ErrDuplicateCusp is returned when a cusp type appears more than once.
	ErrDuplicateCusp = errors.New("each cusp type must appear exactly once")
)
