package spline

import "errors"

// ErrTooFewControlPoints is returned when fewer than three distinct control
// points are supplied.
var ErrTooFewControlPoints = errors.New("at least three distinct control points required")
