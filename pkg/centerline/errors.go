package centerline

import "errors"

// ErrStraightRunTooLong is returned when the requested straight half-length H
// does not fit between the annulus center and the ends of the root polyline.
var ErrStraightRunTooLong = errors.New("straight segment half-length exceeds available centerline span")
