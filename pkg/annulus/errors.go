package annulus

import "errors"

// ErrDegeneratePlane is returned when the three cusp points are colinear and
// no plane normal can be derived.
var ErrDegeneratePlane = errors.New("cusp points are colinear; plane normal undefined")
