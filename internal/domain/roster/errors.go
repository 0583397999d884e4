package roster

import "errors"

// ErrUnavailable reports that the roster could not be fetched or fails its
// schema check. Callers degrade to unmerged point totals.
var ErrUnavailable = errors.New("roster unavailable")
