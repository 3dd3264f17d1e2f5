package manifold

import "errors"

// ErrUnavailable is returned by New when the binary was built without the
// manifold tag or the C library could not be initialised.
var ErrUnavailable = errors.New("manifold kernel not available")
