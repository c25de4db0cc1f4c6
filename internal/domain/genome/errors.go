package genome

import "errors"

// ErrNoValidData is returned by Parse when no line yields a usable marker.
var ErrNoValidData = errors.New("no valid genomic data")
