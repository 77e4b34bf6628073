package streamio

import "errors"

// ErrInvalidStream is returned when the wrapped Core reports Failure.
var ErrInvalidStream = errors.New("streamio: core reported a failure result")
