package literal

import "errors"

// ErrBadPredictionMode is the panic value for an unreachable
// PredictionMode (spec.md S7: a programmer error, not a recoverable
// condition). It is not meant to be caught in production use.
var ErrBadPredictionMode = errors.New("literal: prediction mode has more than 2 bits")

// ErrBadExternalProbLength is the panic value for a malformed external
// probability slice: prob must be empty or exactly 8*L bytes (spec.md
// S7's `prob.is_empty() || prob.len() == 8*L` invariant).
var ErrBadExternalProbLength = errors.New("literal: external probability slice has the wrong length")
