// errors.go defines public error types for the litcoder package.

package litcoder

import "errors"

// Public error types for compression and decompression operations.
var (
	// ErrInvalidRunLengths indicates a caller-supplied set of literal run
	// boundaries that doesn't add up to the input length.
	ErrInvalidRunLengths = errors.New("litcoder: run lengths do not sum to input length")

	// ErrTruncatedStream indicates a decode ended mid-command: the
	// decoder ran out of compressed input before every run it expected
	// to decode reached FullyDecoded.
	ErrTruncatedStream = errors.New("litcoder: compressed stream ended before all literal runs were decoded")

	// ErrWriteAfterClose indicates CompressRuns or Compress was called on
	// a Compressor that had already produced its stream.
	ErrWriteAfterClose = errors.New("litcoder: write after Close")
)
