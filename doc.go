// Package litcoder implements the literal-symbol coding core of a
// hybrid entropy-coded compressor in the Brotli/Divans family: a
// symmetric encode/decode routine that turns a run of literal bytes
// into an arithmetic-coded nibble stream using a learned probability
// model, driven by length coding, context derivation, dual-model
// mixing, and optional external probability override.
//
// # Scope
//
// This module implements only the literal path. There is no outer
// command parsing, no copy/distance coding, no Huffman construction,
// and no compression heuristics — a real Brotli/Divans stream
// interleaves literal runs with back-references selected by a much
// larger match-finding and block-splitting pipeline that lives
// entirely outside this module. Compressor and Decompressor therefore
// only support literal-only streams: every byte of input is coded as
// one giant literal run, or as a sequence of caller-supplied literal
// run boundaries, never as a copy.
//
// # Packages
//
//   - numeric: fixed-point division helpers used on the coder's hot path.
//   - cdf: the adaptive CDF16 distribution and the
//     external-probability override construction.
//   - arith: the carry-propagating range coder and its suspension
//     contract (DrainOrFill / GetOrPutNibble).
//   - priors: the prior collection — CDF lookup by (kind, key).
//   - literal: the length codec, context deriver, mixer, and the
//     per-nibble substate machine tying the above together.
//   - streamio: an optional ring-buffered bridge from blocking
//     io.Reader/io.Writer to the core's offset-cursor contract.
//
// This package wires all of them into a literal-only Compressor and
// Decompressor.
package litcoder
