// Package werr defines the sentinel errors shared across the codec
// packages. Call sites wrap one of these with fmt.Errorf("...: %w", ...)
// so errors.Is still matches against the sentinel.
package werr

import "errors"

var (
	// ErrBadEndian is returned when the 2-byte endian marker is neither
	// of the two recognized literals.
	ErrBadEndian = errors.New("wfm: unrecognized endian marker")

	// ErrBadVersion is returned when the 8-byte version string does not
	// match one of the three known WFM version tags.
	ErrBadVersion = errors.New("wfm: unrecognized version string")

	// ErrBadFormat is a catch-all for structurally malformed records
	// that don't fit a more specific sentinel.
	ErrBadFormat = errors.New("wfm: malformed record")

	// ErrShortRead is returned when a read ends before a fixed-size
	// field has been fully consumed.
	ErrShortRead = errors.New("wfm: short read")

	// ErrUnexpectedEOF is returned when a read ends before a field that
	// is not permitted to be absent (unlike the trailing checksum).
	ErrUnexpectedEOF = errors.New("wfm: unexpected end of file")

	// ErrMetadataUnreadable is returned when the tekmeta tag is found
	// but a subsequent key/value record is malformed.
	ErrMetadataUnreadable = errors.New("wfm: tekmeta block unreadable")

	// ErrUnknownExtension is returned by dispatch when a path has no
	// mapped file extension.
	ErrUnknownExtension = errors.New("wfm: unknown file extension")

	// ErrNoStyleMatch is returned by dispatch when every candidate codec
	// rejects a file's style probe.
	ErrNoStyleMatch = errors.New("wfm: no codec accepted file style")

	// ErrConversion covers range overflow, bad UTF-8, and other
	// coercion failures in pkg/record and pkg/sample.
	ErrConversion = errors.New("wfm: conversion error")

	// ErrInvariantViolation is returned by the writer when the
	// assembled record set would fail one of the documented invariants;
	// the writer refuses to emit bytes it could not read back.
	ErrInvariantViolation = errors.New("wfm: invariant violation")

	// ErrUnknownField is returned by pkg/record when PackWithOrder names
	// a field the record type does not declare.
	ErrUnknownField = errors.New("wfm: unknown field name")
)

// PrecisionWarning is a non-fatal diagnostic type, kept apart from the
// error sentinels. No reader or writer in this module produces
// PrecisionWarning values, and neither has a Warnings() accessor.
type PrecisionWarning struct {
	Field string
	Detail string
}

func (w PrecisionWarning) String() string {
	return w.Field + ": " + w.Detail
}

// ChildProcessError wraps a worker failure from pkg/parallel with the
// offending path so the caller can tell which file in a batch failed.
type ChildProcessError struct {
	Path string
	Err  error
}

func (e *ChildProcessError) Error() string {
	return "wfm: " + e.Path + ": " + e.Err.Error()
}

func (e *ChildProcessError) Unwrap() error {
	return e.Err
}
