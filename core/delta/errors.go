package delta

import "errors"

var (
	// ErrChecksumMismatch is returned when a checkpoint was trained on a
	// backbone with a different structure.
	ErrChecksumMismatch = errors.New("backbone checksum mismatch")
	// ErrVersionMismatch is returned when an artifact was written by an
	// incompatible deltakit release.
	ErrVersionMismatch = errors.New("incompatible artifact version")
)
