package ark

import "errors"

var (
	// ErrUnsupportedVersion is returned when the archive header declares a
	// version outside {1, 3, 4}.
	ErrUnsupportedVersion = errors.New("ark: unsupported archive version")

	// ErrInvalidLength is returned when a buffer does not satisfy an
	// alignment or minimum-size precondition.
	ErrInvalidLength = errors.New("ark: invalid buffer length")

	// ErrCorruptMetadata is returned when the metadata directory fails to
	// decrypt/decompress, or its record count disagrees with its size.
	ErrCorruptMetadata = errors.New("ark: corrupt metadata directory")

	// ErrNotFound is returned when a logical path has no entry in the
	// archive directory.
	ErrNotFound = errors.New("ark: file not found")

	// ErrInvariantViolation indicates an internal consistency check failed
	// (overlapping payload regions, mismatched counts). It signals either
	// a bug in this package or a pre-corrupted archive.
	ErrInvariantViolation = errors.New("ark: invariant violation")

	// ErrClosed is returned by operations attempted on a closed Archive.
	ErrClosed = errors.New("ark: archive is closed")

	// ErrNoPath is returned by Write on an archive opened from memory
	// rather than a file path; use WriteTo or WriteFile instead.
	ErrNoPath = errors.New("ark: archive has no backing path")
)
