package cache

import "errors"

var (
	// ErrNotFound indicates the id has no cached content.
	ErrNotFound = errors.New("cache: content not cached")

	// ErrEntryTooLarge indicates the content exceeds MaxEntrySize.
	ErrEntryTooLarge = errors.New("cache: entry too large")
)
