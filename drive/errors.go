package drive

import "errors"

var (
	// ErrInvalidState indicates the persisted drive state file is
	// malformed or incomplete.
	ErrInvalidState = errors.New("drive: invalid drive state")

	// ErrNoSecret indicates no drive secret is configured, so no drive
	// key can be derived.
	ErrNoSecret = errors.New("drive: drive secret not configured")

	// ErrBootstrapFailed wraps a failed drive or root folder submission.
	// The caller is expected to continue without a drive.
	ErrBootstrapFailed = errors.New("drive: bootstrap failed")
)
