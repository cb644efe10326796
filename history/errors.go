package history

import "errors"

// ErrInvalidEntry indicates an entry that cannot be logged.
var ErrInvalidEntry = errors.New("history: invalid entry")
