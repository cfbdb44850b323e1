package lock

import "errors"

// ErrLocked is returned by Acquire when another live process holds the
// lock.
var ErrLocked = errors.New("lock: index is locked by another process")
