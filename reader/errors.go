package reader

import (
	"errors"
	"fmt"

	"github.com/dotmd/dotmd/core"
)

// ReadError wraps an I/O failure reading a single source file. Recovered
// locally by the caller: the file is skipped and the batch continues.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read error: %v", e.Cause) }
func (e *ReadError) Unwrap() error { return e.Cause }
func (e *ReadError) Is(target error) bool {
	return errors.Is(target, core.ErrRead)
}
