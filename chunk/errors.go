package chunk

import (
	"errors"
	"fmt"

	"github.com/dotmd/dotmd/core"
)

// ParseError wraps a Markdown or frontmatter parse failure for a single
// file. Recovered locally: Chunk treats the document as opaque text with
// no frontmatter and continues.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }
func (e *ParseError) Is(target error) bool {
	return errors.Is(target, core.ErrParse)
}
