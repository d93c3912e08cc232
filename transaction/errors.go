package transaction

import (
	"errors"
	"fmt"
)

var ErrEmptyStore = errors.New("transaction store is empty")

// IOError is returned when a dataset cannot be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read dataset %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError is returned for a token that is not a non-negative base-10 integer.
// Line is 1-based.
type ParseError struct {
	Line  int
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid item id %q on line %d", e.Token, e.Line)
}
