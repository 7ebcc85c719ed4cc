package csvparse

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel kinds for parse errors. These allow errors.Is from callers.
var (
	ErrTooFewLines = errors.New("csv input needs a header and at least one data row")
	ErrMalformed   = errors.New("malformed csv")
)

// ParseError reports why a CSV input was rejected.
type ParseError struct {
	// Line is the 1-based physical line of the failure, 0 when not line specific.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse csv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
