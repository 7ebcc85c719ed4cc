package export

import (
	"github.com/cockroachdb/errors"
)

// Sentinel error kinds for this package.
var (
	ErrSchemaViolation = errors.New("export violates board schema")
	ErrMalformedTable  = errors.New("malformed flat table")
	ErrWrite           = errors.New("write output failed")
)
