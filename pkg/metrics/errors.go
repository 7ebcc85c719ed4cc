package metrics

import (
	"github.com/cockroachdb/errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)
