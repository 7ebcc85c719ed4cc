package service

import "github.com/cockroachdb/errors"

// ErrNoInput is returned when a run is started without its required input path.
var ErrNoInput = errors.New("no input")
