package pav

import (
	"errors"
)

var (
	ErrClosed             = errors.New("closed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
)
