package transport

import "errors"

var (
	ErrTransportNotFound = errors.New("transport not found")
	ErrInvalidStatus     = errors.New("invalid transport status")
	ErrNotPlanned        = errors.New("transport is not planned")
)
