package driver

import "errors"

var (
	ErrDriverNotFound  = errors.New("driver not found")
	ErrWorkLogNotFound = errors.New("work log not found")
	ErrInvalidStatus   = errors.New("invalid driver status")
)
