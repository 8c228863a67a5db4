package asset

import "errors"

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrTrailerNotFound = errors.New("trailer not found")
	ErrInvalidStatus   = errors.New("invalid asset status")
)
