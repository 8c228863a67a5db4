package location

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrCoordinatesPair  = errors.New("latitude and longitude must be provided together")
	ErrLatitudeRange    = errors.New("latitude must be between -90 and 90")
	ErrLongitudeRange   = errors.New("longitude must be between -180 and 180")
	ErrLocationIsInUse  = errors.New("location is used in a transport")
)
