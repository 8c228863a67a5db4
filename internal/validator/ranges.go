package validator

import (
	"time"

	"fleet-console/internal/domain/location"
	apperrors "fleet-console/pkg/errors"
)

// ValidateTimeRange rejects an end before its start. Missing bounds pass.
func ValidateTimeRange(start, end *time.Time, message string) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return apperrors.NewAppError("VALIDATION_ERROR", message, apperrors.ErrInvalidTime)
	}
	return nil
}

// ValidateCoordinates requires latitude and longitude together and in range.
func ValidateCoordinates(lat, lng *float64) error {
	switch {
	case lat == nil && lng == nil:
		return nil
	case lat == nil || lng == nil:
		return apperrors.NewAppError("VALIDATION_ERROR", "Provide both latitude and longitude or leave both empty", location.ErrCoordinatesPair)
	case *lat < -90 || *lat > 90:
		return apperrors.NewAppError("VALIDATION_ERROR", "Latitude must be between -90 and 90", location.ErrLatitudeRange)
	case *lng < -180 || *lng > 180:
		return apperrors.NewAppError("VALIDATION_ERROR", "Longitude must be between -180 and 180", location.ErrLongitudeRange)
	}
	return nil
}
