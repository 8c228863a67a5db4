package driver

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOnTransport Status = "ON_TRANSPORT"
	StatusOnLeave     Status = "ON_LEAVE"
	StatusInactive    Status = "INACTIVE"
)

var AllStatuses = []Status{StatusAvailable, StatusOnTransport, StatusOnLeave, StatusInactive}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Driver struct {
	UserID                  int64   `json:"userId"`
	FirstName               string  `json:"firstName"`
	LastName                string  `json:"lastName"`
	Email                   string  `json:"email"`
	Phone                   *string `json:"phone,omitempty"`
	DriverLicenseNumber     *string `json:"driverLicenseNumber,omitempty"`
	DriverLicenseCategory   *string `json:"driverLicenseCategory,omitempty"`
	DriverLicenseExpiryDate *string `json:"driverLicenseExpiryDate,omitempty"` // YYYY-MM-DD
	DriverStatus            Status  `json:"driverStatus"`
	HasTransports           bool    `json:"hasTransports"`
	HasWorkLogs             bool    `json:"hasWorkLogs"`
}

func (d Driver) FullName() string {
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	if name == "" {
		return fmt.Sprintf("#%d", d.UserID)
	}
	return name
}

type CreateRequest struct {
	UserID                  int64   `json:"userId"`
	DriverLicenseNumber     *string `json:"driverLicenseNumber,omitempty"`
	DriverLicenseCategory   *string `json:"driverLicenseCategory,omitempty"`
	DriverLicenseExpiryDate *string `json:"driverLicenseExpiryDate,omitempty"`
}

type UpdateRequest struct {
	DriverLicenseNumber     *string `json:"driverLicenseNumber,omitempty"`
	DriverLicenseCategory   *string `json:"driverLicenseCategory,omitempty"`
	DriverLicenseExpiryDate *string `json:"driverLicenseExpiryDate,omitempty"`
}

type ActivityType string

const (
	ActivityDriving   ActivityType = "DRIVING"
	ActivityLoading   ActivityType = "LOADING"
	ActivityUnloading ActivityType = "UNLOADING"
	ActivityBreak     ActivityType = "BREAK"
)

var AllActivityTypes = []ActivityType{ActivityDriving, ActivityLoading, ActivityUnloading, ActivityBreak}

// WorkLog is a driver activity entry.
type WorkLog struct {
	ID            int64        `json:"id"`
	DriverID      int64        `json:"driverId"`
	DriverName    *string      `json:"driverName,omitempty"`
	TransportID   *int64       `json:"transportId,omitempty"`
	ActivityType  ActivityType `json:"activityType"`
	StartTime     time.Time    `json:"startTime"`
	EndTime       *time.Time   `json:"endTime,omitempty"`
	BreakDuration *int         `json:"breakDuration,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

type WorkLogRequest struct {
	StartTime     time.Time    `json:"startTime"`
	EndTime       *time.Time   `json:"endTime,omitempty"`
	BreakDuration *int         `json:"breakDuration,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	DriverID      int64        `json:"driverId,omitempty"`
	TransportID   *int64       `json:"transportId,omitempty"`
	ActivityType  ActivityType `json:"activityType"`
}

func CanDelete(d Driver) bool {
	return !(d.HasTransports || d.HasWorkLogs)
}

func DeleteTooltip(d Driver) string {
	switch {
	case d.HasTransports && d.HasWorkLogs:
		return "Cannot delete: driver has transports and work logs."
	case d.HasTransports:
		return "Cannot delete: driver has transports."
	case d.HasWorkLogs:
		return "Cannot delete: driver has work logs."
	}
	return "Delete driver"
}
