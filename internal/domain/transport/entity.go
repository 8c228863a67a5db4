package transport

import (
	"time"

	"fleet-console/internal/domain/location"
)

// Status represents the lifecycle state of a transport
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
	StatusCancelled  Status = "CANCELLED"
	StatusFailed     Status = "FAILED"
	StatusRejected   Status = "REJECTED"
)

var AllStatuses = []Status{
	StatusPlanned,
	StatusAccepted,
	StatusInProgress,
	StatusFinished,
	StatusCancelled,
	StatusFailed,
	StatusRejected,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Transport struct {
	ID                 int64      `json:"id"`
	DriverID           *int64     `json:"driverId,omitempty"`
	VehicleID          int64      `json:"vehicleId"`
	TrailerID          int64      `json:"trailerId"`
	VehicleLabel       *string    `json:"vehicleLabel,omitempty"`
	TrailerLabel       *string    `json:"trailerLabel,omitempty"`
	CreatedByID        int64      `json:"createdById"`
	ContractualDueAt   *time.Time `json:"contractualDueAt,omitempty"`
	PlannedStartAt     *time.Time `json:"plannedStartAt,omitempty"`
	PlannedEndAt       *time.Time `json:"plannedEndAt,omitempty"`
	ActualStartAt      *time.Time `json:"actualStartAt,omitempty"`
	ActualEndAt        *time.Time `json:"actualEndAt,omitempty"`
	PlannedDistanceKm  *float64   `json:"plannedDistanceKm,omitempty"`
	ActualDistanceKm   *float64   `json:"actualDistanceKm,omitempty"`
	Status             Status     `json:"status"`
	PickupLocationID   *int64     `json:"pickupLocationId,omitempty"`
	DeliveryLocationID *int64     `json:"deliveryLocationId,omitempty"`
}

// Details is the transport view with resolved locations.
type Details struct {
	ID                int64             `json:"id"`
	VehicleID         int64             `json:"vehicleId"`
	TrailerID         int64             `json:"trailerId"`
	DriverID          *int64            `json:"driverId,omitempty"`
	CreatedByID       int64             `json:"createdById"`
	CreatedByEmail    *string           `json:"createdByEmail,omitempty"`
	ContractualDueAt  *time.Time        `json:"contractualDueAt,omitempty"`
	PlannedStartAt    *time.Time        `json:"plannedStartAt,omitempty"`
	PlannedEndAt      *time.Time        `json:"plannedEndAt,omitempty"`
	ActualStartAt     *time.Time        `json:"actualStartAt,omitempty"`
	ActualEndAt       *time.Time        `json:"actualEndAt,omitempty"`
	PlannedDistanceKm *float64          `json:"plannedDistanceKm,omitempty"`
	ActualDistanceKm  *float64          `json:"actualDistanceKm,omitempty"`
	Status            Status            `json:"status"`
	PickupLocation    location.Location `json:"pickupLocation"`
	DeliveryLocation  location.Location `json:"deliveryLocation"`
}

// Request is the create/update body.
type Request struct {
	VehicleID          int64      `json:"vehicleId"`
	DriverID           *int64     `json:"driverId,omitempty"`
	TrailerID          int64      `json:"trailerId"`
	PickupLocationID   int64      `json:"pickupLocationId"`
	DeliveryLocationID int64      `json:"deliveryLocationId"`
	ContractualDueAt   *time.Time `json:"contractualDueAt,omitempty"`
	PlannedStartAt     *time.Time `json:"plannedStartAt,omitempty"`
	PlannedEndAt       *time.Time `json:"plannedEndAt,omitempty"`
	PlannedDistanceKm  *float64   `json:"plannedDistanceKm,omitempty"`
}

type StatusHistory struct {
	ID            int64     `json:"id"`
	TransportID   int64     `json:"transportId"`
	Status        Status    `json:"status"`
	ChangedAt     time.Time `json:"changedAt"`
	ChangedBy     *int64    `json:"changedBy,omitempty"`
	ChangedByName *string   `json:"changedByName,omitempty"`
}

// Filter narrows the transport list.
type Filter struct {
	Status    Status
	DriverID  *int64
	VehicleID *int64
	Q         string
	From      *time.Time
	To        *time.Time
	Page      int
	Size      int
	Sort      []string
}
