package cargo

import (
	"fmt"
	"time"

	"fleet-console/internal/domain/transport"
)

type Cargo struct {
	ID               int64             `json:"id"`
	CargoDescription string            `json:"cargoDescription"`
	WeightKg         float64           `json:"weightKg"`
	VolumeM3         float64           `json:"volumeM3"`
	PickupDate       *time.Time        `json:"pickupDate,omitempty"`
	DeliveryDate     *time.Time        `json:"deliveryDate,omitempty"`
	TransportID      *int64            `json:"transportId,omitempty"`
	TransportStatus  *transport.Status `json:"transportStatus,omitempty"`
}

type CreateRequest struct {
	CargoDescription string     `json:"cargoDescription"`
	WeightKg         float64    `json:"weightKg"`
	VolumeM3         float64    `json:"volumeM3"`
	PickupDate       *time.Time `json:"pickupDate,omitempty"`
	DeliveryDate     *time.Time `json:"deliveryDate,omitempty"`
	TransportID      int64      `json:"transportId,omitempty"`
}

type UpdateRequest struct {
	CargoDescription *string    `json:"cargoDescription,omitempty"`
	WeightKg         *float64   `json:"weightKg,omitempty"`
	VolumeM3         *float64   `json:"volumeM3,omitempty"`
	PickupDate       *time.Time `json:"pickupDate,omitempty"`
	DeliveryDate     *time.Time `json:"deliveryDate,omitempty"`
	TransportID      *int64     `json:"transportId,omitempty"`
}

// CanDelete allows deletion while the cargo is unassigned or its transport is still planned.
func CanDelete(c Cargo) bool {
	return c.TransportStatus == nil || *c.TransportStatus == "" || *c.TransportStatus == transport.StatusPlanned
}

func DeleteTooltip(c Cargo) string {
	if !CanDelete(c) {
		return fmt.Sprintf("Cannot delete: transport status is %s.", *c.TransportStatus)
	}
	return "Delete cargo"
}
