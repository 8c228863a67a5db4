package location

import (
	"fmt"
	"strings"
)

const DefaultCountry = "Poland"

type Location struct {
	ID              int64    `json:"id"`
	Street          *string  `json:"street,omitempty"`
	BuildingNumber  *string  `json:"buildingNumber,omitempty"`
	City            *string  `json:"city,omitempty"`
	Postcode        *string  `json:"postcode,omitempty"`
	Country         *string  `json:"country,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	UsedAsPickup    bool     `json:"usedAsPickup,omitempty"`
	UsedAsDelivery  bool     `json:"usedAsDelivery,omitempty"`
	UsedInTransport bool     `json:"usedInTransport,omitempty"`
}

type Request struct {
	Street         *string  `json:"street,omitempty"`
	BuildingNumber *string  `json:"buildingNumber,omitempty"`
	City           *string  `json:"city,omitempty"`
	Postcode       *string  `json:"postcode,omitempty"`
	Country        *string  `json:"country,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// Label renders "street number, postcode city, country".
func (l Location) Label() string {
	var parts []string
	street := strings.TrimSpace(deref(l.Street) + " " + deref(l.BuildingNumber))
	if street != "" {
		parts = append(parts, street)
	}
	city := strings.TrimSpace(deref(l.Postcode) + " " + deref(l.City))
	if city != "" {
		parts = append(parts, city)
	}
	if country := strings.TrimSpace(deref(l.Country)); country != "" {
		parts = append(parts, country)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("#%d", l.ID)
	}
	return strings.Join(parts, ", ")
}

func CanDelete(l Location) bool {
	return !l.UsedInTransport
}

func DeleteTooltip(l Location) string {
	switch {
	case l.UsedAsPickup && l.UsedAsDelivery:
		return "Cannot delete: location is used as pickup and delivery."
	case l.UsedAsPickup:
		return "Cannot delete: location is used as pickup."
	case l.UsedAsDelivery:
		return "Cannot delete: location is used as delivery."
	case l.UsedInTransport:
		return "Cannot delete: location is used in a transport."
	}
	return "Delete location"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
