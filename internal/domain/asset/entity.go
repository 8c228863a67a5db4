package asset

import "fmt"

// Status is shared by vehicles and trailers.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInService Status = "IN_SERVICE"
	StatusInactive  Status = "INACTIVE"
)

var AllStatuses = []Status{StatusActive, StatusInService, StatusInactive}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Vehicle struct {
	ID                  int64   `json:"id"`
	Manufacturer        string  `json:"manufacturer"`
	Model               string  `json:"model"`
	DateOfProduction    string  `json:"dateOfProduction"` // YYYY-MM-DD
	Mileage             int64   `json:"mileage"`
	FuelType            string  `json:"fuelType"`
	VehicleStatus       Status  `json:"vehicleStatus"`
	LicensePlate        string  `json:"licensePlate"`
	AllowedLoad         float64 `json:"allowedLoad"`
	InsuranceNumber     string  `json:"insuranceNumber"`
	AssignedToTransport bool    `json:"assignedToTransport,omitempty"`
	InProgressAssigned  bool    `json:"inProgressAssigned,omitempty"`
}

type VehicleRequest struct {
	Manufacturer     string   `json:"manufacturer"`
	Model            string   `json:"model"`
	DateOfProduction *string  `json:"dateOfProduction,omitempty"`
	Mileage          *int64   `json:"mileage,omitempty"`
	FuelType         *string  `json:"fuelType,omitempty"`
	LicensePlate     string   `json:"licensePlate"`
	AllowedLoad      *float64 `json:"allowedLoad,omitempty"`
	InsuranceNumber  *string  `json:"insuranceNumber,omitempty"`
}

type Trailer struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	LicensePlate        string   `json:"licensePlate"`
	Payload             *float64 `json:"payload,omitempty"`
	Volume              *float64 `json:"volume,omitempty"`
	TrailerStatus       Status   `json:"trailerStatus"`
	AssignedToTransport bool     `json:"assignedToTransport,omitempty"`
	InProgressAssigned  bool     `json:"inProgressAssigned,omitempty"`
}

type TrailerRequest struct {
	Name         string   `json:"name"`
	LicensePlate string   `json:"licensePlate"`
	Payload      *float64 `json:"payload"`
	Volume       *float64 `json:"volume"`
}

// Label renders "plate - manufacturer model".
func (v Vehicle) Label() string {
	if v.LicensePlate == "" {
		return fmt.Sprintf("#%d", v.ID)
	}
	return fmt.Sprintf("%s - %s %s", v.LicensePlate, v.Manufacturer, v.Model)
}

func (t Trailer) Label() string {
	if t.LicensePlate == "" {
		return fmt.Sprintf("#%d", t.ID)
	}
	return fmt.Sprintf("%s - %s", t.LicensePlate, t.Name)
}
