package transport

import (
	"fmt"
	"strconv"
	"strings"

	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
	domainTransport "fleet-console/internal/domain/transport"
	"fleet-console/pkg/utils"
)

const DefaultPageSize = 10

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	// Sort is "field" or "field,dir"; Dir applies when Sort has no direction.
	Sort string `form:"sort" validate:"max=64"`
	Dir  string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

// Row is one line of the transport table.
type Row struct {
	domainTransport.Transport
	DriverLabel   string
	VehicleLabel  string
	PickupLabel   string
	DeliveryLabel string
	CanEdit       bool
	CanDelete     bool
	EditTooltip   string
	DeleteTooltip string
}

type ListResult struct {
	Page   *page.Page[Row]
	Search string
	// Sort is the applied "field,dir"; SortField and Dir are its parts.
	Sort      string
	SortField string
	Dir       string
}

// Form is the create and edit form. Cargo lines are posted as parallel
// arrays and only used on create.
type Form struct {
	VehicleID          int64  `form:"vehicleId" validate:"required,gt=0"`
	TrailerID          int64  `form:"trailerId" validate:"required,gt=0"`
	DriverID           string `form:"driverId" validate:"omitempty,numeric"`
	PickupLocationID   int64  `form:"pickupLocationId" validate:"required,gt=0"`
	DeliveryLocationID int64  `form:"deliveryLocationId" validate:"required,gt=0"`
	ContractualDueAt   string `form:"contractualDueAt"`
	PlannedStartAt     string `form:"plannedStartAt" validate:"required"`
	PlannedEndAt       string `form:"plannedEndAt"`
	PlannedDistanceKm  string `form:"plannedDistanceKm" validate:"omitempty,numeric"`

	CargoDescription  []string `form:"cargoDescription"`
	CargoWeightKg     []string `form:"cargoWeightKg"`
	CargoVolumeM3     []string `form:"cargoVolumeM3"`
	CargoPickupDate   []string `form:"cargoPickupDate"`
	CargoDeliveryDate []string `form:"cargoDeliveryDate"`
}

// FormFor prefills the edit form.
func FormFor(t *domainTransport.Transport) *Form {
	f := &Form{
		VehicleID:        t.VehicleID,
		TrailerID:        t.TrailerID,
		ContractualDueAt: utils.FormatDateTime(t.ContractualDueAt),
		PlannedStartAt:   utils.FormatDateTime(t.PlannedStartAt),
		PlannedEndAt:     utils.FormatDateTime(t.PlannedEndAt),
	}
	if t.DriverID != nil {
		f.DriverID = strconv.FormatInt(*t.DriverID, 10)
	}
	if t.PickupLocationID != nil {
		f.PickupLocationID = *t.PickupLocationID
	}
	if t.DeliveryLocationID != nil {
		f.DeliveryLocationID = *t.DeliveryLocationID
	}
	if t.PlannedDistanceKm != nil {
		f.PlannedDistanceKm = strconv.FormatFloat(*t.PlannedDistanceKm, 'f', -1, 64)
	}
	return f
}

// CargoLine is one cargo item drafted inside the create form.
type CargoLine struct {
	Description  string
	WeightKg     string
	VolumeM3     string
	PickupDate   string
	DeliveryDate string
}

// CargoLines zips the cargo arrays, skipping rows left completely blank.
func (f *Form) CargoLines() []CargoLine {
	at := func(list []string, i int) string {
		if i < len(list) {
			return strings.TrimSpace(list[i])
		}
		return ""
	}

	var lines []CargoLine
	for i := range f.CargoDescription {
		line := CargoLine{
			Description:  at(f.CargoDescription, i),
			WeightKg:     at(f.CargoWeightKg, i),
			VolumeM3:     at(f.CargoVolumeM3, i),
			PickupDate:   at(f.CargoPickupDate, i),
			DeliveryDate: at(f.CargoDeliveryDate, i),
		}
		if line == (CargoLine{}) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

type CreateResult struct {
	Transport   *domainTransport.Transport
	CargoFailed int64
	Message     string
}

type StatusRequest struct {
	Status string `form:"status" validate:"required,transport_status"`
}

type AssignDriverRequest struct {
	DriverID int64 `form:"driverId" validate:"required,gt=0"`
}

// Option is an entry of a select list.
type Option struct {
	ID    int64
	Label string
}

// FormOptions feeds the select lists of the create and edit forms.
type FormOptions struct {
	Drivers   []Option
	Vehicles  []Option
	Trailers  []Option
	Locations []Option
}

// Details is the transport detail page.
type Details struct {
	Transport     *domainTransport.Details
	History       []domainTransport.StatusHistory
	Cargo         []cargo.Cargo
	DriverLabel   string
	VehicleLabel  string
	TrailerLabel  string
	CanEdit       bool
	CanDelete     bool
	EditTooltip   string
	DeleteTooltip string
}

// ActionView is one driver action button.
type ActionView struct {
	Action  domainTransport.Action
	Label   string
	Enabled bool
	Tooltip string
}

// DriverRow is one line of the driver's own transport list.
type DriverRow struct {
	domainTransport.Transport
	VehicleLabel string
	Busy         bool
	Actions      []ActionView
}

type DriverBoard struct {
	Rows       []DriverRow
	Current    *DriverRow
	InProgress bool
}

func driverOption(d driver.Driver) Option {
	return Option{ID: d.UserID, Label: fmt.Sprintf("%s (userId: %d)", d.FullName(), d.UserID)}
}

func vehicleOption(v asset.Vehicle) Option {
	return Option{ID: v.ID, Label: fmt.Sprintf("%s (id: %d)", v.Label(), v.ID)}
}

func trailerOption(t asset.Trailer) Option {
	return Option{ID: t.ID, Label: fmt.Sprintf("%s (id: %d)", t.Label(), t.ID)}
}

func locationOption(l location.Location) Option {
	return Option{ID: l.ID, Label: fmt.Sprintf("%s (id: %d)", l.Label(), l.ID)}
}
