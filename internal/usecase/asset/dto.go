package asset

import (
	"strconv"
	"strings"

	domainAsset "fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/page"
)

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=id name manufacturer model licensePlate vehicleStatus trailerStatus"`
	Dir    string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

func (r *ListRequest) query() page.Query {
	q := page.Query{Q: strings.TrimSpace(r.Search), Page: r.Page, Size: r.Size}
	if r.Size == 0 {
		q.Size = 10
	}
	if r.Sort != "" {
		dir := "asc"
		if r.Dir == "desc" {
			dir = "desc"
		}
		q.Sort = []string{r.Sort + "," + dir}
	}
	return q.Clamp()
}

type VehicleForm struct {
	Manufacturer     string `form:"manufacturer" validate:"required,max=100"`
	Model            string `form:"model" validate:"required,max=100"`
	LicensePlate     string `form:"licensePlate" validate:"required,plate"`
	DateOfProduction string `form:"dateOfProduction" validate:"omitempty,datetime=2006-01-02"`
	Mileage          string `form:"mileage" validate:"omitempty,numeric"`
	FuelType         string `form:"fuelType" validate:"max=50"`
	AllowedLoad      string `form:"allowedLoad" validate:"omitempty,numeric"`
	InsuranceNumber  string `form:"insuranceNumber" validate:"max=100"`
	// Status is only read on edit.
	Status string `form:"vehicleStatus" validate:"omitempty,asset_status"`
}

type TrailerForm struct {
	Name         string `form:"name" validate:"required,max=100"`
	LicensePlate string `form:"licensePlate" validate:"required,plate"`
	Payload      string `form:"payload" validate:"required"`
	Volume       string `form:"volume" validate:"required"`
	Status       string `form:"trailerStatus" validate:"omitempty,asset_status"`
}

type VehicleRow struct {
	domainAsset.Vehicle
	CanDelete       bool
	DeleteTooltip   string
	CanChangeStatus bool
}

type TrailerRow struct {
	domainAsset.Trailer
	CanDelete       bool
	DeleteTooltip   string
	CanChangeStatus bool
}

func VehicleFormFor(v *domainAsset.Vehicle) *VehicleForm {
	return &VehicleForm{
		Manufacturer:     v.Manufacturer,
		Model:            v.Model,
		LicensePlate:     v.LicensePlate,
		DateOfProduction: v.DateOfProduction,
		Mileage:          strconv.FormatInt(v.Mileage, 10),
		FuelType:         v.FuelType,
		AllowedLoad:      strconv.FormatFloat(v.AllowedLoad, 'f', -1, 64),
		InsuranceNumber:  v.InsuranceNumber,
		Status:           string(v.VehicleStatus),
	}
}

func TrailerFormFor(t *domainAsset.Trailer) *TrailerForm {
	f := &TrailerForm{
		Name:         t.Name,
		LicensePlate: t.LicensePlate,
		Status:       string(t.TrailerStatus),
	}
	if t.Payload != nil {
		f.Payload = strconv.FormatFloat(*t.Payload, 'f', -1, 64)
	}
	if t.Volume != nil {
		f.Volume = strconv.FormatFloat(*t.Volume, 'f', -1, 64)
	}
	return f
}
