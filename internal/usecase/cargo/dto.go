package cargo

import (
	"strconv"
	"strings"

	domainCargo "fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/page"
	"fleet-console/pkg/utils"
)

const DefaultPageSize = 10

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=id transportId cargoDescription weightKg volumeM3 pickupDate deliveryDate"`
	Dir    string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

func (r *ListRequest) query() page.Query {
	q := page.Query{Q: strings.TrimSpace(r.Search), Page: r.Page, Size: r.Size}
	if r.Size == 0 {
		q.Size = DefaultPageSize
	}
	if r.Sort != "" {
		dir := "asc"
		if r.Dir == "desc" {
			dir = "desc"
		}
		field := r.Sort
		if field == "transportId" {
			field = "transport.id"
		}
		q.Sort = []string{field + "," + dir}
	}
	return q.Clamp()
}

// Form backs the cargo dialogs. TransportID is only read on create.
type Form struct {
	TransportID      string `form:"transportId" validate:"omitempty,numeric"`
	CargoDescription string `form:"cargoDescription" validate:"required,max=2000"`
	WeightKg         string `form:"weightKg"`
	VolumeM3         string `form:"volumeM3"`
	PickupDate       string `form:"pickupDate"`
	DeliveryDate     string `form:"deliveryDate"`
}

// FormFor prefills the edit form.
func FormFor(c *domainCargo.Cargo) *Form {
	f := &Form{
		CargoDescription: c.CargoDescription,
		WeightKg:         strconv.FormatFloat(c.WeightKg, 'f', -1, 64),
		VolumeM3:         strconv.FormatFloat(c.VolumeM3, 'f', -1, 64),
		PickupDate:       utils.FormatDateTime(c.PickupDate),
		DeliveryDate:     utils.FormatDateTime(c.DeliveryDate),
	}
	if c.TransportID != nil {
		f.TransportID = strconv.FormatInt(*c.TransportID, 10)
	}
	return f
}

type Row struct {
	domainCargo.Cargo
	CanDelete     bool
	DeleteTooltip string
}

type ListResult struct {
	Page *page.Page[Row]
	Sort string
	Dir  string
}
