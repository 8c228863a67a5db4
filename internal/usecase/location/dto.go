package location

import (
	"strings"

	domainLocation "fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
)

const DefaultPageSize = 10

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=id address coords street city postcode country"`
	Dir    string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

// sortFields expands the composite columns.
var sortFields = map[string][]string{
	"address": {"city", "street", "buildingNumber"},
	"coords":  {"latitude", "longitude"},
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
		fields, ok := sortFields[r.Sort]
		if !ok {
			fields = []string{r.Sort}
		}
		for _, f := range fields {
			q.Sort = append(q.Sort, f+","+dir)
		}
	}
	return q.Clamp()
}

type Form struct {
	Street         string `form:"street" validate:"required,max=200"`
	BuildingNumber string `form:"buildingNumber" validate:"required,max=20"`
	City           string `form:"city" validate:"required,max=100"`
	Postcode       string `form:"postcode" validate:"required,max=20"`
	Country        string `form:"country" validate:"required,max=100"`
	Latitude       string `form:"latitude"`
	Longitude      string `form:"longitude"`
}

// NewForm returns an empty create form with the default country.
func NewForm() *Form {
	return &Form{Country: domainLocation.DefaultCountry}
}

// FormFor prefills the edit form.
func FormFor(l *domainLocation.Location) *Form {
	f := &Form{
		Street:         deref(l.Street),
		BuildingNumber: deref(l.BuildingNumber),
		City:           deref(l.City),
		Postcode:       deref(l.Postcode),
		Country:        deref(l.Country),
	}
	if l.Latitude != nil {
		f.Latitude = strconvFloat(*l.Latitude)
	}
	if l.Longitude != nil {
		f.Longitude = strconvFloat(*l.Longitude)
	}
	return f
}

type Row struct {
	domainLocation.Location
	Address       string
	CanDelete     bool
	DeleteTooltip string
}

type ListResult struct {
	Page *page.Page[Row]
	Sort string
	Dir  string
}
