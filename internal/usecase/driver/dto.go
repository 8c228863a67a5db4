package driver

import (
	"strconv"
	"strings"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/cargo"
	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
)

const DefaultPageSize = 10

type ListRequest struct {
	Search string `form:"q" validate:"max=200"`
	Page   int    `form:"page" validate:"gte=0"`
	Size   int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort   string `form:"sort" validate:"omitempty,oneof=name email phone license status userId"`
	Dir    string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

// sortFields maps a column key to the backend sort properties.
var sortFields = map[string][]string{
	"name":    {"user.lastName", "user.firstName"},
	"email":   {"user.email"},
	"phone":   {"user.phone"},
	"license": {"driverLicenseNumber"},
	"status":  {"driverStatus"},
}

func (r *ListRequest) query() page.Query {
	q := page.Query{Q: strings.TrimSpace(r.Search), Page: r.Page, Size: r.Size}
	if r.Size == 0 {
		q.Size = DefaultPageSize
	}
	dir := "asc"
	if r.Dir == "desc" {
		dir = "desc"
	}
	fields, ok := sortFields[r.Sort]
	if !ok {
		fields = []string{"userId"}
	}
	for _, f := range fields {
		q.Sort = append(q.Sort, f+","+dir)
	}
	return q.Clamp()
}

// Form backs both the create and edit dialogs. UserID is only read on create
// and Status only on edit.
type Form struct {
	UserID            string `form:"userId" validate:"omitempty,numeric"`
	LicenseNumber     string `form:"driverLicenseNumber" validate:"max=50"`
	LicenseCategory   string `form:"driverLicenseCategory" validate:"max=20"`
	LicenseExpiryDate string `form:"driverLicenseExpiryDate" validate:"omitempty,datetime=2006-01-02"`
	Status            string `form:"driverStatus" validate:"omitempty,driver_status"`
}

// FormFor prefills the edit form.
func FormFor(d *domainDriver.Driver) *Form {
	f := &Form{
		UserID: strconv.FormatInt(d.UserID, 10),
		Status: string(d.DriverStatus),
	}
	if d.DriverLicenseNumber != nil {
		f.LicenseNumber = *d.DriverLicenseNumber
	}
	if d.DriverLicenseCategory != nil {
		f.LicenseCategory = *d.DriverLicenseCategory
	}
	if d.DriverLicenseExpiryDate != nil && len(*d.DriverLicenseExpiryDate) >= 10 {
		f.LicenseExpiryDate = (*d.DriverLicenseExpiryDate)[:10]
	}
	return f
}

type StatusRequest struct {
	Status string `form:"driverStatus" validate:"required,driver_status"`
}

type Row struct {
	domainDriver.Driver
	CanDelete     bool
	DeleteTooltip string
}

type ListResult struct {
	Page *page.Page[Row]
	Sort string
	Dir  string
}

// UserOption is a candidate user for a new driver profile.
type UserOption struct {
	ID    int64
	Label string
}

// userLabel renders "First Middle Last - email", or whichever part exists.
func userLabel(u account.User) string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	name := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	email := strings.TrimSpace(u.Email)
	switch {
	case name != "" && email != "":
		return name + " - " + email
	case name != "":
		return name
	}
	return email
}

// CargoView is the driver's cargo, either for the current transport or all of it.
type CargoView struct {
	Items              []cargo.Cargo
	CurrentTransportID int64
	All                bool
}

// TimelineView is the status history of one of the driver's transports.
type TimelineView struct {
	Transports []transport.Transport
	SelectedID int64
	Entries    []transport.StatusHistory
	History    bool
}
