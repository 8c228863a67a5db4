package worklog

import (
	"fmt"
	"strconv"

	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/pkg/utils"
)

const DefaultPageSize = 10

// ListRequest scopes the work log table. DriverID narrows the list for
// dispatchers and admins; drivers always see their own entries.
type ListRequest struct {
	DriverID string `form:"driverId" validate:"omitempty,numeric"`
	Search   string `form:"q" validate:"max=200"`
	Page     int    `form:"page" validate:"gte=0"`
	Size     int    `form:"size" validate:"omitempty,gte=1,lte=100"`
	Sort     string `form:"sort" validate:"omitempty,oneof=id driverId startTime endTime breakDuration activityType transportId"`
	Dir      string `form:"dir" validate:"omitempty,oneof=asc desc"`
}

type Form struct {
	DriverID      string `form:"driverId" validate:"omitempty,numeric"`
	TransportID   string `form:"transportId" validate:"omitempty,numeric"`
	ActivityType  string `form:"activityType" validate:"required,activity_type"`
	StartTime     string `form:"startTime"`
	EndTime       string `form:"endTime"`
	BreakDuration string `form:"breakDuration"`
	Notes         string `form:"notes" validate:"max=2000"`
}

// FormFor prefills the edit form.
func FormFor(w *domainDriver.WorkLog) *Form {
	f := &Form{
		DriverID:     strconv.FormatInt(w.DriverID, 10),
		ActivityType: string(w.ActivityType),
		StartTime:    utils.FormatDateTime(&w.StartTime),
		EndTime:      utils.FormatDateTime(w.EndTime),
	}
	if w.TransportID != nil {
		f.TransportID = strconv.FormatInt(*w.TransportID, 10)
	}
	if w.BreakDuration != nil {
		f.BreakDuration = strconv.Itoa(*w.BreakDuration)
	}
	if w.Notes != nil {
		f.Notes = *w.Notes
	}
	return f
}

type Row struct {
	domainDriver.WorkLog
	DriverLabel string
}

type ListResult struct {
	Page *page.Page[Row]
	// DriverID is set when the table is scoped to one driver.
	DriverID  int64
	Search    string
	Sort      string
	Dir       string
	CanAdd    bool
	CanManage bool
}

type Option struct {
	ID    int64
	Label string
}

type FormOptions struct {
	// Drivers is empty when the driver is fixed.
	Drivers    []Option
	DriverID   int64
	Transports []Option
	Types      []domainDriver.ActivityType
}

func driverLabel(w domainDriver.WorkLog, known map[int64]domainDriver.Driver) string {
	if w.DriverName != nil && *w.DriverName != "" {
		return *w.DriverName
	}
	if d, ok := known[w.DriverID]; ok {
		return d.FullName()
	}
	return fmt.Sprintf("#%d", w.DriverID)
}
