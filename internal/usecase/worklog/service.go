package worklog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fleet-console/internal/domain/account"
	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the work log page. The fleet API returns whole lists,
// so search, sorting and paging happen here.
type Service struct {
	logs       domainDriver.WorkLogRepository
	transports transport.Repository
	lookup     domainDriver.Lookup
	self       domainDriver.SelfService
}

func NewService(logs domainDriver.WorkLogRepository, transports transport.Repository, lookup domainDriver.Lookup, self domainDriver.SelfService) *Service {
	return &Service{logs: logs, transports: transports, lookup: lookup, self: self}
}

func CanAdd(me *account.Me) bool {
	return me.HasAnyRole(account.RoleAdmin, account.RoleDriver)
}

func CanManage(me *account.Me) bool {
	return me.HasRole(account.RoleAdmin)
}

// List loads entries by role: drivers get their own, everyone else all
// entries or those of the requested driver.
func (s *Service) List(ctx context.Context, me *account.Me, req *ListRequest) (*ListResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	res := &ListResult{
		Search:    strings.TrimSpace(req.Search),
		Sort:      req.Sort,
		Dir:       req.Dir,
		CanAdd:    CanAdd(me),
		CanManage: CanManage(me),
	}

	var (
		list []domainDriver.WorkLog
		err  error
	)
	switch {
	case me.HasRole(account.RoleDriver):
		res.DriverID = me.UserID()
		list, err = s.logs.ListMine(ctx)
	case req.DriverID != "":
		res.DriverID, err = utils.ParseID(req.DriverID)
		if err != nil {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid driver", appErrors.ErrInvalidID)
		}
		list, err = s.logs.ListByDriver(ctx, res.DriverID)
	default:
		list, err = s.logs.ListAll(ctx)
	}
	if err != nil {
		logger.Warn("Work log load failed", zap.Error(err))
		return nil, appErrors.NewAppError("LOAD_FAILED", "Failed to load work log", err)
	}

	list = filter(list, res.Search)
	sortEntries(list, req.Sort, req.Dir == "desc")

	size := req.Size
	if size == 0 {
		size = DefaultPageSize
	}
	known := s.lookup.CachedMap(ctx)
	total := len(list)
	start := req.Page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	rows := make([]Row, 0, end-start)
	for _, w := range list[start:end] {
		rows = append(rows, Row{WorkLog: w, DriverLabel: driverLabel(w, known)})
	}

	p := &page.Page[Row]{Content: rows, TotalElements: int64(total), Size: size, Number: req.Page}
	res.Page = p.Normalize(req.Page, size)
	return res, nil
}

// filter matches the query against id, transport, driver, activity and notes.
func filter(list []domainDriver.WorkLog, q string) []domainDriver.WorkLog {
	q = strings.ToLower(q)
	if q == "" {
		return list
	}
	out := make([]domainDriver.WorkLog, 0, len(list))
	for _, w := range list {
		fields := []string{
			strconv.FormatInt(w.ID, 10),
			strconv.FormatInt(w.DriverID, 10),
			strings.ToLower(string(w.ActivityType)),
		}
		if w.TransportID != nil {
			fields = append(fields, strconv.FormatInt(*w.TransportID, 10))
		}
		if w.Notes != nil {
			fields = append(fields, strings.ToLower(*w.Notes))
		}
		if w.DriverName != nil {
			fields = append(fields, strings.ToLower(*w.DriverName))
		}
		for _, f := range fields {
			if strings.Contains(f, q) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}

func sortEntries(list []domainDriver.WorkLog, key string, desc bool) {
	var less func(a, b domainDriver.WorkLog) bool
	switch key {
	case "id":
		less = func(a, b domainDriver.WorkLog) bool { return a.ID < b.ID }
	case "driverId":
		less = func(a, b domainDriver.WorkLog) bool { return a.DriverID < b.DriverID }
	case "startTime":
		less = func(a, b domainDriver.WorkLog) bool { return a.StartTime.Before(b.StartTime) }
	case "endTime":
		less = func(a, b domainDriver.WorkLog) bool {
			if a.EndTime == nil || b.EndTime == nil {
				return a.EndTime == nil && b.EndTime != nil
			}
			return a.EndTime.Before(*b.EndTime)
		}
	case "breakDuration":
		less = func(a, b domainDriver.WorkLog) bool { return intOr(a.BreakDuration) < intOr(b.BreakDuration) }
	case "activityType":
		less = func(a, b domainDriver.WorkLog) bool { return a.ActivityType < b.ActivityType }
	case "transportId":
		less = func(a, b domainDriver.WorkLog) bool { return int64Or(a.TransportID) < int64Or(b.TransportID) }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// Get finds one entry in the list visible to the principal.
func (s *Service) Get(ctx context.Context, me *account.Me, id int64) (*domainDriver.WorkLog, error) {
	var (
		list []domainDriver.WorkLog
		err  error
	)
	if me.HasRole(account.RoleDriver) {
		list, err = s.logs.ListMine(ctx)
	} else {
		list, err = s.logs.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, appErrors.NewAppError("NOT_FOUND", "Work log entry not found", domainDriver.ErrWorkLogNotFound)
}

// FormOptions lists the drivers and transports selectable in the dialog.
// Drivers pick from their own transports; others pick a driver first.
func (s *Service) FormOptions(ctx context.Context, me *account.Me, driverID int64) (*FormOptions, error) {
	opts := &FormOptions{Types: domainDriver.AllActivityTypes, Drivers: []Option{}, Transports: []Option{}}

	if me.HasRole(account.RoleDriver) {
		opts.DriverID = me.UserID()
		list, err := s.self.MyTransports(ctx)
		if err != nil {
			return nil, appErrors.NewAppError("LOAD_FAILED", "Failed to load driver transports", err)
		}
		opts.Transports = transportOptions(list)
		return opts, nil
	}

	if driverID == 0 {
		drivers, err := s.lookup.All(ctx)
		if err != nil {
			return nil, appErrors.NewAppError("LOAD_FAILED", "Failed to load drivers", err)
		}
		for _, d := range drivers {
			opts.Drivers = append(opts.Drivers, Option{ID: d.UserID, Label: d.FullName()})
		}
		sort.SliceStable(opts.Drivers, func(i, j int) bool { return opts.Drivers[i].Label < opts.Drivers[j].Label })
		return opts, nil
	}

	opts.DriverID = driverID
	list, err := s.transports.ByDriver(ctx, driverID)
	if err != nil {
		return nil, appErrors.NewAppError("LOAD_FAILED", "Failed to load driver transports", err)
	}
	opts.Transports = transportOptions(list)
	return opts, nil
}

func transportOptions(list []transport.Transport) []Option {
	out := make([]Option, 0, len(list))
	for _, t := range list {
		out = append(out, Option{ID: t.ID, Label: fmt.Sprintf("#%d (%s)", t.ID, t.Status)})
	}
	return out
}

// Create adds an entry. Drivers post to their own endpoint; admins post for
// the selected driver.
func (s *Service) Create(ctx context.Context, me *account.Me, form *Form) (*domainDriver.WorkLog, error) {
	if !CanAdd(me) {
		return nil, appErrors.NotAllowed("Only admin or driver can add work log entries")
	}
	req, err := form.request()
	if err != nil {
		return nil, err
	}

	var w *domainDriver.WorkLog
	if me.HasRole(account.RoleDriver) {
		req.DriverID = me.UserID()
		w, err = s.logs.CreateMine(ctx, req)
	} else {
		if req.DriverID == 0 {
			return nil, warn("Select a driver")
		}
		w, err = s.logs.Create(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Work log created",
		zap.Int64("work_log_id", w.ID),
		zap.Int64("driver_id", req.DriverID),
		zap.String("event", "work_log_created"),
	)
	return w, nil
}

func (s *Service) Update(ctx context.Context, me *account.Me, id int64, form *Form) (*domainDriver.WorkLog, error) {
	if !CanManage(me) {
		return nil, appErrors.NotAllowed("Only admin can edit work log entries")
	}
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	return s.logs.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, me *account.Me, id int64) error {
	if !CanManage(me) {
		return appErrors.NotAllowed("Only admin can delete work log entries")
	}
	if err := s.logs.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Work log deleted",
		zap.Int64("work_log_id", id),
		zap.String("event", "work_log_deleted"),
	)
	return nil
}

func (f *Form) request() (*domainDriver.WorkLogRequest, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}

	start, err := utils.ParseDateTime(f.StartTime)
	if err != nil || start == nil {
		return nil, warn("Start time is required")
	}
	end, err := utils.ParseDateTime(f.EndTime)
	if err != nil {
		return nil, warn("End time is invalid")
	}
	if err := validator.ValidateTimeRange(start, end, "End time must be after start time"); err != nil {
		return nil, err
	}
	breakDuration, err := utils.OptionalInt(f.BreakDuration)
	if err != nil || (breakDuration != nil && *breakDuration < 0) {
		return nil, warn("Break duration must be >= 0")
	}
	transportID, err := utils.OptionalInt64(f.TransportID)
	if err != nil || transportID == nil || *transportID <= 0 {
		return nil, warn("Select a transport")
	}

	req := &domainDriver.WorkLogRequest{
		StartTime:     start.UTC(),
		BreakDuration: breakDuration,
		Notes:         utils.OptionalString(utils.SanitizeText(f.Notes)),
		TransportID:   transportID,
		ActivityType:  domainDriver.ActivityType(f.ActivityType),
	}
	if end != nil {
		e := end.UTC()
		req.EndTime = &e
	}
	if id, err := utils.ParseID(f.DriverID); err == nil {
		req.DriverID = id
	}
	return req, nil
}

func intOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func int64Or(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func warn(message string) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, appErrors.ErrInvalidInput)
}
