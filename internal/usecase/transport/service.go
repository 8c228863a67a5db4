package transport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
	domainTransport "fleet-console/internal/domain/transport"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	locationLookupSize = 500
	assetLookupSize    = 200
	cargoTargetsSize   = 200
	cargoParallelism   = 4
)

var sortableFields = map[string]bool{
	"id":                true,
	"status":            true,
	"driverId":          true,
	"vehicleId":         true,
	"plannedStartAt":    true,
	"plannedEndAt":      true,
	"plannedDistanceKm": true,
}

// Service implements the dispatcher transport pages and the driver's own
// transport board.
type Service struct {
	transports   domainTransport.Repository
	drivers      driver.Repository
	driverLookup driver.Lookup
	self         driver.SelfService
	vehicles     asset.VehicleRepository
	trailers     asset.TrailerRepository
	locations    location.Repository
	cargos       cargo.Repository
	busy         *Busy
}

func NewService(
	transports domainTransport.Repository,
	drivers driver.Repository,
	driverLookup driver.Lookup,
	self driver.SelfService,
	vehicles asset.VehicleRepository,
	trailers asset.TrailerRepository,
	locations location.Repository,
	cargos cargo.Repository,
	busy *Busy,
) *Service {
	if busy == nil {
		busy = NewBusy()
	}
	return &Service{
		transports:   transports,
		drivers:      drivers,
		driverLookup: driverLookup,
		self:         self,
		vehicles:     vehicles,
		trailers:     trailers,
		locations:    locations,
		cargos:       cargos,
		busy:         busy,
	}
}

func (s *Service) List(ctx context.Context, me *account.Me, req *ListRequest) (*ListResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	size := req.Size
	if size == 0 {
		size = DefaultPageSize
	}

	search := ParseSearch(req.Search)
	filter := &domainTransport.Filter{
		Status:    search.Status,
		DriverID:  search.DriverID,
		VehicleID: search.VehicleID,
		Q:         search.Q,
		Page:      req.Page,
		Size:      size,
	}
	rawSort := req.Sort
	if req.Dir != "" && !strings.Contains(rawSort, ",") {
		rawSort += "," + req.Dir
	}
	sortParam := normalizeSort(rawSort)
	if sortParam != "" {
		filter.Sort = []string{sortParam}
	}

	p, err := s.transports.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	p.Normalize(req.Page, size)

	labels := s.loadLabels(ctx, p.Content)

	rows := make([]Row, 0, len(p.Content))
	for _, t := range p.Content {
		rows = append(rows, Row{
			Transport:     t,
			DriverLabel:   labels.driver(t.DriverID),
			VehicleLabel:  labels.vehicle(t.VehicleID),
			PickupLabel:   labels.location(t.PickupLocationID),
			DeliveryLabel: labels.location(t.DeliveryLocationID),
			CanEdit:       domainTransport.CanEdit(t),
			CanDelete:     domainTransport.CanDelete(t, me),
			EditTooltip:   domainTransport.EditTooltip(t),
			DeleteTooltip: domainTransport.DeleteTooltip(t, me),
		})
	}

	res := &ListResult{
		Page: &page.Page[Row]{
			Content:       rows,
			TotalElements: p.TotalElements,
			TotalPages:    p.TotalPages,
			Size:          p.Size,
			Number:        p.Number,
		},
		Search: strings.TrimSpace(req.Search),
		Sort:   sortParam,
	}
	res.SortField, res.Dir, _ = strings.Cut(sortParam, ",")
	return res, nil
}

// normalizeSort accepts "field" or "field,dir" for a sortable field.
func normalizeSort(raw string) string {
	field, dir, _ := strings.Cut(strings.TrimSpace(raw), ",")
	if !sortableFields[field] {
		return ""
	}
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir != "desc" {
		dir = "asc"
	}
	return field + "," + dir
}

// FormOptions loads the select lists. With current set (edit form), the
// transport's own driver and assets stay selectable whatever their status.
func (s *Service) FormOptions(ctx context.Context, current *domainTransport.Transport) (*FormOptions, error) {
	var (
		drivers   []driver.Driver
		vehicles  []asset.Vehicle
		trailers  []asset.Trailer
		locations []location.Location
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if current == nil {
			drivers, err = s.drivers.Available(gctx)
		} else {
			drivers, err = s.driverLookup.All(gctx)
		}
		return err
	})
	g.Go(func() (err error) {
		if current == nil {
			vehicles, err = s.vehicles.Available(gctx)
		} else {
			vehicles, err = s.vehicles.Lookup(gctx, assetLookupSize)
		}
		return err
	})
	g.Go(func() (err error) {
		if current == nil {
			trailers, err = s.trailers.Available(gctx)
		} else {
			trailers, err = s.trailers.Lookup(gctx, assetLookupSize)
		}
		return err
	})
	g.Go(func() (err error) {
		locations, err = s.locations.Lookup(gctx, locationLookupSize)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("Failed to load transport form data", zap.Error(err))
		return nil, appErrors.NewAppError("FORM_DATA_FAILED", "Failed to load form data", err)
	}

	var (
		currentDriver  int64
		currentVehicle int64
		currentTrailer int64
	)
	if current != nil {
		if current.DriverID != nil {
			currentDriver = *current.DriverID
		}
		currentVehicle = current.VehicleID
		currentTrailer = current.TrailerID
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].LastName+drivers[i].FirstName < drivers[j].LastName+drivers[j].FirstName
	})

	opts := &FormOptions{}
	for _, d := range drivers {
		if d.DriverStatus == driver.StatusAvailable || d.UserID == currentDriver {
			opts.Drivers = append(opts.Drivers, driverOption(d))
		}
	}
	for _, v := range vehicles {
		if v.VehicleStatus == asset.StatusActive || v.ID == currentVehicle {
			opts.Vehicles = append(opts.Vehicles, vehicleOption(v))
		}
	}
	for _, t := range trailers {
		if t.TrailerStatus == asset.StatusActive || t.ID == currentTrailer {
			opts.Trailers = append(opts.Trailers, trailerOption(t))
		}
	}
	for _, l := range locations {
		opts.Locations = append(opts.Locations, locationOption(l))
	}
	return opts, nil
}

// CargoTargets lists the transports new cargo can be attached to, newest first.
func (s *Service) CargoTargets(ctx context.Context) ([]Option, error) {
	p, err := s.transports.List(ctx, &domainTransport.Filter{
		Status: domainTransport.StatusPlanned,
		Size:   cargoTargetsSize,
		Sort:   []string{"id,desc"},
	})
	if err != nil {
		return nil, err
	}

	out := make([]Option, 0, len(p.Content))
	for _, t := range p.Content {
		if !domainTransport.CanEdit(t) {
			continue
		}
		label := fmt.Sprintf("#%d", t.ID)
		if t.PlannedStartAt != nil {
			label += " (" + t.PlannedStartAt.Format("2006-01-02 15:04") + ")"
		}
		out = append(out, Option{ID: t.ID, Label: label})
	}
	return out, nil
}

// Create stores the transport and then its drafted cargo lines. Cargo
// failures do not undo the transport; the returned message says how many failed.
func (s *Service) Create(ctx context.Context, form *Form) (*CreateResult, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	lines, err := cargoRequests(form.CargoLines())
	if err != nil {
		return nil, err
	}

	created, err := s.transports.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.DriverID != nil {
		s.driverLookup.Invalidate(ctx)
	}

	failed := s.createCargo(ctx, created.ID, lines)

	logger.Info("Transport created",
		zap.Int64("transport_id", created.ID),
		zap.Int("cargo_items", len(lines)),
		zap.Int64("cargo_failed", failed),
		zap.String("event", "transport_created"),
	)

	res := &CreateResult{Transport: created, CargoFailed: failed, Message: "Transport created"}
	if failed > 0 {
		res.Message = fmt.Sprintf("Transport created, but %d cargo item(s) failed to create.", failed)
	}
	return res, nil
}

func (s *Service) createCargo(ctx context.Context, transportID int64, lines []*cargo.CreateRequest) int64 {
	if transportID == 0 || len(lines) == 0 {
		return 0
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(cargoParallelism)
	for _, line := range lines {
		g.Go(func() error {
			if _, err := s.cargos.CreateForTransport(ctx, transportID, line); err != nil {
				failed.Add(1)
				logger.Warn("Failed to create cargo for transport",
					zap.Int64("transport_id", transportID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed.Load()
}

func (s *Service) Get(ctx context.Context, id int64) (*domainTransport.Transport, error) {
	return s.transports.GetByID(ctx, id)
}

// Update edits a PLANNED transport. Admins without the dispatcher role go
// through the admin endpoint.
func (s *Service) Update(ctx context.Context, me *account.Me, id int64, form *Form) (*domainTransport.Transport, error) {
	current, err := s.transports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domainTransport.CanEdit(*current) {
		return nil, appErrors.NotAllowed("Only PLANNED transports can be edited")
	}

	req, err := form.request()
	if err != nil {
		return nil, err
	}

	var updated *domainTransport.Transport
	if me.HasRole(account.RoleAdmin) && !me.HasRole(account.RoleDispatcher) {
		updated, err = s.transports.AdminUpdate(ctx, id, req)
	} else {
		updated, err = s.transports.Update(ctx, id, req)
	}
	if err != nil {
		return nil, err
	}

	if !sameID(current.DriverID, req.DriverID) {
		s.driverLookup.Invalidate(ctx)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, me *account.Me, id int64) error {
	t, err := s.transports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domainTransport.CanDelete(*t, me) {
		return appErrors.NotAllowed(domainTransport.DeleteTooltip(*t, me))
	}
	if err := s.transports.Delete(ctx, id); err != nil {
		return err
	}
	if t.DriverID != nil {
		s.driverLookup.Invalidate(ctx)
	}

	logger.Info("Transport deleted",
		zap.Int64("transport_id", id),
		zap.String("event", "transport_deleted"),
	)
	return nil
}

// ChangeStatus applies a dispatcher status change and returns the notice text.
func (s *Service) ChangeStatus(ctx context.Context, id int64, req *StatusRequest) (string, error) {
	if err := validator.Check(req); err != nil {
		return "", err
	}
	status := domainTransport.Status(req.Status)

	t, err := s.transports.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if t.Status.IsTerminal() {
		return "", appErrors.NotAllowed(fmt.Sprintf("Cannot change status: transport is %s.", t.Status))
	}

	if _, err := s.transports.UpdateStatus(ctx, id, status); err != nil {
		return "", err
	}
	s.driverLookup.Invalidate(ctx)

	logger.Info("Transport status changed",
		zap.Int64("transport_id", id),
		zap.String("from", string(t.Status)),
		zap.String("to", string(status)),
		zap.String("event", "transport_status_changed"),
	)
	return statusNotice(status), nil
}

func (s *Service) AssignDriver(ctx context.Context, id int64, req *AssignDriverRequest) error {
	if err := validator.Check(req); err != nil {
		return err
	}
	if _, err := s.transports.AssignDriver(ctx, id, req.DriverID); err != nil {
		return err
	}
	s.driverLookup.Invalidate(ctx)
	return nil
}

// Details loads the detail page: the transport, its history and cargo, and
// driver and asset labels. Only the transport itself is mandatory.
func (s *Service) Details(ctx context.Context, me *account.Me, id int64) (*Details, error) {
	d, err := s.transports.Details(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &Details{Transport: d}
	t := domainTransport.Transport{ID: d.ID, Status: d.Status}
	out.CanEdit = domainTransport.CanEdit(t)
	out.CanDelete = domainTransport.CanDelete(t, me)
	out.EditTooltip = domainTransport.EditTooltip(t)
	out.DeleteTooltip = domainTransport.DeleteTooltip(t, me)
	out.DriverLabel = "N/A"
	out.VehicleLabel = fmt.Sprintf("#%d", d.VehicleID)
	out.TrailerLabel = fmt.Sprintf("#%d", d.TrailerID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if h, err := s.transports.History(gctx, id); err == nil {
			sort.SliceStable(h, func(i, j int) bool { return h[i].ChangedAt.Before(h[j].ChangedAt) })
			out.History = h
		}
		return nil
	})
	g.Go(func() error {
		if c, err := s.cargos.ByTransport(gctx, id); err == nil {
			out.Cargo = c
		}
		return nil
	})
	g.Go(func() error {
		if d.DriverID == nil {
			return nil
		}
		out.DriverLabel = fmt.Sprintf("#%d", *d.DriverID)
		if dr, err := s.drivers.GetByID(gctx, *d.DriverID); err == nil {
			out.DriverLabel = dr.FullName()
		}
		return nil
	})
	g.Go(func() error {
		if v, err := s.vehicles.GetByID(gctx, d.VehicleID); err == nil {
			out.VehicleLabel = v.Label()
		}
		return nil
	})
	g.Go(func() error {
		if tr, err := s.trailers.GetByID(gctx, d.TrailerID); err == nil {
			out.TrailerLabel = tr.Label()
		}
		return nil
	})
	_ = g.Wait()

	return out, nil
}

func statusNotice(status domainTransport.Status) string {
	switch status {
	case domainTransport.StatusCancelled:
		return "Transport cancelled"
	case domainTransport.StatusFailed:
		return "Transport marked as failed"
	case domainTransport.StatusRejected:
		return "Transport rejected"
	case domainTransport.StatusAccepted:
		return "Transport accepted"
	case domainTransport.StatusInProgress:
		return "Transport started"
	case domainTransport.StatusFinished:
		return "Transport finished"
	}
	return "Transport updated"
}

func (f *Form) request() (*domainTransport.Request, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}

	due, err := utils.ParseDateTime(f.ContractualDueAt)
	if err != nil {
		return nil, invalidField("Contractual due date is invalid", err)
	}
	start, err := utils.ParseDateTime(f.PlannedStartAt)
	if err != nil {
		return nil, invalidField("Planned start is invalid", err)
	}
	end, err := utils.ParseDateTime(f.PlannedEndAt)
	if err != nil {
		return nil, invalidField("Planned end is invalid", err)
	}
	if err := validator.ValidateTimeRange(start, end, "Planned end cannot be before planned start."); err != nil {
		return nil, err
	}

	distance, err := utils.OptionalFloat(f.PlannedDistanceKm)
	if err != nil {
		return nil, invalidField("Planned distance is invalid", err)
	}
	if distance != nil && *distance < 0.01 {
		return nil, invalidField("Planned distance must be at least 0.01", appErrors.ErrInvalidRange)
	}

	driverID, err := utils.OptionalInt64(f.DriverID)
	if err != nil {
		return nil, invalidField("Driver is invalid", err)
	}

	return &domainTransport.Request{
		VehicleID:          f.VehicleID,
		DriverID:           driverID,
		TrailerID:          f.TrailerID,
		PickupLocationID:   f.PickupLocationID,
		DeliveryLocationID: f.DeliveryLocationID,
		ContractualDueAt:   due,
		PlannedStartAt:     start,
		PlannedEndAt:       end,
		PlannedDistanceKm:  distance,
	}, nil
}

func cargoRequests(lines []CargoLine) ([]*cargo.CreateRequest, error) {
	out := make([]*cargo.CreateRequest, 0, len(lines))
	for i, line := range lines {
		n := i + 1
		if line.Description == "" {
			return nil, invalidField(fmt.Sprintf("Cargo item %d: description is required", n), appErrors.ErrInvalidInput)
		}
		weight, err := utils.OptionalFloat(line.WeightKg)
		if err != nil || weight == nil || *weight < 0.01 {
			return nil, invalidField(fmt.Sprintf("Cargo item %d: weight must be at least 0.01", n), appErrors.ErrInvalidRange)
		}
		volume, err := utils.OptionalFloat(line.VolumeM3)
		if err != nil || volume == nil || *volume < 0.01 {
			return nil, invalidField(fmt.Sprintf("Cargo item %d: volume must be at least 0.01", n), appErrors.ErrInvalidRange)
		}
		pickup, err := utils.ParseDateTime(line.PickupDate)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("Cargo item %d: pickup date is invalid", n), err)
		}
		delivery, err := utils.ParseDateTime(line.DeliveryDate)
		if err != nil {
			return nil, invalidField(fmt.Sprintf("Cargo item %d: delivery date is invalid", n), err)
		}
		if err := validator.ValidateTimeRange(pickup, delivery,
			fmt.Sprintf("Cargo item %d: pickup date cannot be after delivery date", n)); err != nil {
			return nil, err
		}
		out = append(out, &cargo.CreateRequest{
			CargoDescription: line.Description,
			WeightKg:         *weight,
			VolumeM3:         *volume,
			PickupDate:       pickup,
			DeliveryDate:     delivery,
		})
	}
	return out, nil
}

func invalidField(message string, err error) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, err)
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// labelSet resolves the ids shown in the transport table.
type labelSet struct {
	drivers   map[int64]driver.Driver
	vehicles  map[int64]asset.Vehicle
	locations map[int64]location.Location
}

func (l *labelSet) driver(id *int64) string {
	if id == nil || *id == 0 {
		return "N/A"
	}
	d, ok := l.drivers[*id]
	if !ok {
		return fmt.Sprintf("#%d", *id)
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (l *labelSet) vehicle(id int64) string {
	if id == 0 {
		return "N/A"
	}
	v, ok := l.vehicles[id]
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	return v.Label()
}

func (l *labelSet) location(id *int64) string {
	if id == nil || *id == 0 {
		return "N/A"
	}
	loc, ok := l.locations[*id]
	if !ok {
		return fmt.Sprintf("#%d", *id)
	}
	return loc.Label()
}

// loadLabels fetches drivers, vehicles and locations concurrently. Failed
// lookups leave "#id" labels behind.
func (s *Service) loadLabels(ctx context.Context, list []domainTransport.Transport) *labelSet {
	labels := &labelSet{
		drivers:   s.driverLookup.CachedMap(ctx),
		vehicles:  map[int64]asset.Vehicle{},
		locations: map[int64]location.Location{},
	}
	if labels.drivers == nil {
		labels.drivers = map[int64]driver.Driver{}
	}

	var driverIDs, vehicleIDs []int64
	seenD, seenV := map[int64]bool{}, map[int64]bool{}
	for _, t := range list {
		if t.DriverID != nil && *t.DriverID != 0 && !seenD[*t.DriverID] {
			seenD[*t.DriverID] = true
			if _, cached := labels.drivers[*t.DriverID]; !cached {
				driverIDs = append(driverIDs, *t.DriverID)
			}
		}
		if t.VehicleID != 0 && !seenV[t.VehicleID] {
			seenV[t.VehicleID] = true
			vehicleIDs = append(vehicleIDs, t.VehicleID)
		}
	}

	var (
		drivers   []driver.Driver
		vehicles  []asset.Vehicle
		locations []location.Location
	)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(driverIDs) == 0 {
			return nil
		}
		var err error
		if drivers, err = s.drivers.GetByIDs(gctx, driverIDs); err != nil {
			logger.Debug("Driver labels unavailable", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if len(vehicleIDs) == 0 {
			return nil
		}
		var err error
		if vehicles, err = s.vehicles.GetByIDs(gctx, vehicleIDs); err != nil {
			logger.Debug("Vehicle labels unavailable", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if locations, err = s.locations.Lookup(gctx, locationLookupSize); err != nil {
			logger.Debug("Location labels unavailable", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	for _, d := range drivers {
		labels.drivers[d.UserID] = d
	}
	for _, v := range vehicles {
		labels.vehicles[v.ID] = v
	}
	for _, loc := range locations {
		labels.locations[loc.ID] = loc
	}

	logger.Debug("Transport labels loaded",
		zap.Int("drivers", len(driverIDs)),
		zap.Int("vehicles", len(vehicleIDs)),
		zap.Duration("latency", time.Since(start)),
	)
	return labels
}
