package driver

import (
	"context"
	"strings"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/cargo"
	domainDriver "fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	userSearchMinLen = 2
	userSearchSize   = 10
)

// Service implements the driver management pages and the driver's own views.
type Service struct {
	drivers domainDriver.Repository
	users   account.UserRepository
	lookup  domainDriver.Lookup
	self    domainDriver.SelfService
}

func NewService(drivers domainDriver.Repository, users account.UserRepository, lookup domainDriver.Lookup, self domainDriver.SelfService) *Service {
	return &Service{drivers: drivers, users: users, lookup: lookup, self: self}
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := req.query()
	p, err := s.drivers.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	rows := make([]Row, 0, len(p.Content))
	for _, d := range p.Content {
		rows = append(rows, Row{
			Driver:        d,
			CanDelete:     domainDriver.CanDelete(d),
			DeleteTooltip: domainDriver.DeleteTooltip(d),
		})
	}
	return &ListResult{
		Page: &page.Page[Row]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number},
		Sort: req.Sort,
		Dir:  req.Dir,
	}, nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*domainDriver.Driver, error) {
	return s.drivers.GetByID(ctx, userID)
}

// SearchUsers returns candidate users for a new driver. Queries shorter than
// two characters return nothing without calling the backend.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]UserOption, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < userSearchMinLen {
		return []UserOption{}, nil
	}
	users, err := s.users.Search(ctx, query, userSearchSize)
	if err != nil {
		return nil, err
	}
	out := make([]UserOption, 0, len(users))
	for _, u := range users {
		out = append(out, UserOption{ID: u.ID, Label: userLabel(u)})
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, form *Form) (*domainDriver.Driver, error) {
	if err := validator.Check(form); err != nil {
		return nil, err
	}
	userID, err := utils.ParseID(form.UserID)
	if err != nil {
		return nil, warn("Select user first")
	}

	d, err := s.drivers.Create(ctx, &domainDriver.CreateRequest{
		UserID:                  userID,
		DriverLicenseNumber:     utils.OptionalString(form.LicenseNumber),
		DriverLicenseCategory:   utils.OptionalString(form.LicenseCategory),
		DriverLicenseExpiryDate: utils.OptionalString(form.LicenseExpiryDate),
	})
	if err != nil {
		return nil, err
	}
	s.lookup.Invalidate(ctx)

	logger.Info("Driver created",
		zap.Int64("driver_id", d.UserID),
		zap.String("event", "driver_created"),
	)
	return d, nil
}

// Update saves the licence fields, then the status when it changed.
func (s *Service) Update(ctx context.Context, userID int64, form *Form) error {
	if err := validator.Check(form); err != nil {
		return err
	}
	current, err := s.drivers.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	_, err = s.drivers.Update(ctx, userID, &domainDriver.UpdateRequest{
		DriverLicenseNumber:     utils.OptionalString(form.LicenseNumber),
		DriverLicenseCategory:   utils.OptionalString(form.LicenseCategory),
		DriverLicenseExpiryDate: utils.OptionalString(form.LicenseExpiryDate),
	})
	if err != nil {
		return err
	}
	defer s.lookup.Invalidate(ctx)

	next := domainDriver.Status(form.Status)
	if next != "" && next != current.DriverStatus {
		if _, err := s.drivers.ChangeStatus(ctx, userID, next); err != nil {
			return err
		}
	}
	return nil
}

// ChangeStatus reports false without calling the backend when the status is unchanged.
func (s *Service) ChangeStatus(ctx context.Context, userID int64, req *StatusRequest) (bool, error) {
	if err := validator.Check(req); err != nil {
		return false, err
	}
	current, err := s.drivers.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	next := domainDriver.Status(req.Status)
	if next == current.DriverStatus {
		return false, nil
	}
	if _, err := s.drivers.ChangeStatus(ctx, userID, next); err != nil {
		return false, err
	}
	s.lookup.Invalidate(ctx)

	logger.Info("Driver status changed",
		zap.Int64("driver_id", userID),
		zap.String("status", string(next)),
		zap.String("event", "driver_status_changed"),
	)
	return true, nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	d, err := s.drivers.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !domainDriver.CanDelete(*d) {
		return appErrors.NotAllowed(domainDriver.DeleteTooltip(*d))
	}
	if err := s.drivers.Delete(ctx, userID); err != nil {
		return err
	}
	s.lookup.Invalidate(ctx)

	logger.Info("Driver deleted",
		zap.Int64("driver_id", userID),
		zap.String("event", "driver_deleted"),
	)
	return nil
}

// MyCargo loads the driver's cargo. Unless all is set, only cargo on the
// current transport is kept.
func (s *Service) MyCargo(ctx context.Context, all bool) (*CargoView, error) {
	var (
		items      []cargo.Cargo
		transports []transport.Transport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.self.MyCargo(gctx)
		return err
	})
	g.Go(func() (err error) {
		transports, err = s.self.MyTransports(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, loadError("Failed to load cargo.", err)
	}

	view := &CargoView{All: all}
	currentID, ok := transport.CurrentID(transports)
	if ok {
		view.CurrentTransportID = currentID
	}
	if all {
		view.Items = items
		return view, nil
	}
	view.Items = []cargo.Cargo{}
	if !ok {
		return view, nil
	}
	for _, c := range items {
		if c.TransportID != nil && *c.TransportID == currentID {
			view.Items = append(view.Items, c)
		}
	}
	return view, nil
}

// MyTimeline loads the status history of one of the driver's transports. In
// current mode the current transport is shown. In history mode the selected
// transport is shown, defaulting to the first one.
func (s *Service) MyTimeline(ctx context.Context, history bool, selected int64) (*TimelineView, error) {
	var (
		entries    []transport.StatusHistory
		transports []transport.Transport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entries, err = s.self.MyTimeline(gctx)
		return err
	})
	g.Go(func() (err error) {
		transports, err = s.self.MyTransports(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, loadError("Failed to load timeline.", err)
	}

	view := &TimelineView{History: history, Entries: []transport.StatusHistory{}}
	if history {
		view.Transports = transports
		if selected != 0 && containsTransport(transports, selected) {
			view.SelectedID = selected
		} else if len(transports) > 0 {
			view.SelectedID = transports[0].ID
		}
	} else if id, ok := transport.CurrentID(transports); ok {
		view.SelectedID = id
		for _, t := range transports {
			if t.ID == id {
				view.Transports = []transport.Transport{t}
			}
		}
	}

	if view.SelectedID == 0 {
		return view, nil
	}
	for _, e := range entries {
		if e.TransportID == view.SelectedID {
			view.Entries = append(view.Entries, e)
		}
	}
	return view, nil
}

func containsTransport(list []transport.Transport, id int64) bool {
	for _, t := range list {
		if t.ID == id {
			return true
		}
	}
	return false
}

func loadError(message string, err error) error {
	logger.Warn("Driver self-service load failed", zap.Error(err))
	return appErrors.NewAppError("LOAD_FAILED", message, err)
}

func warn(message string) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, appErrors.ErrInvalidInput)
}
