package location

import (
	"context"
	"strconv"
	"strings"

	domainLocation "fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the location management page.
type Service struct {
	locations domainLocation.Repository
}

func NewService(locations domainLocation.Repository) *Service {
	return &Service{locations: locations}
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := req.query()
	p, err := s.locations.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	rows := make([]Row, 0, len(p.Content))
	for _, l := range p.Content {
		rows = append(rows, Row{
			Location:      l,
			Address:       l.Label(),
			CanDelete:     domainLocation.CanDelete(l),
			DeleteTooltip: domainLocation.DeleteTooltip(l),
		})
	}
	return &ListResult{
		Page: &page.Page[Row]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number},
		Sort: req.Sort,
		Dir:  req.Dir,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domainLocation.Location, error) {
	return s.locations.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, form *Form) (*domainLocation.Location, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	l, err := s.locations.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Location created",
		zap.Int64("location_id", l.ID),
		zap.String("event", "location_created"),
	)
	return l, nil
}

func (s *Service) Update(ctx context.Context, id int64, form *Form) (*domainLocation.Location, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	return s.locations.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domainLocation.CanDelete(*l) {
		return appErrors.NotAllowed(domainLocation.DeleteTooltip(*l))
	}
	if err := s.locations.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Location deleted",
		zap.Int64("location_id", id),
		zap.String("event", "location_deleted"),
	)
	return nil
}

func (f *Form) request() (*domainLocation.Request, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}
	lat, err := utils.OptionalFloat(f.Latitude)
	if err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Latitude must be between -90 and 90", domainLocation.ErrLatitudeRange)
	}
	lng, err := utils.OptionalFloat(f.Longitude)
	if err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Longitude must be between -180 and 180", domainLocation.ErrLongitudeRange)
	}
	if err := validator.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	return &domainLocation.Request{
		Street:         trimmed(f.Street),
		BuildingNumber: trimmed(f.BuildingNumber),
		City:           trimmed(f.City),
		Postcode:       trimmed(f.Postcode),
		Country:        trimmed(f.Country),
		Latitude:       lat,
		Longitude:      lng,
	}, nil
}

func trimmed(s string) *string {
	v := strings.TrimSpace(s)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strconvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
