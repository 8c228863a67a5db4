package cargo

import (
	"context"
	"time"

	domainCargo "fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the cargo management page.
type Service struct {
	cargos domainCargo.Repository
}

func NewService(cargos domainCargo.Repository) *Service {
	return &Service{cargos: cargos}
}

func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := req.query()
	p, err := s.cargos.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	rows := make([]Row, 0, len(p.Content))
	for _, c := range p.Content {
		rows = append(rows, Row{
			Cargo:         c,
			CanDelete:     domainCargo.CanDelete(c),
			DeleteTooltip: domainCargo.DeleteTooltip(c),
		})
	}
	return &ListResult{
		Page: &page.Page[Row]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number},
		Sort: req.Sort,
		Dir:  req.Dir,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domainCargo.Cargo, error) {
	return s.cargos.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, form *Form) (*domainCargo.Cargo, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	transportID, err := utils.ParseID(form.TransportID)
	if err != nil {
		return nil, warn("Select a transport")
	}
	req.TransportID = transportID

	c, err := s.cargos.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Cargo created",
		zap.Int64("cargo_id", c.ID),
		zap.Int64("transport_id", transportID),
		zap.String("event", "cargo_created"),
	)
	return c, nil
}

// CreateForTransport attaches a new cargo item to an existing transport.
func (s *Service) CreateForTransport(ctx context.Context, transportID int64, form *Form) (*domainCargo.Cargo, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	c, err := s.cargos.CreateForTransport(ctx, transportID, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Cargo created",
		zap.Int64("cargo_id", c.ID),
		zap.Int64("transport_id", transportID),
		zap.String("event", "cargo_created"),
	)
	return c, nil
}

// Update saves the cargo fields. The transport link cannot be changed.
func (s *Service) Update(ctx context.Context, id int64, form *Form) (*domainCargo.Cargo, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	description := req.CargoDescription
	return s.cargos.Update(ctx, id, &domainCargo.UpdateRequest{
		CargoDescription: &description,
		WeightKg:         &req.WeightKg,
		VolumeM3:         &req.VolumeM3,
		PickupDate:       req.PickupDate,
		DeliveryDate:     req.DeliveryDate,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.cargos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domainCargo.CanDelete(*c) {
		return appErrors.NotAllowed(domainCargo.DeleteTooltip(*c))
	}
	if err := s.cargos.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Cargo deleted",
		zap.Int64("cargo_id", id),
		zap.String("event", "cargo_deleted"),
	)
	return nil
}

func (f *Form) request() (*domainCargo.CreateRequest, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}

	weight, err := utils.OptionalFloat(f.WeightKg)
	if err != nil || weight == nil || *weight <= 0 {
		return nil, warn("Provide a valid cargo weight")
	}
	volume, err := utils.OptionalFloat(f.VolumeM3)
	if err != nil || volume == nil || *volume <= 0 {
		return nil, warn("Provide a valid cargo volume")
	}
	pickup, err := utils.ParseDateTime(f.PickupDate)
	if err != nil {
		return nil, warn("Pickup date is invalid")
	}
	delivery, err := utils.ParseDateTime(f.DeliveryDate)
	if err != nil {
		return nil, warn("Delivery date is invalid")
	}
	if pickup != nil && delivery != nil && delivery.Before(*pickup) {
		return nil, warn("Delivery date must be after pickup date")
	}

	return &domainCargo.CreateRequest{
		CargoDescription: utils.SanitizeText(f.CargoDescription),
		WeightKg:         *weight,
		VolumeM3:         *volume,
		PickupDate:       utc(pickup),
		DeliveryDate:     utc(delivery),
	}, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func warn(message string) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, appErrors.ErrInvalidInput)
}
