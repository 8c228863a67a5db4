package asset

import (
	"context"
	"strings"

	domainAsset "fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"
	"fleet-console/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the vehicle and trailer pages.
type Service struct {
	vehicles domainAsset.VehicleRepository
	trailers domainAsset.TrailerRepository
}

func NewService(vehicles domainAsset.VehicleRepository, trailers domainAsset.TrailerRepository) *Service {
	return &Service{vehicles: vehicles, trailers: trailers}
}

func (s *Service) ListVehicles(ctx context.Context, req *ListRequest) (*page.Page[VehicleRow], error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := req.query()
	p, err := s.vehicles.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	rows := make([]VehicleRow, 0, len(p.Content))
	for _, v := range p.Content {
		rows = append(rows, VehicleRow{
			Vehicle:         v,
			CanDelete:       domainAsset.CanDeleteVehicle(v),
			DeleteTooltip:   domainAsset.DeleteVehicleTooltip(v),
			CanChangeStatus: domainAsset.CanChangeVehicleStatus(v),
		})
	}
	return &page.Page[VehicleRow]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number}, nil
}

func (s *Service) GetVehicle(ctx context.Context, id int64) (*domainAsset.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

func (s *Service) CreateVehicle(ctx context.Context, form *VehicleForm) (*domainAsset.Vehicle, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	v, err := s.vehicles.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Vehicle created",
		zap.Int64("vehicle_id", v.ID),
		zap.String("event", "vehicle_created"),
	)
	return v, nil
}

// UpdateVehicle saves the fields, then the status when it changed and the
// vehicle is not on an in-progress transport.
func (s *Service) UpdateVehicle(ctx context.Context, id int64, form *VehicleForm) error {
	current, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	req, err := form.request()
	if err != nil {
		return err
	}
	if _, err := s.vehicles.Update(ctx, id, req); err != nil {
		return err
	}

	next := domainAsset.Status(form.Status)
	if next != "" && next != current.VehicleStatus && domainAsset.CanChangeVehicleStatus(*current) {
		if _, err := s.vehicles.ChangeStatus(ctx, id, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id int64) error {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domainAsset.CanDeleteVehicle(*v) {
		return appErrors.NotAllowed(domainAsset.DeleteVehicleTooltip(*v))
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Vehicle deleted",
		zap.Int64("vehicle_id", id),
		zap.String("event", "vehicle_deleted"),
	)
	return nil
}

func (s *Service) ListTrailers(ctx context.Context, req *ListRequest) (*page.Page[TrailerRow], error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	q := req.query()
	p, err := s.trailers.List(ctx, q)
	if err != nil {
		return nil, err
	}
	p.Normalize(q.Page, q.Size)

	rows := make([]TrailerRow, 0, len(p.Content))
	for _, t := range p.Content {
		rows = append(rows, TrailerRow{
			Trailer:         t,
			CanDelete:       domainAsset.CanDeleteTrailer(t),
			DeleteTooltip:   domainAsset.DeleteTrailerTooltip(t),
			CanChangeStatus: domainAsset.CanChangeTrailerStatus(t),
		})
	}
	return &page.Page[TrailerRow]{Content: rows, TotalElements: p.TotalElements, TotalPages: p.TotalPages, Size: p.Size, Number: p.Number}, nil
}

func (s *Service) GetTrailer(ctx context.Context, id int64) (*domainAsset.Trailer, error) {
	return s.trailers.GetByID(ctx, id)
}

func (s *Service) CreateTrailer(ctx context.Context, form *TrailerForm) (*domainAsset.Trailer, error) {
	req, err := form.request()
	if err != nil {
		return nil, err
	}
	t, err := s.trailers.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Trailer created",
		zap.Int64("trailer_id", t.ID),
		zap.String("event", "trailer_created"),
	)
	return t, nil
}

func (s *Service) UpdateTrailer(ctx context.Context, id int64, form *TrailerForm) error {
	current, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	req, err := form.request()
	if err != nil {
		return err
	}
	if _, err := s.trailers.Update(ctx, id, req); err != nil {
		return err
	}

	next := domainAsset.Status(form.Status)
	if next != "" && next != current.TrailerStatus && domainAsset.CanChangeTrailerStatus(*current) {
		if _, err := s.trailers.ChangeStatus(ctx, id, next); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) DeleteTrailer(ctx context.Context, id int64) error {
	t, err := s.trailers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domainAsset.CanDeleteTrailer(*t) {
		return appErrors.NotAllowed(domainAsset.DeleteTrailerTooltip(*t))
	}
	if err := s.trailers.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Trailer deleted",
		zap.Int64("trailer_id", id),
		zap.String("event", "trailer_deleted"),
	)
	return nil
}

func (f *VehicleForm) request() (*domainAsset.VehicleRequest, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}

	mileage, err := utils.OptionalInt64(f.Mileage)
	if err != nil || (mileage != nil && *mileage < 0) {
		return nil, warn("Mileage must be >= 0")
	}
	load, err := utils.OptionalFloat(f.AllowedLoad)
	if err != nil || (load != nil && *load < 0) {
		return nil, warn("Allowed load must be >= 0")
	}

	return &domainAsset.VehicleRequest{
		Manufacturer:     strings.TrimSpace(f.Manufacturer),
		Model:            strings.TrimSpace(f.Model),
		LicensePlate:     strings.ToUpper(strings.TrimSpace(f.LicensePlate)),
		DateOfProduction: utils.OptionalString(f.DateOfProduction),
		Mileage:          mileage,
		FuelType:         utils.OptionalString(f.FuelType),
		AllowedLoad:      load,
		InsuranceNumber:  utils.OptionalString(f.InsuranceNumber),
	}, nil
}

func (f *TrailerForm) request() (*domainAsset.TrailerRequest, error) {
	if err := validator.Check(f); err != nil {
		return nil, err
	}

	payload, perr := utils.OptionalFloat(f.Payload)
	volume, verr := utils.OptionalFloat(f.Volume)
	if perr != nil || verr != nil || payload == nil || volume == nil || *payload <= 0 || *volume <= 0 {
		return nil, warn("Payload and volume must be positive numbers.")
	}

	return &domainAsset.TrailerRequest{
		Name:         strings.TrimSpace(f.Name),
		LicensePlate: strings.ToUpper(strings.TrimSpace(f.LicensePlate)),
		Payload:      payload,
		Volume:       volume,
	}, nil
}

func warn(message string) error {
	return appErrors.NewAppError("VALIDATION_ERROR", message, appErrors.ErrInvalidRange)
}
