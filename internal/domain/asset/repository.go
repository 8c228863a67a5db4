package asset

import (
	"context"

	"fleet-console/internal/domain/page"
)

type VehicleRepository interface {
	List(ctx context.Context, q page.Query) (*page.Page[Vehicle], error)
	Lookup(ctx context.Context, size int) ([]Vehicle, error)
	GetByID(ctx context.Context, id int64) (*Vehicle, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Vehicle, error)
	Available(ctx context.Context) ([]Vehicle, error)
	Create(ctx context.Context, req *VehicleRequest) (*Vehicle, error)
	Update(ctx context.Context, id int64, req *VehicleRequest) (*Vehicle, error)
	ChangeStatus(ctx context.Context, id int64, status Status) (*Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

type TrailerRepository interface {
	List(ctx context.Context, q page.Query) (*page.Page[Trailer], error)
	Lookup(ctx context.Context, size int) ([]Trailer, error)
	GetByID(ctx context.Context, id int64) (*Trailer, error)
	Available(ctx context.Context) ([]Trailer, error)
	Create(ctx context.Context, req *TrailerRequest) (*Trailer, error)
	Update(ctx context.Context, id int64, req *TrailerRequest) (*Trailer, error)
	ChangeStatus(ctx context.Context, id int64, status Status) (*Trailer, error)
	Delete(ctx context.Context, id int64) error
}
