package transport

import (
	"context"

	"fleet-console/internal/domain/page"
)

// Repository defines the fleet API operations on transports
type Repository interface {
	List(ctx context.Context, filter *Filter) (*page.Page[Transport], error)
	GetByID(ctx context.Context, id int64) (*Transport, error)
	Details(ctx context.Context, id int64) (*Details, error)
	Create(ctx context.Context, req *Request) (*Transport, error)
	Update(ctx context.Context, id int64, req *Request) (*Transport, error)
	AdminUpdate(ctx context.Context, id int64, req *Request) (*Transport, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status Status) (*Transport, error)
	AssignDriver(ctx context.Context, id, driverID int64) (*Transport, error)
	ByDriver(ctx context.Context, driverID int64) ([]Transport, error)
	History(ctx context.Context, id int64) ([]StatusHistory, error)
}
