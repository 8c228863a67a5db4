package driver

import (
	"context"

	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
)

type Repository interface {
	List(ctx context.Context, q page.Query) (*page.Page[Driver], error)
	GetByID(ctx context.Context, userID int64) (*Driver, error)
	GetByIDs(ctx context.Context, userIDs []int64) ([]Driver, error)
	Available(ctx context.Context) ([]Driver, error)
	Create(ctx context.Context, req *CreateRequest) (*Driver, error)
	Update(ctx context.Context, userID int64, req *UpdateRequest) (*Driver, error)
	ChangeStatus(ctx context.Context, userID int64, status Status) (*Driver, error)
	Delete(ctx context.Context, userID int64) error
}

// Lookup serves the shared driver list used to label other tables.
type Lookup interface {
	All(ctx context.Context) ([]Driver, error)
	CachedMap(ctx context.Context) map[int64]Driver
	Invalidate(ctx context.Context)
}

// SelfService covers the endpoints a signed-in driver calls for themselves.
type SelfService interface {
	MyTransports(ctx context.Context) ([]transport.Transport, error)
	MyCargo(ctx context.Context) ([]cargo.Cargo, error)
	MyTimeline(ctx context.Context) ([]transport.StatusHistory, error)
}

type WorkLogRepository interface {
	ListAll(ctx context.Context) ([]WorkLog, error)
	ListByDriver(ctx context.Context, driverID int64) ([]WorkLog, error)
	ListMine(ctx context.Context) ([]WorkLog, error)
	Create(ctx context.Context, req *WorkLogRequest) (*WorkLog, error)
	CreateMine(ctx context.Context, req *WorkLogRequest) (*WorkLog, error)
	Update(ctx context.Context, id int64, req *WorkLogRequest) (*WorkLog, error)
	Delete(ctx context.Context, id int64) error
}
