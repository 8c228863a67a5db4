package location

import (
	"context"

	"fleet-console/internal/domain/page"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/location_repository.go -package=mocks -mock_names=Repository=MockLocationRepository

type Repository interface {
	List(ctx context.Context, q page.Query) (*page.Page[Location], error)
	Lookup(ctx context.Context, size int) ([]Location, error)
	GetByID(ctx context.Context, id int64) (*Location, error)
	Create(ctx context.Context, req *Request) (*Location, error)
	Update(ctx context.Context, id int64, req *Request) (*Location, error)
	Delete(ctx context.Context, id int64) error
}
