package cargo

import (
	"context"

	"fleet-console/internal/domain/page"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/cargo_repository.go -package=mocks -mock_names=Repository=MockCargoRepository

type Repository interface {
	List(ctx context.Context, q page.Query) (*page.Page[Cargo], error)
	Lookup(ctx context.Context, size int) ([]Cargo, error)
	GetByID(ctx context.Context, id int64) (*Cargo, error)
	ByTransport(ctx context.Context, transportID int64) ([]Cargo, error)
	Create(ctx context.Context, req *CreateRequest) (*Cargo, error)
	CreateForTransport(ctx context.Context, transportID int64, req *CreateRequest) (*Cargo, error)
	Update(ctx context.Context, id int64, req *UpdateRequest) (*Cargo, error)
	Delete(ctx context.Context, id int64) error
}
