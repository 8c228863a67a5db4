package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/page"
)

const cargoBase = "/api/cargos"

type CargoRepository struct {
	client *Client
}

func NewCargoRepository(client *Client) cargo.Repository {
	return &CargoRepository{client: client}
}

func (r *CargoRepository) List(ctx context.Context, q page.Query) (*page.Page[cargo.Cargo], error) {
	return listPage[cargo.Cargo](ctx, r.client, cargoBase, q)
}

func (r *CargoRepository) Lookup(ctx context.Context, size int) ([]cargo.Cargo, error) {
	return lookup[cargo.Cargo](ctx, r.client, cargoBase, size)
}

func (r *CargoRepository) GetByID(ctx context.Context, id int64) (*cargo.Cargo, error) {
	return getJSON[cargo.Cargo](ctx, r.client, fmt.Sprintf("%s/%d", cargoBase, id), nil)
}

func (r *CargoRepository) ByTransport(ctx context.Context, transportID int64) ([]cargo.Cargo, error) {
	return getList[cargo.Cargo](ctx, r.client, fmt.Sprintf("%s/transport/%d", cargoBase, transportID), nil)
}

func (r *CargoRepository) Create(ctx context.Context, req *cargo.CreateRequest) (*cargo.Cargo, error) {
	return postJSON[cargo.Cargo](ctx, r.client, cargoBase, req)
}

func (r *CargoRepository) CreateForTransport(ctx context.Context, transportID int64, req *cargo.CreateRequest) (*cargo.Cargo, error) {
	return postJSON[cargo.Cargo](ctx, r.client, fmt.Sprintf("%s/transport/%d", cargoBase, transportID), req)
}

func (r *CargoRepository) Update(ctx context.Context, id int64, req *cargo.UpdateRequest) (*cargo.Cargo, error) {
	return putJSON[cargo.Cargo](ctx, r.client, fmt.Sprintf("%s/%d", cargoBase, id), req)
}

func (r *CargoRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("%s/%d", cargoBase, id))
}
