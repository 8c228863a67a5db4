package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/page"
)

type VehicleRepository struct {
	client *Client
}

func NewVehicleRepository(client *Client) asset.VehicleRepository {
	return &VehicleRepository{client: client}
}

func (r *VehicleRepository) List(ctx context.Context, q page.Query) (*page.Page[asset.Vehicle], error) {
	return listPage[asset.Vehicle](ctx, r.client, "/api/vehicles", q)
}

func (r *VehicleRepository) Lookup(ctx context.Context, size int) ([]asset.Vehicle, error) {
	return lookup[asset.Vehicle](ctx, r.client, "/api/vehicles", size)
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*asset.Vehicle, error) {
	return getJSON[asset.Vehicle](ctx, r.client, fmt.Sprintf("/api/vehicles/%d", id), nil)
}

func (r *VehicleRepository) GetByIDs(ctx context.Context, ids []int64) ([]asset.Vehicle, error) {
	return getByIDs[asset.Vehicle](ctx, r.client, "/api/vehicles", ids)
}

func (r *VehicleRepository) Available(ctx context.Context) ([]asset.Vehicle, error) {
	return getList[asset.Vehicle](ctx, r.client, "/api/vehicles/available", nil)
}

func (r *VehicleRepository) Create(ctx context.Context, req *asset.VehicleRequest) (*asset.Vehicle, error) {
	return postJSON[asset.Vehicle](ctx, r.client, "/api/vehicles", req)
}

func (r *VehicleRepository) Update(ctx context.Context, id int64, req *asset.VehicleRequest) (*asset.Vehicle, error) {
	return putJSON[asset.Vehicle](ctx, r.client, fmt.Sprintf("/api/vehicles/%d", id), req)
}

func (r *VehicleRepository) ChangeStatus(ctx context.Context, id int64, status asset.Status) (*asset.Vehicle, error) {
	return patchJSON[asset.Vehicle](ctx, r.client, fmt.Sprintf("/api/vehicles/%d/status", id), statusBody[asset.Status]{Status: status})
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("/api/vehicles/%d", id))
}
