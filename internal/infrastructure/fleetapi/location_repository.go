package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
)

type LocationRepository struct {
	client *Client
}

func NewLocationRepository(client *Client) location.Repository {
	return &LocationRepository{client: client}
}

func (r *LocationRepository) List(ctx context.Context, q page.Query) (*page.Page[location.Location], error) {
	return listPage[location.Location](ctx, r.client, "/api/locations", q)
}

func (r *LocationRepository) Lookup(ctx context.Context, size int) ([]location.Location, error) {
	return lookup[location.Location](ctx, r.client, "/api/locations", size)
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*location.Location, error) {
	return getJSON[location.Location](ctx, r.client, fmt.Sprintf("/api/locations/%d", id), nil)
}

func (r *LocationRepository) Create(ctx context.Context, req *location.Request) (*location.Location, error) {
	return postJSON[location.Location](ctx, r.client, "/api/locations", req)
}

func (r *LocationRepository) Update(ctx context.Context, id int64, req *location.Request) (*location.Location, error) {
	return putJSON[location.Location](ctx, r.client, fmt.Sprintf("/api/locations/%d", id), req)
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("/api/locations/%d", id))
}
