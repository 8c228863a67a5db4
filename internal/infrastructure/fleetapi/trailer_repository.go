package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/page"
)

type TrailerRepository struct {
	client *Client
}

func NewTrailerRepository(client *Client) asset.TrailerRepository {
	return &TrailerRepository{client: client}
}

func (r *TrailerRepository) List(ctx context.Context, q page.Query) (*page.Page[asset.Trailer], error) {
	return listPage[asset.Trailer](ctx, r.client, "/api/trailers", q)
}

func (r *TrailerRepository) Lookup(ctx context.Context, size int) ([]asset.Trailer, error) {
	return lookup[asset.Trailer](ctx, r.client, "/api/trailers", size)
}

func (r *TrailerRepository) GetByID(ctx context.Context, id int64) (*asset.Trailer, error) {
	return getJSON[asset.Trailer](ctx, r.client, fmt.Sprintf("/api/trailers/%d", id), nil)
}

func (r *TrailerRepository) Available(ctx context.Context) ([]asset.Trailer, error) {
	return getList[asset.Trailer](ctx, r.client, "/api/trailers/available", nil)
}

func (r *TrailerRepository) Create(ctx context.Context, req *asset.TrailerRequest) (*asset.Trailer, error) {
	return postJSON[asset.Trailer](ctx, r.client, "/api/trailers", req)
}

func (r *TrailerRepository) Update(ctx context.Context, id int64, req *asset.TrailerRequest) (*asset.Trailer, error) {
	return putJSON[asset.Trailer](ctx, r.client, fmt.Sprintf("/api/trailers/%d", id), req)
}

func (r *TrailerRepository) ChangeStatus(ctx context.Context, id int64, status asset.Status) (*asset.Trailer, error) {
	return patchJSON[asset.Trailer](ctx, r.client, fmt.Sprintf("/api/trailers/%d/status", id), statusBody[asset.Status]{Status: status})
}

func (r *TrailerRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("/api/trailers/%d", id))
}
