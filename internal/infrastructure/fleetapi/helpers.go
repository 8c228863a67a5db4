package fleetapi

import (
	"context"

	"fleet-console/internal/domain/page"
)

// Lookup sizes used when a whole (small) collection labels another table.
const (
	LookupSize         = 200
	LocationLookupSize = 500
)

func listPage[T any](ctx context.Context, c *Client, path string, pq page.Query) (*page.Page[T], error) {
	q := NewQuery().String("q", pq.Q).Page(pq.Page, pq.Size, pq.Sort)

	var out page.Page[T]
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out.Normalize(pq.Page, pq.Size), nil
}

func lookup[T any](ctx context.Context, c *Client, path string, size int) ([]T, error) {
	p, err := listPage[T](ctx, c, path, page.Query{Page: 0, Size: size})
	if err != nil {
		return nil, err
	}
	return p.Content, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, q *Query) (*T, error) {
	var out T
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func getList[T any](ctx context.Context, c *Client, path string, q *Query) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// getByIDs short-circuits an empty id list to an empty result without a request.
func getByIDs[T any](ctx context.Context, c *Client, path string, ids []int64) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return getList[T](ctx, c, path, NewQuery().IDs("ids", ids))
}

func postJSON[T any](ctx context.Context, c *Client, path string, body interface{}) (*T, error) {
	var out T
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func putJSON[T any](ctx context.Context, c *Client, path string, body interface{}) (*T, error) {
	var out T
	if err := c.put(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func patchJSON[T any](ctx context.Context, c *Client, path string, body interface{}) (*T, error) {
	var out T
	if err := c.patch(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type statusBody[S any] struct {
	Status S `json:"status"`
}
