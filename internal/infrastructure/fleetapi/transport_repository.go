package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
)

type TransportRepository struct {
	client *Client
}

func NewTransportRepository(client *Client) transport.Repository {
	return &TransportRepository{client: client}
}

func (r *TransportRepository) List(ctx context.Context, f *transport.Filter) (*page.Page[transport.Transport], error) {
	if f == nil {
		f = &transport.Filter{}
	}
	q := NewQuery().
		String("status", string(f.Status)).
		Int64Ptr("driverId", f.DriverID).
		Int64Ptr("vehicleId", f.VehicleID).
		String("q", f.Q).
		Time("from", f.From).
		Time("to", f.To).
		Page(f.Page, f.Size, f.Sort)

	var out page.Page[transport.Transport]
	if err := r.client.get(ctx, "/api/transports", q, &out); err != nil {
		return nil, err
	}
	return out.Normalize(f.Page, f.Size), nil
}

func (r *TransportRepository) GetByID(ctx context.Context, id int64) (*transport.Transport, error) {
	var out transport.Transport
	if err := r.client.get(ctx, fmt.Sprintf("/api/transports/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) Details(ctx context.Context, id int64) (*transport.Details, error) {
	var out transport.Details
	if err := r.client.get(ctx, fmt.Sprintf("/api/transports/%d/details", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) Create(ctx context.Context, req *transport.Request) (*transport.Transport, error) {
	var out transport.Transport
	if err := r.client.post(ctx, "/api/transports", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) Update(ctx context.Context, id int64, req *transport.Request) (*transport.Transport, error) {
	var out transport.Transport
	if err := r.client.put(ctx, fmt.Sprintf("/api/transports/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) AdminUpdate(ctx context.Context, id int64, req *transport.Request) (*transport.Transport, error) {
	var out transport.Transport
	if err := r.client.put(ctx, fmt.Sprintf("/api/transports/%d/admin", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("/api/transports/%d", id))
}

func (r *TransportRepository) UpdateStatus(ctx context.Context, id int64, status transport.Status) (*transport.Transport, error) {
	var out transport.Transport
	body := map[string]transport.Status{"status": status}
	if err := r.client.patch(ctx, fmt.Sprintf("/api/transports/%d/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) AssignDriver(ctx context.Context, id, driverID int64) (*transport.Transport, error) {
	var out transport.Transport
	if err := r.client.patch(ctx, fmt.Sprintf("/api/transports/%d/assign-driver/%d", id, driverID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TransportRepository) ByDriver(ctx context.Context, driverID int64) ([]transport.Transport, error) {
	var out []transport.Transport
	if err := r.client.get(ctx, fmt.Sprintf("/api/transports/driver/%d", driverID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransportRepository) History(ctx context.Context, id int64) ([]transport.StatusHistory, error) {
	var out []transport.StatusHistory
	if err := r.client.get(ctx, fmt.Sprintf("/api/transports/%d/history", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
