package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/transport"
)

const driverBase = "/api/drivers"

type DriverRepository struct {
	client *Client
}

func NewDriverRepository(client *Client) driver.Repository {
	return &DriverRepository{client: client}
}

func (r *DriverRepository) List(ctx context.Context, q page.Query) (*page.Page[driver.Driver], error) {
	return listPage[driver.Driver](ctx, r.client, driverBase, q)
}

func (r *DriverRepository) GetByID(ctx context.Context, userID int64) (*driver.Driver, error) {
	return getJSON[driver.Driver](ctx, r.client, fmt.Sprintf("%s/%d", driverBase, userID), nil)
}

func (r *DriverRepository) GetByIDs(ctx context.Context, userIDs []int64) ([]driver.Driver, error) {
	return getByIDs[driver.Driver](ctx, r.client, driverBase, userIDs)
}

func (r *DriverRepository) Available(ctx context.Context) ([]driver.Driver, error) {
	return getList[driver.Driver](ctx, r.client, driverBase+"/available", nil)
}

func (r *DriverRepository) Create(ctx context.Context, req *driver.CreateRequest) (*driver.Driver, error) {
	return postJSON[driver.Driver](ctx, r.client, driverBase, req)
}

func (r *DriverRepository) Update(ctx context.Context, userID int64, req *driver.UpdateRequest) (*driver.Driver, error) {
	return putJSON[driver.Driver](ctx, r.client, fmt.Sprintf("%s/%d", driverBase, userID), req)
}

func (r *DriverRepository) ChangeStatus(ctx context.Context, userID int64, status driver.Status) (*driver.Driver, error) {
	return patchJSON[driver.Driver](ctx, r.client, fmt.Sprintf("%s/%d/status", driverBase, userID), statusBody[driver.Status]{Status: status})
}

func (r *DriverRepository) Delete(ctx context.Context, userID int64) error {
	return r.client.delete(ctx, fmt.Sprintf("%s/%d", driverBase, userID))
}

type DriverSelfService struct {
	client *Client
}

func NewDriverSelfService(client *Client) driver.SelfService {
	return &DriverSelfService{client: client}
}

func (s *DriverSelfService) MyTransports(ctx context.Context) ([]transport.Transport, error) {
	return getList[transport.Transport](ctx, s.client, driverBase+"/my-transports", nil)
}

func (s *DriverSelfService) MyCargo(ctx context.Context) ([]cargo.Cargo, error) {
	return getList[cargo.Cargo](ctx, s.client, driverBase+"/my-cargo", nil)
}

func (s *DriverSelfService) MyTimeline(ctx context.Context) ([]transport.StatusHistory, error) {
	return getList[transport.StatusHistory](ctx, s.client, driverBase+"/my-transports/timeline", nil)
}
