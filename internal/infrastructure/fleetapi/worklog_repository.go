package fleetapi

import (
	"context"
	"fmt"

	"fleet-console/internal/domain/driver"
)

const workLogBase = "/api/work-logs"

type WorkLogRepository struct {
	client *Client
}

func NewWorkLogRepository(client *Client) driver.WorkLogRepository {
	return &WorkLogRepository{client: client}
}

func (r *WorkLogRepository) ListAll(ctx context.Context) ([]driver.WorkLog, error) {
	return getList[driver.WorkLog](ctx, r.client, workLogBase, nil)
}

func (r *WorkLogRepository) ListByDriver(ctx context.Context, driverID int64) ([]driver.WorkLog, error) {
	return getList[driver.WorkLog](ctx, r.client, fmt.Sprintf("%s/driver/%d", workLogBase, driverID), nil)
}

func (r *WorkLogRepository) ListMine(ctx context.Context) ([]driver.WorkLog, error) {
	return getList[driver.WorkLog](ctx, r.client, workLogBase+"/my", nil)
}

func (r *WorkLogRepository) Create(ctx context.Context, req *driver.WorkLogRequest) (*driver.WorkLog, error) {
	return postJSON[driver.WorkLog](ctx, r.client, workLogBase, req)
}

func (r *WorkLogRepository) CreateMine(ctx context.Context, req *driver.WorkLogRequest) (*driver.WorkLog, error) {
	return postJSON[driver.WorkLog](ctx, r.client, workLogBase+"/my", req)
}

func (r *WorkLogRepository) Update(ctx context.Context, id int64, req *driver.WorkLogRequest) (*driver.WorkLog, error) {
	return putJSON[driver.WorkLog](ctx, r.client, fmt.Sprintf("%s/%d", workLogBase, id), req)
}

func (r *WorkLogRepository) Delete(ctx context.Context, id int64) error {
	return r.client.delete(ctx, fmt.Sprintf("%s/%d", workLogBase, id))
}
