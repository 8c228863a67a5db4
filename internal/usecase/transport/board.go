package transport

import (
	"context"
	"errors"
	"fmt"

	"fleet-console/internal/domain/account"
	domainTransport "fleet-console/internal/domain/transport"
	"fleet-console/internal/logger"
	appErrors "fleet-console/pkg/errors"

	"go.uber.org/zap"
)

var boardActions = []struct {
	action domainTransport.Action
	label  string
}{
	{domainTransport.ActionAccept, "Accept"},
	{domainTransport.ActionStart, "Start"},
	{domainTransport.ActionFinish, "Finish"},
}

// MyBoard builds the signed-in driver's transport list with action states.
// The current transport is the one in progress, else the accepted one.
func (s *Service) MyBoard(ctx context.Context) (*DriverBoard, error) {
	list, err := s.self.MyTransports(ctx)
	if err != nil {
		return nil, err
	}

	inProgress := domainTransport.HasInProgress(list)
	board := &DriverBoard{Rows: make([]DriverRow, 0, len(list)), InProgress: inProgress}

	for _, t := range list {
		busy := s.busy.IsBusy(t.ID)
		row := DriverRow{Transport: t, VehicleLabel: driverVehicleLabel(t), Busy: busy}
		for _, a := range boardActions {
			row.Actions = append(row.Actions, ActionView{
				Action:  a.action,
				Label:   a.label,
				Enabled: !busy && domainTransport.CanPerform(t, a.action, inProgress),
				Tooltip: domainTransport.ActionTooltip(t, a.action, inProgress, busy),
			})
		}
		board.Rows = append(board.Rows, row)
	}

	if id, ok := domainTransport.CurrentID(list); ok {
		for i := range board.Rows {
			if board.Rows[i].ID == id {
				board.Current = &board.Rows[i]
			}
		}
	}
	return board, nil
}

// PerformAction runs a driver action on one of the driver's transports. A
// second submit for the same transport while the first is running is rejected.
func (s *Service) PerformAction(ctx context.Context, me *account.Me, transportID int64, action domainTransport.Action) (string, error) {
	target, ok := action.TargetStatus()
	if !ok {
		return "", appErrors.NewAppError("UNKNOWN_ACTION", "Unknown action", appErrors.ErrActionNotFound)
	}

	if !s.busy.TryAcquire(transportID) {
		return "", appErrors.NewAppError("ACTION_IN_PROGRESS", "Action in progress", appErrors.ErrActionInProgress)
	}
	defer s.busy.Release(transportID)

	list, err := s.self.MyTransports(ctx)
	if err != nil {
		return "", actionError(action, err)
	}

	var current *domainTransport.Transport
	for i := range list {
		if list[i].ID == transportID {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return "", appErrors.NewAppError("NOT_FOUND", "Transport not found", domainTransport.ErrTransportNotFound)
	}

	inProgress := domainTransport.HasInProgress(list)
	if !domainTransport.CanPerform(*current, action, inProgress) {
		return "", appErrors.NotAllowed(domainTransport.ActionTooltip(*current, action, inProgress, false))
	}

	if _, err := s.transports.UpdateStatus(ctx, transportID, target); err != nil {
		return "", actionError(action, err)
	}
	s.driverLookup.Invalidate(ctx)

	logger.Info("Driver transport action",
		zap.Int64("transport_id", transportID),
		zap.Int64("driver_id", me.UserID()),
		zap.String("action", string(action)),
		zap.String("event", "driver_action"),
	)
	return statusNotice(target), nil
}

func driverVehicleLabel(t domainTransport.Transport) string {
	if t.VehicleLabel != nil && *t.VehicleLabel != "" {
		return *t.VehicleLabel
	}
	if t.VehicleID != 0 {
		return fmt.Sprintf("#%d", t.VehicleID)
	}
	return "N/A"
}

// actionError keeps classified fleet API errors and gives anything else the
// action's fallback text.
func actionError(action domainTransport.Action, err error) error {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var apiErr interface{ Message() string }
	if errors.As(err, &apiErr) {
		return err
	}
	return appErrors.NewAppError("ACTION_FAILED", fmt.Sprintf("Failed to %s transport.", action), err)
}
