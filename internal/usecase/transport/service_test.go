package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/location"
	domainTransport "fleet-console/internal/domain/transport"
	appErrors "fleet-console/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dispatcher = &account.Me{Authenticated: true, Roles: []string{"DISPATCHER"}}
	admin      = &account.Me{Authenticated: true, Roles: []string{"ROLE_ADMIN"}}
	driverMe   = &account.Me{Authenticated: true, Roles: []string{"DRIVER"}, Account: &account.UserShort{UserID: 7}}
)

func validForm() *Form {
	return &Form{
		VehicleID:          1,
		TrailerID:          2,
		PickupLocationID:   3,
		DeliveryLocationID: 4,
		PlannedStartAt:     "2026-05-01T08:00",
		PlannedEndAt:       "2026-05-01T18:00",
		PlannedDistanceKm:  "420.5",
	}
}

func TestList_LabelsAndRules(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, DriverID: ptr(int64(7)), VehicleID: 11, Status: domainTransport.StatusPlanned, PickupLocationID: ptr(int64(21))},
		domainTransport.Transport{ID: 2, DriverID: ptr(int64(8)), VehicleID: 12, Status: domainTransport.StatusFinished, DeliveryLocationID: ptr(int64(99))},
		domainTransport.Transport{ID: 3, VehicleID: 11, Status: domainTransport.StatusPlanned},
	)
	f.lookup.cached = map[int64]driver.Driver{7: {UserID: 7, FirstName: "Jan", LastName: "Kowalski"}}
	f.drivers.all = []driver.Driver{{UserID: 8, FirstName: "Anna", LastName: "Nowak"}}
	f.vehicles.all = []asset.Vehicle{{ID: 11, LicensePlate: "GD 1234", Manufacturer: "Volvo", Model: "FH"}}
	f.locations.all = []location.Location{{ID: 21, City: ptr("Gdańsk"), Postcode: ptr("80-001")}}

	res, err := f.svc.List(context.Background(), dispatcher, &ListRequest{Search: "planned"})
	require.NoError(t, err)

	assert.Equal(t, domainTransport.StatusPlanned, f.transports.lastFilter.Status)
	assert.Equal(t, DefaultPageSize, f.transports.lastFilter.Size)
	// only the uncached driver is fetched
	assert.Equal(t, [][]int64{{8}}, f.drivers.byIDsCall)

	rows := res.Page.Content
	require.Len(t, rows, 3)
	assert.Equal(t, "Jan Kowalski", rows[0].DriverLabel)
	assert.Equal(t, "GD 1234 - Volvo FH", rows[0].VehicleLabel)
	assert.Equal(t, "80-001 Gdańsk", rows[0].PickupLabel)
	assert.Equal(t, "N/A", rows[0].DeliveryLabel)
	assert.True(t, rows[0].CanEdit)
	assert.True(t, rows[0].CanDelete)

	assert.Equal(t, "Anna Nowak", rows[1].DriverLabel)
	assert.Equal(t, "#12", rows[1].VehicleLabel)
	assert.Equal(t, "#99", rows[1].DeliveryLabel)
	assert.False(t, rows[1].CanEdit)
	assert.Equal(t, "Cannot edit: only PLANNED transports are editable.", rows[1].EditTooltip)
	assert.Equal(t, "Cannot delete: only PLANNED transports can be deleted.", rows[1].DeleteTooltip)

	assert.Equal(t, "N/A", rows[2].DriverLabel)
}

func TestList_LookupFailuresFallBackToIDs(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, DriverID: ptr(int64(8)), VehicleID: 12, Status: domainTransport.StatusPlanned})
	f.drivers.byIDsErr = errors.New("down")
	f.vehicles.err = errors.New("down")
	f.locations.err = errors.New("down")

	res, err := f.svc.List(context.Background(), driverMe, &ListRequest{Search: "d:8", Sort: "plannedStartAt,desc"})
	require.NoError(t, err)

	assert.Equal(t, int64(8), *f.transports.lastFilter.DriverID)
	assert.Equal(t, []string{"plannedStartAt,desc"}, f.transports.lastFilter.Sort)
	row := res.Page.Content[0]
	assert.Equal(t, "#8", row.DriverLabel)
	assert.Equal(t, "#12", row.VehicleLabel)
	assert.False(t, row.CanDelete)
	assert.Equal(t, "Cannot delete: only admin/dispatcher can delete transports.", row.DeleteTooltip)
}

func TestCreate_WithCargoLines(t *testing.T) {
	f := newFixture()
	form := validForm()
	form.DriverID = "7"
	form.CargoDescription = []string{"Pallets", "Steel"}
	form.CargoWeightKg = []string{"100", "2000"}
	form.CargoVolumeM3 = []string{"2,5", "10"}

	res, err := f.svc.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Transport created", res.Message)
	assert.Zero(t, res.CargoFailed)
	assert.Len(t, f.cargos.created, 2)
	assert.Equal(t, int32(1), f.lookup.invalidated.Load())

	req := f.transports.created[0]
	assert.Equal(t, int64(7), *req.DriverID)
	assert.Equal(t, 420.5, *req.PlannedDistanceKm)
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.Local), *req.PlannedStartAt)
}

func TestCreate_PartialCargoFailure(t *testing.T) {
	f := newFixture()
	f.cargos.failOn = "Steel"
	form := validForm()
	form.CargoDescription = []string{"Pallets", "Steel"}
	form.CargoWeightKg = []string{"100", "2000"}
	form.CargoVolumeM3 = []string{"2", "10"}

	res, err := f.svc.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.CargoFailed)
	assert.Equal(t, "Transport created, but 1 cargo item(s) failed to create.", res.Message)
	assert.Zero(t, f.lookup.invalidated.Load())
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Form)
		want   string
	}{
		{"end before start", func(f *Form) { f.PlannedEndAt = "2026-05-01T07:00" }, "Planned end cannot be before planned start."},
		{"distance too small", func(f *Form) { f.PlannedDistanceKm = "0" }, "Planned distance must be at least 0.01"},
		{"missing start", func(f *Form) { f.PlannedStartAt = "" }, "Invalid input: plannedStartAt: is required"},
		{"bad date", func(f *Form) { f.ContractualDueAt = "tomorrow" }, "Contractual due date is invalid"},
		{"cargo weight", func(f *Form) {
			f.CargoDescription = []string{"Pallets"}
			f.CargoWeightKg = []string{"0"}
			f.CargoVolumeM3 = []string{"1"}
		}, "Cargo item 1: weight must be at least 0.01"},
		{"cargo dates", func(f *Form) {
			f.CargoDescription = []string{"Pallets"}
			f.CargoWeightKg = []string{"1"}
			f.CargoVolumeM3 = []string{"1"}
			f.CargoPickupDate = []string{"2026-05-02T10:00"}
			f.CargoDeliveryDate = []string{"2026-05-01T10:00"}
		}, "Cargo item 1: pickup date cannot be after delivery date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			form := validForm()
			tc.modify(form)

			_, err := f.svc.Create(context.Background(), form)
			require.Error(t, err)
			assert.Equal(t, tc.want, appErrors.UserMessage(err))
			assert.Empty(t, f.transports.created)
		})
	}
}

func TestUpdate_OnlyPlanned(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, Status: domainTransport.StatusAccepted})

	_, err := f.svc.Update(context.Background(), dispatcher, 1, validForm())
	assert.ErrorIs(t, err, appErrors.ErrNotAllowed)
	assert.Equal(t, "Only PLANNED transports can be edited", appErrors.UserMessage(err))
	assert.Empty(t, f.transports.updated)
}

func TestUpdate_AdminEndpointForAdminOnly(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusPlanned, DriverID: ptr(int64(7))},
	)

	_, err := f.svc.Update(context.Background(), admin, 1, validForm())
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), dispatcher, 2, validForm())
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, f.transports.adminUpdated)
	assert.Equal(t, []int64{2}, f.transports.updated)
	// transport 2 lost its driver
	assert.Equal(t, int32(1), f.lookup.invalidated.Load())
}

func TestDelete_Rules(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusInProgress},
	)

	err := f.svc.Delete(context.Background(), driverMe, 1)
	assert.ErrorIs(t, err, appErrors.ErrNotAllowed)

	err = f.svc.Delete(context.Background(), dispatcher, 2)
	assert.Equal(t, "Cannot delete: only PLANNED transports can be deleted.", appErrors.UserMessage(err))

	require.NoError(t, f.svc.Delete(context.Background(), admin, 1))
	assert.Equal(t, []int64{1}, f.transports.deleted)
}

func TestChangeStatus(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusFinished},
	)

	msg, err := f.svc.ChangeStatus(context.Background(), 1, &StatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)
	assert.Equal(t, "Transport cancelled", msg)

	_, err = f.svc.ChangeStatus(context.Background(), 2, &StatusRequest{Status: "FAILED"})
	assert.Equal(t, "Cannot change status: transport is FINISHED.", appErrors.UserMessage(err))

	_, err = f.svc.ChangeStatus(context.Background(), 1, &StatusRequest{Status: "LOST"})
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestFormOptions_EditKeepsCurrentSelections(t *testing.T) {
	f := newFixture()
	f.lookup.all = []driver.Driver{
		{UserID: 1, FirstName: "Zofia", LastName: "Zielińska", DriverStatus: driver.StatusAvailable},
		{UserID: 2, FirstName: "Adam", LastName: "Adamski", DriverStatus: driver.StatusAvailable},
		{UserID: 3, FirstName: "Ewa", LastName: "Bąk", DriverStatus: driver.StatusOnLeave},
		{UserID: 4, FirstName: "Piotr", LastName: "Lis", DriverStatus: driver.StatusOnTransport},
	}
	f.vehicles.all = []asset.Vehicle{
		{ID: 1, LicensePlate: "A1", VehicleStatus: asset.StatusActive},
		{ID: 2, LicensePlate: "B2", VehicleStatus: asset.StatusInService},
		{ID: 3, LicensePlate: "C3", VehicleStatus: asset.StatusInactive},
	}
	f.trailers.all = []asset.Trailer{
		{ID: 5, LicensePlate: "T5", TrailerStatus: asset.StatusInService},
	}

	current := &domainTransport.Transport{ID: 9, DriverID: ptr(int64(4)), VehicleID: 2, TrailerID: 5}
	opts, err := f.svc.FormOptions(context.Background(), current)
	require.NoError(t, err)

	var driverIDs, vehicleIDs, trailerIDs []int64
	for _, o := range opts.Drivers {
		driverIDs = append(driverIDs, o.ID)
	}
	for _, o := range opts.Vehicles {
		vehicleIDs = append(vehicleIDs, o.ID)
	}
	for _, o := range opts.Trailers {
		trailerIDs = append(trailerIDs, o.ID)
	}
	assert.Equal(t, []int64{2, 4, 1}, driverIDs)
	assert.Equal(t, []int64{1, 2}, vehicleIDs)
	assert.Equal(t, []int64{5}, trailerIDs)
	assert.Equal(t, "Adam Adamski (userId: 2)", opts.Drivers[0].Label)
}

func TestFormOptions_LoadFailure(t *testing.T) {
	f := newFixture()
	f.vehicles.err = errors.New("down")

	_, err := f.svc.FormOptions(context.Background(), nil)
	assert.Equal(t, "Failed to load form data", appErrors.UserMessage(err))
}

func TestDetails(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, VehicleID: 11, TrailerID: 5, DriverID: ptr(int64(7)), Status: domainTransport.StatusPlanned})
	f.drivers.all = []driver.Driver{{UserID: 7, FirstName: "Jan", LastName: "Kowalski"}}

	d, err := f.svc.Details(context.Background(), dispatcher, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jan Kowalski", d.DriverLabel)
	assert.Equal(t, "#11", d.VehicleLabel)
	assert.Equal(t, "#5", d.TrailerLabel)
	require.Len(t, d.History, 2)
	assert.Equal(t, domainTransport.StatusPlanned, d.History[0].Status)
	assert.Len(t, d.Cargo, 1)
	assert.True(t, d.CanDelete)
}

func TestMyBoard(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned, VehicleLabel: ptr("GD 1")},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusAccepted, VehicleID: 4},
		domainTransport.Transport{ID: 3, Status: domainTransport.StatusInProgress},
	)

	board, err := f.svc.MyBoard(context.Background())
	require.NoError(t, err)
	assert.True(t, board.InProgress)
	require.NotNil(t, board.Current)
	assert.Equal(t, int64(3), board.Current.ID)

	accept := board.Rows[0].Actions[0]
	assert.False(t, accept.Enabled)
	assert.Equal(t, "Finish current transport first.", accept.Tooltip)
	assert.Equal(t, "GD 1", board.Rows[0].VehicleLabel)
	assert.Equal(t, "#4", board.Rows[1].VehicleLabel)
	assert.Equal(t, "N/A", board.Rows[2].VehicleLabel)

	finish := board.Rows[2].Actions[2]
	assert.True(t, finish.Enabled)
	assert.Equal(t, "Finish transport", finish.Tooltip)
}

func TestMyBoard_CurrentFallsBackToAccepted(t *testing.T) {
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusAccepted},
	)
	board, err := f.svc.MyBoard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, board.Current)
	assert.Equal(t, int64(2), board.Current.ID)
}

func TestPerformAction(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned})

	msg, err := f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, "Transport accepted", msg)

	_, err = f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.ActionFinish)
	assert.Equal(t, "Cannot finish: only IN_PROGRESS transports can be finished.", appErrors.UserMessage(err))

	msg, err = f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.ActionStart)
	require.NoError(t, err)
	assert.Equal(t, "Transport started", msg)

	_, err = f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.Action("teleport"))
	assert.ErrorIs(t, err, appErrors.ErrActionNotFound)

	_, err = f.svc.PerformAction(context.Background(), driverMe, 42, domainTransport.ActionStart)
	assert.ErrorIs(t, err, domainTransport.ErrTransportNotFound)

	assert.False(t, f.svc.busy.IsBusy(1))
}

func TestPerformAction_RejectsDuplicateSubmit(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned})
	f.transports.statusDelay = 100 * time.Millisecond

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.ActionAccept)
		}(i)
	}
	wg.Wait()

	var ok, inProgress int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, appErrors.ErrActionInProgress):
			inProgress++
			assert.Equal(t, "Action in progress", appErrors.UserMessage(err))
		}
	}
	// the first wins; later ones either collide or see ACCEPTED
	assert.Equal(t, 1, ok)
	assert.GreaterOrEqual(t, inProgress, 1)
	assert.Len(t, f.transports.statuses, 1)
}

func TestPerformAction_FallbackMessage(t *testing.T) {
	f := newFixture(domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned})
	f.transports.statusErr = errors.New("socket closed")

	_, err := f.svc.PerformAction(context.Background(), driverMe, 1, domainTransport.ActionAccept)
	assert.Equal(t, "Failed to accept transport.", appErrors.UserMessage(err))
	assert.False(t, f.svc.busy.IsBusy(1))
}

func TestCargoTargets_OnlyPlannedNewestFirst(t *testing.T) {
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	f := newFixture(
		domainTransport.Transport{ID: 1, Status: domainTransport.StatusPlanned, PlannedStartAt: &start},
		domainTransport.Transport{ID: 2, Status: domainTransport.StatusInProgress},
		domainTransport.Transport{ID: 3, Status: domainTransport.StatusPlanned},
	)

	opts, err := f.svc.CargoTargets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Option{
		{ID: 3, Label: "#3"},
		{ID: 1, Label: "#1 (2026-05-01 08:00)"},
	}, opts)

	require.NotNil(t, f.transports.lastFilter)
	assert.Equal(t, domainTransport.StatusPlanned, f.transports.lastFilter.Status)
	assert.Equal(t, []string{"id,desc"}, f.transports.lastFilter.Sort)
	assert.Equal(t, cargoTargetsSize, f.transports.lastFilter.Size)
	assert.Zero(t, f.transports.lastFilter.Page)
}
