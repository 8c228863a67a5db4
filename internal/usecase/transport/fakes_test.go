package transport

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"fleet-console/internal/domain/asset"
	"fleet-console/internal/domain/cargo"
	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/location"
	"fleet-console/internal/domain/page"
	domainTransport "fleet-console/internal/domain/transport"
)

// Fakes embed the repository interface; methods a test does not expect panic.

type fakeTransports struct {
	domainTransport.Repository

	mu           sync.Mutex
	items        map[int64]domainTransport.Transport
	lastFilter   *domainTransport.Filter
	created      []*domainTransport.Request
	updated      []int64
	adminUpdated []int64
	deleted      []int64
	statuses     []domainTransport.Status
	statusErr    error
	statusDelay  time.Duration
	nextID       int64
}

func newFakeTransports(list ...domainTransport.Transport) *fakeTransports {
	f := &fakeTransports{items: map[int64]domainTransport.Transport{}, nextID: 100}
	for _, t := range list {
		f.items[t.ID] = t
	}
	return f
}

func (f *fakeTransports) List(ctx context.Context, filter *domainTransport.Filter) (*page.Page[domainTransport.Transport], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	p := &page.Page[domainTransport.Transport]{}
	for id := int64(1); id < f.nextID; id++ {
		if t, ok := f.items[id]; ok {
			p.Content = append(p.Content, t)
		}
	}
	if len(filter.Sort) > 0 && filter.Sort[0] == "id,desc" {
		slices.Reverse(p.Content)
	}
	return p, nil
}

func (f *fakeTransports) GetByID(ctx context.Context, id int64) (*domainTransport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, domainTransport.ErrTransportNotFound
	}
	return &t, nil
}

func (f *fakeTransports) Create(ctx context.Context, req *domainTransport.Request) (*domainTransport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	t := domainTransport.Transport{ID: f.nextID, VehicleID: req.VehicleID, TrailerID: req.TrailerID, DriverID: req.DriverID, Status: domainTransport.StatusPlanned}
	f.items[t.ID] = t
	f.nextID++
	return &t, nil
}

func (f *fakeTransports) Update(ctx context.Context, id int64, req *domainTransport.Request) (*domainTransport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	t := f.items[id]
	return &t, nil
}

func (f *fakeTransports) AdminUpdate(ctx context.Context, id int64, req *domainTransport.Request) (*domainTransport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminUpdated = append(f.adminUpdated, id)
	t := f.items[id]
	return &t, nil
}

func (f *fakeTransports) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.items, id)
	return nil
}

func (f *fakeTransports) UpdateStatus(ctx context.Context, id int64, status domainTransport.Status) (*domainTransport.Transport, error) {
	if f.statusDelay > 0 {
		time.Sleep(f.statusDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	f.statuses = append(f.statuses, status)
	t := f.items[id]
	t.Status = status
	f.items[id] = t
	return &t, nil
}

func (f *fakeTransports) AssignDriver(ctx context.Context, id, driverID int64) (*domainTransport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.items[id]
	t.DriverID = &driverID
	f.items[id] = t
	return &t, nil
}

func (f *fakeTransports) Details(ctx context.Context, id int64) (*domainTransport.Details, error) {
	t, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domainTransport.Details{ID: t.ID, VehicleID: t.VehicleID, TrailerID: t.TrailerID, DriverID: t.DriverID, Status: t.Status}, nil
}

func (f *fakeTransports) History(ctx context.Context, id int64) ([]domainTransport.StatusHistory, error) {
	now := time.Now()
	return []domainTransport.StatusHistory{
		{ID: 2, TransportID: id, Status: domainTransport.StatusAccepted, ChangedAt: now},
		{ID: 1, TransportID: id, Status: domainTransport.StatusPlanned, ChangedAt: now.Add(-time.Hour)},
	}, nil
}

// mine returns the fake's transports as the driver's own list.
func (f *fakeTransports) mine() []domainTransport.Transport {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainTransport.Transport
	for id := int64(1); id < f.nextID; id++ {
		if t, ok := f.items[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

type fakeSelf struct {
	driver.SelfService
	transports *fakeTransports
}

func (f *fakeSelf) MyTransports(ctx context.Context) ([]domainTransport.Transport, error) {
	return f.transports.mine(), nil
}

type fakeDrivers struct {
	driver.Repository
	all       []driver.Driver
	byIDsCall [][]int64
	byIDsErr  error
}

func (f *fakeDrivers) GetByIDs(ctx context.Context, ids []int64) ([]driver.Driver, error) {
	f.byIDsCall = append(f.byIDsCall, ids)
	if f.byIDsErr != nil {
		return nil, f.byIDsErr
	}
	var out []driver.Driver
	for _, d := range f.all {
		for _, id := range ids {
			if d.UserID == id {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (f *fakeDrivers) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	for _, d := range f.all {
		if d.UserID == id {
			return &d, nil
		}
	}
	return nil, driver.ErrDriverNotFound
}

func (f *fakeDrivers) Available(ctx context.Context) ([]driver.Driver, error) {
	return f.all, nil
}

type fakeLookup struct {
	cached      map[int64]driver.Driver
	all         []driver.Driver
	invalidated atomic.Int32
}

func (f *fakeLookup) All(ctx context.Context) ([]driver.Driver, error) { return f.all, nil }

func (f *fakeLookup) CachedMap(ctx context.Context) map[int64]driver.Driver {
	out := map[int64]driver.Driver{}
	for k, v := range f.cached {
		out[k] = v
	}
	return out
}

func (f *fakeLookup) Invalidate(ctx context.Context) { f.invalidated.Add(1) }

type fakeVehicles struct {
	asset.VehicleRepository
	all []asset.Vehicle
	err error
}

func (f *fakeVehicles) GetByIDs(ctx context.Context, ids []int64) ([]asset.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []asset.Vehicle
	for _, v := range f.all {
		for _, id := range ids {
			if v.ID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (f *fakeVehicles) GetByID(ctx context.Context, id int64) (*asset.Vehicle, error) {
	for _, v := range f.all {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, asset.ErrVehicleNotFound
}

func (f *fakeVehicles) Available(ctx context.Context) ([]asset.Vehicle, error) { return f.all, f.err }

func (f *fakeVehicles) Lookup(ctx context.Context, size int) ([]asset.Vehicle, error) {
	return f.all, f.err
}

type fakeTrailers struct {
	asset.TrailerRepository
	all []asset.Trailer
}

func (f *fakeTrailers) Available(ctx context.Context) ([]asset.Trailer, error) { return f.all, nil }

func (f *fakeTrailers) Lookup(ctx context.Context, size int) ([]asset.Trailer, error) {
	return f.all, nil
}

func (f *fakeTrailers) GetByID(ctx context.Context, id int64) (*asset.Trailer, error) {
	for _, t := range f.all {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, asset.ErrTrailerNotFound
}

type fakeLocations struct {
	location.Repository
	all []location.Location
	err error
}

func (f *fakeLocations) Lookup(ctx context.Context, size int) ([]location.Location, error) {
	return f.all, f.err
}

type fakeCargos struct {
	cargo.Repository
	mu      sync.Mutex
	created []*cargo.CreateRequest
	failOn  string
}

func (f *fakeCargos) CreateForTransport(ctx context.Context, transportID int64, req *cargo.CreateRequest) (*cargo.Cargo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.CargoDescription == f.failOn {
		return nil, errors.New("cargo rejected")
	}
	f.created = append(f.created, req)
	return &cargo.Cargo{ID: int64(len(f.created)), TransportID: &transportID}, nil
}

func (f *fakeCargos) ByTransport(ctx context.Context, transportID int64) ([]cargo.Cargo, error) {
	return []cargo.Cargo{{ID: 1, CargoDescription: "Pallets", TransportID: &transportID}}, nil
}

type fixture struct {
	svc        *Service
	transports *fakeTransports
	drivers    *fakeDrivers
	lookup     *fakeLookup
	vehicles   *fakeVehicles
	trailers   *fakeTrailers
	locations  *fakeLocations
	cargos     *fakeCargos
}

func newFixture(list ...domainTransport.Transport) *fixture {
	f := &fixture{
		transports: newFakeTransports(list...),
		drivers:    &fakeDrivers{},
		lookup:     &fakeLookup{},
		vehicles:   &fakeVehicles{},
		trailers:   &fakeTrailers{},
		locations:  &fakeLocations{},
		cargos:     &fakeCargos{},
	}
	f.svc = NewService(
		f.transports,
		f.drivers,
		f.lookup,
		&fakeSelf{transports: f.transports},
		f.vehicles,
		f.trailers,
		f.locations,
		f.cargos,
		NewBusy(),
	)
	return f
}

func ptr[T any](v T) *T { return &v }
