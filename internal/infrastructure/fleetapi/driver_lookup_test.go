package fleetapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookupFixture(t *testing.T, delay time.Duration) (*DriverLookup, *atomic.Int32, context.Context) {
	t.Helper()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/drivers" {
			http.NotFound(w, r)
			return
		}
		fetches.Add(1)
		assert.Equal(t, "200", r.URL.Query().Get("size"))
		time.Sleep(delay)
		writeJSON(w, page.Page[driver.Driver]{
			Content: []driver.Driver{
				{UserID: 10, FirstName: "Anna", LastName: "Nowak"},
				{UserID: 11, FirstName: "Piotr", LastName: "Kowalski"},
			},
			TotalElements: 2,
		})
	}))
	t.Cleanup(srv.Close)

	sessions := memory.NewSessionRepository()
	for _, id := range []string{"a", "b"} {
		require.NoError(t, sessions.Create(context.Background(), &session.Session{ID: id, AccessToken: "t-" + id}))
	}

	client := NewClient(Config{BaseURL: srv.URL}, sessions)
	return NewDriverLookup(client, 0), &fetches, WithSession(context.Background(), "a")
}

func TestDriverLookup_ConcurrentCallersShareOneFetch(t *testing.T) {
	lookup, fetches, ctx := newLookupFixture(t, 30*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			drivers, err := lookup.All(ctx)
			assert.NoError(t, err)
			assert.Len(t, drivers, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())

	_, err := lookup.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())

	byID := lookup.CachedMap(ctx)
	assert.Equal(t, "Anna Nowak", byID[10].FullName())
}

func TestDriverLookup_IsPerSession(t *testing.T) {
	lookup, fetches, ctx := newLookupFixture(t, 0)

	_, err := lookup.All(ctx)
	require.NoError(t, err)
	_, err = lookup.All(WithSession(context.Background(), "b"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), fetches.Load())
	assert.Empty(t, lookup.CachedMap(WithSession(context.Background(), "c")))
}

func TestDriverLookup_Invalidate(t *testing.T) {
	lookup, fetches, ctx := newLookupFixture(t, 0)

	_, err := lookup.All(ctx)
	require.NoError(t, err)

	lookup.Invalidate(ctx)
	assert.Empty(t, lookup.CachedMap(ctx))

	_, err = lookup.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestDriverLookup_TTL(t *testing.T) {
	lookup, fetches, ctx := newLookupFixture(t, 0)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	lookup.now = func() time.Time { return now }
	lookup.ttl = time.Minute

	_, err := lookup.All(ctx)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = lookup.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())

	now = now.Add(time.Minute)
	_, err = lookup.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestDriverLookup_PurgeAndForget(t *testing.T) {
	lookup, _, ctx := newLookupFixture(t, 0)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	lookup.now = func() time.Time { return now }

	_, err := lookup.All(ctx)
	require.NoError(t, err)
	_, err = lookup.All(WithSession(context.Background(), "b"))
	require.NoError(t, err)

	lookup.Forget("b")
	assert.Empty(t, lookup.CachedMap(WithSession(context.Background(), "b")))
	assert.NotEmpty(t, lookup.CachedMap(ctx))

	now = now.Add(2 * time.Hour)
	lookup.Purge(time.Hour)
	assert.Empty(t, lookup.CachedMap(ctx))
}

func TestGetByIDs_EmptyShortCircuits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "1,2", r.URL.Query().Get("ids"))
		writeJSON(w, []map[string]interface{}{{"id": 1}, {"id": 2}})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, memory.NewSessionRepository())
	repo := NewVehicleRepository(client)

	empty, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	assert.Zero(t, calls.Load())

	two, err := repo.GetByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUserList_FillsEnvelopeDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		_, _ = w.Write([]byte(`{"content":[{"id":1,"firstName":"Ewa","lastName":"Lis","email":"e@x.pl"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL}, memory.NewSessionRepository())
	p, err := NewUserRepository(client).List(context.Background(), page.Query{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalElements)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 10, p.Size)
	assert.Equal(t, "Ewa Lis", p.Content[0].FullName())
}
