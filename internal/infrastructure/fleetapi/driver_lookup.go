package fleetapi

import (
	"context"
	"strconv"
	"sync"
	"time"

	"fleet-console/internal/domain/driver"
	"fleet-console/internal/domain/page"

	"golang.org/x/sync/singleflight"
)

// DriverLookup caches the driver list per session. Concurrent callers share one
// fetch; the result is replayed until Invalidate or, when set, the TTL.
type DriverLookup struct {
	client  *Client
	size    int
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]*lookupEntry
	gens    map[string]uint64
}

type lookupEntry struct {
	drivers  []driver.Driver
	loadedAt time.Time
}

func NewDriverLookup(client *Client, ttl time.Duration) *DriverLookup {
	return &DriverLookup{
		client:  client,
		size:    LookupSize,
		ttl:     ttl,
		timeout: 15 * time.Second,
		now:     time.Now,
		entries: make(map[string]*lookupEntry),
		gens:    make(map[string]uint64),
	}
}

var _ driver.Lookup = (*DriverLookup)(nil)

func (l *DriverLookup) All(ctx context.Context) ([]driver.Driver, error) {
	sessionID := SessionID(ctx)

	l.mu.Lock()
	if e, ok := l.entries[sessionID]; ok && l.fresh(e) {
		out := append([]driver.Driver(nil), e.drivers...)
		l.mu.Unlock()
		return out, nil
	}
	gen := l.gens[sessionID]
	l.mu.Unlock()

	key := sessionID + "#" + strconv.FormatUint(gen, 10)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		p, err := listPage[driver.Driver](fetchCtx, l.client, driverBase, page.Query{Page: 0, Size: l.size})
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		if l.gens[sessionID] == gen {
			l.entries[sessionID] = &lookupEntry{drivers: p.Content, loadedAt: l.now()}
		}
		l.mu.Unlock()
		return p.Content, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return append([]driver.Driver(nil), res.Val.([]driver.Driver)...), nil
	}
}

// CachedMap returns the last loaded drivers keyed by user id without fetching.
func (l *DriverLookup) CachedMap(ctx context.Context) map[int64]driver.Driver {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[int64]driver.Driver)
	if e, ok := l.entries[SessionID(ctx)]; ok {
		for _, d := range e.drivers {
			out[d.UserID] = d
		}
	}
	return out
}

// Invalidate drops the session's cached list; a fetch already in flight is
// not stored.
func (l *DriverLookup) Invalidate(ctx context.Context) {
	sessionID := SessionID(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, sessionID)
	l.gens[sessionID]++
}

// Forget drops everything kept for a session that ended.
func (l *DriverLookup) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, sessionID)
	delete(l.gens, sessionID)
}

// Purge removes entries older than maxAge, used by the session cleanup job.
func (l *DriverLookup) Purge(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-maxAge)
	for id, e := range l.entries {
		if e.loadedAt.Before(cutoff) {
			delete(l.entries, id)
		}
	}
}

func (l *DriverLookup) fresh(e *lookupEntry) bool {
	return l.ttl <= 0 || l.now().Sub(e.loadedAt) < l.ttl
}
