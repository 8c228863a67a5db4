// Package notify keeps the flash notice of each console session and drops
// repeats of the same notice shown in quick succession.
package notify

import (
	"errors"
	"sync"
	"time"

	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/metrics"
	apperrors "fleet-console/pkg/errors"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarn    Kind = "warn"
	KindError   Kind = "error"
)

// DefaultWindow is how long an identical notice is suppressed.
const DefaultWindow = 1500 * time.Millisecond

const (
	displayDuration      = 3500 * time.Millisecond
	errorDisplayDuration = 5000 * time.Millisecond
)

// Notice is a rendered notification.
type Notice struct {
	Message  string
	Kind     Kind
	Duration time.Duration
}

// DurationMillis sets the fade-out animation length of the toast.
func (n Notice) DurationMillis() int64 {
	return n.Duration.Milliseconds()
}

func durationFor(kind Kind) time.Duration {
	if kind == KindError {
		return errorDisplayDuration
	}
	return displayDuration
}

// Notifier holds the state of one session.
type Notifier struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	lastMsg string
	lastKnd Kind
	lastAt  time.Time
	visible *Notice
	touched time.Time
}

func newNotifier(window time.Duration, now func() time.Time) *Notifier {
	return &Notifier{window: window, now: now, touched: now()}
}

// Show replaces the visible notice, unless the same message and kind were
// shown less than the window ago. It reports whether the notice was kept.
func (n *Notifier) Show(message string, kind Kind) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	n.touched = now

	if message == n.lastMsg && kind == n.lastKnd && !n.lastAt.IsZero() && now.Sub(n.lastAt) < n.window {
		metrics.RecordNotification(string(kind), false)
		return false
	}

	n.lastMsg = message
	n.lastKnd = kind
	n.lastAt = now
	n.visible = &Notice{Message: message, Kind: kind, Duration: durationFor(kind)}
	metrics.RecordNotification(string(kind), true)
	return true
}

// Take pops the visible notice.
func (n *Notifier) Take() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.touched = n.now()
	if n.visible == nil {
		return Notice{}, false
	}
	notice := *n.visible
	n.visible = nil
	return notice, true
}

func (n *Notifier) idleSince() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.touched
}

// Center owns the notifiers of all sessions.
type Center struct {
	mu        sync.Mutex
	window    time.Duration
	now       func() time.Time
	notifiers map[string]*Notifier
}

func NewCenter(window time.Duration) *Center {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Center{
		window:    window,
		now:       time.Now,
		notifiers: make(map[string]*Notifier),
	}
}

// For returns the notifier of a session. An empty id gets a detached notifier.
func (c *Center) For(sessionID string) *Notifier {
	if sessionID == "" {
		return newNotifier(c.window, c.now)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.notifiers[sessionID]
	if !ok {
		n = newNotifier(c.window, c.now)
		c.notifiers[sessionID] = n
	}
	return n
}

func (c *Center) Show(sessionID, message string, kind Kind) bool {
	return c.For(sessionID).Show(message, kind)
}

func (c *Center) Success(sessionID, message string) { c.Show(sessionID, message, KindSuccess) }
func (c *Center) Info(sessionID, message string)    { c.Show(sessionID, message, KindInfo) }
func (c *Center) Warn(sessionID, message string)    { c.Show(sessionID, message, KindWarn) }
func (c *Center) Error(sessionID, message string)   { c.Show(sessionID, message, KindError) }

// Err shows err as an error notice. Errors answered by a redirect (expired
// session, 401, 403) are not shown.
func (c *Center) Err(sessionID string, err error) {
	if msg, ok := Message(err); ok {
		c.Error(sessionID, msg)
	}
}

// Message returns the text for err and whether it should be shown.
func Message(err error) (string, bool) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && !errors.Is(err, fleetapi.ErrSessionExpired) {
		return appErr.Message, true
	}
	return fleetapi.UserMessage(err)
}

// Take pops the visible notice of a session.
func (c *Center) Take(sessionID string) (Notice, bool) {
	if sessionID == "" {
		return Notice{}, false
	}
	c.mu.Lock()
	n, ok := c.notifiers[sessionID]
	c.mu.Unlock()
	if !ok {
		return Notice{}, false
	}
	return n.Take()
}

func (c *Center) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.notifiers, sessionID)
}

// Purge drops notifiers untouched for maxIdle and returns how many went.
func (c *Center) Purge(maxIdle time.Duration) int {
	cutoff := c.now().Add(-maxIdle)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, n := range c.notifiers {
		if n.idleSince().Before(cutoff) {
			delete(c.notifiers, id)
			removed++
		}
	}
	return removed
}
