package notify

import (
	"errors"
	"testing"
	"time"

	"fleet-console/internal/infrastructure/fleetapi"
	apperrors "fleet-console/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCenter() (*Center, *clock) {
	clk := &clock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	c := NewCenter(0)
	c.now = clk.now
	return c, clk
}

func TestNotifier_DropsRepeatsInsideWindow(t *testing.T) {
	c, clk := newTestCenter()

	assert.True(t, c.Show("s", "Saved", KindSuccess))
	clk.advance(1 * time.Second)
	assert.False(t, c.Show("s", "Saved", KindSuccess))

	// lastAt only moves when a notice is shown
	clk.advance(600 * time.Millisecond)
	assert.True(t, c.Show("s", "Saved", KindSuccess))
}

func TestNotifier_DifferentMessageOrKindIsShown(t *testing.T) {
	c, _ := newTestCenter()

	assert.True(t, c.Show("s", "Saved", KindSuccess))
	assert.True(t, c.Show("s", "Saved", KindInfo))
	assert.True(t, c.Show("s", "Deleted", KindInfo))
}

func TestNotifier_SessionsAreIndependent(t *testing.T) {
	c, _ := newTestCenter()

	assert.True(t, c.Show("a", "Saved", KindSuccess))
	assert.True(t, c.Show("b", "Saved", KindSuccess))
}

func TestNotifier_TakeIsFlash(t *testing.T) {
	c, _ := newTestCenter()

	c.Info("s", "first")
	c.Error("s", "second")

	notice, ok := c.Take("s")
	require.True(t, ok)
	assert.Equal(t, "second", notice.Message)
	assert.Equal(t, KindError, notice.Kind)
	assert.Equal(t, int64(5000), notice.DurationMillis())

	_, ok = c.Take("s")
	assert.False(t, ok)

	c.Warn("s", "careful")
	notice, _ = c.Take("s")
	assert.Equal(t, 3500*time.Millisecond, notice.Duration)
}

func TestCenter_Err(t *testing.T) {
	c, _ := newTestCenter()

	c.Err("s", fleetapi.ErrSessionExpired)
	c.Err("s", &fleetapi.APIError{Status: 403, UserMessage: "Forbidden — insufficient permissions."})
	_, ok := c.Take("s")
	assert.False(t, ok)

	c.Err("s", apperrors.NewAppError("ACTION_IN_PROGRESS", "Action in progress", apperrors.ErrActionInProgress))
	notice, ok := c.Take("s")
	require.True(t, ok)
	assert.Equal(t, "Action in progress", notice.Message)

	c.Err("s", &fleetapi.APIError{Status: 409, UserMessage: "Vehicle is in use"})
	notice, _ = c.Take("s")
	assert.Equal(t, "Vehicle is in use", notice.Message)

	c.Err("s", errors.New("plain"))
	notice, _ = c.Take("s")
	assert.Equal(t, "plain", notice.Message)
}

func TestCenter_EmptySessionIsDetached(t *testing.T) {
	c, _ := newTestCenter()

	assert.True(t, c.Show("", "x", KindInfo))
	assert.True(t, c.Show("", "x", KindInfo))
	_, ok := c.Take("")
	assert.False(t, ok)
}

func TestCenter_PurgeAndForget(t *testing.T) {
	c, clk := newTestCenter()

	c.Info("old", "x")
	clk.advance(time.Hour)
	c.Info("new", "y")

	assert.Equal(t, 1, c.Purge(30*time.Minute))
	_, ok := c.Take("old")
	assert.False(t, ok)

	c.Forget("new")
	_, ok = c.Take("new")
	assert.False(t, ok)
}
