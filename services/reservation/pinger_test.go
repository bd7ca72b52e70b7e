package reservation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"visbridge/models"
)

func newTestPinger(provider *mockProvider) (*Pinger, *Store) {
	store := NewStore()
	pinger := NewPinger(store, provider, zap.NewNop())
	pinger.interval = 10 * time.Millisecond
	pinger.timeout = 100 * time.Millisecond
	return pinger, store
}

func TestPingerUpdatesLastPing(t *testing.T) {
	provider := &mockProvider{}
	pinger, store := newTestPinger(provider)
	defer pinger.StopAll()

	store.Put(createdRecord("res-1"))
	pinger.Start("res-1", 123)

	require.Eventually(t, func() bool {
		rec, ok := store.Get("res-1")
		return ok && !rec.LastPingAt.IsZero()
	}, time.Second, 5*time.Millisecond)

	rec, _ := store.Get("res-1")
	assert.Equal(t, models.ReservationCreated, rec.Status)
	assert.True(t, pinger.Exists("res-1"))
}

func TestPingerFailureMarksPingFailedAndStops(t *testing.T) {
	provider := &mockProvider{pingErr: errors.New("provider down")}
	pinger, store := newTestPinger(provider)
	defer pinger.StopAll()

	store.Put(createdRecord("res-1"))
	pinger.Start("res-1", 123)

	require.Eventually(t, func() bool {
		rec, _ := store.Get("res-1")
		return rec.Status == models.ReservationPingFailed
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return !pinger.Exists("res-1")
	}, time.Second, 5*time.Millisecond)
}

func TestPingerStopsWhenRecordMissing(t *testing.T) {
	provider := &mockProvider{}
	pinger, _ := newTestPinger(provider)
	defer pinger.StopAll()

	pinger.Start("ghost", 123)
	require.Eventually(t, func() bool {
		return !pinger.Exists("ghost")
	}, time.Second, 5*time.Millisecond)
}

func TestPingerStopsWhenRecordNoLongerCreated(t *testing.T) {
	provider := &mockProvider{}
	pinger, store := newTestPinger(provider)
	defer pinger.StopAll()

	rec := createdRecord("res-1")
	rec.Status = models.ReservationCancelled
	store.Put(rec)
	pinger.Start("res-1", 123)

	require.Eventually(t, func() bool {
		return !pinger.Exists("res-1")
	}, time.Second, 5*time.Millisecond)

	// The self-stop never pings a non-created reservation.
	provider.mu.Lock()
	pings := provider.pingCount
	provider.mu.Unlock()
	assert.Equal(t, 0, pings)
}

func TestPingerStartTwiceKeepsOneJob(t *testing.T) {
	provider := &mockProvider{}
	pinger, store := newTestPinger(provider)
	defer pinger.StopAll()

	store.Put(createdRecord("res-1"))
	pinger.Start("res-1", 123)
	pinger.Start("res-1", 123)

	assert.Equal(t, 1, pinger.Count())
}

func TestPingerStopIsIdempotent(t *testing.T) {
	provider := &mockProvider{}
	pinger, store := newTestPinger(provider)

	store.Put(createdRecord("res-1"))
	pinger.Start("res-1", 123)
	pinger.Stop("res-1")
	pinger.Stop("res-1")
	pinger.Stop("never-started")

	assert.False(t, pinger.Exists("res-1"))
	assert.Equal(t, 0, pinger.Count())
}
