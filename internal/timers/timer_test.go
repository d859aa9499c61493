package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTimer_FiresOnce verifies a countdown delivers exactly one callback.
func TestTimer_FiresOnce(t *testing.T) {
	t.Parallel()

	var (
		timer Timer
		fired atomic.Int32
	)

	done := make(chan struct{})

	timer.Start(10*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})
	require.True(t, timer.Active())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never fired")
	}

	// Give a stray duplicate a chance to show up.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
	require.False(t, timer.Active())
}

// TestTimer_CancelPreventsFire verifies a cancelled countdown stays silent.
func TestTimer_CancelPreventsFire(t *testing.T) {
	t.Parallel()

	var (
		timer Timer
		fired atomic.Int32
	)

	timer.Start(20*time.Millisecond, func() { fired.Add(1) })
	timer.Cancel()
	require.False(t, timer.Active())

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}

// TestTimer_CancelIsIdempotent verifies repeated cancels of idle, cancelled
// and expired timers are no-ops.
func TestTimer_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	var timer Timer

	// Idle.
	timer.Cancel()
	timer.Cancel()

	// After expiry.
	done := make(chan struct{})
	timer.Start(time.Millisecond, func() { close(done) })
	<-done
	timer.Cancel()
	timer.Cancel()
}

// TestTimer_StartReplacesRunningCountdown verifies the atomic replace: only
// the latest countdown may fire, never both.
func TestTimer_StartReplacesRunningCountdown(t *testing.T) {
	t.Parallel()

	var (
		timer  Timer
		first  atomic.Int32
		second atomic.Int32
	)

	done := make(chan struct{})

	timer.Start(30*time.Millisecond, func() { first.Add(1) })
	timer.Start(10*time.Millisecond, func() {
		second.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement countdown never fired")
	}

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(0), first.Load())
	require.Equal(t, int32(1), second.Load())
}
