package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnlimitedNeverBlocks(t *testing.T) {
	l := NewPerSecond(0)

	start := time.Now()
	for i := 0; i < 10000; i++ {
		l.Wait()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Zero(t, l.Stats().Current)
}

func TestWaitClaimsSlots(t *testing.T) {
	l := New(&Config{RequestsPerSecond: 3, Window: time.Minute})

	start := time.Now()
	l.Wait()
	l.Wait()
	l.Wait()
	assert.Less(t, time.Since(start), 100*time.Millisecond, "waits under the cap must not block")

	stats := l.Stats()
	assert.Equal(t, 3, stats.Current)
	assert.Equal(t, 3, stats.Max)
}

func TestWaitBlocksAtCap(t *testing.T) {
	l := New(&Config{RequestsPerSecond: 2, Window: 100 * time.Millisecond})

	l.Wait()
	l.Wait()

	// Third claim must wait for a slot released one window later.
	start := time.Now()
	l.Wait()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond, "third claim should block for the window")
	assert.Less(t, elapsed, time.Second)
}

func TestSlotReleasedAfterWindow(t *testing.T) {
	l := New(&Config{RequestsPerSecond: 1, Window: 50 * time.Millisecond})

	l.Wait()
	assert.Equal(t, 1, l.Stats().Current)

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, l.Stats().Current, "slot should be given back one window after the claim")
}

func TestConcurrentWaiters(t *testing.T) {
	const waiters = 8
	l := New(&Config{RequestsPerSecond: 2, Window: 50 * time.Millisecond})

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	// 8 claims at 2 per 50ms window need at least 3 extra windows.
	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
	assert.LessOrEqual(t, l.Stats().Current, 2)
}

func TestNewDefaults(t *testing.T) {
	l := New(nil)
	assert.Zero(t, l.Stats().Max)

	l = New(&Config{RequestsPerSecond: 5})
	assert.Equal(t, time.Second, l.window)
}
