// Package clock provides the monotonic tick source used to time child processes.
//
// Ticks are raw counter values; they only mean something relative to another
// tick from the same Clock, scaled by that clock's Frequency.
package clock

import (
	"sync"
	"sync/atomic"
)

// nanosPerSecond is the frequency of the built-in monotonic clock.
const nanosPerSecond = int64(1_000_000_000)

// Tick is a raw monotonic counter value.
type Tick int64

// Clock is a monotonic tick source.
type Clock interface {
	// Now returns the current tick. Successive calls never decrease.
	Now() Tick

	// Frequency returns ticks per second, or 0 when the counter is unavailable.
	Frequency() int64
}

// Elapsed converts the span between two ticks of c into seconds.
//
// It reports false when c has no usable frequency, in which case the seconds
// are 0. A span whose end precedes its start is clamped to 0.
func Elapsed(c Clock, start, end Tick) (float64, bool) {
	freq := c.Frequency()
	if freq <= 0 {
		return 0, false
	}

	if end < start {
		return 0, true
	}

	return float64(end-start) / float64(freq), true
}

type monotonic struct {
	failed atomic.Bool
}

// Monotonic returns the system monotonic clock with nanosecond ticks.
//
// If reading the counter ever fails, Now returns 0 for that read and
// Frequency reports 0 from then on, so elapsed times computed across the
// failure are reported as unavailable instead of wrong.
func Monotonic() Clock {
	return &monotonic{}
}

func (m *monotonic) Now() Tick {
	n, err := readCounter()
	if err != nil {
		m.failed.Store(true)
		return 0
	}

	return Tick(n)
}

func (m *monotonic) Frequency() int64 {
	if m.failed.Load() {
		return 0
	}

	return nanosPerSecond
}

// Manual is a Clock whose ticks only move when told to. The zero value has a
// frequency of 0, which models an unavailable counter.
type Manual struct {
	mu   sync.Mutex
	now  Tick
	freq int64
}

// NewManual returns a Manual clock at tick 0 with the given frequency.
func NewManual(freq int64) *Manual {
	return &Manual{freq: freq}
}

// Now returns the current tick.
func (m *Manual) Now() Tick {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// Frequency returns the configured ticks per second.
func (m *Manual) Frequency() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.freq
}

// Advance moves the clock forward by n ticks. Negative values are ignored so
// the clock stays monotonic.
func (m *Manual) Advance(n Tick) {
	if n <= 0 {
		return
	}

	m.mu.Lock()
	m.now += n
	m.mu.Unlock()
}
