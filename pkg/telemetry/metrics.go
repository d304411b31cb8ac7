// Package telemetry tracks tick timing and event counts for the signal
// engines so the operator can spot a loop that stopped keeping up.
package telemetry

import (
	"sync"
	"time"
)

// Snapshot is one window of engine activity.
type Snapshot struct {
	WindowStart time.Time

	// Tick timing
	AudioTicks    int
	GestureTicks  int
	MaxTickTime   time.Duration
	TotalTickTime time.Duration

	// Event counts
	Beats         int
	Peaks         int
	Swipes        int
	FramesDropped int
}

// AvgTickTime returns the mean tick duration over the window.
func (s Snapshot) AvgTickTime() time.Duration {
	ticks := s.AudioTicks + s.GestureTicks
	if ticks == 0 {
		return 0
	}
	return s.TotalTickTime / time.Duration(ticks)
}

// Collector accumulates snapshots. It is goroutine-safe and can be fed from
// both engine loops at once.
type Collector struct {
	mu      sync.Mutex
	current Snapshot
	history []Snapshot

	// Callback fired when a window rolls over
	onWindow func(Snapshot)
}

// NewCollector creates a collector with an open first window.
func NewCollector() *Collector {
	return &Collector{
		current: Snapshot{WindowStart: time.Now()},
		history: make([]Snapshot, 0, 100),
	}
}

// OnWindow sets a callback that fires each time a window is archived.
func (c *Collector) OnWindow(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWindow = fn
}

// RecordAudioTick records one spectral engine tick and its duration.
func (c *Collector) RecordAudioTick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.AudioTicks++
	c.recordTickLocked(d)
}

// RecordGestureTick records one recognizer tick and its duration.
func (c *Collector) RecordGestureTick(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.GestureTicks++
	c.recordTickLocked(d)
}

func (c *Collector) recordTickLocked(d time.Duration) {
	c.current.TotalTickTime += d
	if d > c.current.MaxTickTime {
		c.current.MaxTickTime = d
	}
}

// CountBeat, CountPeak, CountSwipe and CountDroppedFrame bump the window's
// event counters. They are cheap enough to hang straight off the registry.
func (c *Collector) CountBeat() { c.bump(func(s *Snapshot) { s.Beats++ }) }

func (c *Collector) CountPeak() { c.bump(func(s *Snapshot) { s.Peaks++ }) }

func (c *Collector) CountSwipe() { c.bump(func(s *Snapshot) { s.Swipes++ }) }

func (c *Collector) CountDroppedFrame() { c.bump(func(s *Snapshot) { s.FramesDropped++ }) }

func (c *Collector) bump(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.current)
}

// Roll archives the current window and opens a new one.
func (c *Collector) Roll() Snapshot {
	c.mu.Lock()
	done := c.current
	c.history = append(c.history, done)
	if len(c.history) > 100 {
		c.history = c.history[1:]
	}
	c.current = Snapshot{WindowStart: time.Now()}
	fn := c.onWindow
	c.mu.Unlock()

	if fn != nil {
		fn(done)
	}
	return done
}

// Current returns the open window so far.
func (c *Collector) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Totals sums event counts over the archived history.
func (c *Collector) Totals() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total Snapshot
	for _, h := range c.history {
		total.AudioTicks += h.AudioTicks
		total.GestureTicks += h.GestureTicks
		total.TotalTickTime += h.TotalTickTime
		total.Beats += h.Beats
		total.Peaks += h.Peaks
		total.Swipes += h.Swipes
		total.FramesDropped += h.FramesDropped
		if h.MaxTickTime > total.MaxTickTime {
			total.MaxTickTime = h.MaxTickTime
		}
	}
	return total
}
