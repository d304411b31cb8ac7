package telemetry

import (
	"testing"
	"time"
)

func TestCollectorTickAccounting(t *testing.T) {
	c := NewCollector()

	c.RecordAudioTick(2 * time.Millisecond)
	c.RecordAudioTick(4 * time.Millisecond)
	c.RecordGestureTick(6 * time.Millisecond)

	cur := c.Current()
	if cur.AudioTicks != 2 || cur.GestureTicks != 1 {
		t.Fatalf("ticks = %d/%d, want 2/1", cur.AudioTicks, cur.GestureTicks)
	}
	if cur.MaxTickTime != 6*time.Millisecond {
		t.Errorf("max tick = %v, want 6ms", cur.MaxTickTime)
	}
	if got := cur.AvgTickTime(); got != 4*time.Millisecond {
		t.Errorf("avg tick = %v, want 4ms", got)
	}
}

func TestCollectorRollArchivesWindow(t *testing.T) {
	c := NewCollector()

	c.CountBeat()
	c.CountBeat()
	c.CountSwipe()

	var rolled []Snapshot
	c.OnWindow(func(s Snapshot) { rolled = append(rolled, s) })

	done := c.Roll()
	if done.Beats != 2 || done.Swipes != 1 {
		t.Fatalf("rolled window beats=%d swipes=%d, want 2/1", done.Beats, done.Swipes)
	}
	if len(rolled) != 1 {
		t.Fatalf("window callback fired %d times, want 1", len(rolled))
	}

	if cur := c.Current(); cur.Beats != 0 {
		t.Errorf("new window carries %d beats, want 0", cur.Beats)
	}

	c.CountPeak()
	c.Roll()

	totals := c.Totals()
	if totals.Beats != 2 || totals.Peaks != 1 || totals.Swipes != 1 {
		t.Errorf("totals beats=%d peaks=%d swipes=%d, want 2/1/1",
			totals.Beats, totals.Peaks, totals.Swipes)
	}
}

func TestAvgTickTimeEmptyWindow(t *testing.T) {
	var s Snapshot
	if s.AvgTickTime() != 0 {
		t.Error("empty window should average to zero")
	}
}
