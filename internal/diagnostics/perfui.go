package diagnostics

import (
	"fmt"
	"strings"
	"time"

	"Mower/internal/behaviour"
)

// Entry is one line of the perf overlay.
type Entry int

const (
	EntryFPS Entry = iota
	EntryFPSWorst
	EntryFrameTime
	EntryFrameTimeWorst
	EntryFrameCount
	EntryEntityCount
	EntryCPUCount
	EntryGoroutines
	EntryMemory
	EntryRunningTime
	EntryWallClock
)

var entryLabels = map[Entry]string{
	EntryFPS:            "FPS",
	EntryFPSWorst:       "FPS (worst)",
	EntryFrameTime:      "Frame Time",
	EntryFrameTimeWorst: "Frame Time (worst)",
	EntryFrameCount:     "Frame Count",
	EntryEntityCount:    "Entities",
	EntryCPUCount:       "CPUs",
	EntryGoroutines:     "Goroutines",
	EntryMemory:         "Memory",
	EntryRunningTime:    "Running Time",
	EntryWallClock:      "Clock",
}

func (e Entry) String() string {
	if l, ok := entryLabels[e]; ok {
		return l
	}
	return fmt.Sprintf("Entry(%d)", int(e))
}

// CompleteBundle lists every entry the overlay knows.
func CompleteBundle() []Entry {
	return []Entry{
		EntryFPS,
		EntryFPSWorst,
		EntryFrameTime,
		EntryFrameTimeWorst,
		EntryFrameCount,
		EntryEntityCount,
		EntryCPUCount,
		EntryGoroutines,
		EntryMemory,
		EntryRunningTime,
		EntryWallClock,
	}
}

const notAvailable = "N/A"

// PerfUI renders diagnostics as a fixed-width text block.
type PerfUI struct {
	Entries []Entry
}

// NewPerfUI shows the complete bundle.
func NewPerfUI() *PerfUI {
	return &PerfUI{Entries: CompleteBundle()}
}

// Render formats every entry. Output depends only on its arguments.
func (p *PerfUI) Render(s *Store, t behaviour.Time, now time.Time) string {
	var b strings.Builder
	for i, e := range p.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-18s %s", e.String(), p.value(e, s, t, now))
	}
	return b.String()
}

func (p *PerfUI) value(e Entry, s *Store, t behaviour.Time, now time.Time) string {
	switch e {
	case EntryFPS:
		return format(s, FPS, "%.0f", Snapshot.smoothedValue)
	case EntryFPSWorst:
		return format(s, FPS, "%.0f", Snapshot.minValue)
	case EntryFrameTime:
		return format(s, FrameTime, "%.2f ms", Snapshot.smoothedValue)
	case EntryFrameTimeWorst:
		return format(s, FrameTime, "%.2f ms", Snapshot.maxValue)
	case EntryFrameCount:
		return format(s, FrameCount, "%.0f", Snapshot.latestValue)
	case EntryEntityCount:
		return format(s, EntityCount, "%.0f", Snapshot.latestValue)
	case EntryCPUCount:
		return format(s, CPUCount, "%.0f", Snapshot.latestValue)
	case EntryGoroutines:
		return format(s, Goroutines, "%.0f", Snapshot.latestValue)
	case EntryMemory:
		return format(s, HeapMemory, "%.1f MiB", Snapshot.latestValue)
	case EntryRunningTime:
		return formatDuration(t.Elapsed)
	case EntryWallClock:
		return now.Format("15:04:05")
	}
	return notAvailable
}

func format(s *Store, path Path, layout string, pick func(Snapshot) float64) string {
	snap, ok := s.Snapshot(path)
	if !ok || !snap.HasValue {
		return notAvailable
	}
	return fmt.Sprintf(layout, pick(snap))
}

func (s Snapshot) smoothedValue() float64 { return s.Smoothed }
func (s Snapshot) minValue() float64      { return s.Min }
func (s Snapshot) maxValue() float64      { return s.Max }
func (s Snapshot) latestValue() float64   { return s.Value }

// formatDuration renders d as [h:]mm:ss.mmm.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	d -= sec * time.Second
	ms := d / time.Millisecond

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, sec, ms)
}
