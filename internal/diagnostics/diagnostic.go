package diagnostics

import (
	"sort"
	"sync"
	"time"
)

// DefaultMaxHistory is the number of samples a Diagnostic keeps.
const DefaultMaxHistory = 120

// DefaultSmoothingFactor weights new samples in Smoothed; it matches an
// exponential moving average over roughly 20 samples.
const DefaultSmoothingFactor = 2.0 / 21.0

// Path names a diagnostic, e.g. "frame_time/fps".
type Path string

// Measurement is one timestamped sample.
type Measurement struct {
	Time  time.Time
	Value float64
}

// Diagnostic keeps a bounded history of measurements plus a running sum and
// an exponentially smoothed value.
type Diagnostic struct {
	Path      Path
	Suffix    string
	IsEnabled bool

	maxHistory int
	smoothing  float64
	history    []Measurement
	head       int
	sum        float64
	smoothed   float64
	hasValue   bool
}

// NewDiagnostic returns an enabled diagnostic with the default history.
func NewDiagnostic(path Path, suffix string) *Diagnostic {
	return &Diagnostic{
		Path:       path,
		Suffix:     suffix,
		IsEnabled:  true,
		maxHistory: DefaultMaxHistory,
		smoothing:  DefaultSmoothingFactor,
	}
}

// WithMaxHistory sets the history length. n < 1 is treated as 1.
func (d *Diagnostic) WithMaxHistory(n int) *Diagnostic {
	if n < 1 {
		n = 1
	}
	d.maxHistory = n
	d.history = nil
	d.head = 0
	d.sum = 0
	return d
}

// WithSmoothingFactor sets the EMA weight in (0, 1]. Out of range values
// disable smoothing.
func (d *Diagnostic) WithSmoothingFactor(f float64) *Diagnostic {
	if f <= 0 || f > 1 {
		f = 1
	}
	d.smoothing = f
	return d
}

// AddMeasurement records m, evicting the oldest sample when full.
func (d *Diagnostic) AddMeasurement(m Measurement) {
	if !d.IsEnabled {
		return
	}

	if d.hasValue {
		d.smoothed += (m.Value - d.smoothed) * d.smoothing
	} else {
		d.smoothed = m.Value
		d.hasValue = true
	}

	if len(d.history) < d.maxHistory {
		d.history = append(d.history, m)
		d.sum += m.Value
		return
	}
	d.sum += m.Value - d.history[d.head].Value
	d.history[d.head] = m
	d.head = (d.head + 1) % d.maxHistory
}

// Value returns the latest sample.
func (d *Diagnostic) Value() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	return d.latest().Value, true
}

func (d *Diagnostic) latest() Measurement {
	if len(d.history) < d.maxHistory {
		return d.history[len(d.history)-1]
	}
	return d.history[(d.head+d.maxHistory-1)%d.maxHistory]
}

// Smoothed returns the exponential moving average.
func (d *Diagnostic) Smoothed() (float64, bool) {
	return d.smoothed, d.hasValue && len(d.history) > 0
}

// Average returns the mean over the kept history.
func (d *Diagnostic) Average() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	return d.sum / float64(len(d.history)), true
}

// Min returns the smallest sample in the history.
func (d *Diagnostic) Min() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	lo := d.history[0].Value
	for _, m := range d.history[1:] {
		if m.Value < lo {
			lo = m.Value
		}
	}
	return lo, true
}

// Max returns the largest sample in the history.
func (d *Diagnostic) Max() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	hi := d.history[0].Value
	for _, m := range d.history[1:] {
		if m.Value > hi {
			hi = m.Value
		}
	}
	return hi, true
}

// HistoryLen is the number of kept samples.
func (d *Diagnostic) HistoryLen() int {
	return len(d.history)
}

// Duration is the time spanned by the kept history.
func (d *Diagnostic) Duration() time.Duration {
	if len(d.history) < 2 {
		return 0
	}
	oldest := d.history[0]
	if len(d.history) == d.maxHistory {
		oldest = d.history[d.head]
	}
	return d.latest().Time.Sub(oldest.Time)
}

// Clear drops all samples.
func (d *Diagnostic) Clear() {
	d.history = nil
	d.head = 0
	d.sum = 0
	d.smoothed = 0
	d.hasValue = false
}

// Store holds every registered diagnostic. Its methods are safe for
// concurrent use. Other goroutines read through Snapshot or Snapshots.
type Store struct {
	mu          sync.RWMutex
	diagnostics map[Path]*Diagnostic
}

func NewStore() *Store {
	return &Store{diagnostics: make(map[Path]*Diagnostic)}
}

// Add registers d, replacing any diagnostic with the same path.
func (s *Store) Add(d *Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics[d.Path] = d
}

// Get returns the live diagnostic at path. The result is not locked, so
// only the goroutine recording measurements may use it.
func (s *Store) Get(path Path) (*Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagnostics[path]
	return d, ok
}

// AddMeasurement records a sample on path if it is registered.
func (s *Store) AddMeasurement(path Path, now time.Time, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.diagnostics[path]; ok {
		d.AddMeasurement(Measurement{Time: now, Value: value})
	}
}

// Snapshot is a read-only copy of one diagnostic's summary values.
type Snapshot struct {
	Path     Path
	Suffix   string
	Value    float64
	Smoothed float64
	Average  float64
	Min      float64
	Max      float64
	HasValue bool
}

// Snapshots returns a summary of every diagnostic sorted by path.
func (s *Store) Snapshots() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Snapshot, 0, len(s.diagnostics))
	for _, d := range s.diagnostics {
		out = append(out, d.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Snapshot returns the summary of one diagnostic.
func (s *Store) Snapshot(path Path) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagnostics[path]
	if !ok {
		return Snapshot{Path: path}, false
	}
	return d.snapshot(), true
}

func (d *Diagnostic) snapshot() Snapshot {
	snap := Snapshot{Path: d.Path, Suffix: d.Suffix}
	snap.Value, snap.HasValue = d.Value()
	snap.Smoothed, _ = d.Smoothed()
	snap.Average, _ = d.Average()
	snap.Min, _ = d.Min()
	snap.Max, _ = d.Max()
	return snap
}
