package diagnostics

import (
	"runtime"
	"time"

	"Mower/internal/behaviour"
	"Mower/internal/logger"

	"go.uber.org/zap"
)

// Frame time diagnostics.
const (
	FPS        Path = "frame_time/fps"
	FrameTime  Path = "frame_time/frame_time"
	FrameCount Path = "frame_time/frame_count"
)

// EntityCount is the number of live objects in the world.
const EntityCount Path = "entity_count"

// System information diagnostics.
const (
	CPUCount   Path = "system/cpu_count"
	Goroutines Path = "system/goroutines"
	HeapMemory Path = "system/heap_mb"
	SysMemory  Path = "system/sys_mb"
)

// Plugin registers diagnostics once and feeds them every frame.
type Plugin interface {
	Build(s *Store)
	Update(s *Store, now time.Time, t behaviour.Time)
}

// Diagnostics bundles a Store with the plugins feeding it.
type Diagnostics struct {
	*Store
	plugins []Plugin
}

// New builds a Store and registers the plugins on it.
func New(plugins ...Plugin) *Diagnostics {
	d := &Diagnostics{Store: NewStore()}
	for _, p := range plugins {
		d.AddPlugin(p)
	}
	return d
}

func (d *Diagnostics) AddPlugin(p Plugin) {
	p.Build(d.Store)
	d.plugins = append(d.plugins, p)
}

// Update runs every plugin for this frame.
func (d *Diagnostics) Update(now time.Time, t behaviour.Time) {
	for _, p := range d.plugins {
		p.Update(d.Store, now, t)
	}
}

// FrameTimePlugin measures FPS, frame time in milliseconds and the frame
// count.
type FrameTimePlugin struct{}

func (FrameTimePlugin) Build(s *Store) {
	s.Add(NewDiagnostic(FPS, ""))
	s.Add(NewDiagnostic(FrameTime, "ms"))
	s.Add(NewDiagnostic(FrameCount, "").WithSmoothingFactor(1))
}

func (FrameTimePlugin) Update(s *Store, now time.Time, t behaviour.Time) {
	s.AddMeasurement(FrameCount, now, float64(t.Frame))

	delta := t.Delta.Seconds()
	if delta <= 0 {
		return
	}
	s.AddMeasurement(FrameTime, now, delta*1000)
	s.AddMeasurement(FPS, now, 1/delta)
}

// EntityCounter is anything that can report how many entities it holds.
type EntityCounter interface {
	EntityCount() int
}

// EntityCountPlugin samples the world size every frame.
type EntityCountPlugin struct {
	World EntityCounter
}

func (p EntityCountPlugin) Build(s *Store) {
	s.Add(NewDiagnostic(EntityCount, "").WithSmoothingFactor(1))
}

func (p EntityCountPlugin) Update(s *Store, now time.Time, _ behaviour.Time) {
	if p.World == nil {
		return
	}
	s.AddMeasurement(EntityCount, now, float64(p.World.EntityCount()))
}

// SystemInfo is the static description of the host.
type SystemInfo struct {
	OS        string
	Arch      string
	CPUs      int
	GoVersion string
}

// HostInfo reports the current process' SystemInfo.
func HostInfo() SystemInfo {
	return SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}

// SystemInfoPlugin samples runtime memory and goroutine counts. Reading
// memory stats stops the world, so it samples at most once per Interval.
type SystemInfoPlugin struct {
	Interval time.Duration

	last    time.Time
	sampled bool
}

// NewSystemInfoPlugin samples once per second.
func NewSystemInfoPlugin() *SystemInfoPlugin {
	return &SystemInfoPlugin{Interval: time.Second}
}

func (p *SystemInfoPlugin) Build(s *Store) {
	s.Add(NewDiagnostic(CPUCount, "").WithSmoothingFactor(1))
	s.Add(NewDiagnostic(Goroutines, "").WithSmoothingFactor(1))
	s.Add(NewDiagnostic(HeapMemory, "MiB").WithMaxHistory(16))
	s.Add(NewDiagnostic(SysMemory, "MiB").WithMaxHistory(16))

	info := HostInfo()
	logger.Log.Info("System information",
		zap.String("os", info.OS),
		zap.String("arch", info.Arch),
		zap.Int("cpus", info.CPUs),
		zap.String("go", info.GoVersion))
}

func (p *SystemInfoPlugin) Update(s *Store, now time.Time, _ behaviour.Time) {
	if p.sampled && now.Sub(p.last) < p.Interval {
		return
	}
	p.last = now
	p.sampled = true

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s.AddMeasurement(CPUCount, now, float64(runtime.NumCPU()))
	s.AddMeasurement(Goroutines, now, float64(runtime.NumGoroutine()))
	s.AddMeasurement(HeapMemory, now, float64(mem.HeapInuse)/(1<<20))
	s.AddMeasurement(SysMemory, now, float64(mem.Sys)/(1<<20))
}

// LogPlugin writes every diagnostic to the logger once per Interval.
type LogPlugin struct {
	Interval time.Duration
	Filter   []Path // empty means all

	last    time.Time
	started bool
}

// NewLogPlugin logs once per second.
func NewLogPlugin() *LogPlugin {
	return &LogPlugin{Interval: time.Second}
}

func (p *LogPlugin) Build(*Store) {}

func (p *LogPlugin) Update(s *Store, now time.Time, _ behaviour.Time) {
	if !p.started {
		p.started = true
		p.last = now
		return
	}
	if now.Sub(p.last) < p.Interval {
		return
	}
	p.last = now

	for _, snap := range p.selected(s) {
		if !snap.HasValue {
			continue
		}
		logger.Log.Info("diagnostic",
			zap.String("path", string(snap.Path)),
			zap.Float64("value", snap.Value),
			zap.Float64("average", snap.Average),
			zap.String("suffix", snap.Suffix))
	}
}

func (p *LogPlugin) selected(s *Store) []Snapshot {
	if len(p.Filter) == 0 {
		return s.Snapshots()
	}
	out := make([]Snapshot, 0, len(p.Filter))
	for _, path := range p.Filter {
		if snap, ok := s.Snapshot(path); ok {
			out = append(out, snap)
		}
	}
	return out
}
