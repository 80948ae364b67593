package viewer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"Mower/internal/assets"
	"Mower/internal/behaviour"
	"Mower/internal/config"
	"Mower/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	mu       sync.Mutex
	title    string
	spawned  []string
	models   []*assets.Asset
	synced   map[string]mgl32.Quat
	overlay  string
	frames   int
	loadErr  error
	openErr  error
	maxFrame int
	until    func() bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{synced: make(map[string]mgl32.Quat), maxFrame: 1000}
}

func (f *fakeEngine) Open(title string, _, _ int) error {
	f.title = title
	return f.openErr
}

func (f *fakeEngine) Spawn(obj *behaviour.GameObject) error {
	f.spawned = append(f.spawned, obj.Name)
	return nil
}

func (f *fakeEngine) LoadModel(_ *behaviour.GameObject, a *assets.Asset) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models = append(f.models, a)
	return nil
}

func (f *fakeEngine) Sync(obj *behaviour.GameObject) {
	f.synced[obj.Name] = obj.Transform.Rotation
}

func (f *fakeEngine) SetOverlayText(_ *behaviour.GameObject, text string) {
	f.overlay = text
}

func (f *fakeEngine) loaded() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.models)
}

// Run simulates a 100 FPS render loop until until reports true.
func (f *fakeEngine) Run(frame func(time.Time) bool) error {
	now := time.Unix(1000, 0)
	for f.frames < f.maxFrame {
		if !frame(now) {
			return nil
		}
		f.frames++
		if f.until != nil && f.until() {
			return nil
		}
		now = now.Add(10 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
	return errors.New("fake engine: frame limit reached")
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "models", "FlightHelmet", "FlightHelmet.gltf")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"scenes":[{}]}`), 0644))

	cfg := config.Default()
	cfg.Assets.Root = root
	cfg.Assets.CacheDir = t.TempDir()
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Model = "a.gltf#Mesh0"

	_, err := New(cfg, newFakeEngine())

	assert.ErrorIs(t, err, scene.ErrInvalidScenePath)
}

func TestRunLoadsModelAndAnimatesLight(t *testing.T) {
	eng := newFakeEngine()
	eng.until = func() bool { return eng.loaded() > 0 && eng.frames >= 10 }
	v, err := New(testConfig(t), eng)
	require.NoError(t, err)

	require.NoError(t, v.Run(context.Background()))

	assert.Equal(t, "Mower", eng.title)
	assert.ElementsMatch(t, []string{"Ground", "DirectionalLight", "Model", "Camera", "PerfUI"}, eng.spawned)
	require.Equal(t, 1, eng.loaded())
	assert.Equal(t, 0, eng.models[0].Scene)
	assert.Equal(t, "models/FlightHelmet/FlightHelmet.gltf", eng.models[0].Ref)

	sc, _ := behaviour.ComponentOf[*behaviour.SceneComponent](v.Handles().Model)
	assert.True(t, sc.Loaded)

	// The last frame ran at (frames-1)*10ms after the first.
	elapsed := time.Duration(eng.frames-1) * 10 * time.Millisecond
	assert.Equal(t, scene.LightRotation(elapsed), eng.synced["DirectionalLight"])

	assert.Contains(t, eng.overlay, "Entities           5")
	assert.Contains(t, eng.overlay, "FPS                100")
}

func TestRunStopsOnCancel(t *testing.T) {
	eng := newFakeEngine()
	v, err := New(testConfig(t), eng)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	eng.until = func() bool {
		if eng.frames == 3 {
			cancel()
		}
		return false
	}

	require.NoError(t, v.Run(ctx))

	assert.Less(t, eng.frames, eng.maxFrame)
}

func TestRunOpenError(t *testing.T) {
	eng := newFakeEngine()
	eng.openErr = errors.New("no display")
	v, err := New(testConfig(t), eng)
	require.NoError(t, err)

	err = v.Run(context.Background())

	assert.ErrorContains(t, err, "no display")
	assert.Empty(t, eng.spawned)
}

func TestMissingModelKeepsRunning(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model = "models/Missing.glb#Scene0"
	eng := newFakeEngine()
	eng.maxFrame = 20
	v, err := New(cfg, eng)
	require.NoError(t, err)

	err = v.Run(context.Background())

	assert.ErrorContains(t, err, "frame limit")
	assert.Zero(t, eng.loaded())
	sc, _ := behaviour.ComponentOf[*behaviour.SceneComponent](v.Handles().Model)
	assert.False(t, sc.Loaded)
}

func TestNoOverlay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Diagnostics.Overlay = false
	eng := newFakeEngine()
	eng.until = func() bool { return eng.frames >= 3 }
	v, err := New(cfg, eng)
	require.NoError(t, err)

	require.NoError(t, v.Run(context.Background()))

	assert.Empty(t, eng.overlay)
	assert.Equal(t, 4, v.World().EntityCount())
}

func TestHotReload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assets.Watch = true
	eng := newFakeEngine()
	eng.maxFrame = 5000
	model := filepath.Join(cfg.Assets.Root, "models", "FlightHelmet", "FlightHelmet.gltf")
	rewritten := false
	eng.until = func() bool {
		if !rewritten && eng.loaded() == 1 {
			rewritten = true
			time.Sleep(50 * time.Millisecond)
			require.NoError(t, os.WriteFile(model, []byte(`{"scenes":[{},{}]}`), 0644))
		}
		return eng.loaded() >= 2
	}
	v, err := New(cfg, eng)
	require.NoError(t, err)

	require.NoError(t, v.Run(context.Background()))

	assert.Equal(t, 2, eng.models[1].Scenes)
}

func TestLightNodePosition(t *testing.T) {
	tr := behaviour.NewTransform(2, 4, 2)
	tr.SetRotation(scene.LightRotation(0))

	pos := LightNodePosition(tr)

	// The node sits behind the light: up and towards +Z at the same distance.
	h := float32(math.Sqrt2 / 2)
	want := mgl32.Vec3{0, h, h}.Mul(tr.Position.Len())
	assert.InDeltaSlice(t, want[:], pos[:], 1e-4, "got %v", pos)
	dir, back := pos.Normalize(), tr.Forward().Mul(-1)
	assert.InDeltaSlice(t, back[:], dir[:], 1e-5)

	origin := behaviour.NewTransform(0, 0, 0)
	assert.InDelta(t, 1, LightNodePosition(origin).Len(), 1e-6)
}

func TestAmbientIntensity(t *testing.T) {
	assert.InDelta(t, 0.5, AmbientIntensity(250), 1e-6)
	assert.Equal(t, float32(0), AmbientIntensity(-3))
	assert.Equal(t, float32(1), AmbientIntensity(10000))
}
