package viewer

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"Mower/internal/assets"
	"Mower/internal/behaviour"
	"Mower/internal/config"
	"Mower/internal/diagnostics"
	"Mower/internal/logger"
	"Mower/internal/scene"

	"go.uber.org/zap"
)

// Engine is the rendering backend the viewer drives. All methods except
// Run are called from inside the frame callback, i.e. on the render thread.
type Engine interface {
	// Open creates the window.
	Open(title string, width, height int) error
	// Spawn creates engine nodes for obj's components.
	Spawn(obj *behaviour.GameObject) error
	// LoadModel replaces the scene shown by obj with the one in asset.
	LoadModel(obj *behaviour.GameObject, asset *assets.Asset) error
	// Sync copies obj's transform to its node, or back for nodes the engine
	// moves itself such as the orbit camera.
	Sync(obj *behaviour.GameObject)
	// SetOverlayText updates the perf overlay label.
	SetOverlayText(obj *behaviour.GameObject, text string)
	// Run calls frame once per rendered frame until frame returns false or
	// the window closes.
	Run(frame func(now time.Time) bool) error
}

type modelResult struct {
	asset *assets.Asset
	err   error
}

// Viewer composes the world, the diagnostics and the asset server on top
// of an Engine.
type Viewer struct {
	cfg     config.Config
	engine  Engine
	world   *behaviour.World
	handles *scene.Handles
	clock   *behaviour.Clock
	diag    *diagnostics.Diagnostics
	perfUI  *diagnostics.PerfUI
	server  *assets.Server

	models  chan modelResult
	stop    atomic.Bool
	spawned bool
}

// New validates cfg and spawns the scene. Nothing touches the engine
// until Run.
func New(cfg config.Config, engine Engine) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	world := behaviour.NewWorld()
	handles, err := scene.Setup(world, cfg.SetupOptions())
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	diag := diagnostics.New(
		diagnostics.FrameTimePlugin{},
		diagnostics.EntityCountPlugin{World: world},
		diagnostics.NewSystemInfoPlugin(),
	)
	if cfg.Diagnostics.Log {
		lp := diagnostics.NewLogPlugin()
		lp.Interval = time.Duration(cfg.Diagnostics.LogInterval)
		diag.AddPlugin(lp)
	}

	v := &Viewer{
		cfg:     cfg,
		engine:  engine,
		world:   world,
		handles: handles,
		clock:   behaviour.NewClock(),
		diag:    diag,
		server: &assets.Server{
			Root:     cfg.Assets.Root,
			CacheDir: cfg.Assets.CacheDir,
			Web:      cfg.Assets.Web,
			Refresh:  cfg.Assets.Refresh,
			Client:   &http.Client{Timeout: 5 * time.Minute},
		},
		models: make(chan modelResult, 4),
	}
	if cfg.Diagnostics.Overlay {
		v.perfUI = diagnostics.NewPerfUI()
	}
	return v, nil
}

// World exposes the spawned objects.
func (v *Viewer) World() *behaviour.World {
	return v.world
}

// Handles returns the objects spawned by scene setup.
func (v *Viewer) Handles() *scene.Handles {
	return v.handles
}

// Diagnostics returns the live diagnostics store.
func (v *Viewer) Diagnostics() *diagnostics.Diagnostics {
	return v.diag
}

// Run opens the window and renders until it closes or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := v.engine.Open(v.cfg.Window.Title, v.cfg.Window.Width, v.cfg.Window.Height); err != nil {
		return fmt.Errorf("viewer: open window: %w", err)
	}

	go func() {
		<-ctx.Done()
		v.stop.Store(true)
	}()

	go v.loadModel(ctx)
	if v.cfg.Assets.Watch {
		v.watchModel(ctx)
	}

	logger.Log.Info("Viewer running",
		zap.String("title", v.cfg.Window.Title),
		zap.String("model", v.cfg.Model))

	return v.engine.Run(v.Frame)
}

// Frame advances the viewer by one frame. It returns false once the viewer
// should stop.
func (v *Viewer) Frame(now time.Time) bool {
	if v.stop.Load() {
		return false
	}

	if !v.spawned {
		v.spawnAll()
		v.spawned = true
	}

	t := v.clock.Tick(now)
	v.attachModels()
	v.world.Update(t)
	for _, obj := range v.world.Objects() {
		v.engine.Sync(obj)
	}

	v.diag.Update(now, t)
	if v.perfUI != nil && v.handles.PerfUI != nil {
		text := v.perfUI.Render(v.diag.Store, t, now)
		if ui, ok := behaviour.ComponentOf[*behaviour.PerfUIComponent](v.handles.PerfUI); ok {
			ui.Text = text
		}
		v.engine.SetOverlayText(v.handles.PerfUI, text)
	}
	return true
}

func (v *Viewer) spawnAll() {
	for _, obj := range v.world.Objects() {
		if err := v.engine.Spawn(obj); err != nil {
			logger.Log.Error("Could not spawn object", zap.String("name", obj.Name), zap.Error(err))
		}
	}
}

// loadModel resolves and validates the model off the render thread. The
// engine parses it when the result is picked up in Frame.
func (v *Viewer) loadModel(ctx context.Context) {
	p := v.cfg.ScenePath()
	start := time.Now()
	asset, err := v.server.Prepare(ctx, p)
	if err == nil {
		logger.Log.Info("Model ready",
			zap.String("scene", p.String()),
			zap.String("path", asset.Path),
			zap.Duration("took", time.Since(start)))
	}
	select {
	case v.models <- modelResult{asset: asset, err: err}:
	case <-ctx.Done():
	}
}

func (v *Viewer) attachModels() {
	for {
		select {
		case res := <-v.models:
			if res.err != nil {
				logger.Log.Error("Could not load model", zap.String("scene", v.cfg.Model), zap.Error(res.err))
				continue
			}
			if err := v.engine.LoadModel(v.handles.Model, res.asset); err != nil {
				logger.Log.Error("Could not attach model", zap.String("path", res.asset.Path), zap.Error(err))
				continue
			}
			if sc, ok := behaviour.ComponentOf[*behaviour.SceneComponent](v.handles.Model); ok {
				sc.Loaded = true
			}
		default:
			return
		}
	}
}

// watchModel reloads the model whenever its local file changes. Remote
// models are not watched.
func (v *Viewer) watchModel(ctx context.Context) {
	p := v.cfg.ScenePath()
	if p.IsRemote() {
		logger.Log.Warn("Hot reload is only available for local models", zap.String("model", p.Asset))
		return
	}
	path, err := v.server.Resolve(ctx, p.Asset)
	if err != nil {
		logger.Log.Warn("Hot reload disabled", zap.Error(err))
		return
	}

	w, err := assets.NewWatcher()
	if err != nil {
		logger.Log.Warn("Hot reload disabled", zap.Error(err))
		return
	}
	if err := w.Add(path); err != nil {
		w.Close()
		logger.Log.Warn("Hot reload disabled", zap.Error(err))
		return
	}

	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Warn("Asset watcher stopped", zap.Error(err))
		}
	}()
	go func() {
		for range w.Changes() {
			v.loadModel(ctx)
		}
	}()
}
