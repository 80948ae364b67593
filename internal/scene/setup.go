package scene

import (
	"errors"
	"fmt"

	"Mower/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultModel is the scene shown when no other model is configured.
const DefaultModel = "models/FlightHelmet/FlightHelmet.gltf#Scene0"

// ErrUnknownScript is returned when a model script is not registered.
var ErrUnknownScript = errors.New("unknown script")

// Tags used to find spawned objects.
const (
	TagGround = "ground"
	TagLight  = "light"
	TagModel  = "model"
	TagCamera = "camera"
	TagPerfUI = "perf_ui"
)

// EnvironmentMap describes the camera's image based lighting.
type EnvironmentMap struct {
	DiffuseMap  string
	SpecularMap string
	Intensity   float32
	SkyboxDir   string
}

// DefaultEnvironmentMap is the Pisa courtyard pair.
func DefaultEnvironmentMap() EnvironmentMap {
	return EnvironmentMap{
		DiffuseMap:  "environment_maps/pisa_diffuse_rgb9e5_zstd.ktx2",
		SpecularMap: "environment_maps/pisa_specular_rgb9e5_zstd.ktx2",
		Intensity:   250.0,
	}
}

// SetupOptions selects what Setup spawns.
type SetupOptions struct {
	Model       ScenePath
	Environment EnvironmentMap
	GroundSize  float32
	GroundColor [3]float32
	PerfUI      bool
	// ModelScripts names registered scripts attached to the model.
	ModelScripts []string
}

// DefaultSetupOptions spawns the FlightHelmet scene with the overlay.
func DefaultSetupOptions() SetupOptions {
	return SetupOptions{
		Model:       MustParseScenePath(DefaultModel),
		Environment: DefaultEnvironmentMap(),
		GroundSize:  5.0,
		GroundColor: [3]float32{0.3, 0.5, 0.3},
		PerfUI:      true,
	}
}

// Handles points at the objects Setup spawned. PerfUI is nil when the
// overlay is off.
type Handles struct {
	Ground *behaviour.GameObject
	Light  *behaviour.GameObject
	Model  *behaviour.GameObject
	Camera *behaviour.GameObject
	PerfUI *behaviour.GameObject
}

// Setup spawns the ground, the directional light, the model, the orbit
// camera with its environment map and the perf overlay. Every directional
// light in w, including ones spawned before Setup, gets a LightAnimator.
func Setup(w *behaviour.World, opts SetupOptions) (*Handles, error) {
	if opts.Model.Asset == "" {
		return nil, fmt.Errorf("setup: %w: no model asset", ErrInvalidScenePath)
	}
	if opts.GroundSize <= 0 {
		return nil, fmt.Errorf("setup: ground size must be positive, got %v", opts.GroundSize)
	}

	h := &Handles{}

	// Ground
	h.Ground = behaviour.NewGameObject("Ground")
	h.Ground.Tag = TagGround
	h.Ground.AddComponent(behaviour.NewPlaneMeshComponent(opts.GroundSize, opts.GroundSize, opts.GroundColor))
	w.Spawn(h.Ground)

	h.Light = behaviour.NewGameObject("DirectionalLight")
	h.Light.Tag = TagLight
	h.Light.Transform = behaviour.NewTransform(2.0, 4.0, 2.0)
	light := behaviour.NewDirectionalLightComponent()
	light.ShadowsEnabled = true
	h.Light.AddComponent(light)
	w.Spawn(h.Light)

	h.Model = behaviour.NewGameObject("Model")
	h.Model.Tag = TagModel
	h.Model.AddComponent(&behaviour.SceneComponent{Asset: opts.Model.Asset, Scene: opts.Model.Scene})
	for _, name := range opts.ModelScripts {
		script := behaviour.CreateScript(name)
		if script == nil {
			return nil, fmt.Errorf("setup: %w: %q", ErrUnknownScript, name)
		}
		h.Model.AddComponent(script)
	}
	w.Spawn(h.Model)

	// Camera controls env map
	h.Camera = behaviour.NewGameObject("Camera")
	h.Camera.Tag = TagCamera
	h.Camera.Transform = behaviour.NewTransform(0.0, 1.0, 1.5)
	h.Camera.AddComponent(behaviour.NewCameraComponent())
	h.Camera.AddComponent(&behaviour.OrbitCameraComponent{Focus: mgl32.Vec3{0.0, 0.2, 0.0}})
	h.Camera.AddComponent(&behaviour.EnvironmentMapComponent{
		DiffuseMap:  opts.Environment.DiffuseMap,
		SpecularMap: opts.Environment.SpecularMap,
		Intensity:   opts.Environment.Intensity,
		SkyboxDir:   opts.Environment.SkyboxDir,
	})
	w.Spawn(h.Camera)

	if opts.PerfUI {
		h.PerfUI = behaviour.NewGameObject("PerfUI")
		h.PerfUI.Tag = TagPerfUI
		h.PerfUI.AddComponent(&behaviour.PerfUIComponent{})
		w.Spawn(h.PerfUI)
	}

	AnimateLights(w)
	return h, nil
}
