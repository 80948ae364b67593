package engine

import (
	"fmt"
	"strings"
	"time"

	"Mower/internal/assets"
	"Mower/internal/behaviour"
	"Mower/internal/logger"
	"Mower/internal/viewer"

	"github.com/g3n/engine/app"
	"github.com/g3n/engine/camera"
	"github.com/g3n/engine/core"
	"github.com/g3n/engine/geometry"
	"github.com/g3n/engine/gls"
	"github.com/g3n/engine/graphic"
	"github.com/g3n/engine/gui"
	"github.com/g3n/engine/light"
	"github.com/g3n/engine/loader/gltf"
	"github.com/g3n/engine/material"
	"github.com/g3n/engine/math32"
	"github.com/g3n/engine/renderer"
	"github.com/g3n/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var _ viewer.Engine = (*Engine)(nil)

// Engine renders the viewer world with g3n.
type Engine struct {
	ClearColor    [3]float32
	ShadowMapSize int
	DarkTitleBar  bool

	app    *app.Application
	scene  *core.Node
	camera *camera.Camera
	orbit  *camera.OrbitControl

	nodes  map[*behaviour.GameObject]core.INode
	lights map[*behaviour.GameObject]*light.Directional
	labels map[*behaviour.GameObject]*gui.Label

	warnedShadows bool
}

func New() *Engine {
	return &Engine{
		ClearColor:    [3]float32{0.1, 0.1, 0.1},
		ShadowMapSize: 4096,
		nodes:         make(map[*behaviour.GameObject]core.INode),
		lights:        make(map[*behaviour.GameObject]*light.Directional),
		labels:        make(map[*behaviour.GameObject]*gui.Label),
	}
}

// Open creates the window and an empty scene graph. It must be called from
// the main OS thread.
func (e *Engine) Open(title string, width, height int) error {
	logger.Log.Info("Opening window",
		zap.String("title", title),
		zap.Int("width", width),
		zap.Int("height", height))

	e.app = app.App()
	e.scene = core.NewNode()
	gui.Manager().Set(e.scene)

	gw, ok := window.Get().(*window.GlfwWindow)
	if !ok {
		return fmt.Errorf("engine: unexpected window type %T", window.Get())
	}
	windowSetup(gw, title, width, height)
	if e.DarkTitleBar {
		setDarkTitleBar(gw.Window, e.ClearColor[0], e.ClearColor[1], e.ClearColor[2])
	}

	e.app.Gls().ClearColor(e.ClearColor[0], e.ClearColor[1], e.ClearColor[2], 1.0)
	e.app.Subscribe(window.OnWindowSize, func(string, interface{}) { e.onResize() })
	return nil
}

// sizedWindow is the part of the native window Open configures.
type sizedWindow interface {
	SetTitle(title string)
	SetSize(width, height int)
}

// windowSetup applies the configured title and size to a window the
// application already opened with its own defaults.
func windowSetup(w sizedWindow, title string, width, height int) {
	w.SetTitle(title)
	if width > 0 && height > 0 {
		w.SetSize(width, height)
	}
}

func (e *Engine) onResize() {
	width, height := e.app.GetSize()
	e.app.Gls().Viewport(0, 0, int32(width), int32(height))
	if e.camera != nil && height > 0 {
		e.camera.SetAspect(float32(width) / float32(height))
	}
}

// Spawn builds the g3n nodes for every component the viewer knows.
func (e *Engine) Spawn(obj *behaviour.GameObject) error {
	if e.scene == nil {
		return fmt.Errorf("engine: spawn %q before Open", obj.Name)
	}

	holder := core.NewNode()
	holder.SetName(obj.Name)

	for _, comp := range obj.Components {
		switch c := comp.(type) {
		case *behaviour.PlaneMeshComponent:
			mesh := graphic.NewMesh(
				geometry.NewPlane(c.Width, c.Depth),
				material.NewStandard(&math32.Color{R: c.Color[0], G: c.Color[1], B: c.Color[2]}),
			)
			// g3n planes lie in XY; lay it flat.
			mesh.SetRotationX(-math32.Pi / 2)
			holder.Add(mesh)
			c.Node = holder

		case *behaviour.DirectionalLightComponent:
			l := light.NewDirectional(&math32.Color{R: c.Color[0], G: c.Color[1], B: c.Color[2]}, c.Illuminance)
			e.lights[obj] = l
			e.scene.Add(l)
			c.Node = l
			if c.ShadowsEnabled && !e.warnedShadows {
				e.warnedShadows = true
				logger.Log.Warn("Directional shadow maps are not supported by the renderer",
					zap.Int("shadowMapSize", e.ShadowMapSize))
			}

		case *behaviour.SceneComponent:
			c.Node = holder

		case *behaviour.CameraComponent:
			width, height := e.app.GetSize()
			aspect := float32(1)
			if height > 0 {
				aspect = float32(width) / float32(height)
			}
			cam := camera.New(aspect)
			cam.SetFov(c.Fov)
			cam.SetNear(c.Near)
			cam.SetFar(c.Far)
			p := obj.Transform.Position
			cam.SetPosition(p.X(), p.Y(), p.Z())
			e.camera = cam
			e.scene.Add(cam)
			c.Node = cam

		case *behaviour.OrbitCameraComponent:
			if e.camera == nil {
				return fmt.Errorf("engine: %q has an orbit control but no camera", obj.Name)
			}
			focus := math32.Vector3{X: c.Focus.X(), Y: c.Focus.Y(), Z: c.Focus.Z()}
			e.camera.LookAt(&focus, &math32.Vector3{X: 0, Y: 1, Z: 0})
			oc := camera.NewOrbitControl(e.camera)
			oc.SetTarget(focus)
			c.Control = oc
			e.orbit = oc

		case *behaviour.EnvironmentMapComponent:
			e.spawnEnvironment(c)

		case *behaviour.PerfUIComponent:
			label := gui.NewLabel("")
			label.SetPosition(8, 8)
			label.SetColor(&math32.Color{R: 1, G: 1, B: 1})
			e.labels[obj] = label
			e.scene.Add(label)
			c.Node = label
		}
	}

	if len(holder.Children()) > 0 || behaviour.HasComponent[*behaviour.SceneComponent](obj) {
		e.scene.Add(holder)
		e.nodes[obj] = holder
	}
	e.Sync(obj)
	return nil
}

func (e *Engine) spawnEnvironment(c *behaviour.EnvironmentMapComponent) {
	// No image based lighting: the diffuse map is approximated by an
	// ambient term and the specular map is not used.
	e.scene.Add(light.NewAmbient(&math32.Color{R: 1, G: 1, B: 1}, viewer.AmbientIntensity(c.Intensity)))
	logger.Log.Debug("Environment map approximated with ambient light",
		zap.String("diffuse", c.DiffuseMap),
		zap.String("specular", c.SpecularMap),
		zap.Float32("intensity", c.Intensity))

	if c.SkyboxDir == "" {
		return
	}
	sky, err := graphic.NewSkybox(graphic.SkyboxData{
		DirAndPrefix: strings.TrimSuffix(c.SkyboxDir, "/") + "/",
		Extension:    "jpg",
		Suffixes:     [6]string{"px", "nx", "py", "ny", "pz", "nz"},
	})
	if err != nil {
		logger.Log.Error("Could not create skybox", zap.String("dir", c.SkyboxDir), zap.Error(err))
		return
	}
	e.scene.Add(sky)
}

// LoadModel parses the glTF file and swaps it in under obj's node.
func (e *Engine) LoadModel(obj *behaviour.GameObject, asset *assets.Asset) error {
	holder, ok := e.nodes[obj].(*core.Node)
	if !ok {
		return fmt.Errorf("engine: %q has no model node", obj.Name)
	}

	var (
		doc *gltf.GLTF
		err error
	)
	if assets.IsBinary(asset.Path) {
		doc, err = gltf.ParseBin(asset.Path)
	} else {
		doc, err = gltf.ParseJSON(asset.Path)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", asset.Path, err)
	}

	node, err := doc.LoadScene(asset.Scene)
	if err != nil {
		return fmt.Errorf("load scene %d of %s: %w", asset.Scene, asset.Path, err)
	}

	holder.DisposeChildren(true)
	holder.Add(node)
	if sc, ok := behaviour.ComponentOf[*behaviour.SceneComponent](obj); ok {
		sc.SetNode(node)
	}

	logger.Log.Info("Model attached",
		zap.String("path", asset.Path),
		zap.Int("scene", asset.Scene))
	return nil
}

// Sync pushes obj's transform into g3n. The orbit camera is the exception:
// the control moves it, so its pose is copied back into the transform.
func (e *Engine) Sync(obj *behaviour.GameObject) {
	t := obj.Transform

	if behaviour.HasComponent[*behaviour.CameraComponent](obj) && e.camera != nil {
		p := e.camera.Position()
		q := e.camera.Quaternion()
		t.Position = mgl32.Vec3{p.X, p.Y, p.Z}
		t.Rotation = mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
		return
	}

	if l, ok := e.lights[obj]; ok {
		pos := viewer.LightNodePosition(t)
		l.SetPosition(pos.X(), pos.Y(), pos.Z())
		l.SetQuaternion(t.Rotation.V.X(), t.Rotation.V.Y(), t.Rotation.V.Z(), t.Rotation.W)
		return
	}

	n, ok := e.nodes[obj]
	if !ok {
		return
	}
	node := n.GetNode()
	node.SetPosition(t.Position.X(), t.Position.Y(), t.Position.Z())
	node.SetQuaternion(t.Rotation.V.X(), t.Rotation.V.Y(), t.Rotation.V.Z(), t.Rotation.W)
	node.SetScale(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	node.SetVisible(obj.Active)
}

func (e *Engine) SetOverlayText(obj *behaviour.GameObject, text string) {
	if label, ok := e.labels[obj]; ok {
		label.SetText(text)
	}
}

// Run renders until the window closes or frame returns false.
func (e *Engine) Run(frame func(now time.Time) bool) error {
	if e.app == nil {
		return fmt.Errorf("engine: Run before Open")
	}
	e.onResize()

	e.app.Run(func(rend *renderer.Renderer, _ time.Duration) {
		if !frame(time.Now()) {
			e.app.Exit()
			return
		}
		e.app.Gls().Clear(gls.DEPTH_BUFFER_BIT | gls.STENCIL_BUFFER_BIT | gls.COLOR_BUFFER_BIT)
		if e.camera == nil {
			return
		}
		if err := rend.Render(e.scene, e.camera); err != nil {
			logger.Log.Error("Render failed", zap.Error(err))
		}
	})
	return nil
}
