package scene

import (
	"testing"
	"time"

	"Mower/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSpawnsDefaultScene(t *testing.T) {
	w := behaviour.NewWorld()

	h, err := Setup(w, DefaultSetupOptions())
	require.NoError(t, err)

	assert.Equal(t, 5, w.EntityCount())

	ground, ok := behaviour.ComponentOf[*behaviour.PlaneMeshComponent](h.Ground)
	require.True(t, ok)
	assert.Equal(t, float32(5), ground.Width)
	assert.Equal(t, float32(5), ground.Depth)
	assert.Equal(t, [3]float32{0.3, 0.5, 0.3}, ground.Color)

	light, ok := behaviour.ComponentOf[*behaviour.DirectionalLightComponent](h.Light)
	require.True(t, ok)
	assert.True(t, light.ShadowsEnabled)
	assert.Equal(t, mgl32.Vec3{2, 4, 2}, h.Light.Transform.Position)
	assert.True(t, behaviour.HasComponent[*LightAnimator](h.Light))

	model, ok := behaviour.ComponentOf[*behaviour.SceneComponent](h.Model)
	require.True(t, ok)
	assert.Equal(t, "models/FlightHelmet/FlightHelmet.gltf", model.Asset)
	assert.Equal(t, 0, model.Scene)

	assert.Equal(t, mgl32.Vec3{0, 1, 1.5}, h.Camera.Transform.Position)
	orbit, ok := behaviour.ComponentOf[*behaviour.OrbitCameraComponent](h.Camera)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 0.2, 0}, orbit.Focus)
	env, ok := behaviour.ComponentOf[*behaviour.EnvironmentMapComponent](h.Camera)
	require.True(t, ok)
	assert.Equal(t, "environment_maps/pisa_diffuse_rgb9e5_zstd.ktx2", env.DiffuseMap)
	assert.Equal(t, "environment_maps/pisa_specular_rgb9e5_zstd.ktx2", env.SpecularMap)
	assert.Equal(t, float32(250), env.Intensity)

	require.NotNil(t, h.PerfUI)
	assert.True(t, behaviour.HasComponent[*behaviour.PerfUIComponent](h.PerfUI))
}

func TestSetupTags(t *testing.T) {
	w := behaviour.NewWorld()
	h, err := Setup(w, DefaultSetupOptions())
	require.NoError(t, err)

	for tag, obj := range map[string]*behaviour.GameObject{
		TagGround: h.Ground,
		TagLight:  h.Light,
		TagModel:  h.Model,
		TagCamera: h.Camera,
		TagPerfUI: h.PerfUI,
	} {
		found := w.FindWithTag(tag)
		require.Len(t, found, 1, tag)
		assert.Same(t, obj, found[0], tag)
	}
}

func TestSetupWithoutOverlay(t *testing.T) {
	w := behaviour.NewWorld()
	opts := DefaultSetupOptions()
	opts.PerfUI = false

	h, err := Setup(w, opts)
	require.NoError(t, err)

	assert.Nil(t, h.PerfUI)
	assert.Equal(t, 4, w.EntityCount())
}

func TestSetupParsedModel(t *testing.T) {
	w := behaviour.NewWorld()
	opts := DefaultSetupOptions()
	opts.Model = MustParseScenePath("models/Fox/Fox.glb#Scene1")

	h, err := Setup(w, opts)
	require.NoError(t, err)

	model, _ := behaviour.ComponentOf[*behaviour.SceneComponent](h.Model)
	assert.Equal(t, "models/Fox/Fox.glb", model.Asset)
	assert.Equal(t, 1, model.Scene)
}

func TestSetupRejectsBadOptions(t *testing.T) {
	opts := DefaultSetupOptions()
	opts.Model = ScenePath{}
	_, err := Setup(behaviour.NewWorld(), opts)
	assert.ErrorIs(t, err, ErrInvalidScenePath)

	opts = DefaultSetupOptions()
	opts.GroundSize = 0
	_, err = Setup(behaviour.NewWorld(), opts)
	assert.Error(t, err)
}

func TestSetupFirstFrame(t *testing.T) {
	w := behaviour.NewWorld()
	h, err := Setup(w, DefaultSetupOptions())
	require.NoError(t, err)

	w.Update(behaviour.Time{Elapsed: 5 * time.Second, Frame: 1})

	// Half a turn: the light now shines towards +Z and down.
	fwd := h.Light.Transform.Forward()
	assert.InDeltaSlice(t, []float32{0, -0.70710677, 0.70710677}, fwd[:], 1e-4, "got %v", fwd)

	// The orbit camera faces its focus once started.
	orbit, _ := behaviour.ComponentOf[*behaviour.OrbitCameraComponent](h.Camera)
	want := orbit.Focus.Sub(h.Camera.Transform.Position).Normalize()
	got := h.Camera.Transform.Forward()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5)
}

type nudge struct {
	behaviour.BaseComponent
}

func (n *nudge) Update(behaviour.Time) {
	n.GetGameObject().Transform.Translate(mgl32.Vec3{0, 1, 0})
}

func TestSetupModelScripts(t *testing.T) {
	behaviour.RegisterScript("setupTestNudge", func() behaviour.Component { return &nudge{} })

	opts := DefaultSetupOptions()
	opts.ModelScripts = []string{"setupTestNudge"}

	w := behaviour.NewWorld()
	h, err := Setup(w, opts)
	require.NoError(t, err)
	require.True(t, behaviour.HasComponent[*nudge](h.Model))

	w.Update(behaviour.Time{Frame: 1})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, h.Model.Transform.Position)
}

func TestSetupUnknownScript(t *testing.T) {
	opts := DefaultSetupOptions()
	opts.ModelScripts = []string{"NoSuchScript"}

	_, err := Setup(behaviour.NewWorld(), opts)
	assert.ErrorIs(t, err, ErrUnknownScript)
}
