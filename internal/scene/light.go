package scene

import (
	"math"
	"time"

	"Mower/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// LightYawPeriod is how long the light takes for one full turn.
	LightYawPeriod = 10 * time.Second
	// LightPitch tilts the light 45 degrees below the horizon.
	LightPitch = -math.Pi / 4
)

// LightAnimatorScript is the registry name of LightAnimator.
const LightAnimatorScript = "LightAnimator"

func init() {
	behaviour.RegisterScript(LightAnimatorScript, func() behaviour.Component {
		return &LightAnimator{}
	})
}

// LightRotation is the light orientation after elapsed time: Euler ZYX with
// roll 0, yaw elapsed*PI/5 and pitch -PI/4, i.e. Rz(0) * Ry(yaw) * Rx(pitch).
func LightRotation(elapsed time.Duration) mgl32.Quat {
	yaw := float32(elapsed.Seconds() * math.Pi / 5)

	rz := mgl32.QuatRotate(0, mgl32.Vec3{0, 0, 1})
	ry := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	rx := mgl32.QuatRotate(LightPitch, mgl32.Vec3{1, 0, 0})

	return rz.Mul(ry).Mul(rx).Normalize()
}

// LightAnimator overwrites its object's rotation with LightRotation every
// frame. Objects without a directional light are left alone.
type LightAnimator struct {
	behaviour.BaseComponent
}

func (a *LightAnimator) Update(t behaviour.Time) {
	obj := a.GetGameObject()
	if obj == nil || !behaviour.HasComponent[*behaviour.DirectionalLightComponent](obj) {
		return
	}
	obj.Transform.SetRotation(LightRotation(t.Elapsed))
}

func (a *LightAnimator) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeScript
}

func (a *LightAnimator) GetTypeName() string {
	return LightAnimatorScript
}

// AnimateLights attaches a LightAnimator to every object in w that carries
// a directional light and does not have one yet. It returns how many were
// attached.
func AnimateLights(w *behaviour.World) int {
	n := 0
	for _, obj := range w.Objects() {
		if !behaviour.HasComponent[*behaviour.DirectionalLightComponent](obj) ||
			behaviour.HasComponent[*LightAnimator](obj) {
			continue
		}
		obj.AddComponent(behaviour.CreateScript(LightAnimatorScript))
		n++
	}
	return n
}
