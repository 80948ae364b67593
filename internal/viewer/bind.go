package viewer

import (
	"Mower/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// EnvironmentAmbientScale converts environment map intensity into the
// ambient light intensity of engines without image based lighting.
const EnvironmentAmbientScale = 1.0 / 500.0

// LightNodePosition places a directional light node for engines that
// derive the light direction from the node position: the node sits on the
// opposite side of Forward, as far from the origin as the transform.
func LightNodePosition(t *behaviour.Transform) mgl32.Vec3 {
	dist := t.Position.Len()
	if dist == 0 {
		dist = 1
	}
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1}).Mul(dist)
}

// AmbientIntensity maps an environment map intensity to [0, 1].
func AmbientIntensity(envIntensity float32) float32 {
	a := envIntensity * EnvironmentAmbientScale
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
