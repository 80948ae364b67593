package scripts

import (
	"math"

	"Mower/internal/behaviour"
)

// OrbitScript circles its object around the origin in the XZ plane.
type OrbitScript struct {
	behaviour.BaseComponent
	Radius float32
	Speed  float32 // radians per second
	phase  float32
}

func init() {
	behaviour.RegisterScript("OrbitScript", func() behaviour.Component {
		return &OrbitScript{Radius: 1.0, Speed: 1.0}
	})
}

func (o *OrbitScript) Update(t behaviour.Time) {
	o.phase += t.DeltaSeconds() * o.Speed

	x := float32(math.Cos(float64(o.phase))) * o.Radius
	z := float32(math.Sin(float64(o.phase))) * o.Radius

	o.GetGameObject().Transform.Position[0] = x
	o.GetGameObject().Transform.Position[2] = z
}
