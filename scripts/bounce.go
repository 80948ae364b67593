package scripts

import (
	"math"

	"Mower/internal/behaviour"
)

// BounceScript moves its object up and down around the height it started at.
type BounceScript struct {
	behaviour.BaseComponent
	Height float32
	Speed  float32
	startY float32
	phase  float32
}

func init() {
	behaviour.RegisterScript("BounceScript", func() behaviour.Component {
		return &BounceScript{Height: 0.1, Speed: 2.0}
	})
}

func (b *BounceScript) Start() {
	b.startY = b.GetGameObject().Transform.Position.Y()
}

func (b *BounceScript) Update(t behaviour.Time) {
	b.phase += t.DeltaSeconds() * b.Speed
	offset := float32(math.Sin(float64(b.phase))) * b.Height
	b.GetGameObject().Transform.Position[1] = b.startY + offset
}
