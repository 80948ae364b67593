package behaviour

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Component is the base interface for everything attached to a GameObject.
type Component interface {
	// Lifecycle methods
	Awake()      // Called when the component is attached
	Start()      // Called before the first Update
	Update(Time) // Called every frame
	OnDestroy()  // Called when the component or its object is destroyed

	GetEnabled() bool
	SetEnabled(bool)
	GetGameObject() *GameObject
	SetGameObject(*GameObject)
}

// BaseComponent provides default implementations for all Component methods.
// Concrete components embed it and override what they need.
type BaseComponent struct {
	enabled    bool
	gameObject *GameObject
}

func (c *BaseComponent) Awake()      {}
func (c *BaseComponent) Start()      {}
func (c *BaseComponent) Update(Time) {}
func (c *BaseComponent) OnDestroy()  {}

func (c *BaseComponent) GetEnabled() bool {
	return c.enabled
}

func (c *BaseComponent) SetEnabled(enabled bool) {
	c.enabled = enabled
}

func (c *BaseComponent) GetGameObject() *GameObject {
	return c.gameObject
}

func (c *BaseComponent) SetGameObject(obj *GameObject) {
	c.gameObject = obj
}

// GameObject is an entity in the viewer world.
type GameObject struct {
	Name       string
	Tag        string
	Active     bool
	Transform  *Transform
	Components []Component
	started    bool
}

// Transform places a GameObject in world space. Forward is -Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns an identity transform at the given position.
func NewTransform(x, y, z float32) *Transform {
	return &Transform{
		Position: mgl32.Vec3{x, y, z},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	rotation := mgl32.QuatRotate(angle, axis)
	t.Rotation = t.Rotation.Mul(rotation)
}

func (t *Transform) SetPosition(pos mgl32.Vec3) {
	t.Position = pos
}

func (t *Transform) SetRotation(rot mgl32.Quat) {
	t.Rotation = rot
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
}

func (t *Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (t *Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// LookAt rotates the transform so Forward points at target, keeping the
// given up direction as close to Up as possible. A target equal to the
// position leaves the rotation unchanged.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	dir := target.Sub(t.Position)
	if dir.Len() < 1e-6 {
		return
	}
	dir = dir.Normalize()

	rotDir := rotationBetween(mgl32.Vec3{0, 0, -1}, dir)

	right := dir.Cross(up)
	if right.Len() < 1e-6 {
		t.Rotation = rotDir
		return
	}
	wantUp := right.Normalize().Cross(dir)
	curUp := rotDir.Rotate(mgl32.Vec3{0, 1, 0})
	rotUp := rotationBetween(curUp, wantUp)

	t.Rotation = rotUp.Mul(rotDir).Normalize()
}

// rotationBetween returns the shortest unit rotation taking from onto to.
func rotationBetween(from, to mgl32.Vec3) mgl32.Quat {
	from, to = from.Normalize(), to.Normalize()
	cos := from.Dot(to)
	if cos > 1-1e-6 {
		return mgl32.QuatIdent()
	}
	if cos < -1+1e-6 {
		// Opposite vectors: any perpendicular axis works.
		axis := mgl32.Vec3{1, 0, 0}.Cross(from)
		if axis.Len() < 1e-6 {
			axis = mgl32.Vec3{0, 1, 0}.Cross(from)
		}
		return mgl32.QuatRotate(math.Pi, axis.Normalize())
	}
	axis := from.Cross(to).Normalize()
	return mgl32.QuatRotate(float32(math.Acos(float64(cos))), axis)
}

// Matrix returns the model matrix (translation * rotation * scale).
func (t *Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// NewGameObject returns an active object with an identity transform.
func NewGameObject(name string) *GameObject {
	return &GameObject{
		Name:       name,
		Active:     true,
		Components: make([]Component, 0),
		Transform:  NewTransform(0, 0, 0),
	}
}

// AddComponent attaches and enables a component. Components added to an
// object that already started are started immediately.
func (obj *GameObject) AddComponent(component Component) {
	component.SetGameObject(obj)
	component.SetEnabled(true)
	obj.Components = append(obj.Components, component)
	component.Awake()
	if obj.started {
		component.Start()
	}
}

func (obj *GameObject) RemoveComponent(component Component) {
	for i, comp := range obj.Components {
		if comp == component {
			comp.OnDestroy()
			obj.Components = append(obj.Components[:i], obj.Components[i+1:]...)
			return
		}
	}
}

// ComponentOf returns the first component of type T attached to obj.
func ComponentOf[T Component](obj *GameObject) (T, bool) {
	for _, comp := range obj.Components {
		if c, ok := comp.(T); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// HasComponent reports whether obj carries a component of type T.
func HasComponent[T Component](obj *GameObject) bool {
	_, ok := ComponentOf[T](obj)
	return ok
}

func (obj *GameObject) internalUpdate(t Time) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Update(t)
		}
	}
}

func (obj *GameObject) internalStart() {
	if obj.started || !obj.Active {
		return
	}
	obj.started = true

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Start()
		}
	}
}

// Destroy tears down every component and deactivates the object.
func (obj *GameObject) Destroy() {
	for _, comp := range obj.Components {
		comp.OnDestroy()
	}
	obj.Active = false
}
