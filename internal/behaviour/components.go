package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ComponentType defines the category of a component
type ComponentType string

const (
	ComponentTypeMesh        ComponentType = "Mesh"
	ComponentTypeLight       ComponentType = "Light"
	ComponentTypeScene       ComponentType = "Scene"
	ComponentTypeCamera      ComponentType = "Camera"
	ComponentTypeOrbit       ComponentType = "Orbit"
	ComponentTypeEnvironment ComponentType = "Environment"
	ComponentTypeOverlay     ComponentType = "Overlay"
	ComponentTypeScript      ComponentType = "Script"
)

// TypedComponent extends Component with type information
type TypedComponent interface {
	Component
	GetComponentType() ComponentType
	GetTypeName() string
}

// PlaneMeshComponent is a flat, axis-aligned plane in the XZ plane,
// centered on the object's position.
type PlaneMeshComponent struct {
	BaseComponent
	Width float32    `json:"width"`
	Depth float32    `json:"depth"`
	Color [3]float32 `json:"color"` // sRGB

	// Runtime reference to the engine node
	Node interface{} `json:"-"`
}

func NewPlaneMeshComponent(width, depth float32, color [3]float32) *PlaneMeshComponent {
	return &PlaneMeshComponent{Width: width, Depth: depth, Color: color}
}

func (m *PlaneMeshComponent) GetComponentType() ComponentType {
	return ComponentTypeMesh
}

func (m *PlaneMeshComponent) GetTypeName() string {
	return "PlaneMeshComponent"
}

// DirectionalLightComponent is a light infinitely far away shining along
// the object's Forward.
type DirectionalLightComponent struct {
	BaseComponent
	Color          [3]float32 `json:"color"`
	Illuminance    float32    `json:"illuminance"`
	ShadowsEnabled bool       `json:"shadows_enabled"`

	Node interface{} `json:"-"`
}

func NewDirectionalLightComponent() *DirectionalLightComponent {
	return &DirectionalLightComponent{
		Color:       [3]float32{1, 1, 1},
		Illuminance: 1.0,
	}
}

func (l *DirectionalLightComponent) GetComponentType() ComponentType {
	return ComponentTypeLight
}

func (l *DirectionalLightComponent) GetTypeName() string {
	return "DirectionalLightComponent"
}

// SceneComponent references a scene inside a model asset. Asset and Scene
// together form the "<asset>#Scene<N>" label.
type SceneComponent struct {
	BaseComponent
	Asset string `json:"asset"`
	Scene int    `json:"scene"`

	Node   interface{} `json:"-"`
	Loaded bool        `json:"-"`
}

func (s *SceneComponent) GetComponentType() ComponentType {
	return ComponentTypeScene
}

func (s *SceneComponent) GetTypeName() string {
	return "SceneComponent"
}

// SetNode records the loaded engine node.
func (s *SceneComponent) SetNode(node interface{}) {
	s.Node = node
	s.Loaded = node != nil
}

// CameraComponent is a perspective camera looking along Forward.
type CameraComponent struct {
	BaseComponent
	Fov  float32 `json:"fov"` // vertical, degrees
	Near float32 `json:"near"`
	Far  float32 `json:"far"`

	Node interface{} `json:"-"`
}

func NewCameraComponent() *CameraComponent {
	return &CameraComponent{
		Fov:  45.0,
		Near: 0.1,
		Far:  1000.0,
	}
}

func (c *CameraComponent) GetComponentType() ComponentType {
	return ComponentTypeCamera
}

func (c *CameraComponent) GetTypeName() string {
	return "CameraComponent"
}

// OrbitCameraComponent makes the camera pan/orbit/zoom around Focus.
type OrbitCameraComponent struct {
	BaseComponent
	Focus mgl32.Vec3 `json:"focus"`

	Control interface{} `json:"-"`
}

func (o *OrbitCameraComponent) Start() {
	if obj := o.GetGameObject(); obj != nil {
		obj.Transform.LookAt(o.Focus, mgl32.Vec3{0, 1, 0})
	}
}

func (o *OrbitCameraComponent) GetComponentType() ComponentType {
	return ComponentTypeOrbit
}

func (o *OrbitCameraComponent) GetTypeName() string {
	return "OrbitCameraComponent"
}

// Radius is the distance between the camera and its focus.
func (o *OrbitCameraComponent) Radius() float32 {
	obj := o.GetGameObject()
	if obj == nil {
		return 0
	}
	return obj.Transform.Position.Sub(o.Focus).Len()
}

// EnvironmentMapComponent holds the diffuse/specular pair used for
// image based lighting.
type EnvironmentMapComponent struct {
	BaseComponent
	DiffuseMap  string  `json:"diffuse_map"`
	SpecularMap string  `json:"specular_map"`
	Intensity   float32 `json:"intensity"`
	SkyboxDir   string  `json:"skybox_dir,omitempty"`
}

func (e *EnvironmentMapComponent) GetComponentType() ComponentType {
	return ComponentTypeEnvironment
}

func (e *EnvironmentMapComponent) GetTypeName() string {
	return "EnvironmentMapComponent"
}

// PerfUIComponent marks the entity carrying the performance overlay.
type PerfUIComponent struct {
	BaseComponent
	Text string `json:"-"` // last rendered overlay text

	Node interface{} `json:"-"`
}

func (p *PerfUIComponent) GetComponentType() ComponentType {
	return ComponentTypeOverlay
}

func (p *PerfUIComponent) GetTypeName() string {
	return "PerfUIComponent"
}
