package scene

import (
	"github.com/Faultbox/panotour/internal/engine/texture"
	"github.com/Faultbox/panotour/pkg/math"
)

// Side selects which triangle faces are drawn.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// Layer orders meshes at draw time.
type Layer int

const (
	// LayerWorld meshes are drawn with the camera's view-projection.
	LayerWorld Layer = iota
	// LayerOverlay meshes are drawn last in clip space, covering the viewport.
	LayerOverlay
)

// Material describes how a mesh is shaded. Color tints Map when both are set.
type Material struct {
	Map *texture.Texture
	// MapOwned marks Map as belonging to this material; the renderer frees
	// its GPU copy when the mesh is released.
	MapOwned    bool
	Color       Color
	Side        Side
	Opacity     float32
	Transparent bool
}

// Mesh is a drawable scene node.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Layer    Layer
	Visible  bool
}

// NewMesh creates a visible mesh at the origin with unit scale.
func NewMesh(name string, geo *Geometry, mat *Material) *Mesh {
	return &Mesh{
		Name:     name,
		Geometry: geo,
		Material: mat,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
	}
}

// ModelMatrix returns the mesh's local-to-world transform.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return math.Compose(m.Position, m.Rotation, m.Scale)
}

// NewOverlay creates a full-viewport quad for fades. The quad spans clip
// space [-1, 1] and ignores the camera.
func NewOverlay(name string, c Color, opacity float32) *Mesh {
	m := NewMesh(name, NewPlane(2, 2), &Material{
		Color:       c,
		Side:        DoubleSide,
		Opacity:     opacity,
		Transparent: true,
	})
	m.Layer = LayerOverlay
	return m
}
