// Package scene provides the scene graph shared by the panorama sphere,
// hotspot icons and the theme overlay.
package scene

// ReleaseFunc frees the GPU resources of a removed mesh.
type ReleaseFunc func(m *Mesh)

// Scene is an ordered set of meshes plus a clear colour. It is owned by the
// main thread and not safe for concurrent use.
type Scene struct {
	Background Color

	nodes   []*Mesh
	release ReleaseFunc
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Background: ColorBlack}
}

// OnRelease installs the hook called for every removed mesh.
func (s *Scene) OnRelease(fn ReleaseFunc) {
	s.release = fn
}

// Add appends a mesh. Adding a mesh twice is a no-op.
func (s *Scene) Add(m *Mesh) {
	if m == nil || s.Contains(m) {
		return
	}
	s.nodes = append(s.nodes, m)
}

// Remove detaches a mesh and releases it. Returns false when the mesh was not
// in the scene; missing nodes are tolerated.
func (s *Scene) Remove(m *Mesh) bool {
	for i, n := range s.nodes {
		if n == m {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			if s.release != nil {
				s.release(m)
			}
			return true
		}
	}
	return false
}

// Contains reports whether the mesh is attached.
func (s *Scene) Contains(m *Mesh) bool {
	for _, n := range s.nodes {
		if n == m {
			return true
		}
	}
	return false
}

// Nodes returns a copy of the attached meshes in insertion order.
func (s *Scene) Nodes() []*Mesh {
	out := make([]*Mesh, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len returns the number of attached meshes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Clear removes and releases every mesh.
func (s *Scene) Clear() {
	for len(s.nodes) > 0 {
		s.Remove(s.nodes[len(s.nodes)-1])
	}
}
