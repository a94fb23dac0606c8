package scene

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSphereGeometry(t *testing.T) {
	g := NewSphere(50, 64, 64)

	if got, want := g.VertexCount(), 65*65; got != want {
		t.Errorf("expected %d vertices, got %d", want, got)
	}
	if got, want := g.TriangleCount(), 64*64*2-2*64; got != want {
		t.Errorf("expected %d triangles, got %d", want, got)
	}
	if len(g.UVs) != g.VertexCount()*2 {
		t.Errorf("uv count mismatch: %d", len(g.UVs))
	}

	for i := 0; i < g.VertexCount(); i++ {
		x, y, z := g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
		r := math32.Sqrt(x*x + y*y + z*z)
		if math32.Abs(r-50) > 1e-3 {
			t.Fatalf("vertex %d at radius %f, want 50", i, r)
		}
	}
	for _, idx := range g.Indices {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestPlaneGeometry(t *testing.T) {
	g := NewPlane(2, 4)
	if g.VertexCount() != 4 || g.TriangleCount() != 2 {
		t.Fatalf("expected 4 vertices / 2 triangles, got %d / %d", g.VertexCount(), g.TriangleCount())
	}
	if g.Positions[3] != 1 || g.Positions[7] != 2 {
		t.Errorf("unexpected extents: %v", g.Positions)
	}
}

func TestSceneAddRemove(t *testing.T) {
	s := New()
	var released []*Mesh
	s.OnRelease(func(m *Mesh) { released = append(released, m) })

	a := NewMesh("a", NewPlane(1, 1), &Material{})
	b := NewMesh("b", NewPlane(1, 1), &Material{})
	s.Add(a)
	s.Add(b)
	s.Add(a)

	if s.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", s.Len())
	}

	if !s.Remove(a) {
		t.Error("expected Remove to report success")
	}
	if s.Remove(a) {
		t.Error("second Remove should report missing node")
	}
	if s.Contains(a) || !s.Contains(b) {
		t.Error("unexpected scene contents after remove")
	}
	if len(released) != 1 || released[0] != a {
		t.Errorf("expected a released once, got %v", released)
	}

	s.Clear()
	if s.Len() != 0 || len(released) != 2 {
		t.Errorf("Clear should release everything, len=%d released=%d", s.Len(), len(released))
	}
}

func TestNodesIsCopy(t *testing.T) {
	s := New()
	s.Add(NewMesh("a", nil, nil))
	nodes := s.Nodes()
	nodes[0] = nil
	if s.Nodes()[0] == nil {
		t.Error("Nodes should return a copy")
	}
}

func TestOverlay(t *testing.T) {
	o := NewOverlay("fade", Hex(0x111111), 0)
	if o.Layer != LayerOverlay {
		t.Error("overlay should use the overlay layer")
	}
	if !o.Material.Transparent || o.Material.Opacity != 0 {
		t.Errorf("unexpected overlay material %+v", o.Material)
	}
}

func TestHex(t *testing.T) {
	c := Hex(0x444444)
	r, g, b, a := c.RGBA8()
	if r != 0x44 || g != 0x44 || b != 0x44 || a != 0xff {
		t.Errorf("Hex(0x444444) = %d,%d,%d,%d", r, g, b, a)
	}
}

func TestModelMatrixTranslation(t *testing.T) {
	m := NewMesh("m", nil, nil)
	m.Position.X = 3
	mat := m.ModelMatrix()
	if mat[12] != 3 || mat[13] != 0 || mat[14] != 0 {
		t.Errorf("unexpected translation column %v", mat[12:15])
	}
}
