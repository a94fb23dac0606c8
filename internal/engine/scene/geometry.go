package scene

import "github.com/chewxy/math32"

// Geometry is an indexed triangle list. Texture V follows image rows, so
// v=0 samples the top row of an uploaded image.
type Geometry struct {
	Positions []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// NewSphere builds a UV sphere centred on the origin. U wraps around the
// Y axis, V runs from the north pole (0) to the south pole (1), which is the
// layout of an equirectangular panorama.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := v * math32.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := u * 2 * math32.Pi

			x := -radius * math32.Cos(phi) * math32.Sin(theta)
			y := radius * math32.Cos(theta)
			z := radius * math32.Sin(phi) * math32.Sin(theta)

			g.Positions = append(g.Positions, x, y, z)
			g.UVs = append(g.UVs, u, v)
		}
	}

	row := widthSegments + 1
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*row + ix + 1)
			b := uint32(iy*row + ix)
			c := uint32((iy+1)*row + ix)
			d := uint32((iy+1)*row + ix + 1)

			// Pole rows collapse to a single triangle per segment
			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// NewPlane builds a width x height quad in the XY plane facing +Z.
func NewPlane(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	return &Geometry{
		Positions: []float32{
			-hw, -hh, 0,
			hw, -hh, 0,
			hw, hh, 0,
			-hw, hh, 0,
		},
		UVs: []float32{
			0, 1,
			1, 1,
			1, 0,
			0, 0,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
