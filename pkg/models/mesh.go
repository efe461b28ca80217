// Package models provides mesh loading and representation for the
// pinhole renderer.
package models

import (
	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// Mesh is an indexed triangle mesh with per-vertex attributes.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds vertex attributes in the form the rasterizer
// interpolates them.
type MeshVertex struct {
	Position math3d.Vec3
	Colour   render.Colour
	UV       math3d.Vec2
}

// Face is a triangle as indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices and
// recomputes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulPoint(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}

// NormalizeToUnit centers the mesh on the origin and scales its largest
// dimension to span two units, so any model fits the same camera setup.
func (m *Mesh) NormalizeToUnit() {
	m.CalculateBounds()
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}
	scale := 2.0 / maxDim
	m.Transform(math3d.Translate(m.Center().Negate()).Mul(math3d.ScaleUniform(scale)))
}

// Triangle assembles face i into a renderable triangle.
func (m *Mesh) Triangle(i int) render.Triangle {
	f := m.Faces[i]
	return render.Triangle{
		V0: m.vertex(f.V[0]),
		V1: m.vertex(f.V[1]),
		V2: m.vertex(f.V[2]),
	}
}

// Triangles assembles every face into renderable triangles.
func (m *Mesh) Triangles() []render.Triangle {
	tris := make([]render.Triangle, len(m.Faces))
	for i := range m.Faces {
		tris[i] = m.Triangle(i)
	}
	return tris
}

func (m *Mesh) vertex(i int) render.Vertex {
	v := m.Vertices[i]
	return render.Vertex{
		Position: v.Position,
		Attr: render.Attributes{
			Colour: v.Colour,
			UV:     v.UV,
		},
	}
}
