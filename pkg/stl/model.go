// Package stl loads STL meshes. Model features reference STL files by url;
// the mesh extent sizes their scale handle.
package stl

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/geometry"
)

// Facet is one triangle of a mesh
type Facet struct {
	Normal   geometry.Vector3
	Vertices [3]geometry.Vector3
}

// Area returns the area of the facet
func (f Facet) Area() float64 {
	edge1 := f.Vertices[1].Sub(f.Vertices[0])
	edge2 := f.Vertices[2].Sub(f.Vertices[0])
	return edge1.Cross(edge2).Length() / 2
}

// Model is a parsed mesh
type Model struct {
	Name   string
	Facets []Facet
}

// FacetCount returns the number of facets
func (m *Model) FacetCount() int {
	return len(m.Facets)
}

// Bounds returns the bounding box of all vertices
func (m *Model) Bounds() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, f := range m.Facets {
		for _, v := range f.Vertices {
			bbox.Extend(v)
		}
	}
	return bbox
}

// Extent returns the largest dimension of the bounding box, 0 for an
// empty mesh
func (m *Model) Extent() float64 {
	bbox := m.Bounds()
	if bbox.IsEmpty() {
		return 0
	}
	size := bbox.Size()
	return math.Max(size.X, math.Max(size.Y, size.Z))
}

// SurfaceArea returns the total area of all facets
func (m *Model) SurfaceArea() float64 {
	total := 0.0
	for _, f := range m.Facets {
		total += f.Area()
	}
	return total
}
