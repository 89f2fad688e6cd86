package math

import "fmt"

// VerticesFromPositions unpacks a flat xyz position buffer.
func VerticesFromPositions(positions []float32) ([]Vertex3D, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("got %d floats, want a multiple of 3", len(positions))
	}
	vertices := make([]Vertex3D, len(positions)/3)
	for i := range vertices {
		vertices[i].Position = Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	return vertices, nil
}

// GeometryGenerateNormals writes a face normal into each vertex of every triangle.
// Triangles referencing out of range vertices are skipped.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	count := uint32(len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]
		if i0 >= count || i1 >= count || i2 >= count {
			continue
		}

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		normal := edge1.Cross(edge2).Normalized()
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryExtents returns the local bounds and centre of the vertex set.
func GeometryExtents(vertices []Vertex3D) (Extents3D, Vec3) {
	if len(vertices) == 0 {
		return Extents3D{}, Vec3{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		ext.Min = ext.Min.Min(v.Position)
		ext.Max = ext.Max.Max(v.Position)
	}
	center := ext.Min.Add(ext.Max).MulScalar(0.5)
	return ext, center
}

// Corners returns the eight corners of the box.
func (e Extents3D) Corners() [8]Vec3 {
	return [8]Vec3{
		{e.Min.X, e.Min.Y, e.Min.Z},
		{e.Max.X, e.Min.Y, e.Min.Z},
		{e.Min.X, e.Max.Y, e.Min.Z},
		{e.Max.X, e.Max.Y, e.Min.Z},
		{e.Min.X, e.Min.Y, e.Max.Z},
		{e.Max.X, e.Min.Y, e.Max.Z},
		{e.Min.X, e.Max.Y, e.Max.Z},
		{e.Max.X, e.Max.Y, e.Max.Z},
	}
}

// TransformExtents returns the axis-aligned bounds of e after applying m.
func TransformExtents(e Extents3D, m Mat4) Extents3D {
	corners := e.Corners()
	first := corners[0].Transform(m)
	out := Extents3D{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := c.Transform(m)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// Contains reports whether p lies inside the box, borders included.
func (e Extents3D) Contains(p Vec3) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X &&
		p.Y >= e.Min.Y && p.Y <= e.Max.Y &&
		p.Z >= e.Min.Z && p.Z <= e.Max.Z
}
