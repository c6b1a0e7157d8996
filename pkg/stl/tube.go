package stl

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"tavigeom/pkg/centerline"
)

// DefaultRingVertices is the ring resolution used by the CLI export.
const DefaultRingVertices = 16

// CenterlineTube meshes the centerline as a closed tube of the given radius
// in mm. Each sample contributes one ring of ringVertices vertices placed in
// its oriented frame, so the tube twists minimally along with the frames and
// stays untwisted through the straight annulus segment.
func CenterlineTube(data *centerline.Data, radius float64, ringVertices int) ([]Triangle, error) {
	n := data.SampleCount()
	if n < 2 {
		return nil, fmt.Errorf("cannot mesh a tube from %d centerline samples", n)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("invalid tube radius %v", radius)
	}
	if ringVertices < 3 {
		return nil, fmt.Errorf("tube needs at least 3 ring vertices, got %d", ringVertices)
	}

	rings := make([][]r3.Vector, n)
	for i := 0; i < n; i++ {
		rings[i] = ring(data, i, radius, ringVertices)
	}

	triangles := make([]Triangle, 0, (n-1)*ringVertices*2+2*ringVertices)

	// Tube wall: two triangles per quad, wound for outward normals.
	for i := 0; i < n-1; i++ {
		curr, next := rings[i], rings[i+1]
		for j := 0; j < ringVertices; j++ {
			k := (j + 1) % ringVertices
			triangles = append(triangles,
				makeTriangle(curr[j], curr[k], next[j]),
				makeTriangle(curr[k], next[k], next[j]),
			)
		}
	}

	// End caps: triangle fans around the first and last sample positions.
	start, end := data.SamplePosition(0), data.SamplePosition(n-1)
	for j := 0; j < ringVertices; j++ {
		k := (j + 1) % ringVertices
		triangles = append(triangles,
			makeTriangle(start, rings[0][k], rings[0][j]),
			makeTriangle(end, rings[n-1][j], rings[n-1][k]),
		)
	}

	return triangles, nil
}

// ring places ringVertices points of the given radius around sample i, in the
// plane spanned by the sample frame's up and right vectors.
func ring(data *centerline.Data, i int, radius float64, ringVertices int) []r3.Vector {
	pos := data.SamplePosition(i)
	m := data.SampleMatrix(i)
	up, right := m.Up(), m.Right()

	out := make([]r3.Vector, ringVertices)
	for j := range out {
		theta := 2 * math.Pi * float64(j) / float64(ringVertices)
		offset := up.Mul(radius * math.Cos(theta)).Add(right.Mul(radius * math.Sin(theta)))
		out[j] = pos.Add(offset)
	}
	return out
}

// makeTriangle builds a Triangle with its face normal from the right-hand
// winding of v1, v2, v3.
func makeTriangle(v1, v2, v3 r3.Vector) Triangle {
	normal := v2.Sub(v1).Cross(v3.Sub(v1))
	if n := normal.Norm(); n > 0 {
		normal = normal.Mul(1 / n)
	}
	return Triangle{
		Normal:  vertex(normal),
		Vertex1: vertex(v1),
		Vertex2: vertex(v2),
		Vertex3: vertex(v3),
	}
}

func vertex(v r3.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
