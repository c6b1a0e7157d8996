// Package stl exports planning geometry as binary STL meshes so the computed
// centerline can be loaded into external 3D review tools alongside the CT
// segmentation.
package stl

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Triangle represents a single triangle in an STL mesh with its normal vector.
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// SaveToSTL writes the triangles to a binary STL file: an 80-byte header, a
// uint32 triangle count, then 50 bytes per triangle (normal, three vertices,
// and a zero attribute word), all little-endian.
func SaveToSTL(path string, triangles []Triangle) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating STL file: %w", err)
	}
	defer file.Close()

	var header [80]byte
	copy(header[:], "tavigeom centerline mesh")
	if _, err := file.Write(header[:]); err != nil {
		return fmt.Errorf("error writing STL header: %w", err)
	}

	if err := binary.Write(file, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}

	for i, t := range triangles {
		if err := binary.Write(file, binary.LittleEndian, t.Normal); err != nil {
			return fmt.Errorf("error writing triangle %d normal: %w", i, err)
		}
		for _, v := range [][3]float32{t.Vertex1, t.Vertex2, t.Vertex3} {
			if err := binary.Write(file, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("error writing triangle %d vertex: %w", i, err)
			}
		}
		if err := binary.Write(file, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("error writing triangle %d attribute: %w", i, err)
		}
	}

	return nil
}
