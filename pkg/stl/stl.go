package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// SaveToSTL writes the triangles to path in binary STL format: an 80-byte
// header, a uint32 triangle count and one 50-byte record per triangle.
func SaveToSTL(path string, triangles []Triangle) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	var header [80]byte
	copy(header[:], "Binary STL generated by BoneJRefactored")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write STL header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i := range triangles {
		t := &triangles[i]
		for _, vec := range [][3]float32{t.Normal, t.Vertex1, t.Vertex2, t.Vertex3} {
			if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
				return fmt.Errorf("failed to write triangle %d: %w", i, err)
			}
		}
		// Attribute byte count, unused.
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return w.Flush()
}
