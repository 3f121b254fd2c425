package stl

import (
	"math"
	"os"
	"testing"
)

// sphereVolume builds a size^3 volume with a centered binary sphere.
func sphereVolume(size int) []float64 {
	data := make([]float64, size*size*size)
	radius := float64(size) / 4.0
	center := float64(size) / 2.0

	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx := float64(x) - center
				dy := float64(y) - center
				dz := float64(z) - center
				if math.Sqrt(dx*dx+dy*dy+dz*dz) < radius {
					data[z*size*size+y*size+x] = 1.0
				}
			}
		}
	}
	return data
}

// TestMarchingCubes verifies the marching cubes implementation with a simple sphere
func TestMarchingCubes(t *testing.T) {
	size := 20
	data := sphereVolume(size)
	center := float64(size) / 2.0

	mc := NewMarchingCubes(data, size, size, size, 0.5)
	triangles := mc.GenerateTriangles()

	// A sphere at this resolution should triangulate into at least 100 faces
	if len(triangles) < 100 {
		t.Errorf("Expected at least 100 triangles for sphere, got %d", len(triangles))
	}

	// Normals should point away from the sphere center for an outward-facing
	// winding. Check a sample of triangles.
	for _, triangle := range triangles[:10] {
		cx := (triangle.Vertex1[0] + triangle.Vertex2[0] + triangle.Vertex3[0]) / 3
		cy := (triangle.Vertex1[1] + triangle.Vertex2[1] + triangle.Vertex3[1]) / 3
		cz := (triangle.Vertex1[2] + triangle.Vertex2[2] + triangle.Vertex3[2]) / 3

		vx := cx - float32(center)
		vy := cy - float32(center)
		vz := cz - float32(center)
		mag := float32(math.Sqrt(float64(vx*vx + vy*vy + vz*vz)))
		if mag > 0 {
			vx /= mag
			vy /= mag
			vz /= mag
		}

		dot := vx*triangle.Normal[0] + vy*triangle.Normal[1] + vz*triangle.Normal[2]
		if dot < -0.5 {
			t.Errorf("Triangle normal appears to point inward, dot product: %f", dot)
		}
	}
}

// TestGenerateTrianglesDeterministic verifies that repeated extraction of the
// same volume yields an identical mesh
func TestGenerateTrianglesDeterministic(t *testing.T) {
	data := sphereVolume(12)

	first := NewMarchingCubes(data, 12, 12, 12, 0.5).GenerateTriangles()
	second := NewMarchingCubes(data, 12, 12, 12, 0.5).GenerateTriangles()

	if len(first) != len(second) {
		t.Fatalf("Triangle counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Triangle %d differs between runs", i)
		}
	}
}

// TestSetScale verifies that vertex coordinates are multiplied by the voxel scale
func TestSetScale(t *testing.T) {
	// Single foreground corner in a 2x2x2 volume produces one triangle
	data := []float64{
		1, 0,
		0, 0,

		0, 0,
		0, 0,
	}

	mc := NewMarchingCubes(data, 2, 2, 2, 0.5)
	mc.SetScale(2.5, 1.5, 3.0)
	scaled := mc.GenerateTriangles()

	unscaled := NewMarchingCubes(data, 2, 2, 2, 0.5).GenerateTriangles()

	if len(scaled) == 0 || len(unscaled) == 0 {
		t.Fatal("No triangles generated")
	}
	if len(scaled) != len(unscaled) {
		t.Fatalf("Scaling changed triangle count: %d vs %d", len(scaled), len(unscaled))
	}

	for i := range scaled {
		pairs := [][2][3]float32{
			{scaled[i].Vertex1, unscaled[i].Vertex1},
			{scaled[i].Vertex2, unscaled[i].Vertex2},
			{scaled[i].Vertex3, unscaled[i].Vertex3},
		}
		for _, p := range pairs {
			if math.Abs(float64(p[0][0]-p[1][0]*2.5)) > 0.001 ||
				math.Abs(float64(p[0][1]-p[1][1]*1.5)) > 0.001 ||
				math.Abs(float64(p[0][2]-p[1][2]*3.0)) > 0.001 {
				t.Errorf("Triangle %d vertex not scaled: got %v, unscaled %v", i, p[0], p[1])
			}
		}
	}
}

// TestSaveToSTL verifies that the STL file can be written with the expected layout
func TestSaveToSTL(t *testing.T) {
	triangles := []Triangle{
		{
			Normal:  [3]float32{0, 0, 1},
			Vertex1: [3]float32{0, 0, 0},
			Vertex2: [3]float32{1, 0, 0},
			Vertex3: [3]float32{0, 1, 0},
		},
	}

	tmpFile, err := os.CreateTemp("", "test-*.stl")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	if err := SaveToSTL(tmpFile.Name(), triangles); err != nil {
		t.Fatalf("Failed to save STL: %v", err)
	}

	info, err := os.Stat(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to stat output file: %v", err)
	}

	// 80-byte header + uint32 count + one 50-byte triangle record
	wantSize := int64(80 + 4 + 50)
	if info.Size() != wantSize {
		t.Errorf("STL file size: expected %d bytes, got %d", wantSize, info.Size())
	}
}

// TestTriangleInterpolation verifies the vertex interpolation for marching cubes
func TestTriangleInterpolation(t *testing.T) {
	// A single foreground corner: the surface must cross the three edges
	// incident to it, halfway along each
	data := []float64{
		1, 0,
		0, 0,

		0, 0,
		0, 0,
	}

	mc := NewMarchingCubes(data, 2, 2, 2, 0.5)
	triangles := mc.GenerateTriangles()

	if len(triangles) != 1 {
		t.Fatalf("Expected exactly 1 triangle for a single-corner cube, got %d", len(triangles))
	}

	triangle := triangles[0]

	// With corner values 1 and 0 and iso level 0.5 every crossing lies at
	// the midpoint of its edge, so each vertex has exactly one coordinate
	// equal to 0.5
	for i, v := range [][3]float32{triangle.Vertex1, triangle.Vertex2, triangle.Vertex3} {
		half := 0
		for _, c := range v {
			if math.Abs(float64(c)-0.5) < 0.001 {
				half++
			}
		}
		if half != 1 {
			t.Errorf("Vertex %d = %v: expected one mid-edge coordinate", i+1, v)
		}
	}

	if triangle.Normal[0] == 0 && triangle.Normal[1] == 0 && triangle.Normal[2] == 0 {
		t.Error("Triangle normal is zero")
	}
}

// BenchmarkMarchingCubes benchmarks the marching cubes algorithm
func BenchmarkMarchingCubes(b *testing.B) {
	data := sphereVolume(16)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mc := NewMarchingCubes(data, 16, 16, 16, 0.5)
		mc.GenerateTriangles()
	}
}
