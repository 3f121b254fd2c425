package fraction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rimadoma/BoneJRefactored/pkg/stl"
)

// unitCubeMesh builds a closed unit cube out of 12 triangles with outward
// winding.
func unitCubeMesh() []stl.Triangle {
	quads := [][4][3]float32{
		{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}, // z = 0, normal -z
		{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // z = 1, normal +z
		{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // y = 0, normal -y
		{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // y = 1, normal +y
		{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, // x = 0, normal -x
		{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}, // x = 1, normal +x
	}

	var mesh []stl.Triangle
	for _, q := range quads {
		mesh = append(mesh,
			stl.Triangle{Vertex1: q[0], Vertex2: q[1], Vertex3: q[2]},
			stl.Triangle{Vertex1: q[0], Vertex2: q[2], Vertex3: q[3]},
		)
	}
	return mesh
}

func TestMeshVolumeUnitCube(t *testing.T) {
	assert.InDelta(t, 1.0, MeshVolume(unitCubeMesh()), 1e-9)
}

func TestMeshVolumeEmptyMesh(t *testing.T) {
	assert.Equal(t, 0.0, MeshVolume(nil))
	assert.Equal(t, 0.0, MeshVolume([]stl.Triangle{}))
}

// TestMeshVolumeVertexRelabeling checks that the reported volume is
// invariant both under cyclic rotation of each triangle's vertices, which
// preserves the scalar triple product, and under a vertex pair swap, which
// flips its sign but not the absolute value of the sum.
func TestMeshVolumeVertexRelabeling(t *testing.T) {
	mesh := unitCubeMesh()
	want := MeshVolume(mesh)

	rotated := make([]stl.Triangle, len(mesh))
	for i, tri := range mesh {
		rotated[i] = stl.Triangle{Vertex1: tri.Vertex2, Vertex2: tri.Vertex3, Vertex3: tri.Vertex1}
	}
	assert.InDelta(t, want, MeshVolume(rotated), 1e-9, "cyclic relabeling changed the volume")

	swapped := make([]stl.Triangle, len(mesh))
	for i, tri := range mesh {
		swapped[i] = stl.Triangle{Vertex1: tri.Vertex2, Vertex2: tri.Vertex1, Vertex3: tri.Vertex3}
	}
	assert.InDelta(t, want, MeshVolume(swapped), 1e-9, "winding flip changed the reported volume")
}

// TestMeshVolumeTranslationInvariant checks that a closed mesh keeps its
// volume when moved away from the origin.
func TestMeshVolumeTranslationInvariant(t *testing.T) {
	mesh := unitCubeMesh()
	moved := make([]stl.Triangle, len(mesh))
	for i, tri := range mesh {
		moved[i] = tri
		for _, v := range []*[3]float32{&moved[i].Vertex1, &moved[i].Vertex2, &moved[i].Vertex3} {
			v[0] += 7
			v[1] -= 3
			v[2] += 11
		}
	}
	assert.InDelta(t, MeshVolume(mesh), MeshVolume(moved), 1e-6)
}

// TestMeshVolumeOpenMesh checks the documented best-effort behavior on an
// open mesh: the formula's output is returned as-is, without error.
func TestMeshVolumeOpenMesh(t *testing.T) {
	open := unitCubeMesh()[:6]
	v := MeshVolume(open)
	assert.False(t, math.IsNaN(v))
	assert.GreaterOrEqual(t, v, 0.0)
}
