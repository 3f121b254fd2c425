package fraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

func solidMask(width, height, depth int) *voxel.Mask {
	m := voxel.NewMask(width, height, depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				m.Set(x, y, z)
			}
		}
	}
	return m
}

func TestExtractSurfaceNegativeFactor(t *testing.T) {
	_, err := ExtractSurface(voxel.NewMask(2, 2, 2), -1)
	require.Error(t, err)

	var paramErr *ParameterError
	assert.ErrorAs(t, err, &paramErr)
}

func TestExtractSurfaceEmptyMask(t *testing.T) {
	surface, err := ExtractSurface(voxel.NewMask(4, 4, 4), 0)
	require.NoError(t, err)
	assert.Empty(t, surface)
}

// TestExtractSurfaceClosedAtBoundary checks that foreground touching the
// volume boundary still produces a closed surface with a sensible volume,
// thanks to the zero padding.
func TestExtractSurfaceClosedAtBoundary(t *testing.T) {
	m := solidMask(4, 4, 2)

	surface, err := ExtractSurface(m, 0)
	require.NoError(t, err)
	require.NotEmpty(t, surface)

	// The surface approximates the 4 x 4 x 2 = 32 voxel box from the
	// inside: the iso crossing bevels its edges and corners, so the
	// enclosed volume lands below the box but well above its 3 x 3 x 1
	// interior
	v := MeshVolume(surface)
	assert.Greater(t, v, 27.0)
	assert.LessOrEqual(t, v, 32.0)
}

func TestExtractSurfaceZeroAndOneEquivalent(t *testing.T) {
	m := solidMask(5, 5, 3)

	zero, err := ExtractSurface(m, 0)
	require.NoError(t, err)
	one, err := ExtractSurface(m, 1)
	require.NoError(t, err)

	assert.Equal(t, zero, one)
}

func TestExtractSurfaceDeterministic(t *testing.T) {
	m := voxel.NewMask(6, 6, 4)
	for i := 0; i < len(m.Data); i += 3 {
		m.Data[i] = voxel.Foreground
	}

	first, err := ExtractSurface(m, 2)
	require.NoError(t, err)
	second, err := ExtractSurface(m, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractSurfaceDoesNotMutateMask(t *testing.T) {
	m := solidMask(3, 3, 3)
	before := make([]uint8, len(m.Data))
	copy(before, m.Data)

	_, err := ExtractSurface(m, 2)
	require.NoError(t, err)
	assert.Equal(t, before, m.Data)
}

func TestExtractSurfaceResamplingShrinksMesh(t *testing.T) {
	m := solidMask(12, 12, 12)

	full, err := ExtractSurface(m, 0)
	require.NoError(t, err)
	coarse, err := ExtractSurface(m, 3)
	require.NoError(t, err)

	assert.NotEmpty(t, coarse)
	assert.Less(t, len(coarse), len(full))
}
