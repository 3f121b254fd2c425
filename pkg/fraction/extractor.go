// Package fraction computes the foreground volume fraction of a voxel
// volume by meshing two binary masks, a total region-of-interest mask and a
// foreground mask, and comparing their enclosed volumes.
package fraction

import (
	"github.com/rimadoma/BoneJRefactored/pkg/stl"
	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

// IsoLevel is the iso value used to triangulate binary masks. Masks hold
// {0, 255}, so the surface sits at the midpoint.
const IsoLevel = 128

// DefaultResampling is the default subsampling factor applied before
// triangulation.
const DefaultResampling = 6

// ExtractSurface triangulates the boundary surface of a binary mask.
//
// resamplingFactor >= 0 controls grid subsampling before triangulation:
// 0 and 1 both mean full resolution, larger values sample the mask with
// that stride, trading surface accuracy for a smaller mesh. Generated
// vertex coordinates stay in full-resolution voxel units regardless of the
// factor.
//
// The sampled grid is zero-padded by one voxel on every side so that
// foreground reaching the volume boundary still yields a closed surface.
// The mask is not mutated and identical inputs always yield an identical
// mesh.
func ExtractSurface(m *voxel.Mask, resamplingFactor int) ([]stl.Triangle, error) {
	if resamplingFactor < 0 {
		return nil, &ParameterError{Name: "resamplingFactor", Reason: "must be >= 0"}
	}

	stride := resamplingFactor
	if stride < 1 {
		stride = 1
	}

	data, width, height, depth := sampleMaskPadded(m, stride)

	mc := stl.NewMarchingCubes(data, width, height, depth, IsoLevel)
	mc.SetScale(float32(stride), float32(stride), float32(stride))
	triangles := mc.GenerateTriangles()

	// Undo the one-cell padding offset so coordinates line up with the
	// mask's voxel space.
	offset := float32(stride)
	for i := range triangles {
		for _, v := range []*[3]float32{&triangles[i].Vertex1, &triangles[i].Vertex2, &triangles[i].Vertex3} {
			v[0] -= offset
			v[1] -= offset
			v[2] -= offset
		}
	}

	return triangles, nil
}

// sampleMaskPadded samples the mask with the given stride into a float
// volume surrounded by a one-voxel zero border.
func sampleMaskPadded(m *voxel.Mask, stride int) (data []float64, width, height, depth int) {
	innerW := (m.Width + stride - 1) / stride
	innerH := (m.Height + stride - 1) / stride
	innerD := (m.Depth + stride - 1) / stride

	width = innerW + 2
	height = innerH + 2
	depth = innerD + 2

	data = make([]float64, width*height*depth)
	for z := 0; z < innerD; z++ {
		for y := 0; y < innerH; y++ {
			for x := 0; x < innerW; x++ {
				v := m.At(x*stride, y*stride, z*stride)
				data[(z+1)*width*height+(y+1)*width+(x+1)] = float64(v)
			}
		}
	}
	return data, width, height, depth
}
