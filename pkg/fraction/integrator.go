package fraction

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rimadoma/BoneJRefactored/pkg/stl"
)

// MeshVolume computes the volume enclosed by a triangle mesh via the
// divergence theorem: the sum over all triangles of the signed volume of
// the tetrahedron formed by the triangle and the origin,
// V = (1/6) * sum(v1 . (v2 x v3)).
//
// The absolute value of the sum is returned, since the extractor does not
// guarantee a globally consistent winding. The formula is applied as-is to
// open or non-manifold meshes; the result is then a best-effort estimate.
// An empty mesh has volume 0.
func MeshVolume(mesh []stl.Triangle) float64 {
	var sum float64
	for i := range mesh {
		v1 := toVec(mesh[i].Vertex1)
		v2 := toVec(mesh[i].Vertex2)
		v3 := toVec(mesh[i].Vertex3)
		sum += r3.Dot(v1, r3.Cross(v2, v3))
	}
	return math.Abs(sum) / 6.0
}

func toVec(v [3]float32) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}
