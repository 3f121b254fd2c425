// Package stl provides isosurface triangulation of scalar voxel volumes
// via the marching cubes algorithm, and binary STL serialization of the
// resulting triangle soup.
package stl

import "math"

// Triangle represents a single mesh triangle with its facet normal, laid
// out the way binary STL stores it.
type Triangle struct {
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	Normal  [3]float32
}

// MarchingCubes extracts the isosurface of a scalar volume as a triangle
// mesh using the classic Lorensen-Cline lookup tables. The input volume is
// row-major (index = z*width*height + y*width + x) and is never mutated;
// extraction is fully deterministic for a fixed input and iso level.
type MarchingCubes struct {
	data   []float64
	width  int
	height int
	depth  int

	isoLevel float64

	scaleX float32
	scaleY float32
	scaleZ float32
}

// NewMarchingCubes creates a marching cubes instance for the given volume.
// The iso level is the scalar value of the extracted surface; voxels above
// it are treated as inside.
func NewMarchingCubes(data []float64, width, height, depth int, isoLevel float64) *MarchingCubes {
	return &MarchingCubes{
		data:     data,
		width:    width,
		height:   height,
		depth:    depth,
		isoLevel: isoLevel,
		scaleX:   1,
		scaleY:   1,
		scaleZ:   1,
	}
}

// SetScale sets the physical size of a voxel along each axis. Generated
// vertex coordinates are voxel coordinates multiplied by these factors.
func (mc *MarchingCubes) SetScale(x, y, z float32) {
	mc.scaleX = x
	mc.scaleY = y
	mc.scaleZ = z
}

// GenerateTriangles walks every cell of the volume and emits the triangles
// crossing the iso level. Cells are visited in z, y, x order so the output
// ordering is reproducible.
func (mc *MarchingCubes) GenerateTriangles() []Triangle {
	var triangles []Triangle

	var corners [8]float64
	var positions [8][3]float64
	var vertices [12][3]float64

	for z := 0; z < mc.depth-1; z++ {
		for y := 0; y < mc.height-1; y++ {
			for x := 0; x < mc.width-1; x++ {
				for i := 0; i < 8; i++ {
					cx := x + cornerOffsets[i][0]
					cy := y + cornerOffsets[i][1]
					cz := z + cornerOffsets[i][2]
					corners[i] = mc.at(cx, cy, cz)
					positions[i] = [3]float64{float64(cx), float64(cy), float64(cz)}
				}

				cubeIndex := 0
				for i := 0; i < 8; i++ {
					if corners[i] < mc.isoLevel {
						cubeIndex |= 1 << i
					}
				}

				edges := edgeTable[cubeIndex]
				if edges == 0 {
					continue
				}

				for e := 0; e < 12; e++ {
					if edges&(1<<e) != 0 {
						a := edgeCorners[e][0]
						b := edgeCorners[e][1]
						vertices[e] = interpolateVertex(mc.isoLevel, positions[a], positions[b], corners[a], corners[b])
					}
				}

				for t := 0; triTable[cubeIndex][t] != -1; t += 3 {
					tri := Triangle{
						Vertex1: mc.scaled(vertices[triTable[cubeIndex][t]]),
						Vertex2: mc.scaled(vertices[triTable[cubeIndex][t+1]]),
						Vertex3: mc.scaled(vertices[triTable[cubeIndex][t+2]]),
					}
					tri.Normal = facetNormal(tri)
					triangles = append(triangles, tri)
				}
			}
		}
	}

	return triangles
}

func (mc *MarchingCubes) at(x, y, z int) float64 {
	return mc.data[z*mc.width*mc.height+y*mc.width+x]
}

func (mc *MarchingCubes) scaled(v [3]float64) [3]float32 {
	return [3]float32{
		float32(v[0]) * mc.scaleX,
		float32(v[1]) * mc.scaleY,
		float32(v[2]) * mc.scaleZ,
	}
}

// interpolateVertex places the surface vertex on an edge by linear
// interpolation of the corner values against the iso level.
func interpolateVertex(iso float64, p1, p2 [3]float64, v1, v2 float64) [3]float64 {
	if math.Abs(iso-v1) < 1e-9 {
		return p1
	}
	if math.Abs(iso-v2) < 1e-9 {
		return p2
	}
	if math.Abs(v1-v2) < 1e-9 {
		return p1
	}
	mu := (iso - v1) / (v2 - v1)
	return [3]float64{
		p1[0] + mu*(p2[0]-p1[0]),
		p1[1] + mu*(p2[1]-p1[1]),
		p1[2] + mu*(p2[2]-p1[2]),
	}
}

// facetNormal computes the unit normal of a triangle from its winding.
func facetNormal(t Triangle) [3]float32 {
	ux := t.Vertex2[0] - t.Vertex1[0]
	uy := t.Vertex2[1] - t.Vertex1[1]
	uz := t.Vertex2[2] - t.Vertex1[2]
	vx := t.Vertex3[0] - t.Vertex1[0]
	vy := t.Vertex3[1] - t.Vertex1[1]
	vz := t.Vertex3[2] - t.Vertex1[2]

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	mag := float32(math.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if mag > 0 {
		nx /= mag
		ny /= mag
		nz /= mag
	}

	return [3]float32{nx, ny, nz}
}

// cornerOffsets maps cube corner indices to their (x, y, z) offsets within
// a cell, in the ordering the lookup tables assume.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners maps cube edge indices to the pair of corners they join.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
