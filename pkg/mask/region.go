// Package mask builds the binary voxel masks consumed by surface
// extraction: a total mask covering every pixel that belongs to a region of
// interest, and a foreground mask covering the subset of those pixels whose
// intensity falls inside a threshold window.
package mask

import (
	"fmt"
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Region is a 2D area of interest on a single slice. SliceNumber is
// 1-based, matching slice numbering in the hosting application. Contains is
// the pixel coverage predicate; Bounds limits the pixels the builder tests.
type Region interface {
	SliceNumber() int
	Bounds() image.Rectangle
	Contains(x, y int) bool
}

// RegionError reports a region that references a slice outside the volume.
type RegionError struct {
	SliceNumber int
	Depth       int
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("region references slice %d outside the volume (valid range [1, %d])",
		e.SliceNumber, e.Depth)
}

// Rect is a rectangular region of interest.
type Rect struct {
	Slice int
	Area  image.Rectangle
}

// NewRect creates a rectangular region on the given 1-based slice.
func NewRect(slice, x0, y0, x1, y1 int) Rect {
	return Rect{Slice: slice, Area: image.Rect(x0, y0, x1, y1)}
}

func (r Rect) SliceNumber() int        { return r.Slice }
func (r Rect) Bounds() image.Rectangle { return r.Area }

func (r Rect) Contains(x, y int) bool {
	return image.Pt(x, y).In(r.Area)
}

// Polygon is an arbitrary polygonal region of interest. The outline is
// closed implicitly; holes are supported through additional rings.
type Polygon struct {
	Slice   int
	Outline orb.Polygon
}

// NewPolygon creates a polygonal region on the given 1-based slice from an
// outline of (x, y) vertices.
func NewPolygon(slice int, vertices ...[2]float64) Polygon {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v[0], v[1]})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return Polygon{Slice: slice, Outline: orb.Polygon{ring}}
}

func (p Polygon) SliceNumber() int { return p.Slice }

func (p Polygon) Bounds() image.Rectangle {
	b := p.Outline.Bound()
	return image.Rect(int(b.Min[0]), int(b.Min[1]), int(b.Max[0])+1, int(b.Max[1])+1)
}

// Contains tests the pixel center against the polygon.
func (p Polygon) Contains(x, y int) bool {
	return planar.PolygonContains(p.Outline, orb.Point{float64(x) + 0.5, float64(y) + 0.5})
}
