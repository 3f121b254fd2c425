// Package voxel provides the 3D grayscale grid and binary mask types that the
// volume fraction pipeline operates on. A Grid is an immutable stack of 2D
// slices stored as a single row-major buffer; a Mask is a same-shaped binary
// volume with values in {0, Foreground}.
package voxel

import "fmt"

// Foreground is the value of a set mask voxel. Masks are 8-bit {0, 255}
// volumes so that an iso level of 128 splits background from foreground.
const Foreground = 255

// Supported source bit depths.
const (
	BitDepth8  = 8
	BitDepth16 = 16
)

// Grid is a 3D scalar intensity volume built from a stack of 2D slices.
// Data is stored row-major: index = z*Width*Height + y*Width + x. Depth
// always equals the number of slices in the stack.
type Grid struct {
	// Data is the intensity buffer in row-major order
	Data []uint16

	// Width, Height, Depth are the volume dimensions in voxels
	Width  int
	Height int
	Depth  int

	// BitDepth is the source pixel depth, BitDepth8 or BitDepth16.
	// It determines the upper bound for threshold values.
	BitDepth int
}

// NewGrid allocates a zeroed grid with the given dimensions and bit depth.
func NewGrid(width, height, depth, bitDepth int) (*Grid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%dx%d", width, height, depth)
	}
	if bitDepth != BitDepth8 && bitDepth != BitDepth16 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	return &Grid{
		Data:     make([]uint16, width*height*depth),
		Width:    width,
		Height:   height,
		Depth:    depth,
		BitDepth: bitDepth,
	}, nil
}

// At returns the intensity at voxel (x, y, z). Coordinates are 0-based.
func (g *Grid) At(x, y, z int) uint16 {
	return g.Data[z*g.Width*g.Height+y*g.Width+x]
}

// Set writes the intensity at voxel (x, y, z). Used by loaders; the
// pipeline itself never mutates a grid.
func (g *Grid) Set(x, y, z int, value uint16) {
	g.Data[z*g.Width*g.Height+y*g.Width+x] = value
}

// Empty reports whether the grid holds no voxels.
func (g *Grid) Empty() bool {
	return g == nil || len(g.Data) == 0
}

// TypeBound returns the maximum representable intensity for the grid's
// bit depth: 255 for 8-bit sources, 65535 for 16-bit.
func (g *Grid) TypeBound() int {
	if g.BitDepth == BitDepth16 {
		return 0xFFFF
	}
	return 0xFF
}

// Mask is a binary voxel volume with the same indexing scheme as Grid.
// Voxels are either 0 or Foreground.
type Mask struct {
	Data   []uint8
	Width  int
	Height int
	Depth  int
}

// NewMask allocates a zeroed mask with the given dimensions.
func NewMask(width, height, depth int) *Mask {
	return &Mask{
		Data:   make([]uint8, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// At returns the mask value at voxel (x, y, z).
func (m *Mask) At(x, y, z int) uint8 {
	return m.Data[z*m.Width*m.Height+y*m.Width+x]
}

// Set marks voxel (x, y, z) as foreground. Setting an already-set voxel
// is a no-op, so overlapping regions union monotonically.
func (m *Mask) Set(x, y, z int) {
	m.Data[z*m.Width*m.Height+y*m.Width+x] = Foreground
}
