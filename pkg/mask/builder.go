package mask

import (
	"image"
	"runtime"
	"sync"

	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

// Builder converts per-slice regions into the two binary masks used for
// surface extraction. A zero-value Builder is usable; NumCores bounds the
// slice fan-out and defaults to all available cores.
type Builder struct {
	// NumCores is the number of workers used to rasterize slices.
	// Values below 1 mean runtime.NumCPU().
	NumCores int
}

// NewBuilder creates a builder that fans slice rasterization out over the
// given number of cores.
func NewBuilder(numCores int) *Builder {
	return &Builder{NumCores: numCores}
}

// Build rasterizes the regions into a total mask and a foreground mask,
// both spanning the full extent of the grid.
//
// Every pixel covered by a region is set in the total mask; it is
// additionally set in the foreground mask when its intensity lies inside
// the threshold window. Slices without a region stay zero in both masks.
// A nil or empty region list means every slice is covered in full.
//
// All validation happens before the first write: a region referencing a
// slice outside [1, depth] fails with a *RegionError and an invalid
// threshold window fails with a *voxel.RangeError, in both cases with no
// partially built masks.
func (b *Builder) Build(grid *voxel.Grid, regions []Region, thresholds voxel.ThresholdRange) (total, foreground *voxel.Mask, err error) {
	if _, err := voxel.NewThresholdRange(thresholds.Min, thresholds.Max, grid.TypeBound()); err != nil {
		return nil, nil, err
	}
	for _, region := range regions {
		n := region.SliceNumber()
		if n < 1 || n > grid.Depth {
			return nil, nil, &RegionError{SliceNumber: n, Depth: grid.Depth}
		}
	}

	if len(regions) == 0 {
		regions = fullFrameRegions(grid)
	}

	// Group regions by slice so each worker owns disjoint output slices.
	bySlice := make(map[int][]Region)
	for _, region := range regions {
		n := region.SliceNumber()
		bySlice[n] = append(bySlice[n], region)
	}
	sliceNumbers := make([]int, 0, len(bySlice))
	for n := range bySlice {
		sliceNumbers = append(sliceNumbers, n)
	}

	total = voxel.NewMask(grid.Width, grid.Height, grid.Depth)
	foreground = voxel.NewMask(grid.Width, grid.Height, grid.Depth)

	numCores := b.NumCores
	if numCores < 1 {
		numCores = runtime.NumCPU()
	}
	slicesPerCore := (len(sliceNumbers) + numCores - 1) / numCores

	var wg sync.WaitGroup
	for c := 0; c < numCores; c++ {
		start := c * slicesPerCore
		end := start + slicesPerCore
		if end > len(sliceNumbers) {
			end = len(sliceNumbers)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(numbers []int) {
			defer wg.Done()
			for _, n := range numbers {
				for _, region := range bySlice[n] {
					rasterizeRegion(grid, region, thresholds, total, foreground)
				}
			}
		}(sliceNumbers[start:end])
	}
	wg.Wait()

	return total, foreground, nil
}

// rasterizeRegion writes one region into the output slice z = slice-1.
// Pixels outside the coverage predicate are left untouched so that later
// regions on the same slice can still set them.
func rasterizeRegion(grid *voxel.Grid, region Region, thresholds voxel.ThresholdRange, total, foreground *voxel.Mask) {
	z := region.SliceNumber() - 1
	bounds := region.Bounds().Intersect(image.Rect(0, 0, grid.Width, grid.Height))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !region.Contains(x, y) {
				continue
			}
			total.Set(x, y, z)
			if thresholds.Contains(grid.At(x, y, z)) {
				foreground.Set(x, y, z)
			}
		}
	}
}

// fullFrameRegions returns one slice-sized rectangle per slice, the
// default when the caller supplies no regions.
func fullFrameRegions(grid *voxel.Grid) []Region {
	regions := make([]Region, grid.Depth)
	for i := 0; i < grid.Depth; i++ {
		regions[i] = NewRect(i+1, 0, 0, grid.Width, grid.Height)
	}
	return regions
}
