// Package loader reads a directory of 2D grayscale slice images into a
// voxel grid for the volume fraction pipeline.
package loader

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

// LoadSliceDir loads all JPEG images in dir as the slices of an 8-bit
// grid. Files are ordered by the numeric part of their filenames so the
// anatomical slice order is preserved; all slices must share the same
// dimensions.
func LoadSliceDir(dir string) (*voxel.Grid, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" {
			imageFiles = append(imageFiles, entry.Name())
		}
	}
	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no JPG images found in %s", dir)
	}

	// Numeric filename order keeps the slices in stack order
	sort.Slice(imageFiles, func(i, j int) bool {
		return extractNumber(imageFiles[i]) < extractNumber(imageFiles[j])
	})

	var grid *voxel.Grid
	for z, filename := range imageFiles {
		img, err := loadImage(filepath.Join(dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
		}

		bounds := img.Bounds()
		if grid == nil {
			grid, err = voxel.NewGrid(bounds.Dx(), bounds.Dy(), len(imageFiles), voxel.BitDepth8)
			if err != nil {
				return nil, err
			}
		} else if bounds.Dx() != grid.Width || bounds.Dy() != grid.Height {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d",
				filename, bounds.Dx(), bounds.Dy(), grid.Width, grid.Height)
		}

		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				// 16-bit color sample to 8-bit intensity
				grid.Set(x, y, z, uint16(r>>8))
			}
		}
	}

	return grid, nil
}

// extractNumber extracts the numeric part from a filename
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		if num, err := strconv.Atoi(numStr); err == nil {
			return num
		}
	}
	return 0
}

// loadImage loads an image from a file
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return jpeg.Decode(file)
}
