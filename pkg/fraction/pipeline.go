package fraction

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/rimadoma/BoneJRefactored/pkg/mask"
	"github.com/rimadoma/BoneJRefactored/pkg/stl"
	"github.com/rimadoma/BoneJRefactored/pkg/voxel"
)

// Result holds the outputs of one pipeline run. Ratio is NaN if and only
// if TotalVolume is 0. The surfaces are returned for optional downstream
// rendering; the pipeline itself never serializes them.
type Result struct {
	ForegroundVolume float64
	TotalVolume      float64
	Ratio            float64

	ForegroundSurface []stl.Triangle
	TotalSurface      []stl.Triangle
}

// Pipeline computes the volume fraction of a grid: mask construction,
// surface extraction of the foreground and total masks, and volume
// integration of both meshes.
//
// Configuration (thresholds, regions, resampling factor, core count)
// persists across runs and resets. A pipeline instance is not safe for
// concurrent Run calls; use one instance per goroutine or serialize
// externally.
type Pipeline struct {
	thresholds       voxel.ThresholdRange
	regions          []mask.Region
	resamplingFactor int
	numCores         int

	log *logrus.Logger

	foregroundVolume  float64
	totalVolume       float64
	ratio             float64
	foregroundSurface []stl.Triangle
	totalSurface      []stl.Triangle
}

// NewPipeline creates a pipeline with 8-bit default thresholds, the
// default resampling factor, no regions and all cores.
func NewPipeline() *Pipeline {
	p := &Pipeline{
		thresholds:       voxel.DefaultThresholds(voxel.BitDepth8),
		resamplingFactor: DefaultResampling,
		log:              logrus.StandardLogger(),
	}
	p.clearOutputs()
	return p
}

// SetLogger replaces the pipeline's logger.
func (p *Pipeline) SetLogger(log *logrus.Logger) {
	p.log = log
}

// SetThresholds sets the inclusive foreground intensity window, validated
// against the type bound of the source (255 for 8-bit, 65535 for 16-bit).
func (p *Pipeline) SetThresholds(min, max, bound int) error {
	thresholds, err := voxel.NewThresholdRange(min, max, bound)
	if err != nil {
		return err
	}
	p.thresholds = thresholds
	return nil
}

// Thresholds returns the current foreground window.
func (p *Pipeline) Thresholds() voxel.ThresholdRange {
	return p.thresholds
}

// SetRegions sets the regions of interest for subsequent runs. Nil or
// empty means the whole extent of every slice.
func (p *Pipeline) SetRegions(regions []mask.Region) {
	p.regions = regions
}

// SetResamplingFactor sets the surface resampling factor for subsequent
// runs; values below 0 fail with a *ParameterError.
func (p *Pipeline) SetResamplingFactor(factor int) error {
	if factor < 0 {
		return &ParameterError{Name: "resamplingFactor", Reason: "must be >= 0"}
	}
	p.resamplingFactor = factor
	return nil
}

// SetNumCores bounds the mask-building fan-out. Values below 1 mean all
// available cores.
func (p *Pipeline) SetNumCores(numCores int) {
	p.numCores = numCores
}

// Reset returns the pipeline to its idle state: volumes to 0, ratio to
// NaN, surfaces cleared. Configuration is kept.
func (p *Pipeline) Reset() {
	p.clearOutputs()
}

func (p *Pipeline) clearOutputs() {
	p.foregroundVolume = 0
	p.totalVolume = 0
	p.ratio = math.NaN()
	p.foregroundSurface = nil
	p.totalSurface = nil
}

// ForegroundVolume returns the foreground volume of the last run, 0 before
// any run.
func (p *Pipeline) ForegroundVolume() float64 { return p.foregroundVolume }

// TotalVolume returns the total region volume of the last run, 0 before
// any run.
func (p *Pipeline) TotalVolume() float64 { return p.totalVolume }

// Ratio returns foreground/total of the last run, NaN before any run.
func (p *Pipeline) Ratio() float64 { return p.ratio }

// Run executes the full pipeline on the grid and returns the result.
//
// Stages run strictly in sequence: build both masks, extract the
// foreground and total surfaces, integrate both volumes, compute the
// ratio. The two extract-and-integrate branches are independent and run
// concurrently. Any stage failure aborts the run, propagates the stage's
// error unchanged and leaves the pipeline's outputs in their pre-run
// state. A nil or empty grid fails with an *UninitializedInputError.
func (p *Pipeline) Run(grid *voxel.Grid) (*Result, error) {
	if grid.Empty() {
		return nil, &UninitializedInputError{Input: "input volume"}
	}
	if p.resamplingFactor < 0 {
		return nil, &ParameterError{Name: "resamplingFactor", Reason: "must be >= 0"}
	}

	p.log.WithFields(logrus.Fields{
		"width":      grid.Width,
		"height":     grid.Height,
		"depth":      grid.Depth,
		"thresholds": p.thresholds,
		"regions":    len(p.regions),
		"resampling": p.resamplingFactor,
	}).Debug("building surface masks")

	builder := mask.NewBuilder(p.numCores)
	totalMask, foregroundMask, err := builder.Build(grid, p.regions, p.thresholds)
	if err != nil {
		return nil, err
	}

	type branchResult struct {
		foreground bool
		surface    []stl.Triangle
		volume     float64
		err        error
	}
	results := make(chan branchResult, 2)

	for _, branch := range []struct {
		foreground bool
		mask       *voxel.Mask
	}{
		{foreground: true, mask: foregroundMask},
		{foreground: false, mask: totalMask},
	} {
		go func(foreground bool, m *voxel.Mask) {
			surface, err := ExtractSurface(m, p.resamplingFactor)
			if err != nil {
				results <- branchResult{foreground: foreground, err: err}
				return
			}
			results <- branchResult{
				foreground: foreground,
				surface:    surface,
				volume:     MeshVolume(surface),
			}
		}(branch.foreground, branch.mask)
	}

	result := &Result{}
	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			err = res.err
			continue
		}
		if res.foreground {
			result.ForegroundSurface = res.surface
			result.ForegroundVolume = res.volume
		} else {
			result.TotalSurface = res.surface
			result.TotalVolume = res.volume
		}
	}
	if err != nil {
		return nil, err
	}

	if result.TotalVolume == 0 {
		result.Ratio = math.NaN()
	} else {
		result.Ratio = result.ForegroundVolume / result.TotalVolume
	}

	p.foregroundVolume = result.ForegroundVolume
	p.totalVolume = result.TotalVolume
	p.ratio = result.Ratio
	p.foregroundSurface = result.ForegroundSurface
	p.totalSurface = result.TotalSurface

	p.log.WithFields(logrus.Fields{
		"foregroundVolume":    result.ForegroundVolume,
		"totalVolume":         result.TotalVolume,
		"ratio":               result.Ratio,
		"foregroundTriangles": len(result.ForegroundSurface),
		"totalTriangles":      len(result.TotalSurface),
	}).Info("volume fraction computed")

	return result, nil
}
