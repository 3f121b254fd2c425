package main

import (
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rimadoma/BoneJRefactored/internal/loader"
	"github.com/rimadoma/BoneJRefactored/pkg/config"
	"github.com/rimadoma/BoneJRefactored/pkg/fraction"
	"github.com/rimadoma/BoneJRefactored/pkg/mask"
	"github.com/rimadoma/BoneJRefactored/pkg/stl"
)

func main() {
	inputDir := flag.String("input", "", "Directory containing 2D grayscale slices (JPEG)")
	configPath := flag.String("config", "volumefraction.yaml", "Path to the YAML configuration file")
	minThreshold := flag.Int("min", -1, "Minimum foreground intensity (overrides config)")
	maxThreshold := flag.Int("max", -1, "Maximum foreground intensity (overrides config)")
	resampling := flag.Int("resampling", -1, "Surface resampling factor, 0 for full resolution (overrides config)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if *minThreshold >= 0 {
		cfg.Thresholds.Min = *minThreshold
	}
	if *maxThreshold >= 0 {
		cfg.Thresholds.Max = *maxThreshold
	}
	if *resampling >= 0 {
		cfg.Processing.ResamplingFactor = *resampling
	}
	if *verbose || cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	log.WithField("dir", *inputDir).Info("loading slices")
	grid, err := loader.LoadSliceDir(*inputDir)
	if err != nil {
		log.WithError(err).Fatal("failed to load slices")
	}
	log.WithFields(logrus.Fields{
		"width":  grid.Width,
		"height": grid.Height,
		"depth":  grid.Depth,
	}).Info("volume loaded")

	pipeline := fraction.NewPipeline()
	pipeline.SetLogger(log)
	pipeline.SetNumCores(cfg.Processing.NumCores)
	if err := pipeline.SetThresholds(cfg.Thresholds.Min, cfg.Thresholds.Max, grid.TypeBound()); err != nil {
		log.WithError(err).Fatal("invalid thresholds")
	}
	if err := pipeline.SetResamplingFactor(cfg.Processing.ResamplingFactor); err != nil {
		log.WithError(err).Fatal("invalid resampling factor")
	}

	regions := make([]mask.Region, 0, len(cfg.Regions))
	for _, r := range cfg.Regions {
		regions = append(regions, mask.NewRect(r.SliceNumber, r.X0, r.Y0, r.X1, r.Y1))
	}
	pipeline.SetRegions(regions)

	start := time.Now()
	result, err := pipeline.Run(grid)
	if err != nil {
		log.WithError(err).Fatal("volume fraction computation failed")
	}

	log.WithFields(logrus.Fields{
		"foregroundVolume": result.ForegroundVolume,
		"totalVolume":      result.TotalVolume,
		"ratio":            result.Ratio,
		"elapsed":          time.Since(start),
	}).Info("done")

	if cfg.Output.ForegroundSTL != "" {
		if err := stl.SaveToSTL(cfg.Output.ForegroundSTL, result.ForegroundSurface); err != nil {
			log.WithError(err).Fatal("failed to write foreground surface")
		}
		log.WithField("path", cfg.Output.ForegroundSTL).Info("foreground surface written")
	}
	if cfg.Output.TotalSTL != "" {
		if err := stl.SaveToSTL(cfg.Output.TotalSTL, result.TotalSurface); err != nil {
			log.WithError(err).Fatal("failed to write total surface")
		}
		log.WithField("path", cfg.Output.TotalSTL).Info("total surface written")
	}
}
