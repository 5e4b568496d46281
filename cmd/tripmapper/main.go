package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cycleviz/tripmapper/config"
	"github.com/cycleviz/tripmapper/logging"
	"github.com/cycleviz/tripmapper/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		fitDir     = flag.String("fit", "", "Directory containing .fit activity files")
		photoDirs  = flag.String("photos", "", "Comma-separated directories containing photos")
		outDir     = flag.String("out", "", "Output directory")
		mock       = flag.Bool("mock", false, "Generate mock rides instead of reading FIT files")
		mockRides  = flag.Int("rides", 0, "Number of mock rides to generate")
		seed       = flag.Int64("seed", 0, "Mock data seed")
		threshold  = flag.Float64("threshold", 0, "Photo match threshold in meters")
		stride     = flag.Int("stride", 0, "Route downsampling stride")
		format     = flag.String("format", "", "Assignment table format: csv|parquet")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s --fit fitdir --photos dir1,dir2 --out outdir [--mock] [--threshold 1000] [--format csv|parquet]\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tripmapper: %v\n", err)
		os.Exit(2)
	}

	// Flags the user actually passed win over config file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fit":
			cfg.FitDir = *fitDir
		case "photos":
			cfg.PhotoDirs = splitDirs(*photoDirs)
		case "out":
			cfg.OutDir = *outDir
		case "mock":
			cfg.Mock = *mock
		case "rides":
			cfg.MockRides = *mockRides
		case "seed":
			cfg.Seed = *seed
		case "threshold":
			cfg.MatchThresholdMeters = *threshold
		case "stride":
			cfg.SampleStride = *stride
		case "format":
			cfg.Format = *format
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "tripmapper: %v\n", err)
		os.Exit(2)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	result, err := pipeline.Run(pipeline.Options{
		FitDir:          cfg.FitDir,
		PhotoDirs:       cfg.PhotoDirs,
		OutDir:          cfg.OutDir,
		Mock:            cfg.Mock,
		MockRides:       cfg.MockRides,
		Seed:            cfg.Seed,
		ThresholdMeters: cfg.MatchThresholdMeters,
		SampleStride:    cfg.SampleStride,
		Format:          cfg.Format,
		CopyPhotos:      cfg.CopyPhotos,
		Log:             &log,
	})
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}

	fmt.Printf("tripmapper complete\n")
	fmt.Printf("rides:              %d\n", result.RideCount)
	fmt.Printf("photos:             %d (%d matched, %d unmatched)\n",
		result.PhotoCount, result.MatchedCount, result.UnmatchedCount)
	fmt.Printf("rides.json:         %s\n", result.RidesPath)
	fmt.Printf("assignment table:   %s\n", result.AssignmentsPath)
	if result.PhotosDir != "" {
		fmt.Printf("published photos:   %s (%d copied)\n", result.PhotosDir, result.CopiedPhotos)
	}
}

func splitDirs(s string) []string {
	parts := strings.Split(s, ",")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	return dirs
}
