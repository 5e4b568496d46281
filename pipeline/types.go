package pipeline

import "github.com/rs/zerolog"

// Options configures one batch run.
type Options struct {
	// FitDir holds *.fit activity files. Ignored when Mock is set.
	FitDir string
	// PhotoDirs are scanned for geotagged photos; directories that do not
	// exist are skipped with a warning.
	PhotoDirs []string
	// OutDir receives every artifact.
	OutDir string

	// Mock generates deterministic synthetic rides instead of reading FitDir.
	Mock      bool
	MockRides int
	Seed      int64

	// ThresholdMeters rejects matches at or beyond this distance.
	// Zero means tripmapper.DefaultMatchThresholdMeters.
	ThresholdMeters float64
	// SampleStride keeps every Nth route point when downsampling.
	// Zero means tripmapper.DefaultSampleStride.
	SampleStride int

	// Format selects the assignment table encoding: csv|parquet.
	Format string
	// CopyPhotos publishes matched photo files into OutDir/photos.
	CopyPhotos bool

	// Log defaults to a no-op logger when nil.
	Log *zerolog.Logger
}

// Result reports generated artifact paths and run counts.
type Result struct {
	OutputDir       string `json:"output_dir"`
	RidesPath       string `json:"rides_path"`
	AssignmentsPath string `json:"assignments_path"`
	PhotosDir       string `json:"photos_dir,omitempty"`

	RideCount      int `json:"ride_count"`
	PhotoCount     int `json:"photo_count"`
	MatchedCount   int `json:"matched_count"`
	UnmatchedCount int `json:"unmatched_count"`
	CopiedPhotos   int `json:"copied_photos"`
}
