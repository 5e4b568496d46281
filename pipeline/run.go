// Package pipeline orchestrates the batch run: load rides, scan photos,
// assign photos to rides, downsample routes and write the published artifacts.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cycleviz/tripmapper"
	"github.com/cycleviz/tripmapper/exifscan"
	"github.com/cycleviz/tripmapper/fitingest"
	"github.com/cycleviz/tripmapper/mockride"
)

// ridesFile is the JSON artifact consumed by the visualization frontend.
type ridesFile struct {
	Rides []tripmapper.Ride `json:"rides"`
}

// Run executes the full pipeline and writes all artifacts into opts.OutDir.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "parquet" {
		return nil, fmt.Errorf("unsupported format %q (expected csv|parquet)", format)
	}
	threshold := opts.ThresholdMeters
	if threshold <= 0 {
		threshold = tripmapper.DefaultMatchThresholdMeters
	}
	stride := opts.SampleStride
	if stride <= 0 {
		stride = tripmapper.DefaultSampleStride
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}

	rides, err := loadRides(opts, log)
	if err != nil {
		return nil, err
	}
	log.Info().Int("rides", len(rides)).Msg("rides loaded")

	photos := loadPhotos(opts.PhotoDirs, log)
	log.Info().Int("photos", len(photos)).Msg("photos scanned")

	assignments, matched := tripmapper.AssignPhotos(photos, rides, threshold)
	for i := range rides {
		if list, ok := matched[rides[i].ID]; ok {
			rides[i].Photos = append(rides[i].Photos, list...)
			log.Info().Str("ride", rides[i].Name).Int("photos", len(list)).Msg("photos matched")
		}
	}

	for i := range rides {
		before := len(rides[i].Route)
		tripmapper.DownsampleRide(&rides[i], stride)
		log.Debug().Str("ride", rides[i].ID).
			Int("before", before).Int("after", len(rides[i].Route)).
			Msg("route downsampled")
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	ridesPath := filepath.Join(opts.OutDir, "rides.json")
	if err := writeJSON(ridesPath, ridesFile{Rides: rides}); err != nil {
		return nil, fmt.Errorf("write rides.json: %w", err)
	}

	assignmentsPath := filepath.Join(opts.OutDir, "photo_assignments."+format)
	switch format {
	case "csv":
		err = writeAssignmentsCSV(assignmentsPath, assignments)
	case "parquet":
		err = writeAssignmentsParquet(assignmentsPath, assignments)
	}
	if err != nil {
		return nil, fmt.Errorf("write assignment table: %w", err)
	}

	result := &Result{
		OutputDir:       opts.OutDir,
		RidesPath:       ridesPath,
		AssignmentsPath: assignmentsPath,
		RideCount:       len(rides),
		PhotoCount:      len(photos),
	}
	for _, a := range assignments {
		if a.Outcome == tripmapper.OutcomeMatched {
			result.MatchedCount++
		} else {
			result.UnmatchedCount++
		}
	}

	if opts.CopyPhotos {
		result.PhotosDir = filepath.Join(opts.OutDir, "photos")
		copied, err := publishPhotos(result.PhotosDir, rides, opts.PhotoDirs, log)
		if err != nil {
			return nil, err
		}
		result.CopiedPhotos = copied
	}

	log.Info().Int("matched", result.MatchedCount).
		Int("unmatched", result.UnmatchedCount).
		Msg("pipeline complete")
	return result, nil
}

func loadRides(opts Options, log zerolog.Logger) ([]tripmapper.Ride, error) {
	if opts.Mock {
		count := opts.MockRides
		if count <= 0 {
			count = 6
		}
		log.Info().Int("count", count).Int64("seed", opts.Seed).Msg("generating mock rides")
		return mockride.Generate(count, opts.Seed), nil
	}
	if strings.TrimSpace(opts.FitDir) == "" {
		return nil, fmt.Errorf("fit directory is required unless mock mode is enabled")
	}
	return fitingest.ParseDir(opts.FitDir, log)
}

func loadPhotos(dirs []string, log zerolog.Logger) []tripmapper.Photo {
	photos := make([]tripmapper.Photo, 0)
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			log.Warn().Str("dir", dir).Msg("photo directory not found, skipping")
			continue
		}
		batch, err := exifscan.ScanDir(dir, log)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("photo directory unreadable, skipping")
			continue
		}
		photos = append(photos, batch...)
	}
	return photos
}

// publishPhotos copies every matched photo into destDir, keyed by filename.
// Existing destination files are left alone; missing sources are warned about
// and skipped.
func publishPhotos(destDir string, rides []tripmapper.Ride, photoDirs []string, log zerolog.Logger) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create photos directory: %w", err)
	}

	copied := 0
	for _, ride := range rides {
		for _, photo := range ride.Photos {
			src := findPhotoSource(photoDirs, photo.Filename)
			if src == "" {
				log.Warn().Str("file", photo.Filename).Msg("matched photo source not found")
				continue
			}
			dst := filepath.Join(destDir, photo.Filename)
			if _, err := os.Stat(dst); err == nil {
				continue
			}
			if err := copyFile(src, dst); err != nil {
				return copied, fmt.Errorf("copy photo %s: %w", photo.Filename, err)
			}
			copied++
		}
	}
	return copied, nil
}

func findPhotoSource(dirs []string, filename string) string {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
