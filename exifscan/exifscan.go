// Package exifscan reads photo timestamps and GPS positions from EXIF
// metadata.
package exifscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/cycleviz/tripmapper"
)

var photoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
}

// ExtractFile reads one photo's metadata. Missing or unparseable EXIF is not
// an error: the photo is still returned, just without timestamp or location,
// so it can be routed to the NO_GPS outcome downstream.
func ExtractFile(path string) (tripmapper.Photo, error) {
	photo := tripmapper.Photo{Filename: filepath.Base(path)}

	f, err := os.Open(path)
	if err != nil {
		return photo, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return photo, nil
	}

	if taken, err := x.DateTime(); err == nil {
		// EXIF datetimes carry no zone; the capture devices here record UTC.
		utc := time.Date(taken.Year(), taken.Month(), taken.Day(),
			taken.Hour(), taken.Minute(), taken.Second(), 0, time.UTC)
		photo.Timestamp = utc.Format(time.RFC3339)
	}

	if lat, lon, err := x.LatLong(); err == nil {
		photo.Location = &tripmapper.Coordinate{Lat: lat, Lon: lon}
	}
	return photo, nil
}

// ScanDir extracts metadata from every photo file in dir, skipping unreadable
// files with a log line. Results are sorted by timestamp, photos without one
// first.
func ScanDir(dir string, log zerolog.Logger) ([]tripmapper.Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read photo directory: %w", err)
	}

	photos := make([]tripmapper.Photo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := photoExtensions[ext]; !ok {
			continue
		}
		photo, err := ExtractFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable photo")
			continue
		}
		photos = append(photos, photo)
	}

	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Timestamp < photos[j].Timestamp
	})
	return photos, nil
}
