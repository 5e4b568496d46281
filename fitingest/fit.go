// Package fitingest decodes Garmin FIT activity files into rides.
package fitingest

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tormoder/fit"

	"github.com/cycleviz/tripmapper"
)

const (
	mpsToKmh = 3.6
	mToKm    = 1.0 / 1000.0
)

// ParseFile decodes one FIT activity file into a ride. Records without a
// valid GPS fix are dropped; the returned ride carries a summary computed from
// the full route. ID, date and name are left for the caller to derive.
func ParseFile(path string) (*tripmapper.Ride, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}

	records := append([]*fit.RecordMsg(nil), activity.Records...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	route := make([]tripmapper.RoutePoint, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		lat := rec.PositionLat.Degrees()
		lon := rec.PositionLong.Degrees()
		if math.IsNaN(lat) || math.IsNaN(lon) || (lat == 0 && lon == 0) {
			continue
		}

		point := tripmapper.RoutePoint{
			Lat:       lat,
			Lon:       lon,
			Time:      validTimeOrZero(rec.Timestamp),
			Elevation: extractAltitude(rec),
			Speed:     extractSpeed(rec) * mpsToKmh,
			Distance:  safePositive(rec.GetDistanceScaled()) * mToKm,
		}
		if hr, ok := extractHeartRate(rec); ok {
			point.HeartRate = &hr
		}
		if power, ok := extractPower(rec); ok {
			point.Power = &power
		}
		route = append(route, point)
	}

	fillGradients(route)

	return &tripmapper.Ride{
		Route:   route,
		Photos:  []tripmapper.MatchedPhoto{},
		Summary: tripmapper.Summarize(route),
	}, nil
}

// ParseDir decodes every *.fit file under dir. Corrupt files and files without
// route data are logged and skipped. Rides come back sorted by start time with
// id/date derived from the filename and names numbered in ride order.
func ParseDir(dir string, log zerolog.Logger) ([]tripmapper.Ride, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read FIT directory: %w", err)
	}

	rides := make([]tripmapper.Ride, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".fit") {
			continue
		}
		ride, err := ParseFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("skipping unreadable FIT file")
			continue
		}
		if len(ride.Route) == 0 {
			log.Warn().Str("file", name).Msg("skipping FIT file without route data")
			continue
		}
		ride.ID = rideIDFromFilename(name)
		ride.Date = rideDateFromFilename(name)
		rides = append(rides, *ride)
		log.Info().Str("file", name).Int("points", len(ride.Route)).
			Float64("km", ride.Summary.Distance).Msg("loaded ride")
	}

	sort.SliceStable(rides, func(i, j int) bool {
		return startTime(rides[i]).Before(startTime(rides[j]))
	})
	for i := range rides {
		rides[i].Name = fmt.Sprintf("Ride %d: %s", i+1, rides[i].Date)
	}
	return rides, nil
}

// rideIDFromFilename strips the extension: 2022-05-14T08-00-00Z-123.fit
// becomes 2022-05-14T08-00-00Z-123.
func rideIDFromFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// rideDateFromFilename takes the date prefix before the first 'T'.
func rideDateFromFilename(name string) string {
	base := rideIDFromFilename(name)
	if idx := strings.Index(base, "T"); idx > 0 {
		return base[:idx]
	}
	return base
}

func startTime(ride tripmapper.Ride) time.Time {
	if len(ride.Route) == 0 {
		return time.Time{}
	}
	return ride.Route[0].Time
}

// fillGradients computes per-point grade from elevation and cumulative
// distance deltas. The first point and points with no forward progress get 0.
func fillGradients(route []tripmapper.RoutePoint) {
	for i := 1; i < len(route); i++ {
		eleDiff := route[i].Elevation - route[i-1].Elevation
		distDiff := (route[i].Distance - route[i-1].Distance) / mToKm
		if distDiff > 0 {
			route[i].Gradient = eleDiff / distDiff * 100
		}
	}
}

func extractAltitude(rec *fit.RecordMsg) float64 {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	return 0
}

func extractSpeed(rec *fit.RecordMsg) float64 {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	return 0
}

func extractHeartRate(rec *fit.RecordMsg) (float64, bool) {
	if rec.HeartRate == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.HeartRate), true
}

func extractPower(rec *fit.RecordMsg) (float64, bool) {
	if rec.Power == math.MaxUint16 {
		return 0, false
	}
	return float64(rec.Power), true
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func safePositive(v float64) float64 {
	if !isFinite(v) || v <= 0 {
		return 0
	}
	return v
}
