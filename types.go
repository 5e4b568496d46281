// Package tripmapper correlates geotagged photos with cycling ride routes and
// prepares size-bounded route representations for visualization.
package tripmapper

import "time"

// timeLayout is the wire format for all timestamps in published artifacts.
const timeLayout = time.RFC3339

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoutePoint is one sample along a ride's route. HeartRate and Power are nil
// when the recording device did not report them; the remaining numeric fields
// default to zero.
type RoutePoint struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Elevation float64   `json:"ele"`
	Time      time.Time `json:"time"`
	HeartRate *float64  `json:"hr"`
	Power     *float64  `json:"power"`
	Speed     float64   `json:"speed"`    // km/h
	Distance  float64   `json:"distance"` // cumulative km, non-decreasing
	Gradient  float64   `json:"gradient"` // percent
}

// HasPosition reports whether the point carries usable coordinates. Zero
// lat/lon is treated as missing, matching how upstream sources encode absent
// GPS fixes.
func (p RoutePoint) HasPosition() bool {
	return validCoordinate(Coordinate{Lat: p.Lat, Lon: p.Lon})
}

// Photo is a scanned photo prior to assignment. Location is nil when the file
// carried no GPS EXIF tags; Timestamp is an RFC3339 UTC string or empty.
type Photo struct {
	Filename  string      `json:"filename"`
	Timestamp string      `json:"timestamp"`
	Location  *Coordinate `json:"location"`
}

// PointStats is the ride telemetry at a matched route point. This is a direct
// lookup of the point's fields, not an interpolation between neighbors.
type PointStats struct {
	HR        *float64 `json:"hr"`
	Power     *float64 `json:"power"`
	Speed     float64  `json:"speed"`
	Elevation float64  `json:"elevation"`
	Distance  float64  `json:"distance"`
}

// MatchedPhoto is a photo bound to a position on a ride's route. RouteIndex
// references the ride's route as currently published; after downsampling it is
// rewritten to reference the same physical point in the shortened route.
type MatchedPhoto struct {
	Photo
	RouteIndex int        `json:"routeIndex"`
	Stats      PointStats `json:"stats"`
}

// Summary aggregates a ride's route. AvgHr and AvgPower are nil rather than
// zero when no sample carried the field, so "no data" stays distinguishable
// from a true zero average.
type Summary struct {
	Distance      float64  `json:"distance"`      // km
	ElevationGain float64  `json:"elevationGain"` // m
	Duration      float64  `json:"duration"`      // seconds
	AvgSpeed      float64  `json:"avgSpeed"`      // km/h
	AvgHr         *float64 `json:"avgHr"`
	AvgPower      *float64 `json:"avgPower"`
	MaxElevation  float64  `json:"maxElevation"` // m
}

// Ride owns its route and the photos matched to it.
type Ride struct {
	ID      string         `json:"id"`
	Date    string         `json:"date"`
	Name    string         `json:"name"`
	Route   []RoutePoint   `json:"route"`
	Photos  []MatchedPhoto `json:"photos"`
	Summary Summary        `json:"summary"`
}
