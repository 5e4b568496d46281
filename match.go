package tripmapper

import "math"

// DefaultMatchThresholdMeters is the maximum distance between a photo and its
// nearest route point for the photo to be considered part of the ride.
const DefaultMatchThresholdMeters = 1000.0

// NoIndex is the sentinel route index returned when no point matched.
const NoIndex = -1

// MatchOutcome classifies a photo assignment. The non-matched values double as
// the literal tokens written to the assignment table.
type MatchOutcome string

const (
	OutcomeMatched MatchOutcome = "MATCHED"
	OutcomeNoGPS   MatchOutcome = "NO_GPS"
	OutcomeNoMatch MatchOutcome = "NO_MATCH"
	OutcomeTooFar  MatchOutcome = "TOO_FAR"
)

// Assignment records the result of matching one photo against all rides.
// RideID names the globally closest ride; it is populated for TOO_FAR as well
// as MATCHED so that rejected near-misses stay inspectable. DistanceMeters is
// +Inf when no finite distance was found.
type Assignment struct {
	Photo          Photo
	Outcome        MatchOutcome
	RideID         string
	RideName       string
	RideDate       string
	RideStart      string
	RideEnd        string
	RouteIndex     int
	DistanceMeters float64
}

// NearestRoutePoint returns the index of the route point closest to loc and
// the distance to it in meters. Points without usable coordinates are skipped.
// Ties keep the first point encountered (strict < comparison). Returns
// (NoIndex, +Inf) when the route is empty or holds no valid points.
func NearestRoutePoint(loc Coordinate, route []RoutePoint) (int, float64) {
	bestIndex := NoIndex
	bestDistance := math.Inf(1)

	for i, p := range route {
		if !p.HasPosition() {
			continue
		}
		d := HaversineDistance(loc, Coordinate{Lat: p.Lat, Lon: p.Lon})
		if d < bestDistance {
			bestDistance = d
			bestIndex = i
		}
	}
	return bestIndex, bestDistance
}

// AssignPhoto matches one photo against every ride's full route and classifies
// the outcome. The search is a deliberate linear scan over all rides and
// points; at the working scale (dozens of rides, thousands of points) this
// beats maintaining a spatial index.
func AssignPhoto(photo Photo, rides []Ride, thresholdMeters float64) Assignment {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultMatchThresholdMeters
	}

	a := Assignment{
		Photo:          photo,
		RouteIndex:     NoIndex,
		DistanceMeters: math.Inf(1),
	}
	if photo.Location == nil {
		a.Outcome = OutcomeNoGPS
		return a
	}

	bestRide := -1
	for ri := range rides {
		idx, dist := NearestRoutePoint(*photo.Location, rides[ri].Route)
		if idx == NoIndex {
			continue
		}
		if dist < a.DistanceMeters {
			a.DistanceMeters = dist
			a.RouteIndex = idx
			bestRide = ri
		}
	}

	if bestRide < 0 {
		a.Outcome = OutcomeNoMatch
		return a
	}

	r := rides[bestRide]
	a.RideID = r.ID
	a.RideName = r.Name
	a.RideDate = r.Date
	if len(r.Route) > 0 {
		a.RideStart = r.Route[0].Time.UTC().Format(timeLayout)
		a.RideEnd = r.Route[len(r.Route)-1].Time.UTC().Format(timeLayout)
	}

	if a.DistanceMeters >= thresholdMeters {
		a.Outcome = OutcomeTooFar
		a.RouteIndex = NoIndex
		return a
	}
	a.Outcome = OutcomeMatched
	return a
}

// AssignPhotos runs the winner-take-all assignment pass over every photo.
// It returns one Assignment per photo in input order, plus the matched photos
// grouped by ride ID, ready to merge into the ride records. Rides are never
// mutated here; the caller owns the merge.
func AssignPhotos(photos []Photo, rides []Ride, thresholdMeters float64) ([]Assignment, map[string][]MatchedPhoto) {
	assignments := make([]Assignment, 0, len(photos))
	matched := make(map[string][]MatchedPhoto)

	rideByID := make(map[string]*Ride, len(rides))
	for i := range rides {
		rideByID[rides[i].ID] = &rides[i]
	}

	for _, photo := range photos {
		a := AssignPhoto(photo, rides, thresholdMeters)
		assignments = append(assignments, a)
		if a.Outcome != OutcomeMatched {
			continue
		}
		ride := rideByID[a.RideID]
		matched[a.RideID] = append(matched[a.RideID], MatchedPhoto{
			Photo:      photo,
			RouteIndex: a.RouteIndex,
			Stats:      StatsAt(ride.Route, a.RouteIndex),
		})
	}
	return assignments, matched
}

// StatsAt reads the ride telemetry at one route point. Out-of-range indices
// yield zero stats rather than panicking; they can only arise from a caller
// mixing pre- and post-downsampling indices.
func StatsAt(route []RoutePoint, index int) PointStats {
	if index < 0 || index >= len(route) {
		return PointStats{}
	}
	p := route[index]
	return PointStats{
		HR:        p.HeartRate,
		Power:     p.Power,
		Speed:     p.Speed,
		Elevation: p.Elevation,
		Distance:  p.Distance,
	}
}
