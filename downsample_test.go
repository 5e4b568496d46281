package tripmapper

import (
	"reflect"
	"testing"
)

func indexedRoute(n int) []RoutePoint {
	route := make([]RoutePoint, n)
	for i := range route {
		// Distance doubles as the point's identity for remap checks.
		route[i] = RoutePoint{Lat: 48.1, Lon: -123.4, Distance: float64(i)}
	}
	return route
}

func TestDownsampleRetentionScenario(t *testing.T) {
	// 25 points, photo at index 7: expect {0,7,10,20,24} in order, photo
	// remapped to new index 1.
	route := indexedRoute(25)
	keep := map[int]struct{}{7: {}}

	sampled, oldToNew := DownsampleRoute(route, keep, DefaultSampleStride)
	wantOld := []int{0, 7, 10, 20, 24}
	if len(sampled) != len(wantOld) {
		t.Fatalf("sampled length = %d, want %d", len(sampled), len(wantOld))
	}
	for newIdx, oldIdx := range wantOld {
		if sampled[newIdx].Distance != float64(oldIdx) {
			t.Fatalf("sampled[%d] came from index %.0f, want %d", newIdx, sampled[newIdx].Distance, oldIdx)
		}
		if got := oldToNew[oldIdx]; got != newIdx {
			t.Fatalf("oldToNew[%d] = %d, want %d", oldIdx, got, newIdx)
		}
	}
	if oldToNew[7] != 1 {
		t.Fatalf("photo index remap = %d, want 1", oldToNew[7])
	}
}

func TestDownsampleRetainsMandatoryIndices(t *testing.T) {
	for _, n := range []int{1, 2, 10, 11, 99} {
		route := indexedRoute(n)
		sampled, oldToNew := DownsampleRoute(route, nil, DefaultSampleStride)

		if len(sampled) > n {
			t.Fatalf("n=%d: sampled %d points, more than input", n, len(sampled))
		}
		if _, ok := oldToNew[0]; !ok {
			t.Fatalf("n=%d: first point dropped", n)
		}
		if _, ok := oldToNew[n-1]; !ok {
			t.Fatalf("n=%d: last point dropped", n)
		}
		for i := 0; i < n; i += DefaultSampleStride {
			if _, ok := oldToNew[i]; !ok {
				t.Fatalf("n=%d: stride index %d dropped", n, i)
			}
		}
	}
}

func TestDownsampleEmptyRoute(t *testing.T) {
	sampled, oldToNew := DownsampleRoute(nil, nil, DefaultSampleStride)
	if len(sampled) != 0 || len(oldToNew) != 0 {
		t.Fatalf("empty route produced %d points, %d mappings", len(sampled), len(oldToNew))
	}
}

func TestDownsampleRidePreservesPhotoPoints(t *testing.T) {
	route := indexedRoute(47)
	ride := Ride{
		ID:    "r1",
		Route: route,
		Photos: []MatchedPhoto{
			{Photo: Photo{Filename: "a.jpg"}, RouteIndex: 7, Stats: StatsAt(route, 7)},
			{Photo: Photo{Filename: "b.jpg"}, RouteIndex: 33, Stats: StatsAt(route, 33)},
			{Photo: Photo{Filename: "c.jpg"}, RouteIndex: 40, Stats: StatsAt(route, 40)},
		},
	}
	original := append([]RoutePoint(nil), route...)

	DownsampleRide(&ride, DefaultSampleStride)

	for i, photo := range ride.Photos {
		if photo.RouteIndex < 0 || photo.RouteIndex >= len(ride.Route) {
			t.Fatalf("photo %d index %d out of range after downsampling", i, photo.RouteIndex)
		}
		oldIdx := []int{7, 33, 40}[i]
		if !reflect.DeepEqual(ride.Route[photo.RouteIndex], original[oldIdx]) {
			t.Fatalf("photo %d no longer references its original point", i)
		}
	}
}

func TestDownsampleCustomStride(t *testing.T) {
	route := indexedRoute(13)
	sampled, _ := DownsampleRoute(route, nil, 5)
	wantOld := []int{0, 5, 10, 12}
	if len(sampled) != len(wantOld) {
		t.Fatalf("stride 5 on 13 points: got %d, want %d", len(sampled), len(wantOld))
	}
	for i, oldIdx := range wantOld {
		if sampled[i].Distance != float64(oldIdx) {
			t.Fatalf("sampled[%d] from index %.0f, want %d", i, sampled[i].Distance, oldIdx)
		}
	}
}
