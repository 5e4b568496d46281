package tripmapper

// DefaultSampleStride keeps every tenth route point when downsampling.
const DefaultSampleStride = 10

// DownsampleRoute reduces route to a bounded subsequence, preserving order.
// A point at index i survives when i is the first or last index, a multiple of
// stride, or present in keep. The returned map translates original indices of
// retained points to their position in the reduced route.
func DownsampleRoute(route []RoutePoint, keep map[int]struct{}, stride int) ([]RoutePoint, map[int]int) {
	if stride <= 0 {
		stride = DefaultSampleStride
	}
	if len(route) == 0 {
		return nil, map[int]int{}
	}

	sampled := make([]RoutePoint, 0, len(route)/stride+len(keep)+2)
	oldToNew := make(map[int]int, len(route)/stride+len(keep)+2)

	for i, p := range route {
		_, referenced := keep[i]
		if i != 0 && i != len(route)-1 && i%stride != 0 && !referenced {
			continue
		}
		oldToNew[i] = len(sampled)
		sampled = append(sampled, p)
	}
	return sampled, oldToNew
}

// DownsampleRide replaces the ride's route with its downsampled form and
// rewrites every matched photo's RouteIndex through the old-to-new mapping.
// The retention rule keeps every photo-referenced point, so the remap can
// never dangle.
func DownsampleRide(ride *Ride, stride int) {
	keep := make(map[int]struct{}, len(ride.Photos))
	for _, photo := range ride.Photos {
		keep[photo.RouteIndex] = struct{}{}
	}

	sampled, oldToNew := DownsampleRoute(ride.Route, keep, stride)
	for i := range ride.Photos {
		ride.Photos[i].RouteIndex = oldToNew[ride.Photos[i].RouteIndex]
	}
	ride.Route = sampled
}
