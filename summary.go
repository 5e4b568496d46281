package tripmapper

// Summarize aggregates a route into per-ride statistics. An empty route yields
// a zero summary with nil averages.
func Summarize(route []RoutePoint) Summary {
	if len(route) == 0 {
		return Summary{}
	}

	s := Summary{
		Distance:     route[len(route)-1].Distance,
		MaxElevation: route[0].Elevation,
	}

	for i := 1; i < len(route); i++ {
		if gain := route[i].Elevation - route[i-1].Elevation; gain > 0 {
			s.ElevationGain += gain
		}
	}

	first, last := route[0].Time, route[len(route)-1].Time
	if !first.IsZero() && !last.IsZero() && last.After(first) {
		s.Duration = last.Sub(first).Seconds()
	}

	speedSum, speedCount := 0.0, 0
	hrSum, hrCount := 0.0, 0
	powerSum, powerCount := 0.0, 0
	for _, p := range route {
		if p.Speed > 0 {
			speedSum += p.Speed
			speedCount++
		}
		if p.HeartRate != nil && *p.HeartRate > 0 {
			hrSum += *p.HeartRate
			hrCount++
		}
		if p.Power != nil && *p.Power > 0 {
			powerSum += *p.Power
			powerCount++
		}
		if p.Elevation > s.MaxElevation {
			s.MaxElevation = p.Elevation
		}
	}

	if speedCount > 0 {
		s.AvgSpeed = speedSum / float64(speedCount)
	}
	if hrCount > 0 {
		avg := hrSum / float64(hrCount)
		s.AvgHr = &avg
	}
	if powerCount > 0 {
		avg := powerSum / float64(powerCount)
		s.AvgPower = &avg
	}
	return s
}
