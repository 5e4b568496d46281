package pipeline

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/cycleviz/tripmapper"
)

var assignmentHeader = []string{
	"filename", "timestamp", "latitude", "longitude",
	"assigned_ride", "ride_date", "ride_start", "ride_end", "distance_meters",
}

// assignedRideValue is the ride's display name for a match, otherwise one of
// the literal outcome tokens.
func assignedRideValue(a tripmapper.Assignment) string {
	if a.Outcome == tripmapper.OutcomeMatched {
		return a.RideName
	}
	return string(a.Outcome)
}

func writeAssignmentsCSV(path string, assignments []tripmapper.Assignment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(assignmentHeader); err != nil {
		return err
	}
	for _, a := range assignments {
		if err := w.Write(assignmentCSVRow(a)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func assignmentCSVRow(a tripmapper.Assignment) []string {
	lat, lon := "", ""
	if a.Photo.Location != nil {
		lat = strconv.FormatFloat(a.Photo.Location.Lat, 'f', 6, 64)
		lon = strconv.FormatFloat(a.Photo.Location.Lon, 'f', 6, 64)
	}
	distance := ""
	if !math.IsInf(a.DistanceMeters, 1) {
		distance = strconv.FormatFloat(roundTenth(a.DistanceMeters), 'f', 1, 64)
	}
	rideDate, rideStart, rideEnd := "", "", ""
	if a.Outcome == tripmapper.OutcomeMatched {
		rideDate, rideStart, rideEnd = a.RideDate, a.RideStart, a.RideEnd
	}
	return []string{
		a.Photo.Filename,
		a.Photo.Timestamp,
		lat,
		lon,
		assignedRideValue(a),
		rideDate,
		rideStart,
		rideEnd,
		distance,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

type assignmentParquetRow struct {
	Filename       string  `parquet:"name=filename, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Timestamp      string  `parquet:"name=timestamp, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Latitude       float64 `parquet:"name=latitude, type=DOUBLE"`
	Longitude      float64 `parquet:"name=longitude, type=DOUBLE"`
	AssignedRide   string  `parquet:"name=assigned_ride, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RideDate       string  `parquet:"name=ride_date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RideStart      string  `parquet:"name=ride_start, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RideEnd        string  `parquet:"name=ride_end, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DistanceMeters float64 `parquet:"name=distance_meters, type=DOUBLE"`
}

func writeAssignmentsParquet(path string, assignments []tripmapper.Assignment) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(assignmentParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, a := range assignments {
		row := assignmentParquetRow{
			Filename:       a.Photo.Filename,
			Timestamp:      a.Photo.Timestamp,
			Latitude:       math.NaN(),
			Longitude:      math.NaN(),
			AssignedRide:   assignedRideValue(a),
			DistanceMeters: math.NaN(),
		}
		if a.Photo.Location != nil {
			row.Latitude = a.Photo.Location.Lat
			row.Longitude = a.Photo.Location.Lon
		}
		if !math.IsInf(a.DistanceMeters, 1) {
			row.DistanceMeters = roundTenth(a.DistanceMeters)
		}
		if a.Outcome == tripmapper.OutcomeMatched {
			row.RideDate = a.RideDate
			row.RideStart = a.RideStart
			row.RideEnd = a.RideEnd
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
