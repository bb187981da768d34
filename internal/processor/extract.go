// Package processor extracts one category of point features and saves them
// as a flat table.
package processor

import (
	"github.com/woozymasta/geo2csv/internal/config"
	"github.com/woozymasta/geo2csv/internal/geo"

	"github.com/rs/zerolog/log"
)

// Header is the column order of the CSV output.
var Header = []string{"Nom", "Commune", "X", "Y"}

// Record is one extracted feature. X is the longitude and Y the latitude,
// both empty when the source coordinates could not be parsed.
type Record struct {
	Nom     string
	Commune string
	X       string
	Y       string
}

// Row returns the record in Header order.
func (r Record) Row() []string {
	return []string{r.Nom, r.Commune, r.X, r.Y}
}

// Coordinates returns the record position in lat/lon order.
func (r Record) Coordinates() geo.LatLon {
	return geo.LatLon{Lat: r.Y, Lon: r.X}
}

// Extract returns the features whose category property equals
// job.Category exactly, in source order.
func Extract(fc *geo.GeoJSONFeatureCollection, job config.Export) []Record {
	records := make([]Record, 0)

	for i, feature := range fc.Features {
		props := feature.Properties

		category, _ := props.Text(job.Fields.Category)
		if category != job.Category {
			continue
		}

		rec := Record{
			Nom:     props.String(job.Fields.Name),
			Commune: props.String(job.Fields.Commune),
		}

		// Source order is "lat, lon", output keeps X=lon and Y=lat
		raw, _ := props.Text(job.Fields.Coordinates)
		if coords, err := geo.ParseLatLon(raw); err == nil {
			rec.X, rec.Y = coords.XY()
		} else {
			log.Trace().
				Err(err).
				Int("feature", i).
				Str("coordinates", raw).
				Msg("Coordinates left empty")
		}

		records = append(records, rec)
	}

	return records
}
