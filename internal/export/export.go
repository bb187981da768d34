// Package export serializes extracted records.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/paulmach/orb/geojson"
)

// WriteCSV writes a header and rows with standard CSV quoting.
// Rows end with "\n" unless crlf is set.
func WriteCSV(w io.Writer, header []string, rows [][]string, crlf bool) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = crlf

	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	return cw.Error()
}

// WriteGeoJSON writes a feature collection followed by a newline.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	return json.NewEncoder(w).Encode(fc)
}
