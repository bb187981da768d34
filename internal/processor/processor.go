package processor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/woozymasta/geo2csv/internal/config"
	"github.com/woozymasta/geo2csv/internal/export"
	"github.com/woozymasta/geo2csv/internal/geo"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Result summarizes one export run.
type Result struct {
	Total   int
	Matched int
	Written bool
}

// Run loads job.Input, extracts matching records and saves them to
// job.Output. Progress messages are written to out. No output file is
// created when nothing matches.
func Run(job config.Export, out io.Writer) (Result, error) {
	var res Result

	fmt.Fprintf(out, "Lecture de %s...\n", job.Input)

	fc, err := geo.LoadFeatureCollection(job.Input)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", job.Input, err)
	}

	res.Total = len(fc.Features)
	fmt.Fprintf(out, "Nombre total d'entrées trouvées : %d\n", res.Total)

	records := Extract(fc, job)
	res.Matched = len(records)
	fmt.Fprintf(out, "Nombre de médecins généralistes trouvés : %d\n", res.Matched)

	log.Debug().
		Str("export", job.Name).
		Str("category", job.Category).
		Int("features", res.Total).
		Int("matched", res.Matched).
		Msg("Features filtered")

	if len(records) == 0 {
		fmt.Fprintln(out, "Aucun médecin généraliste trouvé. Vérifiez l'orthographe de la catégorie.")
		return res, nil
	}

	data, err := encode(job, records)
	if err != nil {
		return res, fmt.Errorf("encode %s: %w", job.Format, err)
	}

	if err := saveFile(job.Output, data); err != nil {
		return res, fmt.Errorf("write %s: %w", job.Output, err)
	}
	res.Written = true

	fmt.Fprintf(out, "Succès ! Le fichier '%s' a été créé avec les colonnes X (Lon) et Y (Lat).\n", job.Output)

	log.Info().
		Str("export", job.Name).
		Str("output", job.Output).
		Str("format", job.Format).
		Int("records", res.Matched).
		Msg("Export written")

	return res, nil
}

// encode serializes records in the job format.
func encode(job config.Export, records []Record) ([]byte, error) {
	var buf bytes.Buffer

	switch job.Format {
	case config.FormatGeoJSON:
		if err := export.WriteGeoJSON(&buf, toFeatureCollection(job, records)); err != nil {
			return nil, err
		}
	case config.FormatCSV, "":
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, r.Row())
		}
		if err := export.WriteCSV(&buf, Header, rows, job.CRLF); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, job.Format)
	}

	return buf.Bytes(), nil
}

// toFeatureCollection builds point features for records with numeric
// coordinates. Records without a position are skipped.
func toFeatureCollection(job config.Export, records []Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	skipped := 0

	for _, r := range records {
		point, err := r.Coordinates().Point()
		if err != nil {
			skipped++
			continue
		}

		f := geojson.NewFeature(point)
		f.Properties["Nom"] = r.Nom
		f.Properties["Commune"] = r.Commune
		fc.Append(f)
	}

	if skipped > 0 {
		log.Warn().
			Str("export", job.Name).
			Int("skipped", skipped).
			Msg("Records without numeric coordinates left out of GeoJSON")
	}

	return fc
}

// saveFile writes data to a temporary file next to path and renames it
// into place, so path is either complete or untouched.
func saveFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Remove the temporary file on any failure below
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	committed = true
	return nil
}
