// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values of a single export, matching the sante.geojson layout.
const (
	DefaultInput    = "public/sante.geojson"
	DefaultOutput   = "generaliste.csv"
	DefaultCategory = "Médecin généraliste"
	DefaultFormat   = FormatCSV

	DefaultCategoryField    = "Categorie"
	DefaultCoordinatesField = "Coordonnées"
	DefaultNameField        = "Nom"
	DefaultCommuneField     = "Commune"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

var (
	// ErrNoExports is returned for a config file without exports.
	ErrNoExports = errors.New("no exports defined")
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrDuplicateExport is returned when two exports share a name.
	ErrDuplicateExport = errors.New("duplicate export name")
)

// Config represents the root configuration file structure.
type Config struct {
	Defaults Export   `yaml:"defaults,omitempty"`
	Exports  []Export `yaml:"exports"`
}

// Export represents a single extraction job.
type Export struct {
	Fields   Fields `yaml:"fields,omitempty"`
	Name     string `yaml:"name"`
	Input    string `yaml:"input,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Category string `yaml:"category,omitempty"`
	Format   string `yaml:"format,omitempty"`
	CRLF     bool   `yaml:"crlf,omitempty"`
}

// Fields names the feature properties an export reads.
type Fields struct {
	Category    string `yaml:"category,omitempty"`
	Coordinates string `yaml:"coordinates,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Commune     string `yaml:"commune,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Exports) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoExports)
	}

	return &cfg, nil
}

// ApplyDefaults fills empty export fields, first from the config defaults
// section and then from base. Unnamed exports are named export-N, and every
// name must be unique.
func (c *Config) ApplyDefaults(base Export) error {
	defaults := c.Defaults.Merge(base)
	seen := make(map[string]bool, len(c.Exports))

	for i := range c.Exports {
		e := &c.Exports[i]
		*e = e.Merge(defaults)

		if e.Name == "" {
			e.Name = fmt.Sprintf("export-%d", i+1)
		}
		if seen[e.Name] {
			return fmt.Errorf("export %q: %w", e.Name, ErrDuplicateExport)
		}
		seen[e.Name] = true

		if err := e.Validate(); err != nil {
			return fmt.Errorf("export %q: %w", e.Name, err)
		}
	}

	return nil
}

// Select returns exports matching names, in the given order and without
// duplicates. Names not found are returned separately. An empty names
// list selects every export.
func (c *Config) Select(names []string) (selected []Export, missing []string) {
	if len(names) == 0 {
		return c.Exports, nil
	}

	available := make(map[string]Export, len(c.Exports))
	for _, e := range c.Exports {
		available[e.Name] = e
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if e, ok := available[name]; ok {
			selected = append(selected, e)
		} else {
			missing = append(missing, name)
		}
	}

	return selected, missing
}

// Default returns the single export used when no config file is given.
func Default() Export {
	return Export{
		Name:     "default",
		Input:    DefaultInput,
		Output:   DefaultOutput,
		Category: DefaultCategory,
		Format:   DefaultFormat,
		Fields: Fields{
			Category:    DefaultCategoryField,
			Coordinates: DefaultCoordinatesField,
			Name:        DefaultNameField,
			Commune:     DefaultCommuneField,
		},
	}
}

// Merge returns e with empty fields taken from base. CRLF is enabled if
// either side enables it.
func (e Export) Merge(base Export) Export {
	e.Input = orDefault(e.Input, base.Input)
	e.Output = orDefault(e.Output, base.Output)
	e.Category = orDefault(e.Category, base.Category)
	e.Format = orDefault(e.Format, base.Format)
	e.CRLF = e.CRLF || base.CRLF
	e.Fields.Category = orDefault(e.Fields.Category, base.Fields.Category)
	e.Fields.Coordinates = orDefault(e.Fields.Coordinates, base.Fields.Coordinates)
	e.Fields.Name = orDefault(e.Fields.Name, base.Fields.Name)
	e.Fields.Commune = orDefault(e.Fields.Commune, base.Fields.Commune)

	return e
}

// Validate checks that an export is complete.
func (e Export) Validate() error {
	switch {
	case e.Input == "":
		return errors.New("input path is empty")
	case e.Output == "":
		return errors.New("output path is empty")
	case e.Category == "":
		return errors.New("category is empty")
	}

	switch e.Format {
	case FormatCSV, FormatGeoJSON:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, e.Format)
	}

	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
