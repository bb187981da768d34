package main

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/geo2csv/internal/config"
	"github.com/woozymasta/geo2csv/internal/logger"
	"github.com/woozymasta/geo2csv/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"   env:"GEO2CSV_CONFIG"   description:"Path to configuration file with a list of exports"`
	Input      string   `short:"i" long:"in"       env:"GEO2CSV_INPUT"    description:"Input GeoJSON file" default:"public/sante.geojson"`
	Output     string   `short:"o" long:"out"      env:"GEO2CSV_OUTPUT"   description:"Output file" default:"generaliste.csv"`
	Category   string   `short:"C" long:"category" env:"GEO2CSV_CATEGORY" description:"Category value to extract" default:"Médecin généraliste"`
	Format     string   `short:"f" long:"format"   env:"GEO2CSV_FORMAT"   description:"Output format" choice:"csv" choice:"geojson" default:"csv"`
	Limit      []string `short:"l" long:"limit"    env:"GEO2CSV_LIMIT"    description:"Limit processing to specific export names" env-delim:","`
	CRLF       bool     `long:"crlf"               env:"GEO2CSV_CRLF"     description:"Terminate CSV rows with CRLF"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	os.Exit(run(opts, os.Stdout))
}

// run executes every selected export, reporting to stdout. A failed export
// is reported and does not stop the others.
func run(opts Options, stdout io.Writer) int {
	exports, err := resolveExports(opts)
	if err != nil {
		fmt.Fprintf(stdout, "Une erreur est survenue : %v\n", err)
		log.Error().Err(err).Str("config", opts.ConfigFile).Msg("Failed to load configuration")
		return 1
	}

	log.Debug().
		Int("exports_queued", len(exports)).
		Msg("Starting extraction")

	for _, job := range exports {
		res, err := processor.Run(job, stdout)
		if err != nil {
			fmt.Fprintf(stdout, "Une erreur est survenue : %v\n", err)
			log.Error().Err(err).Str("export", job.Name).Msg("Export failed")
			continue
		}

		log.Debug().
			Str("export", job.Name).
			Int("total", res.Total).
			Int("matched", res.Matched).
			Bool("written", res.Written).
			Msg("Export finished")
	}

	return 0
}

// resolveExports returns the single flag-defined export, or the exports of
// the config file with flag values as defaults.
func resolveExports(opts Options) ([]config.Export, error) {
	base := config.Default()
	base.Input = opts.Input
	base.Output = opts.Output
	base.Category = opts.Category
	base.Format = opts.Format
	base.CRLF = opts.CRLF
	base = base.Merge(config.Default())

	if opts.ConfigFile == "" {
		if err := base.Validate(); err != nil {
			return nil, err
		}
		return []config.Export{base}, nil
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyDefaults(base); err != nil {
		return nil, err
	}

	selected, missing := cfg.Select(opts.Limit)
	for _, name := range missing {
		log.Error().
			Str("name", name).
			Msg("Export specified in --limit not found in configuration")
	}

	return selected, nil
}
