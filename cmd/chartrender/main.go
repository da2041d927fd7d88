// Command chartrender renders one chart spec against a local table without the HTTP
// server or the LLM, e.g. to replay a reply captured from the interpreter.
//
//	chartrender -data stock.csv -spec reply.json -out chart.png
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inventory-chart-backend/internal/charterr"
	"inventory-chart-backend/internal/dataset"
	"inventory-chart-backend/internal/parser"
	"inventory-chart-backend/internal/render"
)

func main() {
	dataPath := flag.String("data", "", "CSV, TSV or XLSX file")
	specPath := flag.String("spec", "-", "file holding the chart spec text, - for stdin")
	outPath := flag.String("out", "chart.png", "PNG output path")
	width := flag.Float64("width", 10, "figure width in inches")
	height := flag.Float64("height", 6, "figure height in inches")
	printFigure := flag.Bool("figure", false, "print the figure as JSON on stdout")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *dataPath == "" {
		log.Fatal().Msg("-data is required")
	}

	file, err := os.Open(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *dataPath).Msg("Error opening data file")
	}
	defer file.Close()

	ds, err := dataset.Load(filepath.Base(*dataPath), file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *dataPath).Msg("Error loading dataset")
	}

	raw, err := readSpec(*specPath)
	if err != nil {
		log.Fatal().Err(err).Str("spec", *specPath).Msg("Error reading spec")
	}

	spec, err := parser.NewSpecParser().Parse(raw)
	if err != nil {
		fatalClassified(err, "Spec rejected")
	}
	fig, err := render.NewRenderer().Render(ds, *spec)
	if err != nil {
		fatalClassified(err, "Chart cannot be rendered")
	}

	img, err := render.NewPNGEncoder(*width, *height).EncodePNG(fig)
	if err != nil {
		log.Fatal().Err(err).Msg("Error drawing chart")
	}
	if err := os.WriteFile(*outPath, img, 0o644); err != nil {
		log.Fatal().Err(err).Str("out", *outPath).Msg("Error writing chart")
	}

	if *printFigure {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fig); err != nil {
			log.Fatal().Err(err).Msg("Error encoding figure")
		}
	}
	log.Info().
		Str("chart_type", string(fig.ChartType)).
		Bool("no_data", fig.NoData).
		Str("out", *outPath).
		Msg("Chart written")
}

func readSpec(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func fatalClassified(err error, msg string) {
	kind, _ := charterr.KindOf(err)
	log.Fatal().Err(err).Str("error_kind", string(kind)).Msg(msg)
}
