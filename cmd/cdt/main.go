package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/cdt"
	"github.com/osuushi/cdt/advanced"
	"github.com/osuushi/cdt/internal/config"
	"github.com/osuushi/cdt/internal/logger"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Triangulates polygons read from stdin. Every ring becomes a closed chain of
// constraints. Results can be written as WKT tables and rendered to a PNG.

var (
	app = kingpin.New("cdt", "Constrained Delaunay triangulation of rings read from stdin.")

	configPath     = app.Flag("config", "YAML configuration file.").Short('c').String()
	saveConfig     = app.Flag("save-config", "Write the effective configuration to this file and exit.").String()
	seed           = app.Flag("seed", "Random seed. 0 seeds from the clock.").Int64()
	predicatesName = app.Flag("predicates", "Geometric predicates.").Enum("fast", "adaptive", "exact")
	skipDuplicates = app.Flag("skip-duplicates", "Merge repeated points instead of failing.").Bool()
	wktDir         = app.Flag("wkt-dir", "Directory to write vertices, triangles and edges as WKT tables.").String()
	png            = app.Flag("png", "File to render the triangulation to.").String()
	scale          = app.Flag("scale", "Pixels per unit in the rendering.").Float64()
	interior       = app.Flag("interior", "Only count triangles enclosed by the rings.").Bool()
	logLevel       = app.Flag("log-level", "debug, info, warn or error.").Enum("debug", "info", "warn", "error")
	logFile        = app.Flag("log-file", "Also log to this file, with rotation.").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
		os.Exit(1)
	}
}

// Flags win over the configuration file.
func applyFlags(cfg *config.Config) {
	if *seed != 0 {
		cfg.Triangulation.Seed = *seed
	}
	if *predicatesName != "" {
		cfg.Triangulation.Predicates = *predicatesName
	}
	if *skipDuplicates {
		cfg.Triangulation.SkipDuplicates = true
	}
	if *wktDir != "" {
		cfg.Output.WKTDir = *wktDir
	}
	if *png != "" {
		cfg.Output.PNG = *png
	}
	if *scale > 0 {
		cfg.Output.Scale = *scale
	}
	if *interior {
		cfg.Output.Interior = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.LogFile = *logFile
	}
}

func run(in io.Reader, out io.Writer) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if *saveConfig != "" {
		return cfg.SaveTo(*saveConfig)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	rings, err := readRings(in)
	if err != nil {
		return err
	}
	input := advanced.NewPointsAndSegments()
	for _, ring := range rings {
		input.AddRing(ring)
	}
	log.Info("read input",
		zap.Int("rings", len(rings)),
		zap.Int("points", len(input.Points)),
		zap.Int("segments", len(input.Segments)),
	)

	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	tr, err := cdt.TriangulateWithOptions(input.Points, input.Segments, opts)
	if err != nil {
		return err
	}

	if cfg.Output.WKTDir != "" {
		if err := writeWKT(tr, cfg.Output.WKTDir); err != nil {
			return err
		}
		log.Info("wrote WKT tables", zap.String("dir", cfg.Output.WKTDir))
	}
	if cfg.Output.PNG != "" {
		if err := tr.DrawPNG(cfg.Output.PNG, cfg.Output.Scale); err != nil {
			return err
		}
		log.Info("rendered triangulation", zap.String("file", cfg.Output.PNG))
	}

	printSummary(out, tr, cfg.Output.Interior)
	return nil
}

func writeWKT(tr *cdt.Triangulation, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tables := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"vertices.wkt", tr.WriteVerticesWKT},
		{"triangles.wkt", tr.WriteTrianglesWKT},
		{"edges.wkt", func(w io.Writer) error { return tr.WriteEdgesWKT(w, false) }},
		{"constraints.wkt", func(w io.Writer) error { return tr.WriteEdgesWKT(w, true) }},
	}
	for _, table := range tables {
		f, err := os.Create(filepath.Join(dir, table.name))
		if err != nil {
			return err
		}
		err = table.write(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printSummary(out io.Writer, tr *cdt.Triangulation, interiorOnly bool) {
	triangles := tr.NumFiniteTriangles()
	label := "triangles"
	if interiorOnly {
		triangles = 0
		it := advanced.NewInteriorTriangleIterator(tr)
		for _, ok := it.Next(); ok; _, ok = it.Next() {
			triangles++
		}
		label = "interior triangles"
	}
	fmt.Fprintf(out, "%s %d vertices, %d %s, %d constrained edges, %d flips\n",
		aurora.Green("triangulated"),
		tr.NumFiniteVertices(),
		triangles,
		label,
		len(tr.ConstrainedEdges()),
		tr.Stats.Flips,
	)
	for _, skipped := range tr.Stats.SkippedSegments {
		fmt.Fprintf(out, "%s %v\n", aurora.Yellow("skipped"), skipped.Error())
	}
}
