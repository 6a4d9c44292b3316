package tgrapher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/BTBurke/tgrapher/pkg/cut"
	"github.com/BTBurke/tgrapher/pkg/export"
	"github.com/BTBurke/tgrapher/pkg/gate"
	"github.com/BTBurke/tgrapher/pkg/render"
	"github.com/BTBurke/tgrapher/pkg/series"
	"github.com/BTBurke/tgrapher/pkg/source"
	"github.com/BTBurke/tgrapher/pkg/stat"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Grapher holds the configuration and the result of the most recent run
type Grapher struct {
	Config   Config
	Series   *series.Series
	Entries  int64
	Valid    int
	Skipped  int
	Selected []cut.Selection
	Summary  stat.Summary

	mutex        sync.Mutex
	log          *zap.Logger
	out          io.Writer
	viewer       Viewer
	errors       ErrorReporter
	tempPlot     string
	viewerOpened bool
}

// New prepares a grapher from the functional options
func New(options ...ConfigOption) (*Grapher, []error) {
	cfg, errs := newConfig(options...)
	if len(errs) > 0 {
		return nil, errs
	}
	return &Grapher{
		Config: cfg,
		log:    cfg.logger,
		out:    cfg.out,
		viewer: cfg.viewer,
		errors: cfg.errors,
	}, nil
}

// Run builds the graph once.  In watch mode it then rebuilds the graph on every
// change to the input file until ctx is cancelled.
func (g *Grapher) Run(ctx context.Context) error {
	if err := g.Exec(ctx); err != nil {
		return err
	}
	if !g.Config.Watch {
		return nil
	}
	return g.watch(ctx)
}

// Wait blocks until any queued error reports are sent
func (g *Grapher) Wait() {
	g.errors.Wait()
}

// Report forwards unexpected errors to the error reporter.  Errors caused by the
// user's input, such as a missing file or column, are not reported.
func (g *Grapher) Report(err error) {
	var colErr *source.ColumnError
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, source.ErrUnsupportedFormat),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, export.ErrNotCarried),
		errors.As(err, &colErr):
	default:
		g.errors.ReportError(err)
	}
}

// Exec reads the table, gates every row and writes the requested outputs
func (g *Grapher) Exec(ctx context.Context) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	cfg := g.Config

	var opts []source.Option
	if cfg.Delimiter != 0 {
		opts = append(opts, source.WithDelimiter(cfg.Delimiter))
	}
	tbl, err := source.Open(ctx, cfg.Input, cfg.Table, opts...)
	if err != nil {
		return err
	}
	defer tbl.Close()

	if cfg.List {
		return g.printColumns(ctx, tbl)
	}

	gates := cfg.Gates.Clone()
	b, err := bind(tbl, cfg, gates, g.log)
	if err != nil {
		return err
	}

	s, err := g.newSeries(tbl, gates)
	if err != nil {
		return err
	}

	entries, err := tbl.Entries(ctx)
	if err != nil {
		return err
	}
	g.Entries = entries
	if err := g.printHeader(gates); err != nil {
		return err
	}

	g.Valid, g.Skipped = 0, 0
	lookup := func(name string) float64 {
		i, ok := b.gates[name]
		if !ok {
			return math.NaN()
		}
		return b.values[i]
	}
	err = tbl.Scan(ctx, b.columns, func(entry int64, values []float64) error {
		b.values = values
		if !gates.Accept(lookup) {
			return nil
		}
		x, y := values[b.x], values[b.y]
		if !finite(x) || !finite(y) {
			g.Skipped++
			g.log.Debug("skipping entry without a numeric point", zap.Int64("entry", entry), zap.Float64("x", x), zap.Float64("y", y))
			return nil
		}
		p := series.Point{X: x, Y: y}
		if b.xerr >= 0 {
			p.XErr = errorValue(values[b.xerr])
		}
		if b.yerr >= 0 {
			p.YErr = errorValue(values[b.yerr])
		}
		s.Record(p)
		g.Valid++
		return nil
	})
	if err != nil {
		return err
	}
	g.Series = s
	g.log.Info("graph built", zap.Stringer("series", s.Name()), zap.Int("points", s.Len()), zap.Int64("entries", g.Entries))
	if g.Skipped > 0 {
		g.log.Warn("entries skipped", zap.Int("count", g.Skipped), zap.String("reason", "x or y is not a finite number"))
	}

	if gates.Len() > 0 {
		if err := g.printDone(); err != nil {
			return err
		}
	}
	if cfg.Stats {
		g.Summary = stat.Summarize(s)
		if err := g.Summary.Fprint(g.out, s.XLabel, s.YLabel); err != nil {
			return err
		}
	}
	g.Selected = nil
	if cfg.Cut != nil {
		g.Selected = cfg.Cut.Select(s)
		if err := g.printCut(); err != nil {
			return err
		}
	}
	return g.output(s)
}

func (g *Grapher) newSeries(tbl source.Table, gates *gate.Set) (*series.Series, error) {
	cfg := g.Config
	opts := []series.Option{series.WithMetadata(map[string]string{"table": tbl.Name()})}
	if cfg.XError != "" || cfg.YError != "" {
		opts = append(opts, series.WithErrors())
	}
	md := make(map[string]string)
	for _, gt := range gates.Gates() {
		if gt.Usable() {
			md[gt.Name] = gt.String()
		}
	}
	opts = append(opts, series.WithMetadata(md))
	return series.New(cfg.X, cfg.Y, opts...)
}

// output renders the plot and exports the graph concurrently
func (g *Grapher) output(s *series.Series) error {
	cfg := g.Config
	ropts := render.Options{
		Title:  s.Title,
		XLabel: s.XLabel,
		YLabel: s.YLabel,
		Style:  cfg.Style,
		Width:  cfg.Width,
		Height: cfg.Height,
	}

	plotPath := cfg.PlotFile
	if plotPath == "" && !cfg.Batch {
		if g.tempPlot == "" {
			f, err := os.CreateTemp("", "tgrapher-*.png")
			if err != nil {
				return err
			}
			f.Close()
			g.tempPlot = f.Name()
		}
		plotPath = g.tempPlot
	}

	var grp errgroup.Group
	if plotPath != "" {
		grp.Go(func() error {
			if err := render.Save(s, plotPath, ropts); err != nil {
				return fmt.Errorf("failed to render plot: %w", err)
			}
			g.log.Debug("rendered plot", zap.String("path", plotPath), zap.String("opt", cfg.DrawOption))
			if cfg.Batch || g.viewerOpened {
				return nil
			}
			if err := g.viewer.Open(plotPath); err != nil {
				g.log.Warn("could not open plot viewer", zap.String("path", plotPath), zap.Error(err))
				return nil
			}
			g.viewerOpened = true
			return nil
		})
	}
	if cfg.SaveFile != "" {
		grp.Go(func() error {
			err := export.Save(cfg.SaveFile, s, export.Options{Name: cfg.GraphName, Render: ropts, Logger: g.log})
			if err != nil {
				return fmt.Errorf("failed to save graph: %w", err)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	if cfg.SaveFile != "" {
		return g.printWrote()
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// errorValue treats a missing error as no error
func errorValue(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return math.Abs(v)
}
