package tgrapher

import (
	"context"
	"fmt"

	"github.com/BTBurke/tgrapher/pkg/gate"
	"github.com/BTBurke/tgrapher/pkg/source"
)

// printHeader describes the graph about to be built
func (g *Grapher) printHeader(gates *gate.Set) error {
	cfg := g.Config
	lines := []string{fmt.Sprintf(" Graphing %s vs. %s", cfg.Y, cfg.X)}
	for _, gt := range gates.Gates() {
		if !gt.Usable() {
			continue
		}
		lines = append(lines, fmt.Sprintf("  For %s in range %s", gt.Name, gt))
	}
	if gates.Mode == gate.All && gates.Len() > 1 {
		lines = append(lines, "  Accepting entries matching all gates")
	}
	if cfg.XError != "" {
		lines = append(lines, fmt.Sprintf("  Using %s as x-axis errors", cfg.XError))
	}
	if cfg.YError != "" {
		lines = append(lines, fmt.Sprintf("  Using %s as y-axis errors", cfg.YError))
	}
	lines = append(lines, fmt.Sprintf("  Processing %d entries", g.Entries))
	return g.println(lines...)
}

func (g *Grapher) printDone() error {
	return g.println(fmt.Sprintf(" Done! Found %d valid entries in table.", g.Valid))
}

// printCut lists the selected points as index, x and y separated by tabs
func (g *Grapher) printCut() error {
	lines := []string{fmt.Sprintf(" Found %d entries inside cut", len(g.Selected))}
	for _, s := range g.Selected {
		lines = append(lines, fmt.Sprintf(" %d\t%g\t%g", s.Index, s.X, s.Y))
	}
	return g.println(lines...)
}

func (g *Grapher) printWrote() error {
	return g.println(fmt.Sprintf(" Wrote graph to file '%s'", g.Config.SaveFile))
}

func (g *Grapher) printColumns(ctx context.Context, tbl source.Table) error {
	entries, err := tbl.Entries(ctx)
	if err != nil {
		return err
	}
	lines := []string{fmt.Sprintf(" Table %s has %d entries and columns:", tbl.Name(), entries)}
	for _, c := range tbl.Columns() {
		lines = append(lines, "  "+c)
	}
	return g.println(lines...)
}

func (g *Grapher) println(lines ...string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(g.out, l); err != nil {
			return err
		}
	}
	return nil
}
