package tgrapher

import (
	"fmt"

	"github.com/BTBurke/tgrapher/pkg/gate"
	"github.com/BTBurke/tgrapher/pkg/source"
	"go.uber.org/zap"
)

// binding maps each graph role to a position in the scanned columns.  A column
// shared by several roles is read once.
type binding struct {
	columns []string
	index   map[string]int

	x     int
	y     int
	xerr  int
	yerr  int
	gates map[string]int

	values []float64
}

func (b *binding) add(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.index[name] = len(b.columns)
	b.columns = append(b.columns, name)
	return b.index[name]
}

// bind resolves the configured columns against the table.  Missing axis or error
// columns are fatal; a missing gate column disables that gate.
func bind(tbl source.Table, cfg Config, gates *gate.Set, log *zap.Logger) (*binding, error) {
	have := make(map[string]bool)
	for _, c := range tbl.Columns() {
		have[c] = true
	}

	b := &binding{
		index: make(map[string]int),
		xerr:  -1,
		yerr:  -1,
		gates: make(map[string]int),
	}
	required := []struct {
		name string
		dest *int
	}{
		{name: cfg.X, dest: &b.x},
		{name: cfg.Y, dest: &b.y},
		{name: cfg.XError, dest: &b.xerr},
		{name: cfg.YError, dest: &b.yerr},
	}
	for _, r := range required {
		if r.name == "" {
			continue
		}
		if !have[r.name] {
			return nil, fmt.Errorf("failed to load column: %w", &source.ColumnError{Table: tbl.Name(), Column: r.name})
		}
		*r.dest = b.add(r.name)
	}

	for _, name := range gates.Names() {
		if !have[name] {
			log.Warn("failed to load gate column, gate disabled", zap.String("column", name), zap.String("table", tbl.Name()))
			gates.Disable(name)
			continue
		}
		b.gates[name] = b.add(name)
	}
	return b, nil
}
