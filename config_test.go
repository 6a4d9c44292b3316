package tgrapher

import (
	"testing"

	"github.com/BTBurke/tgrapher/pkg/gate"
	"github.com/BTBurke/tgrapher/pkg/render"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

func TestNewConfig(t *testing.T) {
	base := []ConfigOption{Input("run.root"), Table("events"), XColumn("x"), YColumn("y"), Logger(zap.NewNop())}
	tt := []struct {
		Name    string
		Options []ConfigOption
		Errors  int
	}{
		{Name: "valid", Options: base},
		{Name: "missing everything", Options: []ConfigOption{Logger(zap.NewNop())}, Errors: 3},
		{Name: "missing table for root", Options: []ConfigOption{Input("run.root"), XColumn("x"), YColumn("y"), Logger(zap.NewNop())}, Errors: 1},
		{Name: "csv needs no table", Options: []ConfigOption{Input("run.csv"), XColumn("x"), YColumn("y"), Logger(zap.NewNop())}},
		{Name: "list needs no columns", Options: []ConfigOption{Input("run.db"), Table("t"), List(), Logger(zap.NewNop())}},
		{Name: "unsupported input", Options: []ConfigOption{Input("run.xls"), XColumn("x"), YColumn("y"), Logger(zap.NewNop())}, Errors: 1},
		{Name: "inverted gate", Options: append(base, Gate("energy:2:1")), Errors: 1},
		{Name: "bad gate", Options: append(base, Gate("energy:1")), Errors: 1},
		{Name: "bad gate mode", Options: append(base, GateMode("some")), Errors: 1},
		{Name: "bad draw option", Options: append(base, DrawOption("APQ")), Errors: 1},
		{Name: "bad cut", Options: append(base, Cut("0,0 1,1")), Errors: 1},
		{Name: "bad width", Options: append(base, Width("wide")), Errors: 1},
		{Name: "plot not an image", Options: append(base, Plot("graph.root")), Errors: 1},
		{Name: "plot and save collide", Options: append(base, Plot("g.png"), Save("g.png")), Errors: 1},
		{Name: "plot and save collide through relative path", Options: append(base, Plot("g.png"), Save("./g.png")), Errors: 1},
		{Name: "save over root input", Options: append(base, Save("run.root")), Errors: 1},
		{Name: "save over csv input", Options: []ConfigOption{Input("run.csv"), XColumn("x"), YColumn("y"), Save("./run.csv"), Logger(zap.NewNop())}, Errors: 1},
		{Name: "save next to input", Options: append(base, Save("graphs.root")), Errors: 0},
		{Name: "bad delimiter", Options: append(base, Delimiter(";;")), Errors: 1},
		{Name: "bad log level", Options: append(base, LogLevel("loud")), Errors: 1},
		{Name: "too many positional", Options: []ConfigOption{Positional("a.csv"), Positional("-"), Positional("x"), Positional("y"), Positional("z"), Logger(zap.NewNop())}, Errors: 1},
		{Name: "errors accumulate", Options: append(base, Width("wide"), Height("tall"), LogFormat("xml")), Errors: 3},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			_, errs := newConfig(tc.Options...)
			assert.Len(t, errs, tc.Errors)
		})
	}
}

func TestNewConfigDefaults(t *testing.T) {
	c, errs := newConfig(Input("run.csv"), XColumn("x"), YColumn("y"), Logger(zap.NewNop()))
	assert.Empty(t, errs)
	assert.Equal(t, render.DefaultDrawOption, c.DrawOption)
	assert.Equal(t, render.Style{Markers: true}, c.Style)
	assert.Equal(t, 6*vg.Inch, c.Width)
	assert.Equal(t, 4*vg.Inch, c.Height)
	assert.Equal(t, gate.Any, c.Gates.Mode)
	assert.Equal(t, 0, c.Gates.Len())
	assert.NotNil(t, c.Logger())
	assert.NotNil(t, c.viewer)
	assert.NotNil(t, c.errors)
}

func TestDelimiterEscape(t *testing.T) {
	c := Config{}
	assert.NoError(t, Delimiter(`\t`)(&c))
	assert.Equal(t, '\t', c.Delimiter)
	assert.NoError(t, Delimiter(";")(&c))
	assert.Equal(t, ';', c.Delimiter)
}
