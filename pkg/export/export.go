// Package export writes a gated series to disk.  The file extension selects the
// format: ROOT TGraphErrors, CSV, JSON, YAML or a rendered image.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BTBurke/tgrapher/pkg/render"
	"github.com/BTBurke/tgrapher/pkg/series"
	"github.com/go-yaml/yaml"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned when the output extension has no writer
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Options configures an export
type Options struct {
	// Name is the object name inside the output.  It defaults to the series name.
	Name   string
	Render render.Options
	Logger *zap.Logger
}

func (o Options) name(s *series.Series) string {
	if o.Name != "" {
		return o.Name
	}
	return s.Name().Base()
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Save writes s to path in the format chosen by the extension
func Save(path string, s *series.Series, opts Options) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".root":
		return saveROOT(path, s, opts)
	case ext == ".csv":
		return writeFile(path, func(w io.Writer) error { return WriteCSV(w, s) })
	case ext == ".json":
		return writeFile(path, func(w io.Writer) error { return WriteJSON(w, s, opts.name(s)) })
	case ext == ".yaml" || ext == ".yml":
		return writeFile(path, func(w io.Writer) error { return WriteYAML(w, s, opts.name(s)) })
	case render.IsImage(path):
		ro := opts.Render
		if ro.Title == "" {
			ro.Title = s.Title
		}
		return render.Save(s, path, ro)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a header row followed by one row per point.  Error columns are
// only written when the series carries errors.
func WriteCSV(w io.Writer, s *series.Series) error {
	cw := csv.NewWriter(w)
	header := []string{"x", "y"}
	if s.HasErrors() {
		header = append(header, "ex", "ey")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range s.Points() {
		rec := []string{formatFloat(p.X), formatFloat(p.Y)}
		if s.HasErrors() {
			rec = append(rec, formatFloat(p.XErr), formatFloat(p.YErr))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// document is the JSON and YAML layout.  ID is the series name with the metadata
// describing how the series was produced, e.g. y_vs_x[energy="[1, 2]" table=run].
type document struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Title  string         `json:"title" yaml:"title"`
	XLabel string         `json:"x_label" yaml:"x_label"`
	YLabel string         `json:"y_label" yaml:"y_label"`
	Errors bool           `json:"errors" yaml:"errors"`
	Points []series.Point `json:"points" yaml:"points"`
}

func newDocument(s *series.Series, name string) document {
	return document{
		ID:     s.Name().String(),
		Name:   name,
		Title:  s.Title,
		XLabel: s.XLabel,
		YLabel: s.YLabel,
		Errors: s.HasErrors(),
		Points: s.Points(),
	}
}

// WriteJSON writes the series as an indented JSON document
func WriteJSON(w io.Writer, s *series.Series, name string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(s, name))
}

// WriteYAML writes the series as a YAML document
func WriteYAML(w io.Writer, s *series.Series, name string) error {
	data, err := yaml.Marshal(newDocument(s, name))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
