// Package render draws a series as an XY scatter plot with gonum/plot.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrDrawOption is returned for draw option characters that are not supported
var ErrDrawOption = errors.New("unsupported draw option")

// DefaultDrawOption draws axes and markers
const DefaultDrawOption = "AP"

var (
	// DefaultWidth and DefaultHeight size the rendered image
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch

	markerColor = color.RGBA{B: 255, A: 255}
)

// Style is the parsed form of a draw option string such as "AP" or "ALP"
type Style struct {
	Markers  bool
	Stars    bool
	Line     bool
	NoErrors bool
}

// ParseStyle reads a draw option string.  A draws axes and is always implied, P draws
// markers, * draws star markers, L and C draw a line through the points and X
// suppresses error bars.  Without P, * or L the points are drawn as markers.
func ParseStyle(opt string) (Style, error) {
	var s Style
	for _, c := range strings.ToUpper(opt) {
		switch c {
		case 'A', ' ':
		case 'P':
			s.Markers = true
		case '*':
			s.Stars = true
		case 'L', 'C':
			s.Line = true
		case 'X':
			s.NoErrors = true
		default:
			return Style{}, fmt.Errorf("%w %q in %q", ErrDrawOption, c, opt)
		}
	}
	if !s.Markers && !s.Stars && !s.Line {
		s.Markers = true
	}
	return s, nil
}

// Series is the data the renderer needs
type Series interface {
	plotter.XYer
	plotter.XErrorer
	plotter.YErrorer
	HasErrors() bool
}

// Options configures a rendering
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Style  Style
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Plot builds the gonum plot for s
func Plot(s Series, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	if s.Len() == 0 {
		return p, nil
	}

	if opts.Style.Line {
		l, err := plotter.NewLine(s)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = markerColor
		p.Add(l)
	}
	if opts.Style.Markers || opts.Style.Stars {
		sc, err := plotter.NewScatter(s)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = markerColor
		sc.GlyphStyle.Radius = vg.Points(2.5)
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		if opts.Style.Stars {
			sc.GlyphStyle.Shape = draw.CrossGlyph{}
		}
		p.Add(sc)
	}
	if s.HasErrors() && !opts.Style.NoErrors {
		xerr, err := plotter.NewXErrorBars(s)
		if err != nil {
			return nil, err
		}
		yerr, err := plotter.NewYErrorBars(s)
		if err != nil {
			return nil, err
		}
		p.Add(xerr, yerr)
	}
	return p, nil
}

// Save renders s to path.  The image format follows the file extension.
func Save(s Series, path string, opts Options) error {
	if !IsImage(path) {
		return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
	p, err := Plot(s, opts)
	if err != nil {
		return err
	}
	w, h := opts.size()
	return p.Save(w, h, path)
}

// Write renders s to w in the named format, e.g. "png" or "svg"
func Write(s Series, w io.Writer, format string, opts Options) error {
	p, err := Plot(s, opts)
	if err != nil {
		return err
	}
	width, height := opts.size()
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// IsImage reports whether the extension of path is a supported image format
func IsImage(path string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff", "tex":
		return true
	default:
		return false
	}
}

// ParseLength reads a plot dimension such as 6in, 15cm or 400pt
func ParseLength(s string) (vg.Length, error) {
	l, err := vg.ParseLength(s)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %v", s, err)
	}
	if l <= 0 {
		return 0, fmt.Errorf("invalid length %q: must be positive", s)
	}
	return l, nil
}
