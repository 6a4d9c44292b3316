package series

import (
	"fmt"
	"strings"
)

// Point is one accepted row.  XErr and YErr are symmetric errors and are zero when
// the series carries no errors.
type Point struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	XErr float64 `json:"ex,omitempty" yaml:"ex,omitempty"`
	YErr float64 `json:"ey,omitempty" yaml:"ey,omitempty"`
}

// Series is the ordered set of points produced by gating a table
type Series struct {
	Title  string
	XLabel string
	YLabel string

	name   Name
	errors bool
	points []Point
}

// Option configures a new series
type Option func(s *Series) error

// New creates an empty series for y plotted against x.  The title and axis labels
// default to the column names.
func New(x, y string, opts ...Option) (*Series, error) {
	if x == "" || y == "" {
		return nil, fmt.Errorf("series requires both x and y column names")
	}
	s := &Series{
		Title:  y + " vs. " + x,
		XLabel: x,
		YLabel: y,
		name:   NewName(DefaultName(x, y), nil),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DefaultName derives an object name from the column names, e.g. y_vs_x
func DefaultName(x, y string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", ".", "_")
	return r.Replace(y) + "_vs_" + r.Replace(x)
}

// WithErrors marks the series as carrying per point errors
func WithErrors() Option {
	return func(s *Series) error {
		s.errors = true
		s.name.AddAnnotation("errors")
		return nil
	}
}

// WithMetadata attaches metadata to the series name
func WithMetadata(md map[string]string) Option {
	return func(s *Series) error {
		s.name.AddMetadata(md)
		return nil
	}
}

// WithPoints initializes the series from existing points
func WithPoints(pts []Point) Option {
	return func(s *Series) error {
		for _, p := range pts {
			s.Record(p)
		}
		return nil
	}
}

// Record appends a point.  Errors are dropped unless the series carries errors.
func (s *Series) Record(p Point) {
	if !s.errors {
		p.XErr, p.YErr = 0, 0
	}
	s.points = append(s.points, p)
}

// Name returns the series identifier with metadata
func (s *Series) Name() Name {
	return s.name
}

// HasErrors reports whether the series carries per point errors
func (s *Series) HasErrors() bool {
	return s.errors
}

// Points returns a copy of the points in insertion order
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// X returns a copy of the x values
func (s *Series) X() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.X
	}
	return out
}

// Y returns a copy of the y values
func (s *Series) Y() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Y
	}
	return out
}

// Len implements plotter.XYer
func (s *Series) Len() int {
	return len(s.points)
}

// XY implements plotter.XYer
func (s *Series) XY(i int) (float64, float64) {
	return s.points[i].X, s.points[i].Y
}

// XError implements plotter.XErrorer
func (s *Series) XError(i int) (float64, float64) {
	return s.points[i].XErr, s.points[i].XErr
}

// YError implements plotter.YErrorer
func (s *Series) YError(i int) (float64, float64) {
	return s.points[i].YErr, s.points[i].YErr
}
