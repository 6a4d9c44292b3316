// Package stat summarizes a gated series the way ROOT reports graph statistics.
package stat

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

// Axis holds the moments of one coordinate
type Axis struct {
	Mean float64
	RMS  float64
	Min  float64
	Max  float64
}

// Summary describes a series.  RMS is the population standard deviation.
type Summary struct {
	N           int
	X           Axis
	Y           Axis
	Correlation float64
}

// XYer is the point source to summarize
type XYer interface {
	Len() int
	XY(i int) (float64, float64)
}

// Summarize computes the summary of xys.  An empty source gives a zero Summary.
func Summarize(xys XYer) Summary {
	n := xys.Len()
	if n == 0 {
		return Summary{}
	}
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i], y[i] = xys.XY(i)
	}
	s := Summary{
		N: n,
		X: axis(x),
		Y: axis(y),
	}
	if n > 1 && s.X.RMS > 0 && s.Y.RMS > 0 {
		s.Correlation = gstat.Correlation(x, y, nil)
	}
	return s
}

func axis(v []float64) Axis {
	return Axis{
		Mean: gstat.Mean(v, nil),
		RMS:  math.Sqrt(gstat.Moment(2, v, nil)),
		Min:  floats.Min(v),
		Max:  floats.Max(v),
	}
}

// Fprint writes the summary, one line per axis labelled with the axis name
func (s Summary) Fprint(w io.Writer, xlabel, ylabel string) error {
	rows := []struct {
		label string
		a     Axis
	}{
		{label: xlabel, a: s.X},
		{label: ylabel, a: s.Y},
	}
	if _, err := fmt.Fprintf(w, "  Entries: %d\n", s.N); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  %s: mean=%g rms=%g min=%g max=%g\n", r.label, r.a.Mean, r.a.RMS, r.a.Min, r.a.Max); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  Correlation: %g\n", s.Correlation)
	return err
}
