package gate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvertedRange is returned when a range is added with low > high
var ErrInvertedRange = errors.New("gate range lower limit is greater than upper limit")

// Range is an inclusive interval [Low, High]
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether Low <= v <= High.  NaN is never contained.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

func (r Range) String() string {
	return "[" + formatFloat(r.Low) + ", " + formatFloat(r.High) + "]"
}

// Gate is a named column with one or more accepted ranges.  A value passes the gate
// when it falls inside any of the ranges.
type Gate struct {
	Name   string
	Ranges []Range

	disabled bool
}

// New returns a gate on the named column with no ranges
func New(name string) *Gate {
	return &Gate{Name: name}
}

// Add appends the range [low, high] to the gate
func (g *Gate) Add(low, high float64) error {
	if low > high {
		return fmt.Errorf("%w: %s [%s, %s]", ErrInvertedRange, g.Name, formatFloat(low), formatFloat(high))
	}
	g.Ranges = append(g.Ranges, Range{Low: low, High: high})
	return nil
}

// Contains reports whether v falls inside any range of the gate.  Disabled gates
// contain nothing.
func (g *Gate) Contains(v float64) bool {
	if g.disabled {
		return false
	}
	for _, r := range g.Ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// Usable is false once the gate has been disabled, e.g. because its column
// could not be loaded
func (g *Gate) Usable() bool {
	return !g.disabled
}

// String renders the union of ranges, e.g. [1, 2] U [5, 6]
func (g *Gate) String() string {
	parts := make([]string, 0, len(g.Ranges))
	for _, r := range g.Ranges {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " U ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
