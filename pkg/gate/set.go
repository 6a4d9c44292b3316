package gate

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode decides how distinct gates combine
type Mode int

const (
	// Any accepts a row when at least one gate matches
	Any Mode = iota
	// All accepts a row only when every usable gate matches
	All
)

func (m Mode) String() string {
	switch m {
	case All:
		return "all"
	default:
		return "any"
	}
}

// ParseMode converts "any" or "all" to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return Any, nil
	case "all":
		return All, nil
	default:
		return Any, fmt.Errorf("unknown gate mode %q, must be any or all", s)
	}
}

// Set holds gates in the order their columns were first named
type Set struct {
	Mode Mode

	gates []*Gate
}

// NewSet returns an empty set using mode any
func NewSet() *Set {
	return &Set{}
}

// Add merges the range into the gate on name, creating the gate if needed
func (s *Set) Add(name string, low, high float64) error {
	g := s.Get(name)
	if g == nil {
		g = New(name)
		if err := g.Add(low, high); err != nil {
			return err
		}
		s.gates = append(s.gates, g)
		return nil
	}
	return g.Add(low, high)
}

// Get returns the gate on name or nil
func (s *Set) Get(name string) *Gate {
	for _, g := range s.gates {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Disable marks the gate on name as unusable.  Unusable gates never match.
func (s *Set) Disable(name string) {
	if g := s.Get(name); g != nil {
		g.disabled = true
	}
}

// Gates returns the gates in insertion order
func (s *Set) Gates() []*Gate {
	out := make([]*Gate, len(s.gates))
	copy(out, s.gates)
	return out
}

// Names returns the gated column names in insertion order
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.gates))
	for _, g := range s.gates {
		out = append(out, g.Name)
	}
	return out
}

// Len is the number of gates, usable or not
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.gates)
}

// Accept decides whether a row passes the set.  value returns the row's value for a
// gated column.  An empty set accepts everything.
func (s *Set) Accept(value func(name string) float64) bool {
	if s.Len() == 0 {
		return true
	}
	switch s.Mode {
	case All:
		usable := 0
		for _, g := range s.gates {
			if !g.Usable() {
				continue
			}
			usable++
			if !g.Contains(value(g.Name)) {
				return false
			}
		}
		return usable > 0
	default:
		for _, g := range s.gates {
			if g.Contains(value(g.Name)) {
				return true
			}
		}
		return false
	}
}

// Parse reads a gate definition of the form column:low:high.  The column name may
// itself contain colons; the last two fields are the limits.
func Parse(def string) (name string, low, high float64, err error) {
	fields := strings.Split(def, ":")
	if len(fields) < 3 {
		return "", 0, 0, fmt.Errorf("invalid gate %q, should be column:low:high", def)
	}
	n := len(fields)
	name = strings.Join(fields[:n-2], ":")
	if name == "" {
		return "", 0, 0, fmt.Errorf("invalid gate %q, missing column name", def)
	}
	low, err = strconv.ParseFloat(strings.TrimSpace(fields[n-2]), 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid lower limit in gate %q", def)
	}
	high, err = strconv.ParseFloat(strings.TrimSpace(fields[n-1]), 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid upper limit in gate %q", def)
	}
	return name, low, high, nil
}

// Clone returns a deep copy of the set, including which gates are disabled
func (s *Set) Clone() *Set {
	out := &Set{Mode: s.Mode, gates: make([]*Gate, 0, len(s.gates))}
	for _, g := range s.gates {
		c := *g
		c.Ranges = append([]Range(nil), g.Ranges...)
		out.gates = append(out.gates, &c)
	}
	return out
}
