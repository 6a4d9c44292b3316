// Package cut selects graph points inside a closed polygon.
package cut

import (
	"fmt"
	"strconv"
	"strings"
)

// Vertex is a polygon corner
type Vertex struct {
	X float64
	Y float64
}

// Polygon is a closed 2D region.  The last vertex connects back to the first.
type Polygon struct {
	Vertices []Vertex
}

// XYer is the point source a polygon selects from
type XYer interface {
	Len() int
	XY(i int) (float64, float64)
}

// Selection is a point that fell inside the polygon
type Selection struct {
	Index int
	X     float64
	Y     float64
}

// New returns a polygon from at least three vertices
func New(vertices ...Vertex) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("cut polygon needs at least 3 vertices, got %d", len(vertices))
	}
	p := &Polygon{Vertices: make([]Vertex, len(vertices))}
	copy(p.Vertices, vertices)
	return p, nil
}

// Parse reads a polygon written as space separated x,y pairs, e.g. "0,0 1,0 1,1"
func Parse(def string) (*Polygon, error) {
	var vertices []Vertex
	for _, pair := range strings.Fields(def) {
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid cut vertex %q, should be x,y", pair)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x in cut vertex %q", pair)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y in cut vertex %q", pair)
		}
		vertices = append(vertices, Vertex{X: x, Y: y})
	}
	return New(vertices...)
}

// Inside reports whether (x, y) is inside the polygon using the even-odd rule
func (p *Polygon) Inside(x, y float64) bool {
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Y > y) != (vj.Y > y) {
			xc := vi.X + (y-vi.Y)*(vj.X-vi.X)/(vj.Y-vi.Y)
			if x < xc {
				inside = !inside
			}
		}
	}
	return inside
}

// Select returns the points of xys inside the polygon, in order
func (p *Polygon) Select(xys XYer) []Selection {
	var out []Selection
	for i := 0; i < xys.Len(); i++ {
		x, y := xys.XY(i)
		if p.Inside(x, y) {
			out = append(out, Selection{Index: i, X: x, Y: y})
		}
	}
	return out
}

// String renders the polygon in the same form Parse accepts
func (p *Polygon) String() string {
	parts := make([]string, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		parts = append(parts, strconv.FormatFloat(v.X, 'g', -1, 64)+","+strconv.FormatFloat(v.Y, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}
