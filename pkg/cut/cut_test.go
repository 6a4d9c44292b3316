package cut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type points [][2]float64

func (p points) Len() int                    { return len(p) }
func (p points) XY(i int) (float64, float64) { return p[i][0], p[i][1] }

func TestParse(t *testing.T) {
	tt := []struct {
		name string
		def  string
		exp  []Vertex
		err  bool
	}{
		{name: "triangle", def: "0,0 4,0 0,4", exp: []Vertex{{0, 0}, {4, 0}, {0, 4}}},
		{name: "extra spaces", def: "  0,0   1,0 1,1 ", exp: []Vertex{{0, 0}, {1, 0}, {1, 1}}},
		{name: "too few", def: "0,0 1,1", err: true},
		{name: "missing y", def: "0,0 1 1,1", err: true},
		{name: "bad number", def: "0,0 a,1 1,1", err: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.def)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, p.Vertices)
		})
	}
}

func TestInside(t *testing.T) {
	square, err := Parse("0,0 10,0 10,10 0,10")
	require.NoError(t, err)
	// concave "C" shape open to the right
	concave, err := Parse("0,0 10,0 10,2 2,2 2,8 10,8 10,10 0,10")
	require.NoError(t, err)

	tt := []struct {
		name string
		p    *Polygon
		x, y float64
		exp  bool
	}{
		{name: "square center", p: square, x: 5, y: 5, exp: true},
		{name: "square outside", p: square, x: 11, y: 5, exp: false},
		{name: "square below", p: square, x: 5, y: -1, exp: false},
		{name: "concave arm", p: concave, x: 1, y: 5, exp: true},
		{name: "concave notch", p: concave, x: 5, y: 5, exp: false},
		{name: "concave top bar", p: concave, x: 8, y: 9, exp: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, tc.p.Inside(tc.x, tc.y))
		})
	}
}

func TestSelect(t *testing.T) {
	p, err := Parse("0,0 2,0 2,2 0,2")
	require.NoError(t, err)
	sel := p.Select(points{{1, 1}, {3, 3}, {0.5, 1.5}, {-1, 1}})
	assert.Equal(t, []Selection{{Index: 0, X: 1, Y: 1}, {Index: 2, X: 0.5, Y: 1.5}}, sel)
	assert.Equal(t, "0,0 2,0 2,2 0,2", p.String())
}
