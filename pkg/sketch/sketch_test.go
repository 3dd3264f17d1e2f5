package sketch

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketchcad/pkg/plane"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "line", Line{}.Kind().String())
	assert.Equal(t, "rect", Rect{}.Kind().String())
	assert.Equal(t, "circle", Circle{}.Kind().String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestPolygonClosesChain(t *testing.T) {
	lines := Polygon(Pt(0, 0), Pt(10, 0), Pt(10, 10))
	require.Len(t, lines, 3)
	assert.Equal(t, Line{A: Pt(10, 10), B: Pt(0, 0)}, lines[2])

	assert.Nil(t, Polygon(Pt(1, 1)))
}

func TestLinesFilter(t *testing.T) {
	entities := []Entity{
		Rect{A: Pt(0, 0), B: Pt(1, 1)},
		Line{A: Pt(0, 0), B: Pt(1, 0)},
		Circle{C: Pt(0, 0), R: 1},
		Line{A: Pt(1, 0), B: Pt(1, 1)},
	}
	lines := Lines(entities)
	require.Len(t, lines, 2)
	assert.Equal(t, Pt(1, 0), lines[1].A)
}

func TestMapKeepsRadius(t *testing.T) {
	shift := func(p v2.Vec) v2.Vec { return p.Add(Pt(1, 2)) }
	out := Map([]Entity{Circle{C: Pt(0, 0), R: 3}, Rect{A: Pt(0, 0), B: Pt(1, 1)}}, shift)
	assert.Equal(t, Circle{C: Pt(1, 2), R: 3}, out[0])
	assert.Equal(t, Rect{A: Pt(1, 2), B: Pt(2, 3)}, out[1])
}

func TestDocumentAdd(t *testing.T) {
	d := NewDocument("base", plane.Baseline(plane.XY)).
		Add(Rect{A: Pt(0, 0), B: Pt(5, 5)}).
		Add(Polygon(Pt(0, 0), Pt(1, 0), Pt(1, 1))...)
	assert.Len(t, d.Entities, 4)
	assert.False(t, d.Extruded())
	d.Height = 3
	assert.True(t, d.Extruded())
}

const plateYAML = `
sketches:
  - name: plate
    plane: {id: zx}
    height: 4
    entities:
      - {type: rect, a: [0, 0], b: [20, 20]}
      - {type: circle, c: {x: 10, y: 10}, r: 5}
      - {type: line, a: [30, 0], b: [40, 0]}
  - plane:
      origin: {x: 0, y: 0, z: 5}
      normal: {x: 0, y: 0, z: 1}
    entities:
      - {type: rect, a: [0, 0], b: [1, 1]}
`

func TestDecodeFile(t *testing.T) {
	docs, err := Decode([]byte(plateYAML))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	plate := docs[0]
	assert.Equal(t, "plate", plate.Name)
	assert.Equal(t, plane.Baseline(plane.ZX), plate.Frame)
	assert.Equal(t, 4.0, plate.Height)
	require.Len(t, plate.Entities, 3)
	assert.Equal(t, Rect{A: Pt(0, 0), B: Pt(20, 20)}, plate.Entities[0])
	assert.Equal(t, Circle{C: Pt(10, 10), R: 5}, plate.Entities[1])
	assert.Equal(t, Line{A: Pt(30, 0), B: Pt(40, 0)}, plate.Entities[2])

	lifted := docs[1]
	assert.Equal(t, "sketch-2", lifted.Name)
	assert.Equal(t, v3.Vec{Z: 5}, lifted.Frame.Origin)
	assert.InDelta(t, 1, lifted.Frame.Normal.Z, 1e-12)
}

func TestDecodeSingleDocumentJSON(t *testing.T) {
	src := `{"name": "j", "plane": {"id": "yz"}, "entities": [{"type": "circle", "c": {"x": 1, "y": 2}, "r": 3}]}`
	docs, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, plane.Baseline(plane.YZ), docs[0].Frame)
	assert.Equal(t, Circle{C: Pt(1, 2), R: 3}, docs[0].Entities[0])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown entity", `{entities: [{type: spline}]}`},
		{"rect missing corner", `{entities: [{type: rect, a: [0, 0]}]}`},
		{"bad point arity", `{entities: [{type: line, a: [0], b: [1, 1]}]}`},
		{"unknown plane", `{plane: {id: xz}, entities: [{type: rect, a: [0, 0], b: [1, 1]}]}`},
		{"half frame", `{plane: {u: {x: 1}}, entities: [{type: rect, a: [0, 0], b: [1, 1]}]}`},
		{"skew frame", `{plane: {u: {x: 1}, v: {x: 1}}, entities: [{type: rect, a: [0, 0], b: [1, 1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	docs, err := Decode([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f, err := plane.FromNormal(v3.Vec{X: 1}, v3.Vec{X: 1, Y: 1})
	require.NoError(t, err)

	in := []*Document{
		NewDocument("a", plane.Baseline(plane.YZ)).Add(Rect{A: Pt(0, 0), B: Pt(3, 4)}),
		{Name: "b", Frame: f, Height: 2, Entities: []Entity{Circle{C: Pt(1, 1), R: 0.5}}},
	}
	data, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].Frame, out[0].Frame)
	assert.Equal(t, in[0].Entities, out[0].Entities)
	assert.Equal(t, in[1].Entities, out[1].Entities)
	assert.Equal(t, 2.0, out[1].Height)
	assert.InDelta(t, f.Normal.X, out[1].Frame.Normal.X, 1e-9)
	assert.InDelta(t, f.Normal.Y, out[1].Frame.Normal.Y, 1e-9)
}
