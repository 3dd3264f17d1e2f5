package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sketchcad/pkg/extrude"
	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
)

var pt = sketch.Pt

func plateMesh(t *testing.T) *kernel.Mesh {
	t.Helper()
	solids, err := extrude.Extrude(plane.Baseline(plane.XY), []sketch.Entity{sketch.Rect{A: pt(0, 0), B: pt(10, 10)}}, 5)
	require.NoError(t, err)
	require.Len(t, solids, 1)
	return solids[0].Mesh
}

func TestTriangles(t *testing.T) {
	m := plateMesh(t)
	tris := Triangles(m, m)
	require.Len(t, tris, 2*m.TriangleCount())

	first := m.Triangle(0)
	assert.Equal(t, first[1][0], tris[0][1].X)
	assert.Equal(t, first[2][2], tris[0][2].Z)
}

func TestSaveSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate")
	require.NoError(t, SaveSTL(path, plateMesh(t)))

	info, err := os.Stat(path + ".stl")
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
}

func TestSaveMesh3MF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.3mf")
	require.NoError(t, SaveMesh(path, plateMesh(t)))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveMeshErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, SaveMesh(filepath.Join(dir, "plate.obj"), plateMesh(t)))
	assert.Error(t, SaveMesh(filepath.Join(dir, "empty.stl"), &kernel.Mesh{}))
}

func TestWriteSVGHoleAndIsland(t *testing.T) {
	regions, err := region.BuildRegions([]sketch.Entity{
		sketch.Rect{A: pt(0, 0), B: pt(30, 30)},
		sketch.Rect{A: pt(5, 5), B: pt(25, 25)},
		sketch.Circle{C: pt(15, 15), R: 3},
	})
	require.NoError(t, err)
	require.Len(t, regions, 2)

	var buf bytes.Buffer
	opts := DefaultSVGOptions()
	opts.Title = "frame"
	require.NoError(t, WriteSVG(&buf, regions, opts))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "<title>frame</title>")
	assert.Contains(t, out, "fill-rule:evenodd")
	assert.Equal(t, 2, strings.Count(out, "<path"), "one path per region")
	// The framed region has an outer ring and a hole ring.
	assert.Equal(t, 3, strings.Count(out, "Z"))
	// 30 units at scale 4 plus two 10px margins.
	assert.Contains(t, out, `width="140"`)
	assert.Contains(t, out, `height="140"`)
}

func TestWriteSVGFlipsV(t *testing.T) {
	regions, err := region.BuildRegions([]sketch.Entity{sketch.Rect{A: pt(0, 0), B: pt(10, 5)}})
	require.NoError(t, err)

	var buf bytes.Buffer
	opts := DefaultSVGOptions()
	opts.Scale = 1
	opts.Margin = 0
	require.NoError(t, WriteSVG(&buf, regions, opts))

	// The rect's first corner (0,0) is the bottom-left of the drawing.
	assert.Contains(t, buf.String(), "M0.000 5.000")
}

func TestWriteSketchSVGStrokesOpenLines(t *testing.T) {
	doc := sketch.NewDocument("draft", plane.Baseline(plane.XY)).Add(
		sketch.Circle{C: pt(0, 0), R: 2},
		sketch.Line{A: pt(5, 0), B: pt(9, 0)},
	)
	var buf bytes.Buffer
	require.NoError(t, WriteSketchSVG(&buf, doc, DefaultSVGOptions()))

	out := buf.String()
	assert.Contains(t, out, "<title>draft</title>")
	assert.Contains(t, out, `id="lines"`)
	assert.Equal(t, 2, strings.Count(out, "<path"))
}

func TestWriteSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, nil, DefaultSVGOptions()))
	assert.Contains(t, buf.String(), `width="20"`)
}

func TestWriteSVGRejectsBadScale(t *testing.T) {
	opts := DefaultSVGOptions()
	opts.Scale = 0
	assert.Error(t, WriteSVG(&bytes.Buffer{}, nil, opts))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSVGReportsWriteErrors(t *testing.T) {
	err := WriteSVG(failWriter{}, nil, DefaultSVGOptions())
	assert.EqualError(t, err, "disk full")
}
