// Package export writes extruded meshes and region previews to files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/sketchcad/pkg/kernel"
)

// Triangles converts meshes into sdfx triangles, in mesh order.
func Triangles(meshes ...*kernel.Mesh) []*sdf.Triangle3 {
	var n int
	for _, m := range meshes {
		n += m.TriangleCount()
	}
	out := make([]*sdf.Triangle3, 0, n)
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			t := m.Triangle(i)
			out = append(out, &sdf.Triangle3{vec(t[0]), vec(t[1]), vec(t[2])})
		}
	}
	return out
}

func vec(p [3]float64) v3.Vec {
	return v3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// SaveMesh writes meshes to path as one solid. The format follows the file
// extension: .stl or .3mf.
func SaveMesh(path string, meshes ...*kernel.Mesh) error {
	tris := Triangles(meshes...)
	if len(tris) == 0 {
		return fmt.Errorf("export: %s: no triangles to write", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return render.SaveSTL(path, tris)
	case ".3mf":
		return render.Save3MF(path, tris)
	}
	return fmt.Errorf("export: %s: unsupported mesh format, expected .stl or .3mf", path)
}

// SaveSTL writes meshes to an STL file.
func SaveSTL(path string, meshes ...*kernel.Mesh) error {
	if strings.ToLower(filepath.Ext(path)) != ".stl" {
		path += ".stl"
	}
	return SaveMesh(path, meshes...)
}
