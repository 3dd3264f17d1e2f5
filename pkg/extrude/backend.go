package extrude

import (
	"fmt"

	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/kernel/manifold"
	"github.com/chazu/sketchcad/pkg/kernel/prism"
	"github.com/chazu/sketchcad/pkg/kernel/sdfx"
)

// Backends lists the kernel names accepted by NewKernel.
var Backends = []string{"prism", "sdfx", "manifold"}

// NewKernel returns the named kernel backend. segments is the circle
// sampling count and cells the marching cubes resolution; zero values pick
// the backend defaults. An empty name selects prism.
func NewKernel(name string, segments, cells int) (kernel.Kernel, error) {
	switch name {
	case "", "prism":
		return prism.New(segments), nil
	case "sdfx":
		return sdfx.New(cells), nil
	case "manifold":
		return manifold.New(segments)
	}
	return nil, fmt.Errorf("unknown kernel %q, expected one of %v", name, Backends)
}
