//go:build !manifold

// Package manifold extrudes regions with the Manifold C library. Without
// the "manifold" build tag only this stub is compiled, and New fails with
// ErrUnavailable.
//
// Build with: go build -tags=manifold
package manifold

import (
	"fmt"

	"github.com/chazu/sketchcad/pkg/kernel"
)

// New reports that the kernel was not compiled in.
func New(segments int) (kernel.Kernel, error) {
	return nil, fmt.Errorf("%w: build with -tags=manifold", ErrUnavailable)
}
