// Package extrude sweeps the regions of a sketch along the plane normal and
// returns one solid per region.
package extrude

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chazu/sketchcad/pkg/kernel"
	"github.com/chazu/sketchcad/pkg/kernel/prism"
	"github.com/chazu/sketchcad/pkg/plane"
	"github.com/chazu/sketchcad/pkg/region"
	"github.com/chazu/sketchcad/pkg/sketch"
)

// Origin tags where a piece of scene geometry came from.
type Origin string

// OriginSketchExtrude marks solids produced by sketch extrusion.
const OriginSketchExtrude Origin = "sketch-extrude"

// namespace seeds the name-based solid IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/sketchcad/solid"))

// Solid is one extruded region.
type Solid struct {
	ID     uuid.UUID
	Origin Origin
	Region int // index into the sketch's region list
	Height float64
	Shape  kernel.Solid
	Mesh   *kernel.Mesh
}

// Extruder runs the region pipeline and hands each region to a kernel.
type Extruder struct {
	k   kernel.Kernel
	log *zap.Logger
}

// Option configures an Extruder.
type Option func(*Extruder)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(x *Extruder) { x.log = l }
}

// New returns an Extruder backed by k.
func New(k kernel.Kernel, opts ...Option) *Extruder {
	x := &Extruder{k: k, log: zap.NewNop()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Kernel returns the backing kernel.
func (x *Extruder) Kernel() kernel.Kernel { return x.k }

// Extrude extrudes the sketch with the default prism kernel.
func Extrude(f plane.Frame, entities []sketch.Entity, height float64) ([]Solid, error) {
	return New(prism.New(0)).Extrude(f, entities, height)
}

// Extrude builds the regions of entities and extrudes each of them by
// height along the frame normal. Regions are extruded independently; no
// union is taken.
func (x *Extruder) Extrude(f plane.Frame, entities []sketch.Entity, height float64) ([]Solid, error) {
	if err := CheckHeight(height); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "extrude: frame")
	}

	regions, err := region.BuildRegions(entities)
	if err != nil {
		if errors.Is(err, region.ErrMalformedHierarchy) {
			return nil, &Error{Kind: MalformedHierarchy, Err: err}
		}
		return nil, err
	}
	if len(regions) == 0 {
		return nil, &Error{Kind: NoClosedRegion, Err: errors.Errorf("%d entities form no closed region", len(entities))}
	}

	solids := make([]Solid, 0, len(regions))
	for i, r := range regions {
		shape, err := x.k.Extrude(f, r, height)
		if err != nil {
			return nil, errors.Wrapf(err, "extrude: region %d (%s)", i, x.k.Name())
		}
		mesh, err := x.k.ToMesh(shape)
		if err != nil {
			return nil, errors.Wrapf(err, "extrude: mesh region %d (%s)", i, x.k.Name())
		}
		mesh.Name = fmt.Sprintf("region-%d", i)
		solids = append(solids, Solid{
			ID:     solidID(f, r, height),
			Origin: OriginSketchExtrude,
			Region: i,
			Height: height,
			Shape:  shape,
			Mesh:   mesh,
		})
		x.log.Debug("extruded region",
			zap.Int("region", i),
			zap.Int("holes", len(r.Holes)),
			zap.Float64("area", r.Area()),
			zap.Int("triangles", mesh.TriangleCount()))
	}
	return solids, nil
}

// solidID derives a stable ID from the inputs that determine the solid.
func solidID(f plane.Frame, r region.Region, height float64) uuid.UUID {
	key := fmt.Sprintf("%v|%v|%v|%v|%g", f, r.Outer.Points, r.Outer.Center, r.Outer.Radius, height)
	for _, h := range r.Holes {
		key += fmt.Sprintf("|%v|%v|%v", h.Points, h.Center, h.Radius)
	}
	return uuid.NewSHA1(namespace, []byte(key))
}
