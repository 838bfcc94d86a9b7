package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/geoview/internal/axes"
	"github.com/san-kum/geoview/internal/grid"
	"github.com/san-kum/geoview/internal/nav"
)

// Coordinator drives rendering for one open file, synchronously.
// There is exactly one active Coordinator per session; callers that
// run renders asynchronously are responsible for dropping results of
// requests they have since superseded (last-request-wins).
type Coordinator struct {
	src    DataSource
	prompt Prompt
	sink   Sink
	log    *logrus.Logger

	coastlines bool
	gridlines  bool

	mapping     axes.RoleMapping
	haveMapping bool
	stepper     nav.Stepper

	// Color range cached per mapping so the scale stays stable while
	// stepping; it only widens, never shrinks, within a session.
	rangeMin, rangeMax float64
	haveRange          bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCoastlines toggles the coastline overlay flag passed to sinks.
func WithCoastlines(on bool) Option { return func(c *Coordinator) { c.coastlines = on } }

// WithGridlines toggles the gridline overlay flag passed to sinks.
func WithGridlines(on bool) Option { return func(c *Coordinator) { c.gridlines = on } }

// WithLogger sets the logger used for recovered errors.
func WithLogger(log *logrus.Logger) Option { return func(c *Coordinator) { c.log = log } }

// New creates a Coordinator bound to a data source, a prompt for
// ambiguous role mappings, and a frame sink.
func New(src DataSource, prompt Prompt, sink Sink, opts ...Option) *Coordinator {
	c := &Coordinator{src: src, prompt: prompt, sink: sink, log: logrus.StandardLogger()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Render starts a visualization session for v: resolve roles (asking
// the prompt when ambiguous), reset navigation, then draw the first
// slice. A cancelled prompt returns grid.ErrCancelled and leaves all
// prior state untouched.
func (c *Coordinator) Render(v grid.VariableDescriptor) error {
	m, amb, err := axes.Resolve(v)
	if err != nil {
		return err
	}
	if amb != nil {
		m, err = c.prompt.AskAxisRoles(amb)
		if err != nil {
			if !errors.Is(err, grid.ErrCancelled) {
				c.log.WithError(err).Warn("axis-role prompt failed")
			}
			return err
		}
	}
	return c.RenderMapping(m)
}

// RenderMapping starts a visualization session with an explicit,
// already-collected mapping. Interactive callers that run their own
// axis dialog enter here.
func (c *Coordinator) RenderMapping(m axes.RoleMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	c.mapping = m
	c.haveMapping = true
	c.haveRange = false
	c.stepper.SetMapping(m)
	return c.draw()
}

// Step moves the navigation index by delta and redraws. At a boundary
// the index clamps and no redraw happens.
func (c *Coordinator) Step(delta int) error {
	if !c.haveMapping {
		return grid.ErrNotNavigable
	}
	moved, err := c.stepper.Step(delta)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}
	return c.draw()
}

// Jump sets the navigation index directly and redraws.
func (c *Coordinator) Jump(target int) error {
	if !c.haveMapping {
		return grid.ErrNotNavigable
	}
	if err := c.stepper.Jump(target); err != nil {
		return err
	}
	return c.draw()
}

// Navigable reports whether the active mapping has a navigation
// dimension.
func (c *Coordinator) Navigable() bool { return c.stepper.Navigable() }

// NavIndex returns the current navigation index.
func (c *Coordinator) NavIndex() int { return c.stepper.Index() }

// NavSize returns the navigation dimension size.
func (c *Coordinator) NavSize() int { return c.stepper.Size() }

// draw performs steps 3-6 of a render: build the index tuple, fetch
// the slice, establish the color range, publish. The mapping is sticky
// for the session, so steps re-enter here without re-resolving roles.
func (c *Coordinator) draw() error {
	req, err := axes.BuildIndex(c.mapping, c.stepper.Index())
	if err != nil {
		return err
	}
	g, err := c.src.FetchSlice(req)
	if err != nil {
		c.log.WithError(err).WithField("variable", req.Var).Warn("slice fetch failed")
		if errors.Is(err, grid.ErrDataFetch) {
			return err
		}
		return fmt.Errorf("%w: %v", grid.ErrDataFetch, err)
	}

	frame := Frame{
		Var:        c.mapping.Var,
		XDim:       c.mapping.Var.Dims[c.mapping.XPos()],
		YDim:       c.mapping.Var.Dims[c.mapping.YPos()],
		Grid:       g,
		Coastlines: c.coastlines,
		Gridlines:  c.gridlines,
		NavLabel:   c.stepper.Label(),
		FixedLabel: c.fixedLabel(),
	}

	min, max, err := colorRange(g)
	if err != nil {
		frame.Empty = true
		c.sink.Publish(frame)
		return err
	}
	if !c.haveRange {
		c.rangeMin, c.rangeMax = min, max
		c.haveRange = true
	} else {
		// Widen only, so stepping does not make the scale flicker.
		if min < c.rangeMin {
			c.rangeMin = min
		}
		if max > c.rangeMax {
			c.rangeMax = max
		}
	}
	frame.Min, frame.Max = c.rangeMin, c.rangeMax
	c.sink.Publish(frame)
	return nil
}

// fixedLabel formats the held dimensions, e.g. "level=2, member=0".
func (c *Coordinator) fixedLabel() string {
	var parts []string
	for i, r := range c.mapping.Roles {
		if r == axes.RoleFixed {
			parts = append(parts, fmt.Sprintf("%s=%d", c.mapping.Var.Dims[i].Name, c.mapping.Fixed[i]))
		}
	}
	return strings.Join(parts, ", ")
}
