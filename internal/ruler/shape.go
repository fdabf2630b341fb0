/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ruler holds the interactive state of the on-screen ruler: its shape, the
// drag state machine that edits it and the engine that maps host input onto both.
// All coordinates are absolute screen coordinates in device independent pixels.
package ruler

import (
	"math"

	"screenruler/internal/geom"
)

const (
	MinWidth      = 100.0
	MinHeight     = 50.0
	DefaultWidth  = 600.0
	DefaultHeight = 150.0
)

// Geometry is a value snapshot of the ruler rectangle.
type Geometry struct {
	Center        geom.Pt
	Width, Height float64
	Angle         float64 // degrees, clockwise, [0,360)
}

// DefaultGeometry is the reset state centered on c.
func DefaultGeometry(c geom.Pt) Geometry {
	return Geometry{Center: c, Width: DefaultWidth, Height: DefaultHeight}
}

func (g Geometry) Size() geom.Size { return geom.Size{W: g.Width, H: g.Height} }

// LocalToScreen maps ruler-local coordinates (origin at the unrotated top-left
// corner) to absolute screen coordinates.
func (g Geometry) LocalToScreen() geom.Affine2D {
	return geom.Translate(g.Center.X, g.Center.Y).
		Mul(geom.Rotate(g.Angle)).
		Mul(geom.Translate(-g.Width/2, -g.Height/2))
}

// ToLocal is the inverse of LocalToScreen for a single point.
func (g Geometry) ToLocal(p geom.Pt) geom.Pt {
	l := p.Sub(g.Center).Rotate(-g.Angle)
	return geom.Pt{X: l.X + g.Width/2, Y: l.Y + g.Height/2}
}

// Corners returns the rotated corners TL, TR, BR, BL.
func (g Geometry) Corners() [4]geom.Pt {
	return geom.RotatedCorners(g.Center, g.Width, g.Height, g.Angle)
}

// Bounds is the tight axis-aligned bounding box grown by margin.
func (g Geometry) Bounds(margin float64) geom.Rect {
	return geom.CenteredRect(g.Center, geom.BoundingBox(g.Width, g.Height, g.Angle, margin))
}

// Shape owns the current ruler geometry. Setters keep the invariants: minimum
// size, normalized angle and a center without NaN components once placed.
type Shape struct {
	g Geometry
}

// NewShape returns an unplaced shape of default size.
func NewShape() *Shape {
	return &Shape{g: DefaultGeometry(geom.Pt{X: math.NaN(), Y: math.NaN()})}
}

func (s *Shape) Get() Geometry { return s.g }

// Placed reports whether the center holds a valid absolute position.
func (s *Shape) Placed() bool { return !s.g.Center.IsNaN() }

// Set stores g after clamping. NaN components keep their previous value.
func (s *Shape) Set(g Geometry) {
	prev := s.g
	if math.IsNaN(g.Center.X) {
		g.Center.X = prev.Center.X
	}
	if math.IsNaN(g.Center.Y) {
		g.Center.Y = prev.Center.Y
	}
	if math.IsNaN(g.Width) {
		g.Width = prev.Width
	}
	if math.IsNaN(g.Height) {
		g.Height = prev.Height
	}
	if math.IsNaN(g.Angle) {
		g.Angle = prev.Angle
	}
	g.Width = math.Max(g.Width, MinWidth)
	g.Height = math.Max(g.Height, MinHeight)
	g.Angle = geom.NormalizeAngle(g.Angle)
	s.g = g
}

// Place sets the absolute center, e.g. once the host reports where the window is.
func (s *Shape) Place(c geom.Pt) {
	g := s.g
	g.Center = c
	s.Set(g)
}

// Reset restores the default size and angle centered on c.
func (s *Shape) Reset(c geom.Pt) { s.Set(DefaultGeometry(c)) }
