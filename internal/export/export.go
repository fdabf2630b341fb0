/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a ruler scene to files. The renderers mirror what the
// on-screen overlay draws: the translucent body, the rotation knob, the tick
// segments and the labels, all placed on the host surface.
package export

import (
	"fmt"
	"image/color"
	"math"

	"screenruler/internal/geom"
	"screenruler/internal/ruler"
	"screenruler/internal/ticks"
)

// Options controls the look of exported rulers. Zero colors fall back to defaults.
type Options struct {
	// Guides outlines the host surface and marks the ruler center.
	Guides     bool
	Background color.RGBA // transparent when zero
	Body       color.RGBA // body fill; alpha comes from the scene
	Ink        color.RGBA // ticks, outline, labels
	GuideColor color.RGBA
}

func (o Options) withDefaults() Options {
	if o.Body == (color.RGBA{}) {
		o.Body = color.RGBA{R: 255, G: 250, B: 205, A: 255}
	}
	if o.Ink == (color.RGBA{}) {
		o.Ink = color.RGBA{A: 255}
	}
	if o.GuideColor == (color.RGBA{}) {
		o.GuideColor = color.RGBA{R: 255, A: 255}
	}
	return o
}

// strokeWidth maps a tick category to a stroke weight.
func strokeWidth(l ticks.Length) float64 {
	switch l {
	case ticks.SuperMajor:
		return 2
	case ticks.Major:
		return 1.5
	default:
		return 1
	}
}

type line struct {
	a, b  geom.Pt
	width float64
}

type label struct {
	text   string
	anchor geom.Pt // top-left of the text in surface coordinates
	bold   bool
}

// drawing is a scene flattened into surface coordinates.
type drawing struct {
	w, h   float64
	angle  float64
	local  geom.Affine2D
	body   [4]geom.Pt
	knob   geom.Pt
	knobR  float64
	lines  []line
	labels []label
	alpha  uint8
	center geom.Pt
}

func flatten(sc ruler.Scene) (drawing, error) {
	s := sc.Surface
	if s.W <= 0 || s.H <= 0 || math.IsNaN(s.W) || math.IsNaN(s.H) {
		return drawing{}, fmt.Errorf("scene has an empty surface %vx%v", s.W, s.H)
	}
	g := sc.Geometry
	m := sc.Local
	d := drawing{
		w:      s.W,
		h:      s.H,
		angle:  g.Angle,
		local:  m,
		alpha:  sc.BodyAlpha,
		knob:   m.Apply(ruler.RotateHandleCenter(g)),
		knobR:  ruler.RotateHandleRadius,
		center: m.Apply(geom.Pt{X: g.Width / 2, Y: g.Height / 2}),
	}
	d.body = [4]geom.Pt{
		m.Apply(geom.Pt{}),
		m.Apply(geom.Pt{X: g.Width}),
		m.Apply(geom.Pt{X: g.Width, Y: g.Height}),
		m.Apply(geom.Pt{Y: g.Height}),
	}
	for _, seg := range sc.Frame.Segments {
		d.lines = append(d.lines, line{
			a:     m.Apply(geom.Pt{X: seg.X1, Y: seg.Y1}),
			b:     m.Apply(geom.Pt{X: seg.X2, Y: seg.Y2}),
			width: strokeWidth(seg.Length),
		})
	}
	for _, l := range sc.Frame.Labels {
		d.labels = append(d.labels, label{text: l.Text, anchor: m.Apply(geom.Pt{X: l.X, Y: l.Y}), bold: l.Bold})
	}
	return d, nil
}
