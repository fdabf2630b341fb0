/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ticks

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Segment is a stroke in ruler-local coordinates (origin at the top-left corner
// of the unrotated ruler). Length is kept so renderers can pick a stroke weight.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Length         Length
}

// Label is a piece of text whose top-left corner sits at X,Y in ruler-local coordinates.
type Label struct {
	Text string
	X, Y float64
	Bold bool
}

// Frame is everything a renderer needs to draw the scale of one ruler.
type Frame struct {
	Width, Height float64
	Segments      []Segment
	Labels        []Label
}

// Measurer reports the rendered size of a label.
type Measurer interface {
	Measure(text string, bold bool) (w, h float64)
}

// BasicMeasurer measures with the fixed 7x13 bitmap face from x/image.
// Bold text is assumed one pixel wider per glyph.
type BasicMeasurer struct{}

func (BasicMeasurer) Measure(text string, bold bool) (float64, float64) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	if bold {
		w += len(text)
	}
	return float64(w), float64(face.Metrics().Height.Ceil())
}

// Layout turns ticks into inward-pointing segments and positioned labels.
// A nil measurer falls back to BasicMeasurer.
func Layout(ts []Tick, width, height float64, m Measurer) Frame {
	if m == nil {
		m = BasicMeasurer{}
	}
	f := Frame{Width: width, Height: height, Segments: make([]Segment, 0, len(ts))}
	for _, t := range ts {
		l := float64(t.Length)
		p := t.Position
		var s Segment
		switch t.Edge {
		case Top:
			s = Segment{X1: p, Y1: 0, X2: p, Y2: l}
		case Bottom:
			s = Segment{X1: p, Y1: height, X2: p, Y2: height - l}
		case Left:
			s = Segment{X1: 0, Y1: p, X2: l, Y2: p}
		case Right:
			s = Segment{X1: width, Y1: p, X2: width - l, Y2: p}
		}
		s.Length = t.Length
		f.Segments = append(f.Segments, s)

		if t.Label == "" {
			continue
		}
		tw, th := m.Measure(t.Label, t.Bold)
		lb := Label{Text: t.Label, Bold: t.Bold}
		switch t.Edge {
		case Top:
			lb.X, lb.Y = p-tw/2, l+2
		case Bottom:
			lb.X, lb.Y = p-tw/2, height-l-th-2
		case Left:
			lb.X, lb.Y = l+4, p-th/2
		case Right:
			lb.X, lb.Y = width-l-tw-4, p-th/2
		}
		f.Labels = append(f.Labels, lb)
	}
	return f
}

// Build is Generate followed by Layout.
func Build(width, height float64, unit Unit, edges Edges, m Measurer) Frame {
	return Layout(Generate(width, height, unit, edges), width, height, m)
}
