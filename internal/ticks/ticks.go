/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ticks derives the tick marks and labels drawn along the ruler edges.
// Everything here is a pure function of its inputs so the result can be
// regenerated at any time and compared in tests.
package ticks

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the measuring unit shown on the ruler.
type Unit string

const (
	UnitPx Unit = "px"
	UnitMM Unit = "mm"
)

// ParseUnit accepts "px" or "mm" (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case UnitPx:
		return UnitPx, nil
	case UnitMM:
		return UnitMM, nil
	}
	return "", fmt.Errorf("unknown unit %q (want px or mm)", s)
}

// PxPerUnit returns how many device-independent pixels make one unit (96 dpi).
func (u Unit) PxPerUnit() float64 {
	if u == UnitMM {
		return 96.0 / 25.4
	}
	return 1
}

// Edge identifies one side of the ruler.
type Edge uint8

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "edge(" + strconv.Itoa(int(e)) + ")"
}

// Horizontal reports whether ticks on e run along the width axis.
func (e Edge) Horizontal() bool { return e == Top || e == Bottom }

// Edges holds the independently toggleable visibility flags.
type Edges struct {
	Top, Bottom, Left, Right bool
}

// DefaultEdges shows the top scale only.
func DefaultEdges() Edges { return Edges{Top: true} }

// Enabled returns the visible edges in output order.
func (e Edges) Enabled() []Edge {
	var out []Edge
	if e.Top {
		out = append(out, Top)
	}
	if e.Bottom {
		out = append(out, Bottom)
	}
	if e.Left {
		out = append(out, Left)
	}
	if e.Right {
		out = append(out, Right)
	}
	return out
}

// Has reports whether edge is visible.
func (e Edges) Has(edge Edge) bool {
	switch edge {
	case Top:
		return e.Top
	case Bottom:
		return e.Bottom
	case Left:
		return e.Left
	case Right:
		return e.Right
	}
	return false
}

// With returns a copy with edge switched on or off.
func (e Edges) With(edge Edge, on bool) Edges {
	switch edge {
	case Top:
		e.Top = on
	case Bottom:
		e.Bottom = on
	case Left:
		e.Left = on
	case Right:
		e.Right = on
	}
	return e
}

// String renders the flags as a comma list, e.g. "top,left".
func (e Edges) String() string {
	parts := make([]string, 0, 4)
	for _, edge := range e.Enabled() {
		parts = append(parts, edge.String())
	}
	return strings.Join(parts, ",")
}

// ParseEdges parses a comma separated list of edge names. An empty string yields no edges.
func ParseEdges(s string) (Edges, error) {
	var e Edges
	for _, p := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "":
		case "top":
			e.Top = true
		case "bottom":
			e.Bottom = true
		case "left":
			e.Left = true
		case "right":
			e.Right = true
		case "all":
			e = Edges{Top: true, Bottom: true, Left: true, Right: true}
		default:
			return Edges{}, fmt.Errorf("unknown edge %q", p)
		}
	}
	return e, nil
}

// Length is the tick length category; the value is the drawn length in pixels.
type Length int

const (
	Tiny       Length = 5
	Minor      Length = 10
	Mid        Length = 15
	Major      Length = 18
	SuperMajor Length = 22
)

// Tick is one mark along an edge.
type Tick struct {
	Edge     Edge
	Position float64 // offset along the edge axis in pixels
	Value    int     // value in the selected unit
	Length   Length
	Label    string // empty when no label is drawn
	Bold     bool
}
