/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ticks

import "strconv"

// scale describes the divisions used for one unit.
type scale struct {
	step, major, mid, minor, labelStep int
}

func scaleFor(u Unit) scale {
	if u == UnitMM {
		return scale{step: 1, major: 10, mid: 5, minor: 1, labelStep: 10}
	}
	return scale{step: 2, major: 100, mid: 50, minor: 10, labelStep: 50}
}

// Classify returns the length category for value v.
func Classify(u Unit, v int) Length {
	sc := scaleFor(u)
	switch {
	case u == UnitMM && v%100 == 0:
		return SuperMajor
	case v%sc.major == 0:
		return Major
	case v%sc.mid == 0:
		return Mid
	case v%sc.minor == 0:
		return Minor
	default:
		return Tiny
	}
}

// Generate produces the ticks for a width×height ruler. Edges are emitted in the
// order top, bottom, left, right; within an edge positions ascend.
func Generate(width, height float64, unit Unit, edges Edges) []Tick {
	var out []Tick
	for _, e := range edges.Enabled() {
		extent := height
		if e.Horizontal() {
			extent = width
		}
		out = appendEdge(out, e, extent, unit)
	}
	return out
}

func appendEdge(out []Tick, e Edge, extent float64, unit Unit) []Tick {
	sc := scaleFor(unit)
	ppu := unit.PxPerUnit()
	limit := extent / ppu
	for v := 0; float64(v) < limit; v += sc.step {
		l := Classify(unit, v)
		// vertical scales skip the smallest marks
		if l == Tiny && !e.Horizontal() {
			continue
		}
		t := Tick{Edge: e, Position: float64(v) * ppu, Value: v, Length: l}
		if v != 0 && v%sc.labelStep == 0 {
			t.Label = strconv.Itoa(v)
			t.Bold = v%100 == 0
		}
		out = append(out, t)
	}
	return out
}
