/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// BoundingBox returns the minimal axis-aligned size enclosing a w×h rectangle rotated by
// angle degrees, grown by margin on each axis.
func BoundingBox(w, h, angle, margin float64) Size {
	s, c := SinCos(angle)
	s, c = math.Abs(s), math.Abs(c)
	return Size{
		W: w*c + h*s + margin,
		H: w*s + h*c + margin,
	}
}

// DiagonalSquare returns the square that contains a w×h rectangle at every rotation.
func DiagonalSquare(w, h, margin float64) Size {
	d := math.Hypot(w, h) + margin
	return Size{W: d, H: d}
}

// RotatedCorners returns the four corners of a w×h rectangle centered on c and rotated
// by angle degrees, in order top-left, top-right, bottom-right, bottom-left.
func RotatedCorners(c Pt, w, h, angle float64) [4]Pt {
	m := Translate(c.X, c.Y).Mul(Rotate(angle))
	hw, hh := w/2, h/2
	return [4]Pt{
		m.Apply(Pt{-hw, -hh}),
		m.Apply(Pt{hw, -hh}),
		m.Apply(Pt{hw, hh}),
		m.Apply(Pt{-hw, hh}),
	}
}
