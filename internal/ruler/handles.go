/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"math"

	"screenruler/internal/geom"
)

// Handle is the part of the ruler under the pointer.
type Handle int

const (
	HandleNone Handle = iota
	HandleBody
	HandleRotate
	HandleResizeRight
	HandleResizeBottom
	HandleResizeBottomRight
)

func (h Handle) String() string {
	switch h {
	case HandleBody:
		return "body"
	case HandleRotate:
		return "rotate"
	case HandleResizeRight:
		return "resize-right"
	case HandleResizeBottom:
		return "resize-bottom"
	case HandleResizeBottomRight:
		return "resize-bottom-right"
	}
	return "none"
}

// Edge returns the resize edge grabbed by h.
func (h Handle) Edge() (Edge, bool) {
	switch h {
	case HandleResizeRight:
		return EdgeRight, true
	case HandleResizeBottom:
		return EdgeBottom, true
	case HandleResizeBottomRight:
		return EdgeBottomRight, true
	}
	return 0, false
}

const (
	// HandleThickness is the width of the grab band straddling the right and bottom edges.
	HandleThickness = 12.0
	// RotateHandleOffset is how far above the top edge the rotation knob sits.
	RotateHandleOffset = 30.0
	RotateHandleRadius = 10.0
	// HandleMargin is added to the tight bounding box so handles stay on the surface.
	HandleMargin = 2 * (RotateHandleOffset + RotateHandleRadius)
)

// RotateHandleCenter returns the knob position in ruler-local coordinates.
func RotateHandleCenter(g Geometry) geom.Pt {
	return geom.Pt{X: g.Width / 2, Y: -RotateHandleOffset}
}

// HitTest classifies an absolute point against the ruler and its handles.
func HitTest(g Geometry, p geom.Pt) Handle {
	l := g.ToLocal(p)
	if l.Sub(RotateHandleCenter(g)).Len() <= RotateHandleRadius {
		return HandleRotate
	}
	half := HandleThickness / 2
	onRight := math.Abs(l.X-g.Width) <= half && l.Y >= -half && l.Y <= g.Height+half
	onBottom := math.Abs(l.Y-g.Height) <= half && l.X >= -half && l.X <= g.Width+half
	switch {
	case onRight && onBottom:
		return HandleResizeBottomRight
	case onRight:
		return HandleResizeRight
	case onBottom:
		return HandleResizeBottom
	}
	if l.X >= 0 && l.X <= g.Width && l.Y >= 0 && l.Y <= g.Height {
		return HandleBody
	}
	return HandleNone
}
