/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"fmt"
	"math"
	"strings"

	"screenruler/internal/geom"
)

// ExpandPolicy decides how large the host surface is while a session runs.
type ExpandPolicy int

const (
	// ExpandDiagonal uses a square of the shape diagonal for rotate and resize
	// sessions, so any rotation fits. It only grows during a session.
	ExpandDiagonal ExpandPolicy = iota
	// ExpandBoundingBox follows the bounding box at the current angle, grow-only.
	ExpandBoundingBox
)

func (p ExpandPolicy) String() string {
	if p == ExpandBoundingBox {
		return "bbox"
	}
	return "diagonal"
}

func ParseExpandPolicy(s string) (ExpandPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "diagonal":
		return ExpandDiagonal, nil
	case "bbox", "boundingbox", "bounding_box":
		return ExpandBoundingBox, nil
	}
	return ExpandDiagonal, fmt.Errorf("unknown expand policy %q", s)
}

// surfaceDuring returns the surface for geometry g in a running session of kind k.
// prev is the surface of the previous frame.
func (p ExpandPolicy) surfaceDuring(k Kind, g Geometry, prev geom.Rect) geom.Rect {
	if k == KindMoving {
		return geom.CenteredRect(g.Center, prev.Size())
	}
	var want geom.Size
	if p == ExpandBoundingBox {
		want = geom.BoundingBox(g.Width, g.Height, g.Angle, HandleMargin)
	} else {
		want = geom.DiagonalSquare(g.Width, g.Height, HandleMargin)
	}
	// prev is centered on the previous center; keep its extent only if that is larger
	s := geom.Size{W: math.Max(want.W, prev.W), H: math.Max(want.H, prev.H)}
	return geom.CenteredRect(g.Center, s)
}

// tightSurface is the resting surface after a session ended.
func tightSurface(g Geometry) geom.Rect { return g.Bounds(HandleMargin) }
