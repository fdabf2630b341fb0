/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"screenruler/internal/geom"
)

// Kind is the interaction a drag session performs.
type Kind int

const (
	KindNone Kind = iota
	KindMoving
	KindRotating
	KindResizing
)

func (k Kind) String() string {
	switch k {
	case KindMoving:
		return "moving"
	case KindRotating:
		return "rotating"
	case KindResizing:
		return "resizing"
	}
	return "idle"
}

// Edge selects which sides a resize session moves. Bits combine.
type Edge int

const (
	EdgeRight       Edge = 1 << iota
	EdgeBottom
	EdgeBottomRight = EdgeRight | EdgeBottom
)

func (e Edge) has(o Edge) bool { return e&o != 0 }

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
	ButtonTertiary
)

// Session is the bookkeeping of one press-move-release gesture.
type Session struct {
	ID                uint64
	Kind              Kind
	Edge              Edge
	Button            Button
	StartPointer      geom.Pt
	StartShape        Geometry
	Pivot             geom.Pt
	StartPointerAngle float64
}

// DragController is the Idle/Moving/Rotating/Resizing state machine. Every move
// is computed from the session snapshot, never from the previous frame.
type DragController struct {
	shape  *Shape
	s      Session
	nextID uint64
}

func NewDragController(shape *Shape) *DragController { return &DragController{shape: shape} }

// Active reports whether a session is running.
func (d *DragController) Active() bool { return d.s.Kind != KindNone }

// Session returns the running session (Kind is KindNone when idle).
func (d *DragController) Session() Session { return d.s }

// Begin starts a session at pointer p. It fails while another session is active
// or when the shape has no valid position yet.
func (d *DragController) Begin(kind Kind, edge Edge, btn Button, p geom.Pt) bool {
	if d.Active() || kind == KindNone || !d.shape.Placed() || p.IsNaN() {
		return false
	}
	if kind == KindResizing && edge&EdgeBottomRight == 0 {
		return false
	}
	g := d.shape.Get()
	d.nextID++
	d.s = Session{
		ID:           d.nextID,
		Kind:         kind,
		Edge:         edge,
		Button:       btn,
		StartPointer: p,
		StartShape:   g,
		Pivot:        g.Center,
	}
	if kind == KindRotating {
		d.s.StartPointerAngle = p.Sub(g.Center).Angle()
	}
	return true
}

// Move applies pointer position p to the shape and returns the new geometry.
func (d *DragController) Move(p geom.Pt) (Geometry, bool) {
	if !d.Active() || p.IsNaN() {
		return d.shape.Get(), false
	}
	start := d.s.StartShape
	g := start
	switch d.s.Kind {
	case KindMoving:
		g.Center = start.Center.Add(p.Sub(d.s.StartPointer))
	case KindRotating:
		cur := p.Sub(d.s.Pivot).Angle()
		raw := geom.NormalizeAngle(start.Angle + geom.WrapDelta(cur-d.s.StartPointerAngle))
		g.Angle = geom.SnapAngle(raw)
	case KindResizing:
		local := p.Sub(d.s.StartPointer).Rotate(-start.Angle)
		if d.s.Edge.has(EdgeRight) {
			g.Width = max(start.Width+local.X, MinWidth)
		}
		if d.s.Edge.has(EdgeBottom) {
			g.Height = max(start.Height+local.Y, MinHeight)
		}
		// keep the opposite edges fixed on screen
		shift := geom.Pt{X: (g.Width - start.Width) / 2, Y: (g.Height - start.Height) / 2}
		g.Center = start.Center.Add(shift.Rotate(start.Angle))
	}
	d.shape.Set(g)
	return d.shape.Get(), true
}

// End returns to Idle and hands back the finished session. Calling End while
// idle reports false, so a pointer-up followed by a capture loss ends once.
func (d *DragController) End() (Session, bool) {
	if !d.Active() {
		return Session{}, false
	}
	s := d.s
	d.s = Session{}
	return s, true
}
