/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"screenruler/internal/calibration"
	"screenruler/internal/geom"
	"screenruler/internal/ticks"
)

// Host is the windowing side the engine talks to. All rectangles and points are
// absolute screen coordinates.
type Host interface {
	// LocateShape reports where the host currently shows the ruler center.
	// ok is false while the window has not been laid out yet.
	LocateShape() (c geom.Pt, ok bool)
	PrimaryScreen() geom.Rect
	// SetSurface moves and resizes the host render surface.
	SetSurface(r geom.Rect)
	CapturePointer()
	ReleasePointer()
}

// Transform is the cheap per-move output: where the ruler is and the size text.
type Transform struct {
	Geometry Geometry
	Surface  geom.Rect
	// Local maps ruler-local coordinates to surface coordinates.
	Local   geom.Affine2D
	Readout calibration.Readout
}

// Scene is the full output used after a session finished.
type Scene struct {
	Transform
	Frame     ticks.Frame
	Unit      ticks.Unit
	Edges     ticks.Edges
	BodyAlpha uint8
}

// Renderer draws what the engine computed.
type Renderer interface {
	UpdateTransform(t Transform)
	Render(s Scene)
}

// Mods is the modifier key state attached to pointer events.
type Mods uint8

const (
	ModRotate Mods = 1 << iota // rotation modifier (Shift in the fyne host)
	ModFine                    // fine keyboard step (Ctrl)
)

// PointerEvent carries an absolute pointer position and the button that changed.
type PointerEvent struct {
	Pos    geom.Pt
	Button Button
	Mods   Mods
}

// Arrow is a keyboard nudge direction.
type Arrow int

const (
	ArrowLeft Arrow = iota + 1
	ArrowRight
	ArrowUp
	ArrowDown
)

const (
	NudgeStep     = 5.0
	NudgeFineStep = 1.0
)

// BodyAlpha converts an opacity menu percentage into the body fill alpha.
// 0% is an opaque body, 100% fully transparent.
func BodyAlpha(pct int) uint8 {
	pct = min(max(pct, 0), 100)
	return uint8(255 * (100 - pct) / 100)
}

// StaticHost is a Host without a window. It reports a fixed ruler position and
// records the surface it is given; used for headless rendering.
type StaticHost struct {
	Screen  geom.Rect
	At      geom.Pt
	Located bool
	Surface geom.Rect
}

func (h *StaticHost) LocateShape() (geom.Pt, bool) { return h.At, h.Located }
func (h *StaticHost) PrimaryScreen() geom.Rect      { return h.Screen }
func (h *StaticHost) SetSurface(r geom.Rect)        { h.Surface = r }
func (h *StaticHost) CapturePointer()               {}
func (h *StaticHost) ReleasePointer()               {}
