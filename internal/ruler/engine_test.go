/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"testing"
	"time"

	"screenruler/internal/calibration"
	"screenruler/internal/geom"
	"screenruler/internal/ticks"
)

type fakeHost struct {
	locate   geom.Pt
	located  bool
	screen   geom.Rect
	surfaces []geom.Rect
	captured int
	released int
}

func (h *fakeHost) LocateShape() (geom.Pt, bool) { return h.locate, h.located }
func (h *fakeHost) PrimaryScreen() geom.Rect      { return h.screen }
func (h *fakeHost) SetSurface(r geom.Rect)        { h.surfaces = append(h.surfaces, r) }
func (h *fakeHost) CapturePointer()               { h.captured++ }
func (h *fakeHost) ReleasePointer()               { h.released++ }

type fakeRenderer struct {
	transforms []Transform
	scenes     []Scene
}

func (r *fakeRenderer) UpdateTransform(t Transform) { r.transforms = append(r.transforms, t) }
func (r *fakeRenderer) Render(s Scene)              { r.scenes = append(r.scenes, s) }

type rig struct {
	host *fakeHost
	out  *fakeRenderer
	q    *Queue
	e    *Engine
}

// newRig returns an engine whose ruler is placed on the screen center (960,540),
// spanning 660..1260 x 465..615.
func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		host: &fakeHost{screen: geom.R(0, 0, 1920, 1080)},
		out:  &fakeRenderer{},
		q:    &Queue{},
	}
	r.e = NewEngine(r.host, r.out, r.q, DefaultOptions())
	r.e.Start()
	r.q.Drain()
	if g := r.e.Geometry(); g.Center != (geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("initial placement: %+v", g)
	}
	return r
}

func down(p geom.Pt) PointerEvent { return PointerEvent{Pos: p, Button: ButtonPrimary} }

func TestEngineStartRendersTightSurface(t *testing.T) {
	r := newRig(t)
	if len(r.out.scenes) != 1 || r.e.Finalized() != 1 {
		t.Fatalf("expected one initial render, got %d", len(r.out.scenes))
	}
	want := geom.CenteredRect(geom.Pt{X: 960, Y: 540}, geom.Size{W: 600 + HandleMargin, H: 150 + HandleMargin})
	if r.e.Surface() != want {
		t.Fatalf("surface %+v want %+v", r.e.Surface(), want)
	}
	sc := r.out.scenes[0]
	if len(sc.Frame.Segments) != 300 || sc.BodyAlpha != BodyAlpha(30) {
		t.Fatalf("scene: %d segments alpha %d", len(sc.Frame.Segments), sc.BodyAlpha)
	}
	if sc.Readout.Width != " 600 px" || sc.Readout.Height != " 150 px" {
		t.Fatalf("readout: %+v", sc.Readout)
	}
}

func TestEngineMoveAndInverseMove(t *testing.T) {
	r := newRig(t)
	if !r.e.PointerDown(down(geom.Pt{X: 900, Y: 540})) {
		t.Fatalf("press on body not consumed")
	}
	if r.e.Session().Kind != KindMoving || r.host.captured != 1 {
		t.Fatalf("session: %+v captured=%d", r.e.Session(), r.host.captured)
	}
	r.e.PointerMove(down(geom.Pt{X: 937, Y: 511}))
	r.e.PointerMove(down(geom.Pt{X: 950, Y: 560}))
	r.e.PointerUp(down(geom.Pt{X: 950, Y: 560}))
	r.q.Drain()
	if c := r.e.Geometry().Center; c != (geom.Pt{X: 1010, Y: 560}) {
		t.Fatalf("center after move: %v", c)
	}

	r.e.PointerDown(down(geom.Pt{X: 1000, Y: 560}))
	r.e.PointerMove(down(geom.Pt{X: 950, Y: 540}))
	r.e.PointerUp(down(geom.Pt{X: 950, Y: 540}))
	r.q.Drain()
	if c := r.e.Geometry().Center; c != (geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("inverse move should restore the center: %v", c)
	}
	if r.host.released != 2 {
		t.Fatalf("pointer released %d times", r.host.released)
	}
}

func TestEngineResizeRightEdge(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 1260, Y: 540}))
	if s := r.e.Session(); s.Kind != KindResizing || s.Edge != EdgeRight {
		t.Fatalf("session: %+v", s)
	}
	r.e.PointerMove(down(geom.Pt{X: 1310, Y: 540}))
	g := r.e.Geometry()
	if g.Width != 650 || g.Center != (geom.Pt{X: 985, Y: 540}) {
		t.Fatalf("resize: %+v", g)
	}
	last := r.out.transforms[len(r.out.transforms)-1]
	if last.Readout.Width != " 650 px" {
		t.Fatalf("readout not refreshed during move: %q", last.Readout.Width)
	}
	// heavy work waits for the end of the session
	if len(r.out.scenes) != 1 {
		t.Fatalf("no render expected during the drag, got %d", len(r.out.scenes))
	}
	r.e.PointerUp(down(geom.Pt{X: 1310, Y: 540}))
	r.q.Drain()
	if len(r.out.scenes) != 2 || len(r.out.scenes[1].Frame.Segments) != 325 {
		t.Fatalf("final render: %d scenes", len(r.out.scenes))
	}
}

func TestEngineResizeClampsToMinimum(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 1260, Y: 615}))
	r.e.PointerMove(down(geom.Pt{X: 0, Y: 0}))
	g := r.e.Geometry()
	if g.Width != MinWidth || g.Height != MinHeight {
		t.Fatalf("clamp: %vx%v", g.Width, g.Height)
	}
}

func TestEngineRotateScenarioAndSurface(t *testing.T) {
	r := newRig(t)
	c := geom.Pt{X: 960, Y: 540}
	rot := PointerEvent{Pos: pointOnCircle(c, 50, 0), Button: ButtonPrimary, Mods: ModRotate}
	r.e.PointerDown(rot)
	r.e.PointerMove(down(pointOnCircle(c, 50, 80)))
	r.e.PointerUp(down(pointOnCircle(c, 50, 80)))
	r.q.Drain()
	if a := r.e.Geometry().Angle; !almost(a, 80) {
		t.Fatalf("first rotation: %v", a)
	}

	rot.Pos = pointOnCircle(c, 50, 10)
	if !r.e.PointerDown(rot) || r.e.Session().Kind != KindRotating {
		t.Fatalf("rotation session not started")
	}
	for _, deg := range []float64{13, 17, 22} {
		r.e.PointerMove(down(pointOnCircle(c, 50, deg)))
		g := r.e.Geometry()
		s := r.e.Surface()
		for _, p := range g.Corners() {
			if !s.Contains(p) {
				t.Fatalf("corner %v outside surface %+v at %v deg", p, s, g.Angle)
			}
		}
	}
	if a := r.e.Geometry().Angle; a != 90 {
		t.Fatalf("92 degrees should snap to 90, got %v", a)
	}
	diag := geom.DiagonalSquare(600, 150, HandleMargin)
	if s := r.e.Surface(); s.W < diag.W || s.H < diag.H {
		t.Fatalf("surface not expanded to the diagonal: %+v", s)
	}
	r.e.PointerUp(down(pointOnCircle(c, 50, 22)))
	r.q.Drain()
	want := geom.CenteredRect(c, geom.Size{W: 150 + HandleMargin, H: 600 + HandleMargin})
	if r.e.Surface() != want {
		t.Fatalf("surface not shrunk to the tight box: %+v want %+v", r.e.Surface(), want)
	}
}

func TestEngineBoundingBoxPolicy(t *testing.T) {
	r := newRig(t)
	r.e.SetPolicy(ExpandBoundingBox)
	c := geom.Pt{X: 960, Y: 540}
	r.e.PointerDown(PointerEvent{Pos: pointOnCircle(c, 50, 0), Button: ButtonPrimary, Mods: ModRotate})
	start := r.e.Surface()
	r.e.PointerMove(down(pointOnCircle(c, 50, 45)))
	bb := geom.BoundingBox(600, 150, 45, HandleMargin)
	s := r.e.Surface()
	if s.W != start.W || !almost(s.H, bb.H) {
		t.Fatalf("surface %+v, want width %v height %v", s, start.W, bb.H)
	}
	r.e.PointerMove(down(pointOnCircle(c, 50, 2)))
	if s := r.e.Surface(); !almost(s.H, bb.H) {
		t.Fatalf("surface must not shrink during a session: %+v", s)
	}
}

func TestEngineFinalizeRunsOncePerSession(t *testing.T) {
	r := newRig(t)
	before := r.e.Finalized()
	r.e.PointerDown(down(geom.Pt{X: 900, Y: 540}))
	r.e.PointerMove(down(geom.Pt{X: 910, Y: 540}))
	if r.e.PointerUp(PointerEvent{Pos: geom.Pt{X: 910, Y: 540}, Button: ButtonSecondary}) {
		t.Fatalf("release of another button must be ignored")
	}
	r.e.PointerUp(down(geom.Pt{X: 910, Y: 540}))
	r.e.CaptureLost()
	r.e.PointerUp(down(geom.Pt{X: 910, Y: 540}))
	if r.q.Len() != 1 {
		t.Fatalf("expected a single pending finalize, got %d", r.q.Len())
	}
	r.q.Drain()
	if got := r.e.Finalized() - before; got != 1 {
		t.Fatalf("finalize ran %d times", got)
	}
}

func TestEngineCaptureLossEndsSession(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 900, Y: 540}))
	r.e.PointerMove(down(geom.Pt{X: 930, Y: 540}))
	r.e.CaptureLost()
	if r.e.Session().Kind != KindNone {
		t.Fatalf("session still active after capture loss")
	}
	r.q.Drain()
	if r.e.Finalized() != 2 || r.host.released != 1 {
		t.Fatalf("finalized=%d released=%d", r.e.Finalized(), r.host.released)
	}
	if r.e.PointerMove(down(geom.Pt{X: 990, Y: 540})) {
		t.Fatalf("moves after the session ended must be ignored")
	}
}

func TestEngineIgnoresSecondButton(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 900, Y: 540}))
	if r.e.PointerDown(PointerEvent{Pos: geom.Pt{X: 1260, Y: 540}, Button: ButtonSecondary, Mods: ModRotate}) {
		t.Fatalf("second press must be ignored")
	}
	if s := r.e.Session(); s.Kind != KindMoving || s.Button != ButtonPrimary {
		t.Fatalf("session changed: %+v", s)
	}
}

func TestEngineResolvesUnplacedShape(t *testing.T) {
	host := &fakeHost{screen: geom.R(0, 0, 1920, 1080), locate: geom.Pt{X: 300, Y: 200}, located: true}
	q := &Queue{}
	e := NewEngine(host, &fakeRenderer{}, q, DefaultOptions())
	if !e.PointerDown(PointerEvent{Pos: geom.Pt{X: 600, Y: 200}, Button: ButtonPrimary}) {
		t.Fatalf("press on the right edge of a located ruler should be consumed")
	}
	s := e.Session()
	if s.Kind != KindResizing || s.StartShape.Center != (geom.Pt{X: 300, Y: 200}) || s.Pivot != s.StartShape.Center {
		t.Fatalf("session: %+v", s)
	}

	host2 := &fakeHost{screen: geom.R(0, 0, 800, 600)}
	e2 := NewEngine(host2, &fakeRenderer{}, q, DefaultOptions())
	e2.Key(ArrowLeft, true)
	if c := e2.Geometry().Center; c != (geom.Pt{X: 399, Y: 300}) {
		t.Fatalf("fallback to screen center: %v", c)
	}
}

func TestEngineKeyNudgeAndUndo(t *testing.T) {
	r := newRig(t)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r.e.now = func() time.Time { return fixed }
	r.e.Key(ArrowRight, false)
	r.e.Key(ArrowDown, true)
	r.e.Key(ArrowUp, false)
	if c := r.e.Geometry().Center; c != (geom.Pt{X: 965, Y: 536}) {
		t.Fatalf("nudge: %v", c)
	}
	if s := r.e.Surface(); s.Center() != r.e.Geometry().Center {
		t.Fatalf("surface did not follow the nudge: %+v", s)
	}
	if !r.e.Undo() {
		t.Fatalf("undo failed")
	}
	if c := r.e.Geometry().Center; c != (geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("a nudge burst should undo as one step: %v", c)
	}
	if !r.e.Redo() || r.e.Geometry().Center != (geom.Pt{X: 965, Y: 536}) {
		t.Fatalf("redo: %v", r.e.Geometry().Center)
	}
}

func TestEngineUndoDrag(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 1260, Y: 540}))
	r.e.PointerMove(down(geom.Pt{X: 1310, Y: 540}))
	r.e.PointerUp(down(geom.Pt{X: 1310, Y: 540}))
	r.q.Drain()
	// a click without movement records nothing
	r.e.PointerDown(down(geom.Pt{X: 900, Y: 540}))
	r.e.PointerUp(down(geom.Pt{X: 900, Y: 540}))
	r.q.Drain()
	if !r.e.Undo() {
		t.Fatalf("undo failed")
	}
	if g := r.e.Geometry(); g.Width != 600 || g.Center.X != 960 {
		t.Fatalf("undo resize: %+v", g)
	}
	if r.e.CanUndo() {
		t.Fatalf("only one step expected")
	}
}

func TestEngineResetAndSettings(t *testing.T) {
	r := newRig(t)
	r.e.SetEdges(ticks.Edges{Left: true, Right: true})
	r.e.SetUnit(ticks.UnitMM)
	r.e.SetOpacity(150)
	r.e.PointerDown(PointerEvent{Pos: geom.Pt{X: 1000, Y: 540}, Button: ButtonPrimary, Mods: ModRotate})
	r.e.PointerMove(down(geom.Pt{X: 960, Y: 580}))
	r.e.Reset()
	if r.e.Session().Kind != KindNone {
		t.Fatalf("reset must end the running session")
	}
	r.q.Drain()
	g := r.e.Geometry()
	if g != DefaultGeometry(geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("reset geometry: %+v", g)
	}
	sc := r.out.scenes[len(r.out.scenes)-1]
	if sc.Edges != ticks.DefaultEdges() || sc.Unit != ticks.UnitMM || sc.BodyAlpha != 0 {
		t.Fatalf("scene after reset: edges=%v unit=%v alpha=%d", sc.Edges, sc.Unit, sc.BodyAlpha)
	}
	if sc.Readout.Width != " 159 mm" {
		t.Fatalf("mm readout: %q", sc.Readout.Width)
	}
}

func TestEngineCalibration(t *testing.T) {
	r := newRig(t)
	if err := r.e.SetCalibration(calibrationRatio(0, 1), true); err == nil {
		t.Fatalf("invalid ratio accepted")
	}
	if err := r.e.SetCalibration(calibrationRatio(200, 5), true); err != nil {
		t.Fatalf("valid ratio rejected: %v", err)
	}
	r.q.Drain()
	sc := r.out.scenes[len(r.out.scenes)-1]
	if sc.Readout.LogicalW != "15.00 cm" {
		t.Fatalf("calibrated readout: %+v", sc.Readout)
	}
	r.e.SetCalibrationEnabled(false)
	if last := r.out.transforms[len(r.out.transforms)-1]; last.Readout.LogicalW != "" {
		t.Fatalf("disabled calibration still shown")
	}
}

func TestEngineLocalTransformMapsIntoSurface(t *testing.T) {
	r := newRig(t)
	tr := r.out.scenes[0].Transform
	tl := tr.Local.Apply(geom.Pt{})
	if tl != (geom.Pt{X: HandleMargin / 2, Y: HandleMargin / 2}) {
		t.Fatalf("ruler origin in surface: %v", tl)
	}
}

func calibrationRatio(px, logical float64) calibration.Ratio {
	return calibration.Ratio{PxLength: px, LogicalLength: logical, LogicalUnit: "cm"}
}

func TestEngineSetGeometryIsUndoable(t *testing.T) {
	r := newRig(t)
	r.e.SetGeometry(Geometry{Center: geom.Pt{X: 500, Y: 400}, Width: 40, Height: 300, Angle: -90})
	r.q.Drain()
	g := r.e.Geometry()
	if g.Width != MinWidth || g.Height != 300 || g.Angle != 270 || g.Center != (geom.Pt{X: 500, Y: 400}) {
		t.Fatalf("set geometry: %+v", g)
	}
	if !r.e.Undo() || r.e.Geometry().Center != (geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("undo after set geometry: %+v", r.e.Geometry())
	}
}

func TestStaticHostRecordsSurface(t *testing.T) {
	h := &StaticHost{Screen: geom.R(0, 0, 800, 600), At: geom.Pt{X: 400, Y: 300}, Located: true}
	out := &fakeRenderer{}
	q := &Queue{}
	e := NewEngine(h, out, q, DefaultOptions())
	e.Start()
	q.Drain()
	if e.Geometry().Center != (geom.Pt{X: 400, Y: 300}) {
		t.Fatalf("center: %+v", e.Geometry())
	}
	if h.Surface != e.Surface() || h.Surface.W != DefaultWidth+HandleMargin {
		t.Fatalf("surface: %+v", h.Surface)
	}
}

func TestEngineRotateKnobWithoutModifier(t *testing.T) {
	r := newRig(t)
	knob := r.e.Geometry().LocalToScreen().Apply(RotateHandleCenter(r.e.Geometry()))
	if !almost(knob.X, 960) || !almost(knob.Y, 435) {
		t.Fatalf("knob at %v", knob)
	}
	if !r.e.PointerDown(down(knob)) || r.e.Session().Kind != KindRotating {
		t.Fatalf("knob press should rotate, got %v", r.e.Session().Kind)
	}
	r.e.PointerMove(down(geom.Pt{X: 1065, Y: 540}))
	r.e.PointerUp(down(geom.Pt{X: 1065, Y: 540}))
	r.q.Drain()
	g := r.e.Geometry()
	if !almost(g.Angle, 90) || g.Center != (geom.Pt{X: 960, Y: 540}) {
		t.Fatalf("after knob rotation: %+v", g)
	}
}

func TestEngineFinalizeWaitsForSessionEnd(t *testing.T) {
	r := newRig(t)
	r.e.Key(ArrowRight, false)
	r.e.PointerDown(down(geom.Pt{X: 905, Y: 540}))
	r.e.PointerMove(down(geom.Pt{X: 925, Y: 540}))
	r.q.Drain()
	if r.e.Session().Kind != KindMoving {
		t.Fatalf("session should still run")
	}
	if len(r.out.scenes) != 1 {
		t.Fatalf("no render expected while dragging, got %d", len(r.out.scenes))
	}
	r.e.PointerUp(down(geom.Pt{X: 925, Y: 540}))
	r.q.Drain()
	if len(r.out.scenes) != 2 || r.e.Finalized() != 2 {
		t.Fatalf("render after release: scenes=%d finalized=%d", len(r.out.scenes), r.e.Finalized())
	}
	if c := r.out.scenes[1].Geometry.Center; c != (geom.Pt{X: 985, Y: 540}) {
		t.Fatalf("final center %v", c)
	}
}

func TestEngineCheapUpdateSurfaceFollowsShape(t *testing.T) {
	r := newRig(t)
	r.e.PointerDown(down(geom.Pt{X: 900, Y: 540}))
	r.e.PointerMove(down(geom.Pt{X: 1500, Y: 800}))
	r.e.PointerUp(down(geom.Pt{X: 1500, Y: 800}))
	r.q.Drain()

	contains := func(step string) {
		t.Helper()
		tr := r.out.transforms[len(r.out.transforms)-1]
		for _, p := range tr.Geometry.Corners() {
			if !tr.Surface.Contains(p) {
				t.Fatalf("%s: corner %v outside surface %+v", step, p, tr.Surface)
			}
		}
		if last := r.host.surfaces[len(r.host.surfaces)-1]; last != tr.Surface {
			t.Fatalf("%s: host surface %+v, transform %+v", step, last, tr.Surface)
		}
	}
	r.e.Reset()
	contains("reset")
	r.e.Undo()
	contains("undo")
	r.e.Redo()
	contains("redo")
	r.e.SetGeometry(Geometry{Center: geom.Pt{X: 200, Y: 900}, Width: 300, Height: 100, Angle: 45})
	contains("set geometry")
}
