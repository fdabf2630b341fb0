/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import (
	"log/slog"
	"time"

	"screenruler/internal/calibration"
	"screenruler/internal/geom"
	"screenruler/internal/history"
	rlog "screenruler/internal/log"
	"screenruler/internal/ticks"
)

// Options is the configuration surface the engine reads.
type Options struct {
	Unit               ticks.Unit
	Edges              ticks.Edges
	Opacity            int // percent
	Policy             ExpandPolicy
	Calibration        calibration.Ratio
	CalibrationEnabled bool
	// Measurer sizes tick labels; nil uses ticks.BasicMeasurer.
	Measurer ticks.Measurer
	History  history.Config
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Unit:        ticks.UnitPx,
		Edges:       ticks.DefaultEdges(),
		Opacity:     30,
		Policy:      ExpandDiagonal,
		Calibration: calibration.Identity(),
		History:     history.Config{MaxDepth: 100, MinInterval: 400 * time.Millisecond},
	}
}

// Engine maps pointer, keyboard and menu input onto the ruler shape. It must be
// used from a single goroutine (the UI thread); deferred work goes through the
// Scheduler and runs on that same thread.
type Engine struct {
	host  Host
	out   Renderer
	sched Scheduler

	shape *Shape
	drag  *DragController
	hist  *history.Manager[Geometry]
	opts  Options

	surface  geom.Rect
	pending  bool
	finalize int // completed finalize passes

	// OnChange, when set, is called after every geometry change.
	OnChange func(Geometry)

	now func() time.Time
	log *slog.Logger
}

// NewEngine wires an engine to its collaborators. The shape stays unplaced until
// the host can tell where it is.
func NewEngine(host Host, out Renderer, sched Scheduler, opts Options) *Engine {
	if opts.Unit == "" {
		opts.Unit = ticks.UnitPx
	}
	if opts.Calibration.PxLength == 0 {
		opts.Calibration = calibration.Identity()
	}
	e := &Engine{
		host:  host,
		out:   out,
		sched: sched,
		shape: NewShape(),
		opts:  opts,
		hist:  history.NewManager[Geometry](opts.History),
		now:   time.Now,
		log:   rlog.WithComponent("ruler"),
	}
	e.drag = NewDragController(e.shape)
	return e
}

// Start schedules the first full render.
func (e *Engine) Start() { e.scheduleFinalize() }

// Geometry returns the current shape.
func (e *Engine) Geometry() Geometry { return e.shape.Get() }

// Surface returns the last surface handed to the host.
func (e *Engine) Surface() geom.Rect { return e.surface }

// Options returns the active configuration.
func (e *Engine) Options() Options { return e.opts }

// Session returns the running drag session, Kind is KindNone when idle.
func (e *Engine) Session() Session { return e.drag.Session() }

// Finalized returns how many deferred finalize passes have completed.
func (e *Engine) Finalized() int { return e.finalize }

// LogAttrs describes the running session for the log context provider.
func (e *Engine) LogAttrs() []slog.Attr {
	s := e.drag.Session()
	if s.Kind == KindNone {
		return nil
	}
	return []slog.Attr{slog.String("drag", s.Kind.String()), slog.Uint64("session", s.ID)}
}

// ensurePlaced resolves the absolute position of an unplaced shape.
func (e *Engine) ensurePlaced() {
	if e.shape.Placed() {
		return
	}
	if c, ok := e.host.LocateShape(); ok && !c.IsNaN() {
		e.shape.Place(c)
		return
	}
	c := e.host.PrimaryScreen().Center()
	e.log.Debug("host has no ruler position yet, using screen center", slog.Float64("x", c.X), slog.Float64("y", c.Y))
	e.shape.Place(c)
}

// PointerDown starts a session when the press hits the ruler. It reports whether
// the event was consumed.
func (e *Engine) PointerDown(ev PointerEvent) bool {
	if e.drag.Active() {
		return false
	}
	e.ensurePlaced()
	g := e.shape.Get()
	h := HitTest(g, ev.Pos)
	if h == HandleNone {
		return false
	}
	kind, edge := KindMoving, Edge(0)
	switch {
	case h == HandleRotate || ev.Mods&ModRotate != 0:
		kind = KindRotating
	default:
		if ed, ok := h.Edge(); ok {
			kind, edge = KindResizing, ed
		}
	}
	if !e.drag.Begin(kind, edge, ev.Button, ev.Pos) {
		return false
	}
	e.host.CapturePointer()
	e.log.Debug("drag begin", slog.String("kind", kind.String()), slog.String("handle", h.String()))
	e.setSurface(e.opts.Policy.surfaceDuring(kind, g, e.currentSurface()))
	e.out.UpdateTransform(e.transform())
	return true
}

// PointerMove updates the running session. Only the position is used; button
// changes during a session are ignored.
func (e *Engine) PointerMove(ev PointerEvent) bool {
	if !e.drag.Active() {
		return false
	}
	g, ok := e.drag.Move(ev.Pos)
	if !ok {
		return false
	}
	e.setSurface(e.opts.Policy.surfaceDuring(e.drag.Session().Kind, g, e.currentSurface()))
	e.out.UpdateTransform(e.transform())
	e.changed()
	return true
}

// PointerUp ends the session started by the same button.
func (e *Engine) PointerUp(ev PointerEvent) bool {
	if !e.drag.Active() || ev.Button != e.drag.Session().Button {
		return false
	}
	e.endSession("pointer up")
	return true
}

// CaptureLost ends any running session, e.g. when the window is deactivated.
func (e *Engine) CaptureLost() {
	if e.drag.Active() {
		e.endSession("capture lost")
	}
}

func (e *Engine) endSession(reason string) {
	s, ok := e.drag.End()
	if !ok {
		return
	}
	e.host.ReleasePointer()
	if g := e.shape.Get(); g != s.StartShape {
		e.hist.Commit(s.StartShape)
	}
	e.log.Debug("drag end", slog.String("kind", s.Kind.String()), slog.String("reason", reason), slog.Uint64("session", s.ID))
	e.scheduleFinalize()
}

// Key nudges the ruler by one step along the screen axes. fine selects the 1 px step.
func (e *Engine) Key(a Arrow, fine bool) bool {
	if e.drag.Active() {
		return false
	}
	step := NudgeStep
	if fine {
		step = NudgeFineStep
	}
	var d geom.Pt
	switch a {
	case ArrowLeft:
		d.X = -step
	case ArrowRight:
		d.X = step
	case ArrowUp:
		d.Y = -step
	case ArrowDown:
		d.Y = step
	default:
		return false
	}
	e.ensurePlaced()
	g := e.shape.Get()
	e.hist.Push(g, e.now())
	g.Center = g.Center.Add(d)
	e.shape.Set(g)
	e.setSurface(geom.CenteredRect(g.Center, e.currentSurface().Size()))
	e.out.UpdateTransform(e.transform())
	e.changed()
	e.scheduleFinalize()
	return true
}

// Reset restores 600x150 at angle 0 on the screen center and the default edges.
func (e *Engine) Reset() {
	e.CaptureLost()
	before := e.shape.Get()
	e.shape.Reset(e.host.PrimaryScreen().Center())
	if !before.Center.IsNaN() && before != e.shape.Get() {
		e.hist.Commit(before)
	}
	e.opts.Edges = ticks.DefaultEdges()
	e.log.Info("ruler reset")
	e.apply()
}

// SetGeometry places the ruler at g, recording the previous geometry for undo.
// Width and height are clamped and the angle normalized like any other update.
func (e *Engine) SetGeometry(g Geometry) {
	e.CaptureLost()
	before := e.shape.Get()
	e.shape.Set(g)
	if !before.Center.IsNaN() && before != e.shape.Get() {
		e.hist.Commit(before)
	}
	e.apply()
}

// Undo restores the geometry before the last drag or nudge burst.
func (e *Engine) Undo() bool {
	if e.drag.Active() {
		return false
	}
	g, ok := e.hist.Undo(e.shape.Get())
	if !ok {
		return false
	}
	e.shape.Set(g)
	e.apply()
	return true
}

// Redo reverses the last Undo.
func (e *Engine) Redo() bool {
	if e.drag.Active() {
		return false
	}
	g, ok := e.hist.Redo(e.shape.Get())
	if !ok {
		return false
	}
	e.shape.Set(g)
	e.apply()
	return true
}

func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

func (e *Engine) SetUnit(u ticks.Unit) {
	e.opts.Unit = u
	e.log.Info("unit changed", slog.String("unit", string(u)))
	e.apply()
}

func (e *Engine) SetEdges(ed ticks.Edges) {
	e.opts.Edges = ed
	e.apply()
}

func (e *Engine) SetOpacity(pct int) {
	e.opts.Opacity = min(max(pct, 0), 100)
	e.apply()
}

func (e *Engine) SetPolicy(p ExpandPolicy) { e.opts.Policy = p }

// SetCalibration installs a validated ratio. Invalid ratios are rejected.
func (e *Engine) SetCalibration(r calibration.Ratio, enabled bool) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e.opts.Calibration = r
	e.opts.CalibrationEnabled = enabled
	e.log.Info("calibration changed", slog.Float64("px", r.PxLength), slog.Float64("logical", r.LogicalLength), slog.String("unit", r.LogicalUnit), slog.Bool("enabled", enabled))
	e.apply()
	return nil
}

// SetCalibrationEnabled toggles the calibrated readout.
func (e *Engine) SetCalibrationEnabled(on bool) {
	e.opts.CalibrationEnabled = on
	e.apply()
}

// apply pushes a cheap update now and schedules the full pass.
func (e *Engine) apply() {
	if e.shape.Placed() {
		if !e.drag.Active() {
			e.setSurface(tightSurface(e.shape.Get()))
		}
		e.out.UpdateTransform(e.transform())
		e.changed()
	}
	e.scheduleFinalize()
}

func (e *Engine) changed() {
	if e.OnChange != nil {
		e.OnChange(e.shape.Get())
	}
}

// scheduleFinalize coalesces: at most one finalize is pending at a time.
func (e *Engine) scheduleFinalize() {
	if e.pending {
		return
	}
	e.pending = true
	e.sched.Post(e.runFinalize)
}

// runFinalize regenerates the ticks and shrinks the surface to the tight bounds.
// It waits for the end of a running session.
func (e *Engine) runFinalize() {
	e.pending = false
	e.ensurePlaced()
	if e.drag.Active() {
		// endSession schedules the pass again
		return
	}
	e.setSurface(tightSurface(e.shape.Get()))
	e.finalize++
	e.out.Render(e.Scene())
}

// Scene builds the full render output for the current state.
func (e *Engine) Scene() Scene {
	g := e.shape.Get()
	return Scene{
		Transform: e.transform(),
		Frame:     ticks.Build(g.Width, g.Height, e.opts.Unit, e.opts.Edges, e.opts.Measurer),
		Unit:      e.opts.Unit,
		Edges:     e.opts.Edges,
		BodyAlpha: BodyAlpha(e.opts.Opacity),
	}
}

func (e *Engine) transform() Transform {
	g := e.shape.Get()
	s := e.currentSurface()
	ppu := e.opts.Unit.PxPerUnit()
	return Transform{
		Geometry: g,
		Surface:  s,
		Local:    geom.Translate(-s.X, -s.Y).Mul(g.LocalToScreen()),
		Readout:  calibration.Format(g.Width/ppu, g.Height/ppu, string(e.opts.Unit), e.opts.Calibration, e.opts.CalibrationEnabled),
	}
}

func (e *Engine) currentSurface() geom.Rect {
	if e.surface.W == 0 && e.surface.H == 0 {
		return tightSurface(e.shape.Get())
	}
	return e.surface
}

func (e *Engine) setSurface(r geom.Rect) {
	if r == e.surface {
		return
	}
	e.surface = r
	e.host.SetSurface(r)
}
