//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screenruler/internal/geom"
	applog "screenruler/internal/log"
	"screenruler/internal/ruler"
	"screenruler/internal/ticks"
)

var (
	bodyColor    = color.NRGBA{R: 255, G: 250, B: 205}
	inkColor     = color.NRGBA{A: 255}
	surfaceColor = color.NRGBA{R: 0, G: 120, B: 255, A: 60}
	knobColor    = color.NRGBA{R: 255, G: 170, B: 0, A: 255}
)

// RulerView is the overlay canvas. It is both the engine Host (it owns the
// surface and pointer capture) and its Renderer.
type RulerView struct {
	widget.BaseWidget

	engine *ruler.Engine
	log    *slog.Logger

	t       ruler.Transform
	frame   ticks.Frame
	alpha   uint8
	surface geom.Rect

	pressed  ruler.Button
	lastPos  geom.Pt
	mods     ruler.Mods
	hover    ruler.Handle
	captured bool

	// fallback is the screen size reported before the first layout.
	fallback fyne.Size

	// OnMenu is called for a secondary click with the absolute position.
	OnMenu func(pos fyne.Position)
	// OnReadout receives the size text on every update.
	OnReadout func(text string)
}

// NewRulerView builds the view and its engine. Call Engine().Start once the
// view is placed in a window.
func NewRulerView(sched ruler.Scheduler, opts ruler.Options, screen fyne.Size) *RulerView {
	v := &RulerView{
		log:      applog.WithComponent("ui"),
		alpha:    ruler.BodyAlpha(opts.Opacity),
		fallback: screen,
	}
	v.engine = ruler.NewEngine(v, v, sched, opts)
	v.ExtendBaseWidget(v)
	return v
}

// Engine returns the engine driving this view.
func (v *RulerView) Engine() *ruler.Engine { return v.engine }

// LocateShape never knows better than the engine; the window has no ruler of
// its own until the first render.
func (v *RulerView) LocateShape() (geom.Pt, bool) { return geom.Pt{}, false }

func (v *RulerView) PrimaryScreen() geom.Rect {
	sz := v.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		sz = v.fallback
	}
	return geom.R(0, 0, float64(sz.Width), float64(sz.Height))
}

func (v *RulerView) SetSurface(r geom.Rect) {
	v.surface = r
	v.Refresh()
}

// fyne keeps delivering drag events to the widget that started the drag, so
// capture only has to be tracked.
func (v *RulerView) CapturePointer() { v.captured = true }
func (v *RulerView) ReleasePointer() { v.captured = false }

func (v *RulerView) UpdateTransform(t ruler.Transform) {
	v.t = t
	if v.OnReadout != nil {
		v.OnReadout(t.Readout.String())
	}
	v.Refresh()
}

func (v *RulerView) Render(s ruler.Scene) {
	v.t = s.Transform
	v.frame = s.Frame
	v.alpha = s.BodyAlpha
	if v.OnReadout != nil {
		v.OnReadout(s.Readout.String())
	}
	v.Refresh()
}

func (v *RulerView) MouseDown(e *desktop.MouseEvent) {
	btn := toButton(e.Button)
	if v.pressed != 0 || v.engine.Session().Kind != ruler.KindNone {
		// one button per session
		return
	}
	if btn == ruler.ButtonSecondary {
		if v.OnMenu != nil {
			v.OnMenu(e.AbsolutePosition)
		}
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(v); c != nil {
		c.Focus(v)
	}
	v.mods = toMods(e.Modifier)
	v.lastPos = toPt(e.Position)
	if v.engine.PointerDown(ruler.PointerEvent{Pos: v.lastPos, Button: btn, Mods: v.mods}) {
		v.pressed = btn
	}
}

func (v *RulerView) MouseUp(e *desktop.MouseEvent) {
	btn := toButton(e.Button)
	v.lastPos = toPt(e.Position)
	if v.engine.PointerUp(ruler.PointerEvent{Pos: v.lastPos, Button: btn}) && btn == v.pressed {
		v.pressed = 0
	}
}

func (v *RulerView) Dragged(e *fyne.DragEvent) {
	if v.pressed == 0 {
		return
	}
	v.lastPos = toPt(e.Position)
	v.engine.PointerMove(ruler.PointerEvent{Pos: v.lastPos, Button: v.pressed, Mods: v.mods})
}

// DragEnd may arrive without a matching MouseUp when the release happens
// outside the window.
func (v *RulerView) DragEnd() {
	if v.pressed == 0 {
		return
	}
	v.engine.PointerUp(ruler.PointerEvent{Pos: v.lastPos, Button: v.pressed})
	v.pressed = 0
}

func (v *RulerView) MouseIn(e *desktop.MouseEvent) { v.MouseMoved(e) }

func (v *RulerView) MouseMoved(e *desktop.MouseEvent) {
	g := v.engine.Geometry()
	if g.Center.IsNaN() {
		return
	}
	v.hover = ruler.HitTest(g, toPt(e.Position))
}

func (v *RulerView) MouseOut() { v.hover = ruler.HandleNone }

func (v *RulerView) Cursor() desktop.Cursor { return cursorFor(v.hover, v.t.Geometry.Angle) }

func (v *RulerView) FocusGained() {}

func (v *RulerView) FocusLost() {
	if v.captured {
		v.log.Debug("focus lost during drag")
	}
	v.engine.CaptureLost()
	v.pressed = 0
	v.mods = 0
}

func (v *RulerView) TypedRune(rune) {}

func (v *RulerView) TypedKey(e *fyne.KeyEvent) {
	if a, ok := toArrow(e.Name); ok {
		v.engine.Key(a, v.mods&ruler.ModFine != 0)
	}
}

func (v *RulerView) KeyDown(e *fyne.KeyEvent) { v.mods |= modKey(e.Name) }
func (v *RulerView) KeyUp(e *fyne.KeyEvent)   { v.mods &^= modKey(e.Name) }

// CreateRenderer builds the overlay objects; positions are computed in Layout.
func (v *RulerView) CreateRenderer() fyne.WidgetRenderer {
	surf := canvas.NewRectangle(color.Transparent)
	surf.StrokeColor = surfaceColor
	surf.StrokeWidth = 1

	r := &rulerRenderer{v: v, surface: surf}
	r.body = canvas.NewRasterWithPixels(r.bodyPixel)
	for i := range r.outline {
		r.outline[i] = canvas.NewLine(inkColor)
		r.outline[i].StrokeWidth = 1
	}
	r.knob = canvas.NewCircle(color.Transparent)
	r.knob.StrokeColor = knobColor
	r.knob.StrokeWidth = 2
	r.readout = canvas.NewText("", inkColor)
	r.readout.TextSize = 12
	r.readout.TextStyle = fyne.TextStyle{Monospace: true}
	return r
}

type rulerRenderer struct {
	v       *RulerView
	surface *canvas.Rectangle
	body    *canvas.Raster
	outline [4]*canvas.Line
	knob    *canvas.Circle
	ticks   []*canvas.Line
	labels  []*canvas.Text
	readout *canvas.Text
	objects []fyne.CanvasObject
}

func (r *rulerRenderer) Destroy()                     {}
func (r *rulerRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *rulerRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 150) }

func (r *rulerRenderer) Refresh() {
	r.Layout(r.v.Size())
	canvas.Refresh(r.v)
}

// bodyPixel fills the rotated body inside the surface raster.
func (r *rulerRenderer) bodyPixel(x, y, w, h int) color.Color {
	s := r.v.surface
	g := r.v.t.Geometry
	if w == 0 || h == 0 || s.W == 0 || g.Center.IsNaN() {
		return color.Transparent
	}
	p := geom.Pt{X: s.X + (float64(x)+0.5)*s.W/float64(w), Y: s.Y + (float64(y)+0.5)*s.H/float64(h)}
	l := g.ToLocal(p)
	if l.X < 0 || l.Y < 0 || l.X > g.Width || l.Y > g.Height {
		return color.Transparent
	}
	c := bodyColor
	c.A = r.v.alpha
	return c
}

func (r *rulerRenderer) Layout(_ fyne.Size) {
	v := r.v
	g := v.t.Geometry
	objs := []fyne.CanvasObject{r.surface, r.body}
	if g.Center.IsNaN() || g.Width == 0 {
		r.objects = objs
		return
	}

	s := v.surface
	r.surface.Move(toPos(s.Min()))
	r.surface.Resize(fyne.NewSize(float32(s.W), float32(s.H)))
	r.body.Move(toPos(s.Min()))
	r.body.Resize(fyne.NewSize(float32(s.W), float32(s.H)))
	r.body.Refresh()

	m := g.LocalToScreen()
	corners := g.Corners()
	for i, ln := range r.outline {
		ln.Position1 = toPos(corners[i])
		ln.Position2 = toPos(corners[(i+1)%4])
		objs = append(objs, ln)
	}

	kc := m.Apply(ruler.RotateHandleCenter(g))
	const kr = ruler.RotateHandleRadius
	r.knob.Move(fyne.NewPos(float32(kc.X-kr), float32(kc.Y-kr)))
	r.knob.Resize(fyne.NewSize(2*kr, 2*kr))
	objs = append(objs, r.knob)

	for len(r.ticks) < len(v.frame.Segments) {
		r.ticks = append(r.ticks, canvas.NewLine(inkColor))
	}
	for i, seg := range v.frame.Segments {
		ln := r.ticks[i]
		ln.Position1 = toPos(m.Apply(geom.Pt{X: seg.X1, Y: seg.Y1}))
		ln.Position2 = toPos(m.Apply(geom.Pt{X: seg.X2, Y: seg.Y2}))
		ln.StrokeWidth = 1
		if seg.Length >= ticks.Major {
			ln.StrokeWidth = 1.5
		}
		objs = append(objs, ln)
	}

	for len(r.labels) < len(v.frame.Labels) {
		t := canvas.NewText("", inkColor)
		t.TextSize = 10
		r.labels = append(r.labels, t)
	}
	for i, lb := range v.frame.Labels {
		t := r.labels[i]
		t.Text = lb.Text
		t.TextStyle = fyne.TextStyle{Bold: lb.Bold}
		t.Move(toPos(m.Apply(geom.Pt{X: lb.X, Y: lb.Y})))
		t.Refresh()
		objs = append(objs, t)
	}

	r.readout.Text = v.t.Readout.String()
	ms := r.readout.MinSize()
	r.readout.Move(fyne.NewPos(float32(g.Center.X)-ms.Width/2, float32(g.Center.Y)-ms.Height/2))
	r.readout.Refresh()
	objs = append(objs, r.readout)
	r.objects = objs
}
