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
	"testing"

	"screenruler/internal/geom"
)

func almost(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }

func placedShape(g Geometry) *Shape {
	s := NewShape()
	s.Set(g)
	return s
}

func TestShapeSetClampsAndNormalizes(t *testing.T) {
	s := placedShape(DefaultGeometry(geom.Pt{X: 10, Y: 20}))
	s.Set(Geometry{Center: geom.Pt{X: 1, Y: 2}, Width: 3, Height: -7, Angle: -90})
	g := s.Get()
	if g.Width != MinWidth || g.Height != MinHeight || g.Angle != 270 {
		t.Fatalf("clamp/normalize: %+v", g)
	}
	s.Set(Geometry{Center: geom.Pt{X: math.NaN(), Y: 5}, Width: math.NaN(), Height: 60, Angle: math.NaN()})
	g = s.Get()
	if g.Center != (geom.Pt{X: 1, Y: 5}) || g.Width != MinWidth || g.Height != 60 || g.Angle != 270 {
		t.Fatalf("NaN components should keep previous values: %+v", g)
	}
}

func TestShapeStartsUnplaced(t *testing.T) {
	s := NewShape()
	if s.Placed() {
		t.Fatalf("new shape must be unplaced")
	}
	s.Place(geom.Pt{X: 3, Y: 4})
	if !s.Placed() || s.Get().Width != DefaultWidth || s.Get().Height != DefaultHeight {
		t.Fatalf("place: %+v", s.Get())
	}
}

func TestGeometryLocalRoundTrip(t *testing.T) {
	g := Geometry{Center: geom.Pt{X: 400, Y: 300}, Width: 600, Height: 150, Angle: 33}
	m := g.LocalToScreen()
	for _, l := range []geom.Pt{{X: 0, Y: 0}, {X: 600, Y: 150}, {X: 17, Y: 99}} {
		back := g.ToLocal(m.Apply(l))
		if !almost(back.X, l.X) || !almost(back.Y, l.Y) {
			t.Fatalf("round trip %v -> %v", l, back)
		}
	}
	if c := m.Apply(geom.Pt{X: 300, Y: 75}); !almost(c.X, 400) || !almost(c.Y, 300) {
		t.Fatalf("local center maps to %v", c)
	}
}

func TestDragMoveFromSnapshot(t *testing.T) {
	s := placedShape(DefaultGeometry(geom.Pt{X: 500, Y: 500}))
	d := NewDragController(s)
	if !d.Begin(KindMoving, 0, ButtonPrimary, geom.Pt{X: 450, Y: 480}) {
		t.Fatalf("begin failed")
	}
	for _, p := range []geom.Pt{{X: 460, Y: 490}, {X: 700, Y: 100}, {X: 480, Y: 470}} {
		d.Move(p)
	}
	if c := s.Get().Center; c != (geom.Pt{X: 530, Y: 490}) {
		t.Fatalf("center after move: %v", c)
	}
	d.Move(geom.Pt{X: 450, Y: 480})
	if c := s.Get().Center; c != (geom.Pt{X: 500, Y: 500}) {
		t.Fatalf("returning to the start pointer must restore the center exactly: %v", c)
	}
}

func TestDragResizeRight(t *testing.T) {
	s := placedShape(DefaultGeometry(geom.Pt{X: 500, Y: 400}))
	d := NewDragController(s)
	d.Begin(KindResizing, EdgeRight, ButtonPrimary, geom.Pt{X: 800, Y: 400})
	g, _ := d.Move(geom.Pt{X: 850, Y: 417})
	if g.Width != 650 || g.Height != 150 {
		t.Fatalf("size: %vx%v", g.Width, g.Height)
	}
	if g.Center != (geom.Pt{X: 525, Y: 400}) {
		t.Fatalf("center: %v", g.Center)
	}
}

func TestDragResizeRotatedKeepsOppositeCorner(t *testing.T) {
	start := Geometry{Center: geom.Pt{X: 500, Y: 400}, Width: 600, Height: 150, Angle: 90}
	s := placedShape(start)
	fixed := start.Corners()[0]
	d := NewDragController(s)
	// at 90 degrees local +X points down the screen
	d.Begin(KindResizing, EdgeBottomRight, ButtonPrimary, geom.Pt{X: 0, Y: 0})
	g, _ := d.Move(geom.Pt{X: -20, Y: 40})
	if g.Width != 640 || g.Height != 170 {
		t.Fatalf("size: %vx%v", g.Width, g.Height)
	}
	if tl := g.Corners()[0]; !almost(tl.X, fixed.X) || !almost(tl.Y, fixed.Y) {
		t.Fatalf("top-left moved from %v to %v", fixed, tl)
	}
}

func TestDragResizeClamps(t *testing.T) {
	s := placedShape(DefaultGeometry(geom.Pt{X: 500, Y: 400}))
	d := NewDragController(s)
	d.Begin(KindResizing, EdgeBottomRight, ButtonPrimary, geom.Pt{X: 800, Y: 475})
	g, _ := d.Move(geom.Pt{X: -1000, Y: -1000})
	if g.Width != MinWidth || g.Height != MinHeight {
		t.Fatalf("clamp: %vx%v", g.Width, g.Height)
	}
	// left and top edges stay where they were
	if g.Center != (geom.Pt{X: 200 + MinWidth/2, Y: 325 + MinHeight/2}) {
		t.Fatalf("center: %v", g.Center)
	}
}

func pointOnCircle(c geom.Pt, r, deg float64) geom.Pt {
	rad := deg * math.Pi / 180
	return geom.Pt{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

func TestDragRotateSnapsNearCardinal(t *testing.T) {
	c := geom.Pt{X: 500, Y: 400}
	s := placedShape(Geometry{Center: c, Width: 600, Height: 150, Angle: 80})
	d := NewDragController(s)
	d.Begin(KindRotating, 0, ButtonPrimary, pointOnCircle(c, 100, 30))
	g, _ := d.Move(pointOnCircle(c, 100, 42))
	if g.Angle != 90 {
		t.Fatalf("80+12 should snap to 90, got %v", g.Angle)
	}
	if g.Center != c {
		t.Fatalf("rotation must keep the center: %v", g.Center)
	}
	g, _ = d.Move(pointOnCircle(c, 100, 50))
	if !almost(g.Angle, 100) {
		t.Fatalf("outside the band: %v", g.Angle)
	}
}

func TestDragRotateWrapsAcrossAtan2Seam(t *testing.T) {
	c := geom.Pt{X: 0, Y: 0}
	s := placedShape(Geometry{Center: c, Width: 600, Height: 150, Angle: 45})
	d := NewDragController(s)
	d.Begin(KindRotating, 0, ButtonPrimary, pointOnCircle(c, 100, 170))
	g, _ := d.Move(pointOnCircle(c, 100, -170))
	if !almost(g.Angle, 65) {
		t.Fatalf("crossing 180 should add 20 degrees, got %v", g.Angle)
	}
}

func TestDragRejectsSecondBegin(t *testing.T) {
	s := placedShape(DefaultGeometry(geom.Pt{X: 1, Y: 1}))
	d := NewDragController(s)
	if !d.Begin(KindMoving, 0, ButtonPrimary, geom.Pt{}) {
		t.Fatalf("first begin failed")
	}
	if d.Begin(KindRotating, 0, ButtonSecondary, geom.Pt{}) {
		t.Fatalf("second begin must fail")
	}
	if _, ok := d.End(); !ok {
		t.Fatalf("end failed")
	}
	if _, ok := d.End(); ok {
		t.Fatalf("second end must report false")
	}
}

func TestDragBeginNeedsPlacedShape(t *testing.T) {
	d := NewDragController(NewShape())
	if d.Begin(KindMoving, 0, ButtonPrimary, geom.Pt{}) {
		t.Fatalf("unplaced shape must not start a session")
	}
}
