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
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"screenruler/internal/geom"
	"screenruler/internal/ruler"
)

// Input translation between fyne events and the ruler engine. Widget
// coordinates double as absolute screen coordinates: the overlay canvas spans
// the whole window.

func toPt(p fyne.Position) geom.Pt { return geom.Pt{X: float64(p.X), Y: float64(p.Y)} }

func toPos(p geom.Pt) fyne.Position { return fyne.NewPos(float32(p.X), float32(p.Y)) }

func toButton(b desktop.MouseButton) ruler.Button {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return ruler.ButtonPrimary
	case b&desktop.MouseButtonSecondary != 0:
		return ruler.ButtonSecondary
	case b&desktop.MouseButtonTertiary != 0:
		return ruler.ButtonTertiary
	}
	return 0
}

func toMods(m fyne.KeyModifier) ruler.Mods {
	var out ruler.Mods
	if m&fyne.KeyModifierShift != 0 {
		out |= ruler.ModRotate
	}
	if m&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0 {
		out |= ruler.ModFine
	}
	return out
}

// modKey maps a modifier key to the engine modifier it toggles.
func modKey(k fyne.KeyName) ruler.Mods {
	switch k {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return ruler.ModRotate
	case desktop.KeyControlLeft, desktop.KeyControlRight, desktop.KeySuperLeft, desktop.KeySuperRight:
		return ruler.ModFine
	}
	return 0
}

func toArrow(k fyne.KeyName) (ruler.Arrow, bool) {
	switch k {
	case fyne.KeyLeft:
		return ruler.ArrowLeft, true
	case fyne.KeyRight:
		return ruler.ArrowRight, true
	case fyne.KeyUp:
		return ruler.ArrowUp, true
	case fyne.KeyDown:
		return ruler.ArrowDown, true
	}
	return 0, false
}

// cursorFor picks the pointer shape for the handle under the mouse.
func cursorFor(h ruler.Handle, angle float64) desktop.Cursor {
	switch h {
	case ruler.HandleRotate:
		return desktop.CrosshairCursor
	case ruler.HandleBody:
		return desktop.PointerCursor
	case ruler.HandleResizeRight, ruler.HandleResizeBottom:
		horizontal := h == ruler.HandleResizeRight
		// a quarter turn swaps the visual direction of the edge
		if q := int(geom.NormalizeAngle(angle+45) / 90); q%2 == 1 {
			horizontal = !horizontal
		}
		if horizontal {
			return desktop.HResizeCursor
		}
		return desktop.VResizeCursor
	case ruler.HandleResizeBottomRight:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}
