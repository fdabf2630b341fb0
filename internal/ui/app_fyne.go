//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"screenruler/internal/calibration"
	"screenruler/internal/config"
	"screenruler/internal/crash"
	"screenruler/internal/export"
	applog "screenruler/internal/log"
	"screenruler/internal/ruler"
	"screenruler/internal/ticks"
	"screenruler/internal/version"
)

// Run starts the overlay window with the given configuration. Settings
// changed through the menus are written back with config.Save.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	fyneApp := app.NewWithID("screenruler")
	w := fyneApp.NewWindow("Screen Ruler")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1280), 640)
	winH := max(prefs.IntWithFallback("window.height", 800), 480)
	screen := fyne.NewSize(float32(winW), float32(winH))

	view := NewRulerView(fyneScheduler(), cfg.RulerOptions(), screen)
	eng := view.Engine()
	applog.SetContextProvider(eng.LogAttrs)
	defer applog.SetContextProvider(nil)

	hooks := &crash.Hooks{
		Describe: func() string {
			g := eng.Geometry()
			return fmt.Sprintf("Ruler: %.0fx%.0f at %.1fdeg center (%.0f,%.0f)", g.Width, g.Height, g.Angle, g.Center.X, g.Center.Y)
		},
		Autosave: func() (string, error) {
			p, _ := config.ConfigPath()
			return p, config.Save(cfg)
		},
	}
	defer crash.Recover(hooks)

	status := widget.NewLabel("")
	view.OnReadout = func(s string) { status.SetText(s) }

	save := func() {
		if err := config.Save(cfg); err != nil {
			l.Error("save config failed", slog.Any("err", err))
		}
	}

	// Units
	var pxItem, mmItem *fyne.MenuItem
	setUnit := func(u ticks.Unit) {
		eng.SetUnit(u)
		cfg.Ruler.Unit = string(u)
		pxItem.Checked = u == ticks.UnitPx
		mmItem.Checked = u == ticks.UnitMM
		save()
	}
	pxItem = fyne.NewMenuItem("Pixels", func() { setUnit(ticks.UnitPx) })
	mmItem = fyne.NewMenuItem("Millimeters", func() { setUnit(ticks.UnitMM) })
	pxItem.Checked = cfg.Ruler.UnitValue() == ticks.UnitPx
	mmItem.Checked = !pxItem.Checked
	unitItem := fyne.NewMenuItem("Units", nil)
	unitItem.ChildMenu = fyne.NewMenu("", pxItem, mmItem)

	// Edges
	edgeItems := map[ticks.Edge]*fyne.MenuItem{}
	var edgeList []*fyne.MenuItem
	for _, e := range []ticks.Edge{ticks.Top, ticks.Bottom, ticks.Left, ticks.Right} {
		it := fyne.NewMenuItem(e.String(), nil)
		it.Action = func() {
			ed := eng.Options().Edges
			ed = ed.With(e, !ed.Has(e))
			eng.SetEdges(ed)
			cfg.Ruler.SetEdges(ed)
			it.Checked = ed.Has(e)
			save()
		}
		it.Checked = cfg.Ruler.EdgesValue().Has(e)
		edgeItems[e] = it
		edgeList = append(edgeList, it)
	}
	edgesItem := fyne.NewMenuItem("Tick edges", nil)
	edgesItem.ChildMenu = fyne.NewMenu("", edgeList...)
	syncEdges := func() {
		ed := eng.Options().Edges
		for e, it := range edgeItems {
			it.Checked = ed.Has(e)
		}
	}

	// Opacity
	var opacityList []*fyne.MenuItem
	for _, pct := range []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90} {
		it := fyne.NewMenuItem(fmt.Sprintf("%d%%", pct), nil)
		it.Action = func() {
			eng.SetOpacity(pct)
			cfg.Ruler.Opacity = pct
			for _, o := range opacityList {
				o.Checked = o == it
			}
			save()
		}
		it.Checked = cfg.Ruler.Opacity == pct
		opacityList = append(opacityList, it)
	}
	opacityItem := fyne.NewMenuItem("Transparency", nil)
	opacityItem.ChildMenu = fyne.NewMenu("", opacityList...)

	// Window placement is left to the window manager; the flag is kept for
	// drivers that honor it on the next start.
	topItem := fyne.NewMenuItem("Always on top", nil)
	topItem.Checked = cfg.Ruler.Topmost
	topItem.Action = func() {
		cfg.Ruler.Topmost = !cfg.Ruler.Topmost
		topItem.Checked = cfg.Ruler.Topmost
		l.Info("topmost changed", slog.Bool("topmost", cfg.Ruler.Topmost))
		save()
	}

	// Calibration
	ratioItem := fyne.NewMenuItem("Show calibrated size", nil)
	ratioItem.Checked = cfg.Calibration.Enabled
	ratioItem.Action = func() {
		on := !eng.Options().CalibrationEnabled
		eng.SetCalibrationEnabled(on)
		cfg.Calibration.Enabled = on
		ratioItem.Checked = on
		save()
	}
	calibrateItem := fyne.NewMenuItem("Calibrate…", func() {
		showCalibrationDialog(w, eng.Options().Calibration, func(r calibration.Ratio) {
			if err := eng.SetCalibration(r, true); err != nil {
				dialog.ShowError(err, w)
				return
			}
			cfg.Calibration = config.CalibrationConfig{Enabled: true, PxLength: r.PxLength, LogicalLength: r.LogicalLength, LogicalUnit: r.LogicalUnit}
			ratioItem.Checked = true
			save()
		})
	})

	// Edit
	undoItem := fyne.NewMenuItem("Undo", func() { eng.Undo() })
	redoItem := fyne.NewMenuItem("Redo", func() { eng.Redo() })
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	resetItem := fyne.NewMenuItem("Reset", func() {
		eng.Reset()
		cfg.Ruler.SetEdges(eng.Options().Edges)
		syncEdges()
		save()
	})
	w.Canvas().AddShortcut(undoItem.Shortcut, func(fyne.Shortcut) { eng.Undo() })
	w.Canvas().AddShortcut(redoItem.Shortcut, func(fyne.Shortcut) { eng.Redo() })

	exportItem := fyne.NewMenuItem("Export…", func() { showExportDialog(w, eng, l) })

	aboutItem := fyne.NewMenuItem("About Screen Ruler", func() {
		l.Info("menu: about")
		exe, _ := os.Executable()
		cfgPath, _ := config.ConfigPath()
		info := fmt.Sprintf("Screen Ruler\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nConfig: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cfgPath)
		dialog.ShowInformation("About", info, w)
	})
	helpItems := []*fyne.MenuItem{aboutItem}
	if u, ok := cfg.HelpLink(); ok {
		helpItems = append([]*fyne.MenuItem{fyne.NewMenuItem("Online help", func() {
			if err := fyneApp.OpenURL(u); err != nil {
				l.Error("open help failed", slog.Any("err", err), slog.String("url", u.String()))
			}
		})}, helpItems...)
	}
	exitItem := fyne.NewMenuItem("Exit", func() { w.Close() })

	rulerMenu := fyne.NewMenu("Ruler", unitItem, edgesItem, opacityItem, topItem, fyne.NewMenuItemSeparator(), calibrateItem, ratioItem, fyne.NewMenuItemSeparator(), exportItem)
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), resetItem)
	helpMenu := fyne.NewMenu("Help", helpItems...)
	w.SetMainMenu(fyne.NewMainMenu(rulerMenu, editMenu, helpMenu))

	// Right click opens the same entries as a context menu.
	popup := fyne.NewMenu("", unitItem, edgesItem, opacityItem, topItem, calibrateItem, ratioItem,
		fyne.NewMenuItemSeparator(), undoItem, redoItem, resetItem, fyne.NewMenuItemSeparator())
	popup.Items = append(popup.Items, helpItems...)
	popup.Items = append(popup.Items, exitItem)
	view.OnMenu = func(pos fyne.Position) {
		undoItem.Disabled = !eng.CanUndo()
		redoItem.Disabled = !eng.CanRedo()
		widget.ShowPopUpMenuAtPosition(popup, w.Canvas(), pos)
	}

	w.SetContent(container.NewBorder(nil, status, nil, nil, view))
	w.Resize(screen)
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		save()
		w.Close()
	})
	w.Canvas().Focus(view)

	eng.Start()
	w.ShowAndRun()
	return nil
}

// fyneScheduler defers work to after the current event turn.
func fyneScheduler() ruler.Scheduler {
	return ruler.SchedulerFunc(func(fn func()) {
		go fyne.Do(fn)
	})
}

func showCalibrationDialog(w fyne.Window, cur calibration.Ratio, apply func(calibration.Ratio)) {
	px := widget.NewEntry()
	px.SetText(fmt.Sprintf("%g", cur.PxLength))
	logical := widget.NewEntry()
	logical.SetText(fmt.Sprintf("%g", cur.LogicalLength))
	unit := widget.NewEntry()
	unit.SetText(cur.LogicalUnit)
	unit.SetPlaceHolder("cm")

	form := dialog.NewForm("Calibration", "Apply", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Length in pixels", px),
		widget.NewFormItem("Real length", logical),
		widget.NewFormItem("Unit", unit),
	}, func(ok bool) {
		if !ok {
			return
		}
		r, err := calibration.Parse(px.Text, logical.Text, unit.Text)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		apply(r)
	}, w)
	form.Resize(fyne.NewSize(360, 220))
	form.Show()
}

func showExportDialog(w fyne.Window, eng *ruler.Engine, l *slog.Logger) {
	save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if uc == nil {
			return
		}
		outPath := uc.URI().Path()
		_ = uc.Close()
		if err := export.WriteFile(outPath, eng.Scene(), export.Options{}); err != nil {
			l.Error("export failed", slog.Any("err", err), slog.String("path", outPath))
			dialog.ShowError(err, w)
			return
		}
		l.Info("ruler exported", slog.String("path", outPath))
		dialog.ShowInformation("Export", "Exported to "+filepath.Base(outPath), w)
	}, w)
	save.SetFileName("ruler.png")
	save.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".pdf", ".svg"}))
	save.Show()
}
