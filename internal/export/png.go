/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"screenruler/internal/geom"
	"screenruler/internal/ruler"
)

// RasterPNG rasterizes sc at one pixel per surface unit. Shapes go through the
// gg software rasterizer; labels are drawn upright with the 7x13 bitmap face.
func RasterPNG(sc ruler.Scene, opt Options) (*image.RGBA, error) {
	d, err := flatten(sc)
	if err != nil {
		return nil, err
	}
	opt = opt.withDefaults()
	w, h := int(math.Ceil(d.w)), int(math.Ceil(d.h))

	dc := gg.NewContext(w, h)
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(gg.FromColor(opt.Background))

	if opt.Guides {
		dc.SetColor(opt.GuideColor)
		dc.SetLineWidth(1)
		dc.DrawRectangle(0.5, 0.5, float64(w)-1, float64(h)-1)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke guides: %w", err)
		}
	}

	body := opt.Body
	dc.SetColor(color.NRGBA{R: body.R, G: body.G, B: body.B, A: d.alpha})
	polygon(dc, d.body[:])
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill body: %w", err)
	}

	dc.SetColor(opt.Ink)
	dc.SetLineWidth(1)
	polygon(dc, d.body[:])
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("stroke body: %w", err)
	}
	dc.DrawCircle(d.knob.X, d.knob.Y, d.knobR)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("stroke knob: %w", err)
	}
	for _, l := range d.lines {
		dc.SetLineWidth(l.width)
		dc.DrawLine(l.a.X, l.a.Y, l.b.X, l.b.Y)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke tick: %w", err)
		}
	}

	src := dc.Image()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	drawLabels(img, d.labels, opt.Ink)
	return img, nil
}

func polygon(dc *gg.Context, pts []geom.Pt) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

func drawLabels(img *image.RGBA, labels []label, ink color.RGBA) {
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: face}
	for _, l := range labels {
		x := fixed.I(int(math.Round(l.anchor.X)))
		y := fixed.I(int(math.Round(l.anchor.Y))) + ascent
		dr.Dot = fixed.Point26_6{X: x, Y: y}
		dr.DrawString(l.text)
		if l.bold {
			dr.Dot = fixed.Point26_6{X: x + fixed.I(1), Y: y}
			dr.DrawString(l.text)
		}
	}
}

// WritePNG encodes sc as PNG to w.
func WritePNG(w io.Writer, sc ruler.Scene, opt Options) error {
	img, err := RasterPNG(sc, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// ExportPNG writes sc to a PNG file at path.
func ExportPNG(path string, sc ruler.Scene, opt Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := WritePNG(f, sc, opt); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
