/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"screenruler/internal/geom"
	"screenruler/internal/ruler"
)

// labelPt is the label font size; the 13px bitmap face used for measuring
// corresponds to roughly 9pt Helvetica.
const labelPt = 9.0

// buildPDF lays out one page the size of the host surface (1px = 1pt).
// Labels rotate with the ruler.
func buildPDF(sc ruler.Scene, opt Options) (*gofpdf.Fpdf, error) {
	d, err := flatten(sc)
	if err != nil {
		return nil, err
	}
	opt = opt.withDefaults()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: d.w, Ht: d.h},
	})
	pdf.SetTitle(fmt.Sprintf("Ruler %.0f x %.0f %s", sc.Geometry.Width/sc.Unit.PxPerUnit(), sc.Geometry.Height/sc.Unit.PxPerUnit(), sc.Unit), false)
	pdf.SetCreator("screenruler", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if opt.Background.A > 0 {
		pdf.SetFillColor(int(opt.Background.R), int(opt.Background.G), int(opt.Background.B))
		pdf.Rect(0, 0, d.w, d.h, "F")
	}
	if opt.Guides {
		setDrawColor(pdf, opt.GuideColor)
		pdf.SetLineWidth(0.5)
		pdf.Rect(0, 0, d.w, d.h, "D")
	}

	// translucent body
	pdf.SetAlpha(float64(d.alpha)/255, "Normal")
	pdf.SetFillColor(int(opt.Body.R), int(opt.Body.G), int(opt.Body.B))
	pdf.Polygon(pdfPoints(d.body[:]), "F")
	pdf.SetAlpha(1, "Normal")

	setDrawColor(pdf, opt.Ink)
	pdf.SetLineWidth(1)
	pdf.Polygon(pdfPoints(d.body[:]), "D")
	pdf.Circle(d.knob.X, d.knob.Y, d.knobR, "D")
	for _, l := range d.lines {
		pdf.SetLineWidth(l.width)
		pdf.Line(l.a.X, l.a.Y, l.b.X, l.b.Y)
	}

	pdf.SetTextColor(int(opt.Ink.R), int(opt.Ink.G), int(opt.Ink.B))
	for _, l := range d.labels {
		style := ""
		if l.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, labelPt)
		pdf.TransformBegin()
		// gofpdf rotates counter-clockwise
		pdf.TransformRotate(-d.angle, l.anchor.X, l.anchor.Y)
		pdf.Text(l.anchor.X, l.anchor.Y+labelPt, l.text)
		pdf.TransformEnd()
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return pdf, nil
}

func pdfPoints(pts []geom.Pt) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(pts))
	for i, p := range pts {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.Color) {
	r, g, b, _ := c.RGBA()
	pdf.SetDrawColor(int(r>>8), int(g>>8), int(b>>8))
}

// WritePDF encodes sc as a single page PDF to w.
func WritePDF(w io.Writer, sc ruler.Scene, opt Options) error {
	pdf, err := buildPDF(sc, opt)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ExportPDF writes sc to a PDF file at path.
func ExportPDF(path string, sc ruler.Scene, opt Options) error {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sc, opt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
