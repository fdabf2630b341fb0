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

	"screenruler/internal/geom"
	"screenruler/internal/ruler"
)

const svgFont = "Helvetica, Arial, sans-serif"

// WriteSVG writes sc as an SVG document in surface coordinates. Labels carry
// the ruler rotation so they read along the edge like on screen.
func WriteSVG(w io.Writer, sc ruler.Scene, opt Options) error {
	d, err := flatten(sc)
	if err != nil {
		return err
	}
	opt = opt.withDefaults()

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", d.w, d.h, d.w, d.h)
	if opt.Background.A > 0 {
		wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", d.w, d.h, svgColor(opt.Background))
	}
	if opt.Guides {
		gc := svgColor(opt.GuideColor)
		wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.5\"/>\n", d.w, d.h, gc)
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"2\" fill=\"%s\"/>\n", d.center.X, d.center.Y, gc)
	}

	ink := svgColor(opt.Ink)
	wf("  <polygon points=\"%s\" fill=\"%s\" fill-opacity=\"%.3f\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		svgPoints(d.body[:]), svgColor(opt.Body), float64(d.alpha)/255, ink)
	wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"/>\n", d.knob.X, d.knob.Y, d.knobR, ink)

	wf("  <g stroke=\"%s\" stroke-linecap=\"butt\">\n", ink)
	for _, l := range d.lines {
		wf("    <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"%g\"/>\n", l.a.X, l.a.Y, l.b.X, l.b.Y, l.width)
	}
	wf("  </g>\n")

	wf("  <g font-family=\"%s\" font-size=\"%g\" fill=\"%s\">\n", escAttr(svgFont), labelPt, ink)
	for _, l := range d.labels {
		weight := ""
		if l.bold {
			weight = " font-weight=\"bold\""
		}
		// baseline sits one em below the top-left anchor
		wf("    <text transform=\"rotate(%g %.2f %.2f)\" x=\"%.2f\" y=\"%.2f\"%s>%s</text>\n",
			d.angle, l.anchor.X, l.anchor.Y, l.anchor.X, l.anchor.Y+labelPt, weight, escText(l.text))
	}
	wf("  </g>\n")
	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// ExportSVG writes sc to an SVG file at path.
func ExportSVG(path string, sc ruler.Scene, opt Options) error {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sc, opt); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pts []geom.Pt) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	return b.String()
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
