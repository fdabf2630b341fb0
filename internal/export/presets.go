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
	"os"
	"path/filepath"
	"strings"

	"screenruler/internal/ruler"
)

// Format is an output file type.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); f {
	case FormatPNG, FormatPDF, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format for %q (want .png, .pdf or .svg)", path)
}

// PresetName represents a named bundle of formats.
type PresetName string

const (
	PresetScreen PresetName = "screen" // png + svg
	PresetPrint  PresetName = "print"  // pdf + svg
	PresetAll    PresetName = "all"
)

func presetFormats(p PresetName) []Format {
	switch p {
	case PresetScreen:
		return []Format{FormatPNG, FormatSVG}
	case PresetPrint:
		return []Format{FormatPDF, FormatSVG}
	default:
		return []Format{FormatPNG, FormatPDF, FormatSVG}
	}
}

// WriteFile renders sc to path, choosing the format by extension.
func WriteFile(path string, sc ruler.Scene, opt Options) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	switch f {
	case FormatPNG:
		return ExportPNG(path, sc, opt)
	case FormatPDF:
		return ExportPDF(path, sc, opt)
	default:
		return ExportSVG(path, sc, opt)
	}
}

// Batch writes <base>.<ext> into dir for every format of the preset and
// returns the written paths.
func Batch(dir, base string, p PresetName, sc ruler.Scene, opt Options) ([]string, error) {
	if base == "" {
		base = "ruler"
	}
	var out []string
	for _, f := range presetFormats(p) {
		path := filepath.Join(dir, base+"."+string(f))
		if err := WriteFile(path, sc, opt); err != nil {
			return out, fmt.Errorf("%s: %w", f, err)
		}
		out = append(out, path)
	}
	return out, nil
}

// Capture is a Renderer that keeps the latest output, used by headless runs.
type Capture struct {
	Transform ruler.Transform
	Scene     ruler.Scene
	Updates   int
	Renders   int
}

func (c *Capture) UpdateTransform(t ruler.Transform) {
	c.Transform = t
	c.Updates++
}

func (c *Capture) Render(s ruler.Scene) {
	c.Scene = s
	c.Renders++
}

// SceneFor runs a windowless engine on g and returns its finalized scene. The
// surface is the tight box around g, so exports match what the overlay shows
// once a drag has ended.
func SceneFor(g ruler.Geometry, opts ruler.Options) ruler.Scene {
	host := &ruler.StaticHost{Screen: g.Bounds(0), At: g.Center, Located: true}
	out := &Capture{}
	q := &ruler.Queue{}
	e := ruler.NewEngine(host, out, q, opts)
	e.SetGeometry(g)
	e.Start()
	q.Drain()
	return out.Scene
}
