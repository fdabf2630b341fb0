/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"screenruler/internal/ruler"
	"screenruler/internal/ticks"
)

// maxExtent bounds --width and --height; ticks are laid out one per pixel.
const maxExtent = 100000.0

// shapeFlags are shared by the commands that describe one ruler.
type shapeFlags struct {
	width, height, angle float64
	unit, edges          string
	opacity              int
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", ruler.DefaultWidth, "ruler width in px")
	cmd.Flags().Float64Var(&f.height, "height", ruler.DefaultHeight, "ruler height in px")
	cmd.Flags().Float64Var(&f.angle, "angle", 0, "rotation in degrees, clockwise")
	cmd.Flags().StringVar(&f.unit, "unit", "", "tick unit px|mm (default from config)")
	cmd.Flags().StringVar(&f.edges, "edges", "", `tick edges, e.g. "top,left" or "all" (default from config)`)
	cmd.Flags().IntVar(&f.opacity, "opacity", -1, "body transparency percent (default from config)")
}

// options merges the config with the flags that were set explicitly.
func (f *shapeFlags) options() (ruler.Options, error) {
	o := cfg.RulerOptions()
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", f.width}, {"height", f.height}} {
		if math.IsNaN(d.v) || d.v <= 0 || d.v > maxExtent {
			return o, fmt.Errorf("--%s %v out of range (0, %g]", d.name, d.v, maxExtent)
		}
	}
	if math.IsNaN(f.angle) || math.IsInf(f.angle, 0) {
		return o, fmt.Errorf("--angle %v is not a finite number", f.angle)
	}
	if f.unit != "" {
		u, err := ticks.ParseUnit(f.unit)
		if err != nil {
			return o, err
		}
		o.Unit = u
	}
	if f.edges != "" {
		e, err := ticks.ParseEdges(f.edges)
		if err != nil {
			return o, err
		}
		o.Edges = e
	}
	if f.opacity >= 0 {
		o.Opacity = min(f.opacity, 100)
	}
	return o, nil
}

func (f *shapeFlags) geometry(center float64) ruler.Geometry {
	g := ruler.Geometry{Width: f.width, Height: f.height, Angle: f.angle}
	g.Center.X, g.Center.Y = center, center
	return g
}

var (
	tickShape shapeFlags
	tickJSON  bool
)

var ticksCmd = &cobra.Command{
	Use:   "ticks",
	Short: "List the ticks and labels of a ruler",
	Long: `List every tick the ruler draws for the given size, unit and edges.
With --json the laid out frame (segments and labels in ruler coordinates) is printed.`,
	Args: cobra.NoArgs,
	RunE: runTicks,
}

func init() {
	rootCmd.AddCommand(ticksCmd)
	tickShape.register(ticksCmd)
	ticksCmd.Flags().BoolVar(&tickJSON, "json", false, "print the laid out frame as JSON")
}

func runTicks(cmd *cobra.Command, _ []string) error {
	o, err := tickShape.options()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if tickJSON {
		f := ticks.Build(tickShape.width, tickShape.height, o.Unit, o.Edges, nil)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}
	ts := ticks.Generate(tickShape.width, tickShape.height, o.Unit, o.Edges)
	fmt.Fprintf(out, "%-7s %9s %6s %4s %s\n", "EDGE", "POS", "VALUE", "LEN", "LABEL")
	for _, t := range ts {
		label := t.Label
		if t.Bold {
			label += " (bold)"
		}
		fmt.Fprintf(out, "%-7s %9.2f %6d %4d %s\n", t.Edge, t.Position, t.Value, t.Length, label)
	}
	fmt.Fprintf(out, "%d ticks (%s, edges %s)\n", len(ts), o.Unit, o.Edges)
	return nil
}
