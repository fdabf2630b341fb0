/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenruler/internal/calibration"
	"screenruler/internal/geom"
	"screenruler/internal/ruler"
)

var (
	bboxShape  shapeFlags
	bboxMargin float64
)

var bboxCmd = &cobra.Command{
	Use:   "bbox",
	Short: "Show the surface a rotated ruler needs",
	Long: `Compute the snapped angle, the tight bounding box and the rotation-safe
diagonal square for a ruler of the given size.`,
	Args: cobra.NoArgs,
	RunE: runBBox,
}

func init() {
	rootCmd.AddCommand(bboxCmd)
	bboxShape.register(bboxCmd)
	bboxCmd.Flags().Float64Var(&bboxMargin, "margin", ruler.HandleMargin, "margin added around the ruler")
}

func runBBox(cmd *cobra.Command, _ []string) error {
	o, err := bboxShape.options()
	if err != nil {
		return err
	}
	w := max(bboxShape.width, ruler.MinWidth)
	h := max(bboxShape.height, ruler.MinHeight)
	angle := geom.SnapAngle(bboxShape.angle)
	bb := geom.BoundingBox(w, h, angle, bboxMargin)
	sq := geom.DiagonalSquare(w, h, bboxMargin)
	ppu := o.Unit.PxPerUnit()
	ro := calibration.Format(w/ppu, h/ppu, string(o.Unit), o.Calibration, o.CalibrationEnabled)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size:     %s\n", ro)
	fmt.Fprintf(out, "angle:    %g (snapped from %g)\n", angle, bboxShape.angle)
	fmt.Fprintf(out, "bbox:     %.2f x %.2f\n", bb.W, bb.H)
	fmt.Fprintf(out, "diagonal: %.2f x %.2f\n", sq.W, sq.H)
	return nil
}
