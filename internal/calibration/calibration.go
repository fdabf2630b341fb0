/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package calibration maps measured ruler lengths onto a user defined logical unit.
package calibration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRatio is returned for ratios the ruler cannot use.
var ErrInvalidRatio = errors.New("invalid calibration ratio")

// Ratio says that PxLength measured units correspond to LogicalLength LogicalUnit.
type Ratio struct {
	PxLength      float64 `json:"pxLength" yaml:"px_length"`
	LogicalLength float64 `json:"logicalLength" yaml:"logical_length"`
	LogicalUnit   string  `json:"logicalUnit" yaml:"logical_unit"`
}

// Identity is the ratio used before the user configures one.
func Identity() Ratio { return Ratio{PxLength: 1, LogicalLength: 1, LogicalUnit: "px"} }

// Validate reports whether r can be used for conversion.
func (r Ratio) Validate() error {
	if r.PxLength != r.PxLength || r.LogicalLength != r.LogicalLength {
		return fmt.Errorf("%w: NaN component", ErrInvalidRatio)
	}
	if r.PxLength < 1 {
		return fmt.Errorf("%w: pixel length %g must be >= 1", ErrInvalidRatio, r.PxLength)
	}
	return nil
}

// Convert maps a measured length into the logical unit.
func (r Ratio) Convert(v float64) float64 {
	return v / r.PxLength * r.LogicalLength
}

// Parse validates the raw text of the calibration dialog.
func Parse(px, logical, unit string) (Ratio, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(px), 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: pixel length %q is not a number", ErrInvalidRatio, px)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(logical), 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: logical length %q is not a number", ErrInvalidRatio, logical)
	}
	r := Ratio{PxLength: p, LogicalLength: l, LogicalUnit: strings.TrimSpace(unit)}
	if err := r.Validate(); err != nil {
		return Ratio{}, err
	}
	return r, nil
}

// Readout is the size text shown next to the ruler.
type Readout struct {
	Width, Height      string // e.g. " 600 px"
	LogicalW, LogicalH string // empty unless calibration is enabled
}

// Format renders width and height (already expressed in unit) and, when enabled,
// their calibrated equivalents.
func Format(w, h float64, unit string, r Ratio, enabled bool) Readout {
	out := Readout{
		Width:  fmt.Sprintf("%4.0f %s", w, unit),
		Height: fmt.Sprintf("%4.0f %s", h, unit),
	}
	if enabled && r.Validate() == nil {
		out.LogicalW = fmt.Sprintf("%.2f %s", r.Convert(w), r.LogicalUnit)
		out.LogicalH = fmt.Sprintf("%.2f %s", r.Convert(h), r.LogicalUnit)
	}
	return out
}

func (r Readout) String() string {
	s := r.Width + " x " + r.Height
	if r.LogicalW != "" {
		s += " (" + r.LogicalW + " x " + r.LogicalH + ")"
	}
	return s
}
