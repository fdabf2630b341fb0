/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"screenruler/internal/ruler"
)

// RulerOptions turns the persisted settings into engine options. Unknown
// values fall back to the engine defaults.
func (c AppConfig) RulerOptions() ruler.Options {
	o := ruler.DefaultOptions()
	o.Unit = c.Ruler.UnitValue()
	o.Edges = c.Ruler.EdgesValue()
	o.Opacity = clampOpacity(c.Ruler.Opacity)
	if p, err := ruler.ParseExpandPolicy(c.Ruler.ExpandPolicy); err == nil {
		o.Policy = p
	}
	if r := c.Calibration.Ratio(); r.Validate() == nil {
		o.Calibration = r
		o.CalibrationEnabled = c.Calibration.Enabled
	}
	return o
}
