/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// SnapTolerance is the half-width of the band around each cardinal angle, in degrees.
const SnapTolerance = 3.0

// SnapAngle returns the nearest of 0/90/180/270 when deg lies strictly within
// SnapTolerance of it; otherwise deg is returned unchanged. A distance of exactly
// SnapTolerance does not snap.
func SnapAngle(deg float64) float64 {
	n := NormalizeAngle(deg)
	cardinal := math.Round(n/90) * 90
	if math.Abs(n-cardinal) < SnapTolerance {
		return NormalizeAngle(cardinal)
	}
	return deg
}
