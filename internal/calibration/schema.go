/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package calibration

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed ratio.schema.json
var schemaBytes []byte

// Schema returns the JSON schema calibration documents must satisfy.
func Schema() []byte { return append([]byte(nil), schemaBytes...) }

// ValidateJSON checks a calibration document against the schema and decodes it.
func ValidateJSON(data []byte) (Ratio, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Ratio{}, fmt.Errorf("%w: %v", ErrInvalidRatio, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Ratio{}, fmt.Errorf("%w: %s", ErrInvalidRatio, strings.Join(msgs, "; "))
	}
	var r Ratio
	if err := json.Unmarshal(data, &r); err != nil {
		return Ratio{}, fmt.Errorf("%w: %v", ErrInvalidRatio, err)
	}
	return r, r.Validate()
}

// Document encodes r in the form ValidateJSON accepts.
func (r Ratio) Document() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
