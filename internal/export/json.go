/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"layoutbuilder/internal/layout"
	"layoutbuilder/internal/version"
)

//go:embed layout.schema.json
var layoutSchema []byte

// envelope is the top-level JSON export object.
type envelope struct {
	Generator string          `json:"generator"`
	Version   string          `json:"version"`
	Layout    layout.Document `json:"layout"`
}

// RenderJSON encodes doc with an app/version header and checks the result against the
// embedded layout schema before returning it.
func RenderJSON(doc layout.Document) ([]byte, error) {
	data, err := json.MarshalIndent(envelope{Generator: "layoutbuilder", Version: version.String(), Layout: doc}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ValidateJSON checks an exported layout against the embedded schema.
func ValidateJSON(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(layoutSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("layout does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
