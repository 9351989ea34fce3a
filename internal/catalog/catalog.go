/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog loads box catalogs from YAML, JSON or TOML files.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gojsonschema "github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"layoutbuilder/internal/domain"
)

//go:embed catalog.schema.json
var schemaJSON []byte

// Format of a catalog document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	ErrUnknownFormat = errors.New("unknown catalog format")
	ErrEmptyCatalog  = errors.New("catalog has no boxes")
)

// ValidationError lists every problem found in a catalog document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

type file struct {
	Boxes []domain.Box `json:"boxes"`
}

// FormatFor derives the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads a catalog file. An empty path yields the built-in sample catalog.
func Load(path string) ([]domain.Box, error) {
	if strings.TrimSpace(path) == "" {
		return domain.DefaultCatalog(), nil
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	boxes, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return boxes, nil
}

// Parse decodes and validates a catalog document. Boxes without colors get their
// category palette.
func Parse(data []byte, format Format) ([]domain.Box, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		ve := &ValidationError{}
		for _, e := range res.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return nil, ve
	}
	var f file
	if err := json.Unmarshal(doc, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Boxes) == 0 {
		return nil, ErrEmptyCatalog
	}
	seen := make(map[string]int, len(f.Boxes))
	var problems []string
	out := make([]domain.Box, 0, len(f.Boxes))
	for i, b := range f.Boxes {
		b.ID = strings.TrimSpace(b.ID)
		if b.ID == "" {
			problems = append(problems, fmt.Sprintf("boxes.%d.id: blank", i))
		} else if prev, dup := seen[b.ID]; dup {
			problems = append(problems, fmt.Sprintf("boxes.%d.id: %q already used by boxes.%d", i, b.ID, prev))
		} else {
			seen[b.ID] = i
		}
		out = append(out, b.WithPalette())
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return out, nil
}

// Marshal writes boxes in the given format, e.g. to seed a custom catalog file.
func Marshal(boxes []domain.Box, format Format) ([]byte, error) {
	f := file{Boxes: boxes}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(f, "", "  ")
	case FormatYAML:
		return yaml.Marshal(map[string][]domain.Box{"boxes": boxes})
	case FormatTOML:
		// Box carries no toml tags; encode its JSON shape
		raw, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		var v map[string]any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, errors.New("decode catalog: malformed JSON")
		}
		return data, nil
	case FormatTOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		if v == nil {
			v = map[string]any{}
		}
		return json.Marshal(v)
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		if v == nil {
			v = map[string]any{}
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}
