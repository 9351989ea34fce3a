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
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"layoutbuilder/internal/layout"
)

// bundleFormats are the members of a bundle, in archive order.
var bundleFormats = []Format{FormatJSON, FormatSVG, FormatPNG}

// RenderBundle zips layout.json, layout.svg and layout.png.
func RenderBundle(doc layout.Document, opt Options) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mod := time.Now()
	for _, f := range bundleFormats {
		data, err := Render(doc, f, opt)
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("bundle %s: %w", f, err)
		}
		method := zip.Deflate
		if f == FormatPNG {
			// already compressed
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: "layout" + f.Ext(), Method: method, Modified: mod})
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("bundle %s: %w", f, err)
		}
		if _, err := w.Write(data); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("bundle %s: %w", f, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close bundle: %w", err)
	}
	return buf.Bytes(), nil
}
