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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
	"layoutbuilder/internal/storage"
)

// PresetName represents a named group of formats.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
	PresetAll   PresetName = "all"
)

var ErrUnknownPreset = errors.New("unknown export preset")

// PresetFormats returns the formats of a preset.
func PresetFormats(p PresetName) ([]Format, error) {
	switch PresetName(strings.ToLower(string(p))) {
	case PresetWeb:
		return []Format{FormatSVG, FormatPNG}, nil
	case PresetPrint:
		return []Format{FormatPDF}, nil
	case PresetAll:
		return []Format{FormatJSON, FormatSVG, FormatPNG, FormatPDF}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
}

// presetGuides is the default for Options.Guides per preset; print output has no outlines.
func presetGuides(p PresetName) bool { return p != PresetPrint }

// Exporter writes rendered files into Dir. When Journal is set every written file is
// recorded in it.
type Exporter struct {
	Dir     string
	Name    string // base file name, "layout" when empty
	Options Options
	Journal *sql.DB
}

// Export renders doc as f and writes it atomically. It returns the journal entry
// describing the file (with an empty ID when no journal is attached).
func (e *Exporter) Export(ctx context.Context, doc layout.Document, f Format) (storage.Entry, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "export").With(slog.String("format", string(f)))
	data, err := Render(doc, f, e.Options)
	if err != nil {
		return storage.Entry{}, err
	}
	name := e.Name
	if strings.TrimSpace(name) == "" {
		name = "layout"
	}
	path := filepath.Join(e.Dir, name+f.Ext())
	if err := storage.WriteFileAtomic(path, data); err != nil {
		l.Error("write failed", slog.Any("err", err))
		return storage.Entry{}, err
	}
	entry := storage.Entry{Format: string(f), Path: path, Bytes: int64(len(data)), Placed: len(doc.Placed())}
	if e.Journal != nil {
		if entry, err = storage.RecordExport(ctx, e.Journal, entry); err != nil {
			l.Warn("journal write failed", slog.Any("err", err))
			return entry, err
		}
	}
	l.Info("exported", slog.String("path", path), slog.Int64("bytes", entry.Bytes))
	return entry, nil
}

// ExportPreset writes every format of preset p. Guides follow the preset unless
// guides is non-nil.
func (e *Exporter) ExportPreset(ctx context.Context, doc layout.Document, p PresetName, guides *bool) ([]storage.Entry, error) {
	formats, err := PresetFormats(p)
	if err != nil {
		return nil, err
	}
	sub := *e
	sub.Options.Guides = presetGuides(p)
	if guides != nil {
		sub.Options.Guides = *guides
	}
	out := make([]storage.Entry, 0, len(formats))
	for _, f := range formats {
		entry, err := sub.Export(ctx, doc, f)
		if err != nil {
			return out, fmt.Errorf("%s %s: %w", p, f, err)
		}
		out = append(out, entry)
	}
	return out, nil
}
