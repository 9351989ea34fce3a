/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file carrying the current layout.
package crash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"layoutbuilder/internal/layout"
	applog "layoutbuilder/internal/log"
	"layoutbuilder/internal/storage"
	"layoutbuilder/internal/telemetry"
	"layoutbuilder/internal/version"
)

// Source provides the committed layout at the time of the panic.
// *dnd.Controller satisfies it.
type Source interface {
	CommittedDocument() layout.Document
}

// exitFn is swapped in tests.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a report under
// <dir>/.lb (or the temp dir when dir is empty) and exits with code 2.
// The layout in the report is for diagnostics only and is never loaded back.
//
// Usage: defer crash.Recover(exportDir, ctrl)
func Recover(dir string, src Source) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(dir, src, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err), slog.String("path", reportPath))
	}
	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

func reportDir(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	d := filepath.Join(dir, storage.JournalDirName)
	if err := os.MkdirAll(d, 0o755); err != nil {
		return os.TempDir()
	}
	return d
}

func writeReport(dir string, src Source, panicVal any, stack []byte) (string, error) {
	path := filepath.Join(reportDir(dir), fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Layout Builder Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))
	if src != nil {
		_, _ = fmt.Fprintf(&buf, "\nLayout:\n%s\n", layoutJSON(src))
	}

	if err := storage.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return path, err
	}
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

// layoutJSON renders the document, tolerating a source that is itself broken.
func layoutJSON(src Source) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("unavailable: %v", r)
		}
	}()
	b, err := json.MarshalIndent(src.CommittedDocument(), "", "  ")
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return string(b)
}
