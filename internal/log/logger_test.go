/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines in %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

func TestInitWritesStructuredFileLog(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "ruler.json")
	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{Level: "error"}) })

	l := WithOperation(WithComponent("ruler"), "drag")
	l.Info("session ended", slog.String("kind", "rotating"))

	m := lastJSONLine(t, fpath)
	if m["app"] != "screenruler" {
		t.Fatalf("app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "ruler" || m["op"] != "drag" {
		t.Fatalf("component/op: %v/%v", m["component"], m["op"])
	}
	if m["msg"] != "session ended" || m["kind"] != "rotating" {
		t.Fatalf("record: %v", m)
	}
}

func TestContextProviderAddsAttrs(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "ctx.json")
	Init(Options{Level: "info", Format: "json", File: fpath})
	SetContextProvider(func() []slog.Attr { return []slog.Attr{slog.String("drag", "moving")} })
	t.Cleanup(func() {
		SetContextProvider(nil)
		Init(Options{Level: "error"})
	})

	L().Info("move")
	if m := lastJSONLine(t, fpath); m["drag"] != "moving" {
		t.Fatalf("provider attr missing: %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RULER_LOG_LEVEL", "warn")
	t.Setenv("RULER_LOG_FORMAT", "json")
	t.Setenv("RULER_LOG_SOURCE", "true")
	t.Setenv("RULER_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("RULER_SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback: %q", v)
	}
}

func TestPrettyTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &prettyTextHandler{opts: prettyOpts{Level: slog.LevelWarn}, w: &buf}
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("unit", "mm")}).WithGroup("shape")
	r := slog.NewRecord(time.Now(), slog.LevelError, "clamped", 0)
	r.AddAttrs(slog.Int("w", 100), slog.Float64("angle", 92.5), slog.Bool("snapped", false))
	if err := h2.Handle(ctx, r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ERR", "clamped", "unit=mm", "shape.w=100", "shape.angle=92.5", "shape.snapped=false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "bogus": slog.LevelInfo}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v want %v", in, got, want)
		}
	}
}
