/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"screenruler/internal/config"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command against an isolated config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigPath, cfgFile)
	t.Setenv(config.EnvLogLevel, "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTicksCommand(t *testing.T) {
	out, err := run(t, "ticks", "--unit", "px", "--edges", "top")
	if err != nil {
		t.Fatalf("ticks: %v", err)
	}
	if !strings.Contains(out, "300 ticks (px, edges top)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "(bold)") {
		t.Fatalf("bold labels missing")
	}
}

func TestTicksCommandJSON(t *testing.T) {
	out, err := run(t, "ticks", "--unit", "mm", "--width", "300", "--json")
	if err != nil {
		t.Fatalf("ticks --json: %v", err)
	}
	if !strings.Contains(out, `"Segments"`) || !strings.Contains(out, `"Text": "10"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestTicksCommandRejectsUnit(t *testing.T) {
	if _, err := run(t, "ticks", "--unit", "inch"); err == nil {
		t.Fatalf("expected error for unknown unit")
	}
}

func TestShapeFlagsRejectUnboundedSizes(t *testing.T) {
	for _, args := range [][]string{
		{"ticks", "--width", "1e15"},
		{"ticks", "--height", "0"},
		{"bbox", "--height", "NaN"},
		{"bbox", "--angle", "Inf"},
		{"export", "--width=-5", filepath.Join(t.TempDir(), "r.svg")},
	} {
		if _, err := run(t, args...); err == nil {
			t.Fatalf("%v: expected an error", args)
		}
	}
	if _, err := run(t, "ticks", "--width", "100000", "--height", "20", "--edges", "top"); err != nil {
		t.Fatalf("largest width rejected: %v", err)
	}
}

func TestBBoxCommandSnaps(t *testing.T) {
	out, err := run(t, "bbox", "--angle", "92", "--margin", "0")
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	for _, want := range []string{"angle:    90 (snapped from 92)", "bbox:     150.00 x 600.00", "size:      600 px x  150 px"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.svg")
	out, err := run(t, "export", path, "--width", "300", "--edges", "all", "--angle", "30")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Fatalf("output: %q", out)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(b, []byte("<svg")) {
		t.Fatalf("not an svg")
	}
}

func TestExportCommandPreset(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--preset", "screen", "--dir", dir)
	if err != nil {
		t.Fatalf("export preset: %v", err)
	}
	if n := len(strings.Fields(out)); n != 2 {
		t.Fatalf("expected two files, got %q", out)
	}
	if _, err := run(t, "export", "--preset", "poster"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestCalibrateCommandSaves(t *testing.T) {
	out, err := run(t, "calibrate", "--px", "400", "--logical", "10", "--unit", "cm", "--save")
	if err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	if !strings.Contains(out, "100 px = 2.50 cm") {
		t.Fatalf("conversion missing:\n%s", out)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Calibration.Enabled || cfg.Calibration.PxLength != 400 || cfg.Calibration.LogicalUnit != "cm" {
		t.Fatalf("saved calibration: %+v", cfg.Calibration)
	}
}

func TestCalibrateCommandFile(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "ratio.json")
	if err := os.WriteFile(doc, []byte(`{"pxLength": 0, "logicalLength": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "calibrate", "--file", doc); err == nil {
		t.Fatalf("expected schema violation for pxLength 0")
	}
	out, err := run(t, "calibrate", "--schema")
	if err != nil || !strings.Contains(out, "pxLength") {
		t.Fatalf("schema: %v\n%s", err, out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || !strings.HasPrefix(out, "screenruler ") {
		t.Fatalf("version: %q %v", out, err)
	}
}
