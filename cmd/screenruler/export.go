/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"screenruler/internal/export"
	applog "screenruler/internal/log"
)

var (
	exportShape  shapeFlags
	exportPreset string
	exportDir    string
	exportGuides bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file.png|file.pdf|file.svg]",
	Short: "Render a ruler to PNG, PDF or SVG",
	Long: `Render a ruler without a window. The format follows the file extension.
Without a file argument, --preset writes a bundle of formats into --dir.`,
	Example: `  screenruler export ruler.png --width 800 --angle 30 --edges all
  screenruler export --preset print --dir out --unit mm`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportShape.register(exportCmd)
	exportCmd.Flags().StringVar(&exportPreset, "preset", string(export.PresetAll), "format bundle when no file is given: screen|print|all")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory for --preset")
	exportCmd.Flags().BoolVar(&exportGuides, "guides", false, "outline the render surface")
}

func runExport(cmd *cobra.Command, args []string) error {
	o, err := exportShape.options()
	if err != nil {
		return err
	}
	l := applog.WithOperation(applog.WithComponent("cli"), "export")
	// the surface origin only shifts the ruler, any center works
	sc := export.SceneFor(exportShape.geometry(1000), o)
	opt := export.Options{Guides: exportGuides}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		if err := export.WriteFile(args[0], sc, opt); err != nil {
			return err
		}
		l.Info("exported", slog.String("path", args[0]))
		fmt.Fprintln(out, args[0])
		return nil
	}
	switch p := export.PresetName(exportPreset); p {
	case export.PresetScreen, export.PresetPrint, export.PresetAll:
		paths, err := export.Batch(exportDir, "ruler", p, sc, opt)
		for _, path := range paths {
			fmt.Fprintln(out, path)
		}
		if err != nil {
			return err
		}
		l.Info("exported preset", slog.String("preset", exportPreset), slog.Int("files", len(paths)))
		return nil
	}
	return fmt.Errorf("unknown preset %q", exportPreset)
}
