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
	"os"

	"github.com/spf13/cobra"

	"screenruler/internal/calibration"
	"screenruler/internal/config"
	applog "screenruler/internal/log"
)

var (
	calPx, calLogical, calUnit string
	calFile                    string
	calSchema                  bool
	calSave                    bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Validate and store a calibration ratio",
	Long: `A calibration ratio says that a given number of pixels corresponds to a
logical length, e.g. 378 px = 10 cm. The ratio comes from flags or from a JSON
document checked against the calibration schema (--schema prints it).`,
	Example: `  screenruler calibrate --px 378 --logical 10 --unit cm --save
  screenruler calibrate --file ratio.json`,
	Args: cobra.NoArgs,
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().StringVar(&calPx, "px", "", "length in pixels")
	calibrateCmd.Flags().StringVar(&calLogical, "logical", "", "matching logical length")
	calibrateCmd.Flags().StringVar(&calUnit, "unit", "", "logical unit label, e.g. cm")
	calibrateCmd.Flags().StringVar(&calFile, "file", "", "read the ratio from a JSON document")
	calibrateCmd.Flags().BoolVar(&calSchema, "schema", false, "print the JSON schema and exit")
	calibrateCmd.Flags().BoolVar(&calSave, "save", false, "store the ratio in the config and enable it")
	calibrateCmd.MarkFlagsRequiredTogether("px", "logical")
	calibrateCmd.MarkFlagsMutuallyExclusive("px", "file")
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if calSchema {
		_, err := out.Write(calibration.Schema())
		return err
	}

	var (
		r   calibration.Ratio
		err error
	)
	switch {
	case calFile != "":
		data, rerr := os.ReadFile(calFile)
		if rerr != nil {
			return fmt.Errorf("read calibration: %w", rerr)
		}
		r, err = calibration.ValidateJSON(data)
	case calPx != "":
		r, err = calibration.Parse(calPx, calLogical, calUnit)
	default:
		r = cfg.Calibration.Ratio()
		err = r.Validate()
	}
	if err != nil {
		return err
	}

	doc, err := r.Document()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", doc)
	fmt.Fprintf(out, "100 px = %.2f %s\n", r.Convert(100), r.LogicalUnit)

	if calSave {
		cfg.Calibration = config.CalibrationConfig{Enabled: true, PxLength: r.PxLength, LogicalLength: r.LogicalLength, LogicalUnit: r.LogicalUnit}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		p, _ := config.ConfigPath()
		applog.WithComponent("cli").Info("calibration saved", slog.String("path", p))
		fmt.Fprintf(out, "saved to %s\n", p)
	}
	return nil
}
