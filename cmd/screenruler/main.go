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

	"screenruler/internal/config"
	"screenruler/internal/crash"
	applog "screenruler/internal/log"
	"screenruler/internal/version"
)

var (
	cfg        config.AppConfig
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "screenruler",
	Short: "An on-screen ruler overlay",
	Long: `screenruler shows a translucent ruler on top of the desktop that can be moved,
resized and rotated with the mouse. Ticks are drawn in pixels or millimeters on any
of the four edges; a calibration ratio converts the measured size into real units.

The headless subcommands expose the same geometry for scripts and documentation.`,
	Version:           version.String(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the per-user config path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug|info|warn|error")
}

// setup loads the config and initializes logging before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, configPath); err != nil {
			return err
		}
	}
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	lc := cfg.Logging
	if logLevel != "" {
		lc.Level = logLevel
	}
	applog.Init(applog.Options{Level: lc.Level, Format: lc.Format, AddSource: lc.Source, File: lc.File})
	applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.Name()))
	return nil
}

func main() {
	defer crash.Recover(&crash.Hooks{
		Describe: func() string { return fmt.Sprintf("Args: %q", os.Args[1:]) },
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
