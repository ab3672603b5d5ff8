// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "localmin",
	Short: "Bounded scalar minimization with Brent's method",
	Long: `localmin seeks local minimizers of scalar functions on bounded intervals
with Brent's combination of golden-section search and parabolic interpolation.
The objective may be a builtin function, an external command, or the caller
itself through the reverse-communication protocol of the rc command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logger
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		// stdout belongs to reports and the rc protocol
		opts := &slog.HandlerOptions{Level: level}
		var handler slog.Handler
		if logFormat == "text" {
			handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
		} else {
			handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
		}
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	// main reports the error
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format (json, text)")
}
