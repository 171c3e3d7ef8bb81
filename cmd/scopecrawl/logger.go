package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog.Logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	}
	if verbose {
		opts.Level = log.DebugLevel
	}
	if format == "json" {
		opts.Formatter = log.JSONFormatter
	}
	return slog.New(log.NewWithOptions(w, opts))
}
