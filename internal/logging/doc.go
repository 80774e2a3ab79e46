// Package logging builds the slog loggers used across bluezip.
//
// The console format renders compact, human-oriented lines for interactive
// use; the json format emits one structured record per line for ingestion.
// When a log directory is configured the logger tees into a bluezip.log file
// so batch runs stay auditable after the terminal scrollback is gone.
package logging
