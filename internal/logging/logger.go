/*
DESCRIPTION
  logger.go adapts github.com/ausocean/utils/logging, the logging package
  ausocean/av's cmd/ binaries already build on, for use inside hwdecode's
  library code: a Logger alias, a Discard default, and a rotated
  file-backed constructor built the same way cmd/rv and cmd/looper build
  theirs.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging adapts ausocean/utils' logging package for hwdecode's
// internal use: vp8.DriverConfig accepts a logging.Logger so decode-loop
// events (sequence changes, admission-control stalls) can
// be surfaced without pulling in a CLI.
package logging

import (
	aulogging "github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging contract hwdecode's packages accept, identical to
// ausocean/utils/logging.Logger so callers already using that package
// (any revid-based pipeline) can pass their logger straight through.
type Logger = aulogging.Logger

// Log level constants, re-exported for callers that don't already import
// ausocean/utils/logging.
const (
	Debug   = aulogging.Debug
	Info    = aulogging.Info
	Warning = aulogging.Warning
	Error   = aulogging.Error
	Fatal   = aulogging.Fatal
)

// Discard is the default Logger used when a package is configured with
// none: every call is a no-op.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) SetLevel(int8)                                  {}
func (discardLogger) Log(level int8, msg string, params ...any)      {}
func (discardLogger) Debug(msg string, params ...any)                {}
func (discardLogger) Info(msg string, params ...any)                 {}
func (discardLogger) Warning(msg string, params ...any)              {}
func (discardLogger) Error(msg string, params ...any)                {}
func (discardLogger) Fatal(msg string, params ...any)                {}

// NewFileLogger returns a Logger at the given verbosity writing
// newline-delimited JSON to a rotated file at path, built the same way
// cmd/rv and cmd/looper construct their file loggers: a lumberjack.Logger
// as the io.Writer ausocean/utils/logging.New writes through.
func NewFileLogger(level int8, path string, suppress bool) Logger {
	roller := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 10,
		MaxAge:     28, // days
	}
	return aulogging.New(level, roller, suppress)
}
