// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

// Package logger wires the process-wide zerolog logger used for
// jailctl's debug command tracing in HostContext and the host executor.
// The jail lifecycle does not log through L, and the CLI reports errors
// by printing them to stderr rather than through L.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide logger. It defaults to a human-readable console
// writer on stderr so `jailctl` is usable before Init is called.
var L zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// Init points L at a rotated log file under dataDir in addition to
// stderr, and sets the minimum level. level is one of zerolog's textual
// levels ("debug", "info", "warn", "error"); an unrecognized value
// falls back to "info".
func Init(dataDir string, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   dataDir + "/jailctl.log",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}

	L = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return nil
}

// BootstrapFatal logs msg at fatal level and exits the process.
func BootstrapFatal(msg string) {
	L.Fatal().Msg(msg)
}
