// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

// Package hostexec is the single choke point through which HostContext
// and Jail talk to the operating system. Everything else in the core is
// pure derivation or sequencing logic that can be tested against the
// Fake executor in this package without a FreeBSD host.
package hostexec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/freebsd-jail/jailctl/internal/jerr"
	"github.com/freebsd-jail/jailctl/internal/logger"
)

// Executor runs host primitives. Run fails with a *jerr.CommandFailure on
// nonzero exit; CheckRun never returns an error, only whether the command
// succeeded. HostContext's own checkCmd probe calls Run and converts the
// error to a boolean itself rather than going through CheckRun.
type Executor interface {
	Run(ctx context.Context, argv ...string) (string, error)
	CheckRun(ctx context.Context, argv ...string) bool
}

// Real shells out via os/exec. Debug controls whether argv and captured
// output are traced through logger.L, mirroring HostContext's debug flag.
type Real struct {
	Debug bool
}

func New(debug bool) *Real {
	return &Real{Debug: debug}
}

func (r *Real) Run(ctx context.Context, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", jerr.NewConfigurationError("empty argv", nil)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.Debug {
		logger.L.Debug().Strs("argv", argv).Msg("host_exec")
	}

	err := cmd.Run()
	out := strings.TrimRight(stdout.String(), " \t\r\n")

	if err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}

		if r.Debug {
			logger.L.Debug().Strs("argv", argv).Str("stderr", stderr.String()).Msg("host_exec_failed")
		}

		return out, &jerr.CommandFailure{
			Argv:     argv,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	if r.Debug {
		logger.L.Debug().Strs("argv", argv).Str("stdout", out).Msg("host_exec_ok")
	}

	return out, nil
}

func (r *Real) CheckRun(ctx context.Context, argv ...string) bool {
	_, err := r.Run(ctx, argv...)
	return err == nil
}
