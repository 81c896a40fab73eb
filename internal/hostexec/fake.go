// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package hostexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/freebsd-jail/jailctl/internal/jerr"
)

// Reply is one recorded argv -> outcome triple.
type Reply struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Fake replays canned replies keyed by the exact argv (joined with the
// \x1f unit separator, so arguments containing spaces stay distinct), for
// hermetic tests of HostContext/Jail without a real host. It also
// records every argv it was asked to run, in order, so tests can assert
// on sequencing (e.g. that start() never reaches jail -cv before
// create_epair).
type Fake struct {
	replies map[string]Reply
	Calls   [][]string
}

func NewFake() *Fake {
	return &Fake{replies: make(map[string]Reply)}
}

// When registers the reply for an exact argv. Missing registrations
// fail the call with a CommandFailure, so a test must be explicit about
// every command its scenario touches.
func (f *Fake) When(argv []string, reply Reply) *Fake {
	f.replies[key(argv)] = reply
	return f
}

// WhenOK is a shorthand for a successful reply.
func (f *Fake) WhenOK(stdout string, argv ...string) *Fake {
	return f.When(argv, Reply{Stdout: stdout})
}

// WhenFail is a shorthand for a nonzero-exit reply.
func (f *Fake) WhenFail(stderr string, argv ...string) *Fake {
	return f.When(argv, Reply{Stderr: stderr, ExitCode: 1})
}

func (f *Fake) Run(_ context.Context, argv ...string) (string, error) {
	f.Calls = append(f.Calls, append([]string(nil), argv...))

	reply, ok := f.replies[key(argv)]
	if !ok {
		return "", &jerr.CommandFailure{
			Argv:     argv,
			ExitCode: 127,
			Stderr:   fmt.Sprintf("no fake reply registered for: %v", argv),
		}
	}

	if reply.ExitCode != 0 {
		return "", &jerr.CommandFailure{Argv: argv, ExitCode: reply.ExitCode, Stderr: reply.Stderr}
	}

	return strings.TrimRight(reply.Stdout, " \t\r\n"), nil
}

func (f *Fake) CheckRun(ctx context.Context, argv ...string) bool {
	_, err := f.Run(ctx, argv...)
	return err == nil
}

func key(argv []string) string {
	return strings.Join(argv, "\x1f")
}
