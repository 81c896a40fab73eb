// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/freebsd-jail/jailctl/internal/jail"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

const (
	ansiGreen  = "\x1b[32m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func colorize(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// printStatus is the single status line every successful subcommand
// prints: name, derived hash, and synthesized address.
func printStatus(verb string, j *jail.Jail) {
	fmt.Printf("%s %s hash=%s ipv6=%s\n",
		verb,
		colorize(ansiGreen, j.Name),
		colorize(ansiCyan, j.Hash),
		colorize(ansiYellow, j.IPv6),
	)
}
