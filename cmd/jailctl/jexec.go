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

	"github.com/spf13/cobra"

	"github.com/freebsd-jail/jailctl/internal/jail"
)

var jexecCmd = &cobra.Command{
	Use:                "jexec <name> [args...]",
	Short:              "Execute a command inside a running jail",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jail.New(hc, args[0])
		shell := args[1:]
		if len(shell) == 0 {
			shell = []string{"/bin/sh"}
		}
		argv := append([]string{"jexec", j.Hash}, shell...)
		out, err := hc.Cmd(cmd.Context(), argv...)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jexecCmd)
}
