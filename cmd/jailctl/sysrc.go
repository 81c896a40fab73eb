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

var sysrcCmd = &cobra.Command{
	Use:                "sysrc <name> [args...]",
	Short:              "Run sysrc -R against a jail's mounted root",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jail.New(hc, args[0])
		argv := append([]string{"sysrc", "-R", j.Path}, args[1:]...)
		out, err := hc.Cmd(cmd.Context(), argv...)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sysrcCmd)
}
