// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package main

import (
	"github.com/spf13/cobra"

	"github.com/freebsd-jail/jailctl/internal/jail"
)

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a running jail and tear down its networking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jail.New(hc, args[0])
		if err := j.Stop(cmd.Context()); err != nil {
			return err
		}
		printStatus("stopped", j)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
