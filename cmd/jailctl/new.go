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

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Clone the latest base snapshot into a fresh jail filesystem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jail.New(hc, args[0])
		if err := j.CreateFS(cmd.Context()); err != nil {
			return err
		}
		printStatus("created", j)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
