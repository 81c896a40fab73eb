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

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Destroy a jail's filesystem, optionally stopping it first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j := jail.New(hc, args[0])
		if err := j.Remove(cmd.Context(), removeForce); err != nil {
			return err
		}
		printStatus("removed", j)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "stop the jail first if it is running")
	rootCmd.AddCommand(removeCmd)
}
