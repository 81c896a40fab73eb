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

var (
	startVnet    bool
	startPrivate bool
	startParams  []string
)

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start an already-installed jail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseParams(startParams)
		if err != nil {
			return err
		}

		j := jail.New(hc, args[0])
		if err := j.Start(cmd.Context(), startVnet, startPrivate, extra); err != nil {
			return err
		}
		printStatus("started", j)
		return nil
	},
}

func addStartFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&startVnet, "vnet", true, "attach the jail to the bridge over a fresh VNET epair")
	cmd.Flags().BoolVar(&startPrivate, "private", true, "mark the bridge port private")
	cmd.Flags().StringArrayVar(&startParams, "params", nil, "extra jail(8) K=V parameter override, repeatable")
}

func init() {
	addStartFlags(startCmd)
	rootCmd.AddCommand(startCmd)
}
