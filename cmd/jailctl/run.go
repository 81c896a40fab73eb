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
	runVnet    bool
	runPrivate bool
	runParams  []string
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Install (if needed) and start a jail in one step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extra, err := parseParams(runParams)
		if err != nil {
			return err
		}

		j := jail.New(hc, args[0])
		ctx := cmd.Context()

		if !j.CheckFS(ctx) {
			if err := j.CreateFS(ctx); err != nil {
				return err
			}
		}

		if err := j.Start(ctx, runVnet, runPrivate, extra); err != nil {
			return err
		}
		printStatus("running", j)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runVnet, "vnet", true, "attach the jail to the bridge over a fresh VNET epair")
	runCmd.Flags().BoolVar(&runPrivate, "private", true, "mark the bridge port private")
	runCmd.Flags().StringArrayVar(&runParams, "params", nil, "extra jail(8) K=V parameter override, repeatable")
	rootCmd.AddCommand(runCmd)
}
