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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/freebsd-jail/jailctl/internal/jail"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every installed jail under the active base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		refs, err := hc.GetJails(ctx)
		if err != nil {
			return err
		}

		if len(refs) == 0 {
			fmt.Println("no jails found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tHASH\tIPV6\tRUNNING\tVNET")

		for _, ref := range refs {
			j := jail.New(hc, ref.Name)
			running := j.IsRunning(ctx)
			vnet := running && j.IsVnet(ctx)
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n", j.Name, j.Hash, j.IPv6, running, vnet)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
