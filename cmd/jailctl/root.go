// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freebsd-jail/jailctl/internal/config"
	"github.com/freebsd-jail/jailctl/internal/hostcontext"
	"github.com/freebsd-jail/jailctl/internal/logger"
	"github.com/freebsd-jail/jailctl/pkg/utils"
)

// requiredHostCmds are the binaries every jailctl operation eventually
// shells out to. Checked once at process startup against the real PATH
// so a missing tool fails with a clear message instead of a confusing
// exec error partway through a lifecycle operation.
var requiredHostCmds = []string{"zfs", "ifconfig", "route", "jail", "jls", "jexec", "sysrc", "mount", "umount", "uname"}

var (
	cfgPath    string
	flagZroot  string
	flagBase   string
	flagBridge string
	flagDebug  bool

	hc *hostcontext.HostContext
)

var rootCmd = &cobra.Command{
	Use:   "jailctl",
	Short: "Deterministic ZFS-cloned, VNET-bridged FreeBSD jail manager",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		for _, name := range requiredHostCmds {
			if !utils.HasCmd(name) {
				return fmt.Errorf("required command %q not found in PATH", name)
			}
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		if err := logger.Init(cfg.DataDir, cfg.LogLevel); err != nil {
			return err
		}

		zroot := firstNonEmpty(flagZroot, cfg.Zroot)
		base := firstNonEmpty(flagBase, cfg.Base)
		bridge := firstNonEmpty(flagBridge, cfg.Bridge)
		debug := flagDebug || cfg.Debug

		built, err := hostcontext.New(cmd.Context(), hostcontext.Options{
			Zroot:  zroot,
			Base:   base,
			Bridge: bridge,
			Debug:  debug,
		})
		if err != nil {
			return err
		}
		hc = built
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "path to jailctl bootstrap config")
	rootCmd.PersistentFlags().StringVar(&flagZroot, "zroot", "", "ZFS dataset prefix holding base and jail filesystems")
	rootCmd.PersistentFlags().StringVar(&flagBase, "base", "", "name of the base dataset under zroot")
	rootCmd.PersistentFlags().StringVar(&flagBridge, "bridge", "", "host bridge interface name")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "trace every host command")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// contextWithSignal cancels ctx on SIGINT/SIGTERM, so an in-flight
// child process is aborted rather than left running detached.
func contextWithSignal(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func Execute() error {
	ctx, cancel := contextWithSignal(context.Background())
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}
