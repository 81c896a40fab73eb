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
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/freebsd-jail/jailctl/internal/jail"
	"github.com/freebsd-jail/jailctl/pkg/utils"
)

var (
	installSource string
	installDest   string
	installMktemp bool
	installMode   string
	installUser   string
	installGroup  string
)

// installCmd is a file-placement helper external to the lifecycle core:
// it never touches jail state, only the already-mounted filesystem
// underneath it.
var installCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Copy a file into a jail's mounted root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if installSource == "" {
			return fmt.Errorf("--source is required")
		}
		if installDest == "" && !installMktemp {
			return fmt.Errorf("one of --dest or --mktemp is required")
		}

		j := jail.New(hc, args[0])
		if _, err := os.Stat(j.Path); err != nil {
			return fmt.Errorf("jail root %s not mounted: %w", j.Path, err)
		}

		dest, err := resolveInstallDest(j.Path)
		if err != nil {
			return err
		}

		if isDir, err := utils.IsDir(dest); err != nil {
			return err
		} else if isDir {
			return fmt.Errorf("%s is a directory", dest)
		}
		if exists, err := utils.FileExists(dest); err != nil {
			return err
		} else if exists {
			fmt.Println("overwriting", dest)
		}

		if err := copyFile(installSource, dest); err != nil {
			return err
		}

		if installMode != "" {
			mode, err := strconv.ParseUint(installMode, 8, 32)
			if err != nil {
				return fmt.Errorf("invalid --mode %q: %w", installMode, err)
			}
			if err := os.Chmod(dest, os.FileMode(mode)); err != nil {
				return err
			}
		}

		if installUser != "" || installGroup != "" {
			uid, gid, err := resolveOwner(installUser, installGroup)
			if err != nil {
				return err
			}
			if err := os.Chown(dest, uid, gid); err != nil {
				return err
			}
		}

		fmt.Println("installed", dest)
		return nil
	},
}

func resolveInstallDest(jailRoot string) (string, error) {
	if installMktemp {
		f, err := os.CreateTemp(jailRoot, "jailctl-install-*")
		if err != nil {
			return "", err
		}
		defer f.Close()
		return f.Name(), nil
	}
	return filepath.Join(jailRoot, installDest), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func resolveOwner(userName, groupName string) (uid, gid int, err error) {
	uid, gid = -1, -1
	if userName != "" {
		u, err := user.Lookup(userName)
		if err != nil {
			return 0, 0, err
		}
		uid, _ = strconv.Atoi(u.Uid)
		if groupName == "" {
			gid, _ = strconv.Atoi(u.Gid)
		}
	}
	if groupName != "" {
		g, err := user.LookupGroup(groupName)
		if err != nil {
			return 0, 0, err
		}
		gid, _ = strconv.Atoi(g.Gid)
	}
	return uid, gid, nil
}

func init() {
	installCmd.Flags().StringVar(&installSource, "source", "", "file to copy in")
	installCmd.Flags().StringVar(&installDest, "dest", "", "destination path relative to the jail root")
	installCmd.Flags().BoolVar(&installMktemp, "mktemp", false, "place the file at a generated temporary path instead of --dest")
	installCmd.Flags().StringVar(&installMode, "mode", "", "octal file mode to apply after copy")
	installCmd.Flags().StringVar(&installUser, "user", "", "owner to chown to after copy")
	installCmd.Flags().StringVar(&installGroup, "group", "", "group to chown to after copy")
	rootCmd.AddCommand(installCmd)
}
