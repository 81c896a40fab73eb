// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package jail

import (
	"context"
	"strings"
)

// IsRunning reports whether the jail process exists in the kernel jail
// table.
func (j *Jail) IsRunning(ctx context.Context) bool {
	return j.hc.CheckCmd(ctx, "jls", "-Nj", j.Hash)
}

// CheckFS reports whether the jail's ZFS dataset exists.
func (j *Jail) CheckFS(ctx context.Context) bool {
	return j.hc.CheckCmd(ctx, "zfs", "list", j.Zpath)
}

// CheckEpair reports whether the host-side epair interface exists.
func (j *Jail) CheckEpair(ctx context.Context) bool {
	return j.hc.CheckCmd(ctx, "ifconfig", j.EpairHost)
}

// CheckDevfs reports whether the jail's /dev is mounted as devfs.
func (j *Jail) CheckDevfs(ctx context.Context) bool {
	out, err := j.hc.Cmd(ctx, "mount", "-t", "devfs")
	if err != nil {
		return false
	}
	target := j.Path + "/dev"
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, target) {
			return true
		}
	}
	return false
}

// IsVnet reports whether the running jail has the vnet parameter set;
// any command failure (including "jail not running") is false, never
// propagated, since this is a state predicate.
func (j *Jail) IsVnet(ctx context.Context) bool {
	out, err := j.hc.Cmd(ctx, "jls", "-j", j.Hash, "vnet")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "1"
}
