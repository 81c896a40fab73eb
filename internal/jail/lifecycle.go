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

	"github.com/freebsd-jail/jailctl/internal/jerr"
	"github.com/freebsd-jail/jailctl/pkg/utils"
)

// CreateFS clones the latest base snapshot to this jail's dataset and
// stamps the persisted jail:name/jail:ipv6/jail:base user properties.
// Precondition: the dataset must not already exist.
func (j *Jail) CreateFS(ctx context.Context) error {
	if j.CheckFS(ctx) {
		return jerr.NewPreconditionError("create_fs", "dataset "+j.Zpath+" already exists")
	}

	snapshot, err := j.hc.GetLatestSnapshot(ctx)
	if err != nil {
		return err
	}

	if _, err := j.hc.Cmd(ctx, "zfs", "clone", snapshot, j.Zpath); err != nil {
		return err
	}

	base := j.hc.Base
	props := []struct{ key, value string }{
		{"jail:name", j.Name},
		{"jail:ipv6", j.IPv6},
		{"jail:base", base},
	}
	for _, p := range props {
		if _, err := j.hc.Cmd(ctx, "zfs", "set", p.key+"="+p.value, j.Zpath); err != nil {
			return err
		}
	}

	return nil
}

// Start brings the jail process up, either attached to the bridge over
// a fresh VNET epair (vnet=true) or with its synthesized address
// aliased directly on the host's outbound interface (vnet=false).
// Preconditions: the dataset must exist and the jail must not already
// be running.
func (j *Jail) Start(ctx context.Context, vnet bool, private bool, extra []Param) error {
	if err := validateAllowParams(extra); err != nil {
		return err
	}
	if !j.CheckFS(ctx) {
		return jerr.NewPreconditionError("start", "dataset "+j.Zpath+" does not exist")
	}
	if j.IsRunning(ctx) {
		return jerr.NewPreconditionError("start", "jail "+j.Hash+" is already running")
	}

	osrelease, err := j.hc.Cmd(ctx, "uname", "-r")
	if err != nil {
		return err
	}

	params := defaultParams()
	params.set("osrelease", strings.TrimSpace(osrelease))
	params.set("name", j.Hash)
	params.set("path", j.Path)
	params.set("host.hostname", j.Name)

	if vnet {
		params.set("vnet.interface", j.EpairJail)
	} else {
		params.unset("vnet")
		params.unset("vnet.interface")
		params.set("ip6.addr", j.IPv6)
	}

	params.apply(extra)

	if vnet {
		if err := j.createEpair(ctx, private); err != nil {
			return err
		}
		if err := j.configureVnet(ctx); err != nil {
			return err
		}
		if _, err := j.jailCreate(ctx, params); err != nil {
			return err
		}
		return j.localRoute(ctx)
	}

	if err := j.configureHost(ctx); err != nil {
		return err
	}
	_, err = j.jailCreate(ctx, params)
	return err
}

// validateAllowParams rejects any caller-supplied "allow.*" override that
// is not on jail(8)'s recognized allow-parameter list, before any host
// command runs.
func validateAllowParams(extra []Param) error {
	var allowKeys []string
	for _, p := range extra {
		if strings.HasPrefix(p.Key, "allow.") {
			allowKeys = append(allowKeys, p.Key)
		}
	}
	if len(allowKeys) == 0 {
		return nil
	}
	if !utils.IsValidJailAllowedOpts(allowKeys) {
		return jerr.NewConfigurationError("unrecognized allow.* jail parameter in: "+strings.Join(allowKeys, ", "), nil)
	}
	return nil
}

func (j *Jail) jailCreate(ctx context.Context, params *paramSet) (string, error) {
	argv := append([]string{"jail", "-cv"}, params.argv()...)
	return j.hc.Cmd(ctx, argv...)
}

// Stop tears down a running jail: for a VNET jail, reclaims the
// jail-side interface and destroys the epair; for a shared-IP jail,
// removes the host alias. Then stops the jail process and unmounts its
// devfs. Precondition: the jail must be running.
func (j *Jail) Stop(ctx context.Context) error {
	if !j.IsRunning(ctx) {
		return jerr.NewPreconditionError("stop", "jail "+j.Hash+" is not running")
	}

	if j.IsVnet(ctx) {
		if err := j.removeVnet(ctx); err != nil {
			return err
		}
		if err := j.destroyEpair(ctx); err != nil {
			return err
		}
	} else {
		if err := j.removeHostAlias(ctx); err != nil {
			return err
		}
	}

	if _, err := j.hc.Cmd(ctx, "jail", "-Rv", j.Hash); err != nil {
		return err
	}

	_, err := j.hc.Cmd(ctx, "umount", j.Path+"/dev")
	return err
}

// Remove stops the jail (if running and force is set) and destroys its
// dataset. If the jail is running and force is not set, Remove fails
// without touching anything.
func (j *Jail) Remove(ctx context.Context, force bool) error {
	if j.IsRunning(ctx) {
		if !force {
			return jerr.NewPreconditionError("remove", "jail "+j.Hash+" is running; pass force to stop it first")
		}
		if err := j.Stop(ctx); err != nil {
			return err
		}
	}

	if j.CheckDevfs(ctx) {
		if _, err := j.hc.Cmd(ctx, "umount", j.Path+"/dev"); err != nil {
			return err
		}
	}

	if j.CheckEpair(ctx) {
		if err := j.destroyEpair(ctx); err != nil {
			return err
		}
	}

	_, err := j.hc.Cmd(ctx, "zfs", "destroy", "-f", j.Zpath)
	return err
}

// CleanupResult reports which resources Cleanup was able to reclaim
// and which it could not, so a caller can decide whether to re-run it
// or escalate to an operator.
type CleanupResult struct {
	StoppedJail    bool
	UnmountedDevfs bool
	DestroyedEpair bool
	DestroyedFS    bool
	Remaining      []string
}

// Cleanup is best-effort resource salvage for a degraded jail: it does
// not stop at the first failing step, and never fails on a
// fully-absent jail. It follows Remove's guard semantics throughout
// (running + force required to stop; destroyFS optionally destroys
// the dataset).
func (j *Jail) Cleanup(ctx context.Context, force bool, destroyFS bool) CleanupResult {
	var res CleanupResult

	if j.IsRunning(ctx) {
		if force {
			if err := j.Stop(ctx); err == nil {
				res.StoppedJail = true
			} else {
				res.Remaining = append(res.Remaining, "jail-process")
			}
		} else {
			res.Remaining = append(res.Remaining, "jail-process")
		}
	}

	if j.CheckDevfs(ctx) {
		if _, err := j.hc.Cmd(ctx, "umount", j.Path+"/dev"); err == nil {
			res.UnmountedDevfs = true
		} else {
			res.Remaining = append(res.Remaining, "devfs")
		}
	}

	if j.CheckEpair(ctx) {
		if err := j.destroyEpair(ctx); err == nil {
			res.DestroyedEpair = true
		} else {
			res.Remaining = append(res.Remaining, "epair")
		}
	}

	if destroyFS && j.CheckFS(ctx) {
		if _, err := j.hc.Cmd(ctx, "zfs", "destroy", "-f", j.Zpath); err == nil {
			res.DestroyedFS = true
		} else {
			res.Remaining = append(res.Remaining, "dataset")
		}
	}

	return res
}
