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
	"regexp"
	"strings"

	"github.com/freebsd-jail/jailctl/internal/jerr"
)

var epairInet6Re = regexp.MustCompile(`inet6\s+(fe80::[^%\s]+)`)

// createEpair creates a fresh epair, renames both halves to this
// jail's EpairHost/EpairJail, brings the host side up with an
// auto-generated link-local address, and attaches it to the bridge.
// When private is set, the bridge port is additionally marked private
// so it cannot reach other private ports on the same bridge.
func (j *Jail) createEpair(ctx context.Context, private bool) error {
	out, err := j.hc.Cmd(ctx, "ifconfig", "epair", "create")
	if err != nil {
		return err
	}
	stem := strings.TrimSpace(out)
	if !strings.HasSuffix(stem, "a") {
		return jerr.NewConfigurationError("ifconfig epair create did not return an 'a' device: "+stem, nil)
	}
	stem = strings.TrimSuffix(stem, "a")

	if _, err := j.hc.Cmd(ctx, "ifconfig", stem+"a", "name", j.EpairHost); err != nil {
		return err
	}
	if _, err := j.hc.Cmd(ctx, "ifconfig", stem+"b", "name", j.EpairJail); err != nil {
		return err
	}

	if _, err := j.hc.Cmd(ctx, "ifconfig", j.EpairHost, "up"); err != nil {
		return err
	}
	if _, err := j.hc.Cmd(ctx, "ifconfig", j.EpairHost, "inet6", "auto_linklocal"); err != nil {
		return err
	}

	bridge := j.hc.Bridge
	if _, err := j.hc.Cmd(ctx, "ifconfig", bridge, "addm", j.EpairHost); err != nil {
		return err
	}
	if private {
		if _, err := j.hc.Cmd(ctx, "ifconfig", bridge, "private", j.EpairHost); err != nil {
			return err
		}
	}

	return nil
}

// removeVnet moves the jail-side interface back into the host's
// network namespace, the first step of tearing down a running VNET
// jail.
func (j *Jail) removeVnet(ctx context.Context) error {
	_, err := j.hc.Cmd(ctx, "ifconfig", j.EpairJail, "-vnet", j.Hash)
	return err
}

// destroyEpair destroys the host-side interface, which destroys both
// halves of the pair.
func (j *Jail) destroyEpair(ctx context.Context) error {
	_, err := j.hc.Cmd(ctx, "ifconfig", j.EpairHost, "destroy")
	return err
}

// getLladdr parses the host-side epair's auto-generated link-local
// address. The jail-side address is not queried independently; by
// epair convention the two halves' link-local addresses differ only in
// their trailing nibble, so the jail-side address is derived by
// flipping the host-side address's final character from 'a' to 'b'.
func (j *Jail) getLladdr(ctx context.Context) (hostLladdr, jailLladdr string, err error) {
	out, err := j.hc.Cmd(ctx, "ifconfig", j.EpairHost)
	if err != nil {
		return "", "", err
	}
	m := epairInet6Re.FindStringSubmatch(out)
	if m == nil {
		return "", "", jerr.NewConfigurationError("no link-local address on "+j.EpairHost, nil)
	}
	hostLladdr = m[1]

	if !strings.HasSuffix(hostLladdr, "a") {
		return "", "", jerr.NewConfigurationError("host-side link-local address does not end in 'a': "+hostLladdr, nil)
	}
	jailLladdr = strings.TrimSuffix(hostLladdr, "a") + "b"

	return hostLladdr, jailLladdr, nil
}

// localRoute cross-wires host and jail routing over the epair's
// link-local addresses: the host gets a route to the jail's global
// address via the jail's link-local, scoped to the host-side
// interface; the jail gets a route to the host's global address via
// the host's link-local, scoped to the jail-side interface.
func (j *Jail) localRoute(ctx context.Context) error {
	hostLladdr, jailLladdr, err := j.getLladdr(ctx)
	if err != nil {
		return err
	}

	if _, err := j.hc.Cmd(ctx, "route", "add", "-inet6", j.IPv6, jailLladdr+"%"+j.EpairHost); err != nil {
		return err
	}

	if _, err := j.hc.Cmd(ctx, "jexec", j.Hash, "route", "add", "-inet6", j.hc.HostIPv6, hostLladdr+"%"+j.EpairJail); err != nil {
		return err
	}

	return nil
}

// configureVnet writes the jail-side rc.conf entries a VNET jail needs
// to bring up its own address, default route, and loopback before
// /etc/rc runs.
func (j *Jail) configureVnet(ctx context.Context) error {
	entries := []string{
		"ifconfig_" + j.EpairJail + "_ipv6=inet6 " + j.IPv6 + "/64",
		"ipv6_defaultrouter=" + j.Gateway,
		"ifconfig_lo0_ipv6=inet6 up",
	}
	for _, entry := range entries {
		if _, err := j.hc.Cmd(ctx, "sysrc", "-R", j.Path, entry); err != nil {
			return err
		}
	}
	return nil
}

// configureHost aliases the jail's synthesized address directly on the
// host's outbound interface, for shared-IP (non-VNET) jails.
func (j *Jail) configureHost(ctx context.Context) error {
	_, err := j.hc.Cmd(ctx, "ifconfig", j.hc.HostIf, "inet6", j.IPv6, "alias")
	return err
}

// removeHostAlias undoes configureHost on stop.
func (j *Jail) removeHostAlias(ctx context.Context) error {
	_, err := j.hc.Cmd(ctx, "ifconfig", j.hc.HostIf, "inet6", j.IPv6, "-alias")
	return err
}
