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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freebsd-jail/jailctl/internal/hostcontext"
	"github.com/freebsd-jail/jailctl/internal/hostexec"
	"github.com/freebsd-jail/jailctl/internal/jerr"
)

func testHostContext(t *testing.T, fake *hostexec.Fake) *hostcontext.HostContext {
	t.Helper()
	fake.WhenOK("", "ifconfig", "bridge0")
	fake.WhenOK("zroot/jail/base", "zfs", "list", "zroot/jail/base")
	fake.WhenOK("/jail", "zfs", "list", "-H", "-o", "mountpoint", "zroot/jail")
	fake.WhenOK("interface: em0\ngateway: fe80::1%em0", "route", "-6", "get", "default")
	fake.WhenOK("inet6 2001:db8::a prefixlen 64", "ifconfig", "em0", "inet6")

	hc, err := hostcontext.New(context.Background(), hostcontext.Options{Executor: fake})
	require.NoError(t, err)
	return hc
}

func TestCreateFSClonesSnapshotAndStampsProperties(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenFail("dataset does not exist", "zfs", "list", j.Zpath)
	fake.WhenOK("zroot/jail/base@2026-01-01", "zfs", "list", "-Hrt", "snap", "-s", "creation", "-o", "name", "zroot/jail/base")
	fake.WhenOK("", "zfs", "clone", "zroot/jail/base@2026-01-01", j.Zpath)
	fake.WhenOK("", "zfs", "set", "jail:name=web", j.Zpath)
	fake.WhenOK("", "zfs", "set", "jail:ipv6="+j.IPv6, j.Zpath)
	fake.WhenOK("", "zfs", "set", "jail:base=base", j.Zpath)

	err := j.CreateFS(context.Background())
	require.NoError(t, err)
}

func TestCreateFSFailsWhenDatasetAlreadyExists(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK(j.Zpath, "zfs", "list", j.Zpath)

	err := j.CreateFS(context.Background())
	require.Error(t, err)
	require.IsType(t, &jerr.PreconditionError{}, err)

	// No ZFS mutation must have been attempted past the guard check.
	for _, call := range fake.Calls {
		require.NotEqual(t, []string{"zfs", "clone"}, call[:min(2, len(call))])
	}
}

func TestStartVnetSequencesEpairBeforeJailCreate(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK(j.Zpath, "zfs", "list", j.Zpath)
	fake.WhenFail("jail not found", "jls", "-Nj", j.Hash)
	fake.WhenOK("14.0-RELEASE", "uname", "-r")
	fake.WhenOK("epair0a", "ifconfig", "epair", "create")
	fake.WhenOK("", "ifconfig", "epair0a", "name", j.EpairHost)
	fake.WhenOK("", "ifconfig", "epair0b", "name", j.EpairJail)
	fake.WhenOK("", "ifconfig", j.EpairHost, "up")
	fake.WhenOK("", "ifconfig", j.EpairHost, "inet6", "auto_linklocal")
	fake.WhenOK("", "ifconfig", "bridge0", "addm", j.EpairHost)
	fake.WhenOK("inet6 fe80::1a%"+j.EpairHost, "ifconfig", j.EpairHost)
	fake.WhenOK("", "sysrc", "-R", j.Path, "ifconfig_"+j.EpairJail+"_ipv6=inet6 "+j.IPv6+"/64")
	fake.WhenOK("", "sysrc", "-R", j.Path, "ipv6_defaultrouter="+j.Gateway)
	fake.WhenOK("", "sysrc", "-R", j.Path, "ifconfig_lo0_ipv6=inet6 up")
	fake.WhenOK("", "route", "add", "-inet6", j.IPv6, "fe80::1b%"+j.EpairHost)
	fake.WhenOK("", "jexec", j.Hash, "route", "add", "-inet6", hc.HostIPv6, "fe80::1a%"+j.EpairJail)

	params := defaultParams()
	params.set("osrelease", "14.0-RELEASE")
	params.set("name", j.Hash)
	params.set("path", j.Path)
	params.set("host.hostname", j.Name)
	params.set("vnet.interface", j.EpairJail)
	jailCreateArgv := append([]string{"jail", "-cv"}, params.argv()...)
	fake.WhenOK("", jailCreateArgv...)

	err := j.Start(context.Background(), true, false, nil)
	require.NoError(t, err)

	epairIdx, jailIdx := -1, -1
	for i, call := range fake.Calls {
		if len(call) == 3 && call[0] == "ifconfig" && call[1] == "epair" && call[2] == "create" {
			epairIdx = i
		}
		if len(call) >= 2 && call[0] == "jail" && call[1] == "-cv" {
			jailIdx = i
		}
	}
	require.NotEqual(t, -1, epairIdx)
	require.NotEqual(t, -1, jailIdx)
	require.Less(t, epairIdx, jailIdx, "epair must be created before jail -cv")
}

func TestStartRejectsUnrecognizedAllowParamBeforeAnyHostCommand(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK(j.Zpath, "zfs", "list", j.Zpath)
	fake.WhenFail("jail not found", "jls", "-Nj", j.Hash)

	err := j.Start(context.Background(), true, false, []Param{{Key: "allow.bogus", Value: "true"}})
	require.Error(t, err)

	for _, call := range fake.Calls {
		require.NotEqual(t, []string{"uname", "-r"}, call)
	}
}

func TestStartFailsWhenAlreadyRunningWithNoSideEffect(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK(j.Zpath, "zfs", "list", j.Zpath)
	fake.WhenOK("", "jls", "-Nj", j.Hash)

	err := j.Start(context.Background(), true, false, nil)
	require.Error(t, err)
	require.IsType(t, &jerr.PreconditionError{}, err)

	for _, call := range fake.Calls {
		require.NotEqual(t, []string{"ifconfig", "epair"}, call[:min(2, len(call))])
	}
}

func TestStartFailsWhenDatasetMissing(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenFail("dataset does not exist", "zfs", "list", j.Zpath)

	err := j.Start(context.Background(), true, false, nil)
	require.Error(t, err)
	require.IsType(t, &jerr.PreconditionError{}, err)
}

func TestStopFailsWhenNotRunning(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenFail("jail not found", "jls", "-Nj", j.Hash)

	err := j.Stop(context.Background())
	require.Error(t, err)
	require.IsType(t, &jerr.PreconditionError{}, err)
}

func TestStopTearsDownVnetBeforeStoppingJailProcess(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("", "jls", "-Nj", j.Hash)
	fake.WhenOK("1", "jls", "-j", j.Hash, "vnet")
	fake.WhenOK("", "ifconfig", j.EpairJail, "-vnet", j.Hash)
	fake.WhenOK("", "ifconfig", j.EpairHost, "destroy")
	fake.WhenOK("", "jail", "-Rv", j.Hash)
	fake.WhenOK("", "umount", j.Path+"/dev")

	err := j.Stop(context.Background())
	require.NoError(t, err)

	var sawEpairDestroy, sawJailStop bool
	for _, call := range fake.Calls {
		if len(call) >= 2 && call[0] == "ifconfig" && call[1] == j.EpairHost && len(call) == 3 && call[2] == "destroy" {
			require.False(t, sawJailStop, "epair must be destroyed before the jail process is stopped")
			sawEpairDestroy = true
		}
		if len(call) >= 2 && call[0] == "jail" && call[1] == "-Rv" {
			sawJailStop = true
		}
	}
	require.True(t, sawEpairDestroy)
	require.True(t, sawJailStop)
}

func TestRemoveOnRunningJailWithoutForceFails(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("", "jls", "-Nj", j.Hash)

	err := j.Remove(context.Background(), false)
	require.Error(t, err)
	require.IsType(t, &jerr.PreconditionError{}, err)
}

func TestRemoveForceStopsThenDestroysDataset(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("", "jls", "-Nj", j.Hash)
	fake.WhenOK("1", "jls", "-j", j.Hash, "vnet")
	fake.WhenOK("", "ifconfig", j.EpairJail, "-vnet", j.Hash)
	fake.WhenOK("", "ifconfig", j.EpairHost, "destroy")
	fake.WhenOK("", "jail", "-Rv", j.Hash)
	fake.WhenOK("", "umount", j.Path+"/dev")
	// After Stop, Remove re-checks devfs/epair, both now absent.
	fake.WhenFail("not mounted", "mount", "-t", "devfs")
	fake.WhenFail("no such interface", "ifconfig", j.EpairHost)
	fake.WhenOK("", "zfs", "destroy", "-f", j.Zpath)

	err := j.Remove(context.Background(), true)
	require.NoError(t, err)
}

func TestCleanupOnAbsentJailIsNoopAndDoesNotFail(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "ghost")

	fake.WhenFail("jail not found", "jls", "-Nj", j.Hash)
	fake.WhenFail("not mounted", "mount", "-t", "devfs")
	fake.WhenFail("no such interface", "ifconfig", j.EpairHost)

	res := j.Cleanup(context.Background(), true, false)
	require.Empty(t, res.Remaining)
	require.False(t, res.StoppedJail)
	require.False(t, res.UnmountedDevfs)
	require.False(t, res.DestroyedEpair)
	require.False(t, res.DestroyedFS)
}
