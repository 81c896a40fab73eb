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

	"github.com/freebsd-jail/jailctl/internal/hostexec"
)

func TestIsRunningReflectsJlsExit(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("", "jls", "-Nj", j.Hash)
	require.True(t, j.IsRunning(context.Background()))
}

func TestIsRunningFalseOnFailure(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenFail("not found", "jls", "-Nj", j.Hash)
	require.False(t, j.IsRunning(context.Background()))
}

func TestCheckDevfsMatchesMountedTarget(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("devfs on "+j.Path+"/dev (devfs)", "mount", "-t", "devfs")
	require.True(t, j.CheckDevfs(context.Background()))
}

func TestCheckDevfsFalseWhenNotMounted(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("devfs on /jail/other/dev (devfs)", "mount", "-t", "devfs")
	require.False(t, j.CheckDevfs(context.Background()))
}

func TestIsVnetTrueOnly1(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenOK("1", "jls", "-j", j.Hash, "vnet")
	require.True(t, j.IsVnet(context.Background()))
}

func TestIsVnetFalseOnCommandFailure(t *testing.T) {
	fake := hostexec.NewFake()
	hc := testHostContext(t, fake)
	j := New(hc, "web")

	fake.WhenFail("jail not running", "jls", "-j", j.Hash, "vnet")
	require.False(t, j.IsVnet(context.Background()))
}
