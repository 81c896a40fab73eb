// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

// Package jail implements the per-jail lifecycle state machine:
// deterministic identity derivation from a name plus a HostContext, the
// ordered host-primitive sequences for create_fs/start/stop/remove/
// cleanup, and the non-mutating state predicates.
package jail

import (
	"github.com/freebsd-jail/jailctl/internal/hostcontext"
)

// Jail is a stateless view bound to a name. Every field below is a pure
// function of Name and the HostContext it was built from; two Jail
// values built from the same (HostContext, name) pair are
// interchangeable. Jail holds a non-owning reference to HostContext;
// HostContext outlives every Jail built from it.
type Jail struct {
	Name string
	Hash string
	IPv6 string

	// Path is the absolute filesystem path of the jail root:
	// {mountpoint}/{hash}.
	Path string
	// Zpath is the ZFS dataset name of the jail filesystem:
	// {zroot}/{hash}.
	Zpath string

	// EpairHost and EpairJail are the host-side and jail-side names of
	// the virtual ethernet pair.
	EpairHost string
	EpairJail string

	// Gateway is HostContext.Gateway re-scoped to EpairJail when the
	// configured gateway is link-local.
	Gateway string

	hc *hostcontext.HostContext
}

// New derives a Jail's identity from name and hc. Construction never
// touches the host; derivation is pure.
func New(hc *hostcontext.HostContext, name string) *Jail {
	hash := hostcontext.GenerateHash(name)
	epairHost := hash + "A"
	epairJail := hash + "B"

	return &Jail{
		Name:      name,
		Hash:      hash,
		IPv6:      hostcontext.GenerateAddr(hc.Prefix, name),
		Path:      hc.Mountpoint + "/" + hash,
		Zpath:     hc.Zroot + "/" + hash,
		EpairHost: epairHost,
		EpairJail: epairJail,
		Gateway:   hostcontext.GenerateGateway(hc.Gateway, epairJail),
		hc:        hc,
	}
}
