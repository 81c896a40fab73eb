// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

// Package hostcontext discovers and holds the process-wide host state
// (the ZFS dataset tree, the bridge, the host's own IPv6 configuration)
// that every Jail derives its identity from.
package hostcontext

import (
	"context"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/freebsd-jail/jailctl/internal/hostexec"
	"github.com/freebsd-jail/jailctl/internal/jerr"
	"github.com/freebsd-jail/jailctl/internal/logger"
	"github.com/freebsd-jail/jailctl/pkg/utils"
)

// Options carries the overridable construction parameters; the zero
// value of each field means "use the default" except Debug.
type Options struct {
	Zroot    string
	Base     string
	Bridge   string
	Debug    bool
	Executor hostexec.Executor
}

const (
	defaultZroot  = "zroot/jail"
	defaultBase   = "base"
	defaultBridge = "bridge0"
)

// HostContext is process-wide, constructed once, and read-only after
// construction. All Jail identity is derived from a HostContext plus a
// name; HostContext itself never holds a reference back to any Jail.
type HostContext struct {
	Zroot      string
	Base       string
	Mountpoint string
	Bridge     string
	HostIf     string
	HostIPv6   string
	Gateway    string
	Prefix     string
	Debug      bool

	exec hostexec.Executor
}

var (
	routeInterfaceRe = regexp.MustCompile(`(?m)^\s*interface:\s*(\S+)`)
	routeGatewayRe   = regexp.MustCompile(`(?m)^\s*gateway:\s*(\S+)`)
	ifconfigInet6Re  = regexp.MustCompile(`inet6\s+(\S+?)(?:%\S+)?(?:/\d+)?\s`)
)

// New bootstraps a HostContext: discovers the default IPv6 route and
// interface, the host's global IPv6 address, and the mount point of
// zroot, then checks the invariants that must hold before any Jail
// operation is safe to attempt.
func New(ctx context.Context, opts Options) (*HostContext, error) {
	zroot := opts.Zroot
	if zroot == "" {
		zroot = defaultZroot
	}
	base := opts.Base
	if base == "" {
		base = defaultBase
	}
	bridge := opts.Bridge
	if bridge == "" {
		bridge = defaultBridge
	}

	ex := opts.Executor
	if ex == nil {
		ex = hostexec.New(opts.Debug)
	}

	hc := &HostContext{
		Zroot:  zroot,
		Base:   base,
		Bridge: bridge,
		Debug:  opts.Debug,
		exec:   ex,
	}

	if !hc.checkCmd(ctx, "ifconfig", bridge) {
		return nil, jerr.NewConfigurationError(fmt.Sprintf("bridge %q does not exist", bridge), nil)
	}

	baseDataset := zroot + "/" + base
	if !hc.checkCmd(ctx, "zfs", "list", baseDataset) {
		return nil, jerr.NewConfigurationError(fmt.Sprintf("base dataset %q does not exist", baseDataset), nil)
	}

	mountpoint, err := hc.GetMountpoint(ctx, zroot)
	if err != nil {
		return nil, jerr.NewConfigurationError("failed to resolve zroot mountpoint", err)
	}
	if !utils.IsAbsPath(mountpoint) {
		return nil, jerr.NewConfigurationError(fmt.Sprintf("mountpoint %q is not absolute", mountpoint), nil)
	}
	hc.Mountpoint = mountpoint

	hostif, err := hc.HostDefaultIf(ctx)
	if err != nil {
		return nil, jerr.NewConfigurationError("failed to discover default IPv6 interface", err)
	}
	hc.HostIf = hostif

	hostipv6, err := hc.HostIPv6Addr(ctx, hostif)
	if err != nil {
		return nil, jerr.NewConfigurationError("failed to discover host global IPv6 address", err)
	}
	hc.HostIPv6 = hostipv6

	gateway, err := hc.HostGateway(ctx)
	if err != nil {
		return nil, jerr.NewConfigurationError("failed to discover host IPv6 gateway", err)
	}
	hc.Gateway = gateway

	hc.Prefix = addrPrefix(hostipv6)

	return hc, nil
}

// cmd is the single choke point for host interaction. On success it
// returns stdout with trailing whitespace trimmed; on nonzero exit it
// returns a *jerr.CommandFailure carrying argv, exit code and stderr.
func (hc *HostContext) cmd(ctx context.Context, argv ...string) (string, error) {
	out, err := hc.exec.Run(ctx, argv...)
	if err != nil {
		if hc.Debug {
			logger.L.Debug().Strs("argv", argv).Err(err).Msg("cmd_failed")
		}
		return out, err
	}
	if hc.Debug {
		logger.L.Debug().Strs("argv", argv).Str("stdout", out).Msg("cmd_ok")
	}
	return out, nil
}

// checkCmd runs cmd and reports only success; it is the sole site,
// along with Jail's check_* predicates, permitted to swallow a
// CommandFailure into a boolean.
func (hc *HostContext) checkCmd(ctx context.Context, argv ...string) bool {
	_, err := hc.cmd(ctx, argv...)
	return err == nil
}

// Exec exposes the host-primitive executor to Jail, which lives in a
// different package but must share the same choke point and debug
// tracing as HostContext itself.
func (hc *HostContext) Exec() hostexec.Executor { return hc.exec }

// Cmd is Jail's entry point into HostContext's single choke point.
func (hc *HostContext) Cmd(ctx context.Context, argv ...string) (string, error) {
	return hc.cmd(ctx, argv...)
}

// CheckCmd is Jail's entry point into HostContext's existence/state probe.
func (hc *HostContext) CheckCmd(ctx context.Context, argv ...string) bool {
	return hc.checkCmd(ctx, argv...)
}

// HostDefaultIf parses `route -6 get default` for the outbound interface.
func (hc *HostContext) HostDefaultIf(ctx context.Context) (string, error) {
	out, err := hc.cmd(ctx, "route", "-6", "get", "default")
	if err != nil {
		return "", err
	}
	m := routeInterfaceRe.FindStringSubmatch(out)
	if m == nil {
		return "", jerr.NewConfigurationError("no default IPv6 route (interface: not found)", nil)
	}
	return m[1], nil
}

// HostGateway parses `route -6 get default` for the gateway address.
func (hc *HostContext) HostGateway(ctx context.Context) (string, error) {
	out, err := hc.cmd(ctx, "route", "-6", "get", "default")
	if err != nil {
		return "", err
	}
	m := routeGatewayRe.FindStringSubmatch(out)
	if m == nil {
		return "", jerr.NewConfigurationError("no default IPv6 route (gateway: not found)", nil)
	}
	return m[1], nil
}

// HostIPv6Addr parses `ifconfig <iface> inet6` for the first global
// (non link-local) address.
func (hc *HostContext) HostIPv6Addr(ctx context.Context, iface string) (string, error) {
	out, err := hc.cmd(ctx, "ifconfig", iface, "inet6")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		m := ifconfigInet6Re.FindStringSubmatch(line + " ")
		if m == nil {
			continue
		}
		addr := m[1]
		if strings.HasPrefix(addr, "fe80::") {
			continue
		}
		return addr, nil
	}
	return "", jerr.NewConfigurationError(fmt.Sprintf("no global inet6 address on %s", iface), nil)
}

// GetMountpoint returns the mountpoint column of `zfs list -H -o
// mountpoint <dataset>`.
func (hc *HostContext) GetMountpoint(ctx context.Context, dataset string) (string, error) {
	out, err := hc.cmd(ctx, "zfs", "list", "-H", "-o", "mountpoint", dataset)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateHash renders the 7-byte BLAKE2b digest of name's UTF-8 bytes
// as 14 lowercase hex characters. It is collision-safe at the 2^56
// level; two distinct names colliding is an operator-visible
// configuration error, not something this function detects.
func GenerateHash(name string) string {
	h, err := blake2b.New(7, nil)
	if err != nil {
		panic(err) // 7 is a valid blake2b digest size (1..64); unreachable
	}
	h.Write([]byte(name))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// GenerateAddr synthesizes prefix:a:b:c:d from the 8-byte BLAKE2b
// digest of name's UTF-8 bytes, unpacked as four little-endian uint16s
// and formatted without leading zeros, matching the source's
// struct.unpack("4H", ...) layout.
func GenerateAddr(prefix, name string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(name))
	sum := h.Sum(nil)

	a := binary.LittleEndian.Uint16(sum[0:2])
	b := binary.LittleEndian.Uint16(sum[2:4])
	c := binary.LittleEndian.Uint16(sum[4:6])
	d := binary.LittleEndian.Uint16(sum[6:8])

	return fmt.Sprintf("%s:%x:%x:%x:%x", prefix, a, b, c, d)
}

// GenerateGateway re-scopes a link-local gateway to iface; a global
// gateway is returned unchanged (routability from inside the jail is
// out of scope).
func GenerateGateway(gateway, iface string) string {
	idx := strings.IndexByte(gateway, '%')
	if idx == -1 {
		return gateway
	}
	return gateway[:idx] + "%" + iface
}

// NameFromHash reads the jail:name ZFS user property on {zroot}/{hash};
// "-" is ZFS's sentinel for an unset property and is treated as absent.
func (hc *HostContext) NameFromHash(ctx context.Context, hash string) (string, error) {
	dataset := hc.Zroot + "/" + hash
	out, err := hc.cmd(ctx, "zfs", "get", "-H", "-o", "value", "jail:name", dataset)
	if err != nil {
		return "", jerr.NewDerivationError(fmt.Sprintf("dataset %s not found: %v", dataset, err))
	}
	name := strings.TrimSpace(out)
	if name == "-" || name == "" {
		return "", jerr.NewDerivationError(fmt.Sprintf("jail:name unset on %s", dataset))
	}
	return name, nil
}

// GetLatestSnapshot returns the most recently created snapshot of
// {zroot}/{base}.
func (hc *HostContext) GetLatestSnapshot(ctx context.Context) (string, error) {
	out, err := hc.cmd(ctx, "zfs", "list", "-Hrt", "snap", "-s", "creation", "-o", "name", hc.Zroot+"/"+hc.Base)
	if err != nil {
		return "", jerr.NewDerivationError(fmt.Sprintf("no snapshots under %s/%s: %v", hc.Zroot, hc.Base, err))
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return "", jerr.NewDerivationError(fmt.Sprintf("no snapshots under %s/%s", hc.Zroot, hc.Base))
	}
	return last, nil
}

// JailRef is the minimal (base, name) pair GetJails reports per row;
// the hostcontext package does not construct jail.Jail itself to avoid
// an import cycle (Jail depends on hostcontext, not the reverse).
type JailRef struct {
	Base string
	Name string
}

// GetJails enumerates every dataset under zroot (recursively) whose
// jail:base property equals the active base, returning each one's
// recorded name.
func (hc *HostContext) GetJails(ctx context.Context) ([]JailRef, error) {
	out, err := hc.cmd(ctx, "zfs", "list", "-r", "-H", "-o", "jail:base,jail:name", hc.Zroot)
	if err != nil {
		return nil, err
	}

	var refs []JailRef
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			continue
		}
		base, name := fields[0], fields[1]
		if base != hc.Base || name == "-" {
			continue
		}
		refs = append(refs, JailRef{Base: base, Name: name})
	}
	return refs, nil
}

func addrPrefix(hostipv6 string) string {
	exploded := explodeIPv6(hostipv6)
	if len(exploded) > 19 {
		return exploded[:19]
	}
	return exploded
}
