// SPDX-License-Identifier: BSD-2-Clause
//
// Copyright (c) 2025 The FreeBSD Foundation.
//
// This software was developed by Hayzam Sherif <hayzam@alchemilla.io>
// of Alchemilla Ventures Pvt. Ltd. <hello@alchemilla.io>,
// under sponsorship from the FreeBSD Foundation.

package hostcontext

import (
	"fmt"
	"net/netip"
	"strings"
)

// explodeIPv6 renders addr in fully expanded, zero-padded form (eight
// groups of four lowercase hex digits, colon-joined) the way Python's
// ipaddress.IPv6Address.exploded does. An address that fails to parse
// is returned unchanged so callers see the bad input rather than a
// panic.
func explodeIPv6(addr string) string {
	// Strip a zone suffix ("%em0"); the prefix is derived from the
	// address bits only.
	if idx := strings.IndexByte(addr, '%'); idx != -1 {
		addr = addr[:idx]
	}

	parsed, err := netip.ParseAddr(addr)
	if err != nil || !parsed.Is6() {
		return addr
	}

	b := parsed.As16()
	groups := make([]string, 8)
	for i := 0; i < 8; i++ {
		groups[i] = fmt.Sprintf("%04x", uint16(b[2*i])<<8|uint16(b[2*i+1]))
	}
	return strings.Join(groups, ":")
}
