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
	"strings"

	"github.com/freebsd-jail/jailctl/internal/jail"
)

// parseParams turns repeated --params K=V flags into ordered Param
// overrides, applied to the default jail parameter set in the order
// given on the command line.
func parseParams(raw []string) ([]jail.Param, error) {
	out := make([]jail.Param, 0, len(raw))
	for _, kv := range raw {
		idx := strings.IndexByte(kv, '=')
		if idx == -1 {
			return nil, fmt.Errorf("invalid --params %q: expected K=V", kv)
		}
		out = append(out, jail.Param{Key: kv[:idx], Value: kv[idx+1:]})
	}
	return out, nil
}
