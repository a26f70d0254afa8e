// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import "fmt"

// ConfigError is returned by the component factory registry when a
// configuration map names an unrecognized option, or omits a required
// option that has no default.
type ConfigError struct {
	Blox string `desc:"name of the component being configured"`
	Kind string `desc:"kind name the factory was invoked for"`
	Opt  string `desc:"offending option, if a single one is at fault"`
	Msg  string `desc:"what went wrong"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("blox.ConfigError: blox: %v kind: %v option: %v -- %v", e.Blox, e.Kind, e.Opt, e.Msg)
}

// ResolveError is returned when a connection cannot be resolved: the
// destination is a Source, or no rule matches the kind pair and the
// generic fallback is inapplicable (the destination declares no input
// accumulator), or a matched rule rejects the connection.
type ResolveError struct {
	Send     string `desc:"send component name"`
	Recv     string `desc:"recv component name"`
	SendKind Kinds  `desc:"send kind"`
	RecvKind Kinds  `desc:"recv kind"`
	Msg      string `desc:"what went wrong"`
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("blox.ResolveError: %v (%v) -> %v (%v) -- %v", e.Send, e.SendKind, e.Recv, e.RecvKind, e.Msg)
}

// CompileError is returned by Graph.Compile when any validation or
// resolution step fails.  Msg accumulates one line per offending
// element, so a single compile reports everything wrong with the
// graph.  No partial system is ever returned alongside it.
type CompileError struct {
	Graph string `desc:"name of the graph being compiled"`
	Msg   string `desc:"accumulated errors, one per line"`
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("blox.CompileError: graph: %v\n%v", e.Graph, e.Msg)
}
