// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"github.com/goki/ki/kit"
)

// VarRoles is the role a state variable plays in the coupling protocol
// between components.
type VarRoles int32

//go:generate stringer -type=VarRoles

var KiT_VarRoles = kit.Enums.AddEnum(VarRolesN, kit.NotBitFlag, nil)

func (ev VarRoles) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *VarRoles) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// InternalVar is ordinary private state, integrated but not part of
	// the coupling protocol.
	InternalVar VarRoles = iota

	// InputVar is the input accumulator: the single variable where all
	// incoming connection terms for the component are summed.  It is
	// algebraic -- recomputed before every derivative evaluation, never
	// integrated -- and must declare a zero initial value.
	InputVar

	// OutputVar is the designated output: the variable other components
	// read through the generic coupling rule.  Exactly one per component.
	OutputVar

	VarRolesN
)

// Var is one declared state variable of a component.
type Var struct {
	Nm   string   `desc:"variable name, unique within the component"`
	Role VarRoles `desc:"coupling role: internal state, input accumulator, or designated output"`
	Init float32  `desc:"default initial value -- overridable per run at integration time"`
}

// VarByName returns the index of the named variable in a declaration
// list, or -1 if not present.
func VarByName(vrs []Var, nm string) int {
	for i := range vrs {
		if vrs[i].Nm == nm {
			return i
		}
	}
	return -1
}
