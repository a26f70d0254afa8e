// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package source provides stimulus components: pure outputs that drive a
graph without receiving any input.

Constant holds its output at a fixed level, SpikeTrain emits seeded
Bernoulli or Poisson spike schedules through a decaying gate, and DBS
generates a periodic pulse protocol with optionally smoothed edges whose
transition times are reported to the integrator as required stop points.
Sources can never be the receiving end of a connection.
*/
package source

import (
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// ConstantK is the constant-level source kind.
var ConstantK = blox.NewKind("Constant", blox.SourceKind)

func init() {
	blox.RegisterFactory(ConstantK, func(name string, cfg blox.Config) (blox.Blox, error) {
		ct := NewConstant(name, 0)
		if bad := cfg.Unknown("level"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: ConstantK.String(), Opt: bad, Msg: "unknown option"}
		}
		ct.Level = cfg.Opt("level", ct.Level)
		return ct, nil
	})
}

// ConstantWave is a Waveform at a fixed level.
type ConstantWave struct {
	Level float32 `desc:"output level"`
}

func (cw ConstantWave) Eval(t float32) float32 {
	return cw.Level
}

// Constant is a source holding its output U at a fixed level.
type Constant struct {
	blox.BloxStru
	Level float32 `desc:"output level"`
}

var KiT_Constant = kit.Types.AddType(&Constant{}, nil)

// NewConstant returns a new constant source at the given level.
func NewConstant(name string, level float32) *Constant {
	ct := &Constant{}
	ct.InitName(ct, name)
	ct.Knd = ConstantK
	ct.Level = level
	return ct
}

func (ct *Constant) Defaults() {
}

func (ct *Constant) UpdateParams() {
}

func (ct *Constant) TypeName() string {
	return "Constant"
}

func (ct *Constant) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "U", Role: blox.OutputVar, Init: ct.Level},
	}
}

func (ct *Constant) OutVar() string {
	return "U"
}

func (ct *Constant) Drives() []blox.Drive {
	return []blox.Drive{
		{Var: "U", Wave: ConstantWave{Level: ct.Level}},
	}
}
