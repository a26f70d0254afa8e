// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mass

import (
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// Variable indexes within a Harmonic oscillator.
const (
	X = iota
	Y
	HJcn
	HNVars
)

// HarmonicK is the damped driven harmonic oscillator kind.
var HarmonicK = blox.NewKind("Harmonic", blox.NeuralMassKind)

func init() {
	blox.RegisterFactory(HarmonicK, func(name string, cfg blox.Config) (blox.Blox, error) {
		hm := NewHarmonic(name)
		if bad := cfg.Unknown("w", "zeta", "k"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: HarmonicK.String(), Opt: bad, Msg: "unknown option"}
		}
		hm.Osc.W = cfg.Opt("w", hm.Osc.W)
		hm.Osc.Zeta = cfg.Opt("zeta", hm.Osc.Zeta)
		hm.Osc.K = cfg.Opt("k", hm.Osc.K)
		hm.UpdateParams()
		return hm, nil
	})
}

// HarmonicParams are damped driven oscillator parameters.
type HarmonicParams struct {
	W    float32 `def:"1" min:"0" desc:"angular frequency"`
	Zeta float32 `def:"0" min:"0" desc:"damping ratio -- 0 is undamped"`
	K    float32 `def:"1" desc:"input gain on the accumulator drive"`
}

func (hp *HarmonicParams) Defaults() {
	hp.W = 1
	hp.Zeta = 0
	hp.K = 1
}

func (hp *HarmonicParams) Update() {
}

// Deriv computes X' = Y, Y' = -W^2 X - 2 Zeta W Y + K Jcn.
func (hp HarmonicParams) Deriv(t float32, x, in, dx []float32) {
	dx[X] = x[Y]
	dx[Y] = -hp.W*hp.W*x[X] - 2*hp.Zeta*hp.W*x[Y] + hp.K*in[0]
}

// Harmonic is a damped driven harmonic oscillator component.  With the
// undamped, undriven defaults its X solution is exactly cos(W t), which
// makes it the accuracy reference for integration methods.
type Harmonic struct {
	blox.BloxStru
	Osc HarmonicParams `view:"inline" desc:"oscillator parameters"`
}

var KiT_Harmonic = kit.Types.AddType(&Harmonic{}, nil)

// NewHarmonic returns a new unit-frequency undamped oscillator.
func NewHarmonic(name string) *Harmonic {
	hm := &Harmonic{}
	hm.InitName(hm, name)
	hm.Knd = HarmonicK
	hm.Defaults()
	return hm
}

func (hm *Harmonic) Defaults() {
	hm.Osc.Defaults()
}

func (hm *Harmonic) UpdateParams() {
	hm.Osc.Update()
}

func (hm *Harmonic) TypeName() string {
	return "Harmonic"
}

func (hm *Harmonic) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "X", Role: blox.OutputVar, Init: 1},
		{Nm: "Y", Role: blox.InternalVar, Init: 0},
		{Nm: "Jcn", Role: blox.InputVar},
	}
}

func (hm *Harmonic) OutVar() string {
	return "X"
}

func (hm *Harmonic) InVars() []string {
	return []string{"Jcn"}
}

func (hm *Harmonic) Dyn() blox.Dynamics {
	return hm.Osc
}
