// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package mass provides neural mass components: population-level models
whose variables are aggregate activities rather than membrane potentials.

WilsonCowan is the classic excitatory-inhibitory population pair, and
Harmonic is a damped driven oscillator whose analytic solution makes it
the standard accuracy reference for the integrators.
*/
package mass

import (
	"github.com/chewxy/math32"
	"github.com/emer/blox/blox"
	"github.com/emer/emergent/erand"
	"github.com/goki/ki/kit"
)

// Variable indexes within a WilsonCowan population pair.
const (
	E = iota
	I
	Jcn
	NVars
)

// WilsonCowanK is the Wilson-Cowan population pair kind.
var WilsonCowanK = blox.NewKind("WilsonCowan", blox.NeuralMassKind)

func init() {
	blox.RegisterFactory(WilsonCowanK, func(name string, cfg blox.Config) (blox.Blox, error) {
		wc := NewWilsonCowan(name)
		if bad := cfg.Unknown("taue", "taui", "cee", "cei", "cie", "cii", "ae", "thre", "ai", "thri", "p", "q"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: WilsonCowanK.String(), Opt: bad, Msg: "unknown option"}
		}
		pr := &wc.WC
		pr.TauE = cfg.Opt("taue", pr.TauE)
		pr.TauI = cfg.Opt("taui", pr.TauI)
		pr.CEE = cfg.Opt("cee", pr.CEE)
		pr.CEI = cfg.Opt("cei", pr.CEI)
		pr.CIE = cfg.Opt("cie", pr.CIE)
		pr.CII = cfg.Opt("cii", pr.CII)
		pr.AE = cfg.Opt("ae", pr.AE)
		pr.ThrE = cfg.Opt("thre", pr.ThrE)
		pr.AI = cfg.Opt("ai", pr.AI)
		pr.ThrI = cfg.Opt("thri", pr.ThrI)
		pr.P = cfg.Opt("p", pr.P)
		pr.Q = cfg.Opt("q", pr.Q)
		wc.UpdateParams()
		return wc, nil
	})
}

// WCParams are the Wilson-Cowan population parameters.  Defaults are the
// classic limit-cycle set from Wilson & Cowan (1972).
type WCParams struct {
	TauE float32 `def:"1" desc:"excitatory population time constant"`
	TauI float32 `def:"1" desc:"inhibitory population time constant"`
	CEE  float32 `def:"16" desc:"E to E coupling"`
	CEI  float32 `def:"12" desc:"I to E coupling (subtractive)"`
	CIE  float32 `def:"15" desc:"E to I coupling"`
	CII  float32 `def:"3" desc:"I to I coupling (subtractive)"`
	AE   float32 `def:"1.3" desc:"E sigmoid gain"`
	ThrE float32 `def:"4" desc:"E sigmoid threshold"`
	AI   float32 `def:"2" desc:"I sigmoid gain"`
	ThrI float32 `def:"3.7" desc:"I sigmoid threshold"`
	P    float32 `def:"1.25" desc:"constant external input to E"`
	Q    float32 `def:"0" desc:"constant external input to I"`
}

func (wp *WCParams) Defaults() {
	wp.TauE = 1
	wp.TauI = 1
	wp.CEE = 16
	wp.CEI = 12
	wp.CIE = 15
	wp.CII = 3
	wp.AE = 1.3
	wp.ThrE = 4
	wp.AI = 2
	wp.ThrI = 3.7
	wp.P = 1.25
	wp.Q = 0
}

func (wp *WCParams) Update() {
}

// Sigmoid is the population response function: a logistic in x with gain
// a and threshold thr, bounded in (0, 1).
func (wp *WCParams) Sigmoid(x, a, thr float32) float32 {
	return 1 / (1 + math32.Exp(-a*(x-thr)))
}

// Deriv computes the population activity derivatives.  External input
// via the Jcn accumulator adds to the E population drive.
func (wp WCParams) Deriv(t float32, x, in, dx []float32) {
	dx[E] = (-x[E] + wp.Sigmoid(wp.CEE*x[E]-wp.CEI*x[I]+wp.P+in[0], wp.AE, wp.ThrE)) / wp.TauE
	dx[I] = (-x[I] + wp.Sigmoid(wp.CIE*x[E]-wp.CII*x[I]+wp.Q, wp.AI, wp.ThrI)) / wp.TauI
}

// NoiseParams adds optional stochastic input to the populations.
type NoiseParams struct {
	erand.RndParams
	On bool `desc:"add noise to the E and I activities -- requires Euler integration"`
}

func (np *NoiseParams) Defaults() {
	np.On = false
	np.Dist = erand.Gaussian
	np.Mean = 0
	np.Var = 0.01
}

// WilsonCowan is an excitatory-inhibitory population pair component.
type WilsonCowan struct {
	blox.BloxStru
	WC    WCParams    `view:"inline" desc:"population parameters"`
	Noise NoiseParams `view:"inline" desc:"stochastic input to E and I"`
}

var KiT_WilsonCowan = kit.Types.AddType(&WilsonCowan{}, nil)

// NewWilsonCowan returns a new Wilson-Cowan population pair with the
// classic limit-cycle defaults.
func NewWilsonCowan(name string) *WilsonCowan {
	wc := &WilsonCowan{}
	wc.InitName(wc, name)
	wc.Knd = WilsonCowanK
	wc.Defaults()
	return wc
}

func (wc *WilsonCowan) Defaults() {
	wc.WC.Defaults()
	wc.Noise.Defaults()
}

func (wc *WilsonCowan) UpdateParams() {
	wc.WC.Update()
}

func (wc *WilsonCowan) TypeName() string {
	return "WilsonCowan"
}

func (wc *WilsonCowan) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "E", Role: blox.OutputVar, Init: 0.1},
		{Nm: "I", Role: blox.InternalVar, Init: 0.1},
		{Nm: "Jcn", Role: blox.InputVar},
	}
}

func (wc *WilsonCowan) OutVar() string {
	return "E"
}

func (wc *WilsonCowan) InVars() []string {
	return []string{"Jcn"}
}

func (wc *WilsonCowan) Dyn() blox.Dynamics {
	return wc.WC
}

func (wc *WilsonCowan) Noises() []blox.Noise {
	if !wc.Noise.On {
		return nil
	}
	return []blox.Noise{
		{Var: "E", Pars: wc.Noise.RndParams},
		{Var: "I", Pars: wc.Noise.RndParams},
	}
}
