// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hh provides the Hodgkin-Huxley conductance-based spiking neuron:
gated sodium, delayed-rectifier potassium, and leak channels with the
classic squid-axon kinetics, plus a synaptic output gate G driven by a
sigmoid of the membrane potential.

Spiking is fully continuous: there is no reset event, and spikes are
detected from the membrane trajectory by upward threshold crossing.
Coupling between hh neurons is conductance-based via the sender's G gate
and reversal potential.
*/
package hh

import (
	"github.com/chewxy/math32"
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// Variable indexes within an hh neuron's local state.
const (
	V = iota
	M
	H
	N
	G
	Jcn
	NVars
)

var (
	// NeuronK is the base hh neuron kind.
	NeuronK = blox.NewKind("HH", blox.NeuronKind)

	// ExciK is the excitatory hh neuron kind (glutamatergic reversal).
	ExciK = blox.NewKind("HHExci", NeuronK)

	// InhibK is the inhibitory hh neuron kind (GABAergic reversal).
	InhibK = blox.NewKind("HHInhib", NeuronK)
)

func init() {
	blox.RegisterFactory(NeuronK, func(name string, cfg blox.Config) (blox.Blox, error) {
		return configNeuron(NewNeuron(name), cfg)
	})
	blox.RegisterFactory(ExciK, func(name string, cfg blox.Config) (blox.Blox, error) {
		return configNeuron(NewExci(name), cfg)
	})
	blox.RegisterFactory(InhibK, func(name string, cfg blox.Config) (blox.Blox, error) {
		return configNeuron(NewInhib(name), cfg)
	})
	blox.StdRules.Add(NeuronK, NeuronK, CondRule)
}

// GateParams drive the synaptic output gate G from the presynaptic
// membrane potential: G' = AR sigma(V) (1 - G) - AD G.
type GateParams struct {
	AR float32 `def:"1.1" desc:"gate rise rate when the membrane is depolarized"`
	AD float32 `def:"0.19" desc:"gate decay rate"`
	VT float32 `def:"2" desc:"membrane potential at half gate activation"`
	KP float32 `def:"5" desc:"slope of the gate activation sigmoid"`
}

func (gp *GateParams) Defaults() {
	gp.AR = 1.1
	gp.AD = 0.19
	gp.VT = 2
	gp.KP = 5
}

// Params are the Hodgkin-Huxley model parameters, in the classic
// normalized units: uF/cm^2, mS/cm^2, mV, ms.
type Params struct {
	Cm     float32    `def:"1" min:"0" desc:"membrane capacitance"`
	Gbar   Chans      `view:"inline" desc:"maximal channel conductances"`
	Erev   Chans      `view:"inline" desc:"channel reversal potentials"`
	I      float32    `def:"0" desc:"constant bias current"`
	VInit  float32    `def:"-65" desc:"initial membrane potential -- gates start at their steady state for it"`
	SynRev float32    `def:"0" desc:"synaptic reversal potential seen by receivers -- 0 excitatory, -80 inhibitory"`
	Gate   GateParams `view:"inline" desc:"synaptic output gate"`
}

func (hp *Params) Defaults() {
	hp.Cm = 1
	hp.Gbar.SetAll(120, 36, 0.3)
	hp.Erev.SetAll(50, -77, -54.4)
	hp.I = 0
	hp.VInit = -65
	hp.SynRev = 0
	hp.Gate.Defaults()
}

func (hp *Params) Update() {
}

// vtrap evaluates x / (1 - exp(-x/s)) with its 0/0 singularity at x = 0
// replaced by the analytic limit.
func vtrap(x, s float32) float32 {
	if math32.Abs(x/s) < 1e-4 {
		return s + x/2
	}
	return x / (1 - math32.Exp(-x/s))
}

func sigm(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}

// AlphaM is the sodium activation opening rate at potential v.
func (hp Params) AlphaM(v float32) float32 { return 0.1 * vtrap(v+40, 10) }

// BetaM is the sodium activation closing rate at potential v.
func (hp Params) BetaM(v float32) float32 { return 4 * math32.Exp(-(v+65)/18) }

// AlphaH is the sodium inactivation opening rate at potential v.
func (hp Params) AlphaH(v float32) float32 { return 0.07 * math32.Exp(-(v+65)/20) }

// BetaH is the sodium inactivation closing rate at potential v.
func (hp Params) BetaH(v float32) float32 { return 1 / (1 + math32.Exp(-(v+35)/10)) }

// AlphaN is the potassium activation opening rate at potential v.
func (hp Params) AlphaN(v float32) float32 { return 0.01 * vtrap(v+55, 10) }

// BetaN is the potassium activation closing rate at potential v.
func (hp Params) BetaN(v float32) float32 { return 0.125 * math32.Exp(-(v+65)/80) }

// Deriv computes the full Hodgkin-Huxley right-hand side: membrane
// current balance, the three gating kinetics, and the synaptic output
// gate.
func (hp Params) Deriv(t float32, x, in, dx []float32) {
	v := x[V]
	ina := hp.Gbar.Na * x[M] * x[M] * x[M] * x[H] * (v - hp.Erev.Na)
	ik := hp.Gbar.K * x[N] * x[N] * x[N] * x[N] * (v - hp.Erev.K)
	il := hp.Gbar.L * (v - hp.Erev.L)
	dx[V] = (-ina - ik - il + hp.I + in[0]) / hp.Cm
	dx[M] = hp.AlphaM(v)*(1-x[M]) - hp.BetaM(v)*x[M]
	dx[H] = hp.AlphaH(v)*(1-x[H]) - hp.BetaH(v)*x[H]
	dx[N] = hp.AlphaN(v)*(1-x[N]) - hp.BetaN(v)*x[N]
	dx[G] = hp.Gate.AR*sigm((v-hp.Gate.VT)/hp.Gate.KP)*(1-x[G]) - hp.Gate.AD*x[G]
}

// Neuron is a Hodgkin-Huxley conductance-based neuron component.
type Neuron struct {
	blox.BloxStru
	HH Params `view:"inline" desc:"hodgkin-huxley model parameters"`
}

var KiT_Neuron = kit.Types.AddType(&Neuron{}, nil)

// NewNeuron returns a new hh neuron with classic squid-axon defaults.
func NewNeuron(name string) *Neuron {
	nr := &Neuron{}
	nr.InitName(nr, name)
	nr.Knd = NeuronK
	nr.Defaults()
	return nr
}

// NewExci returns a new excitatory hh neuron.
func NewExci(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = ExciK
	return nr
}

// NewInhib returns a new inhibitory hh neuron.
func NewInhib(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = InhibK
	nr.HH.SynRev = -80
	return nr
}

func configNeuron(nr *Neuron, cfg blox.Config) (blox.Blox, error) {
	if bad := cfg.Unknown("cm", "gna", "gk", "gl", "ena", "ek", "el", "i", "vinit", "synrev"); bad != "" {
		return nil, &blox.ConfigError{Blox: nr.Name(), Kind: nr.Kind().String(), Opt: bad, Msg: "unknown option"}
	}
	hp := &nr.HH
	hp.Cm = cfg.Opt("cm", hp.Cm)
	hp.Gbar.Na = cfg.Opt("gna", hp.Gbar.Na)
	hp.Gbar.K = cfg.Opt("gk", hp.Gbar.K)
	hp.Gbar.L = cfg.Opt("gl", hp.Gbar.L)
	hp.Erev.Na = cfg.Opt("ena", hp.Erev.Na)
	hp.Erev.K = cfg.Opt("ek", hp.Erev.K)
	hp.Erev.L = cfg.Opt("el", hp.Erev.L)
	hp.I = cfg.Opt("i", hp.I)
	hp.VInit = cfg.Opt("vinit", hp.VInit)
	hp.SynRev = cfg.Opt("synrev", hp.SynRev)
	nr.UpdateParams()
	return nr, nil
}

func (nr *Neuron) Defaults() {
	nr.HH.Defaults()
}

func (nr *Neuron) UpdateParams() {
	nr.HH.Update()
}

func (nr *Neuron) TypeName() string {
	return "Neuron"
}

// Vars starts the gating variables at their steady state for VInit, so
// an undriven neuron sits at rest from the first step.
func (nr *Neuron) Vars() []blox.Var {
	hp := nr.HH
	v0 := hp.VInit
	am, bm := hp.AlphaM(v0), hp.BetaM(v0)
	ah, bh := hp.AlphaH(v0), hp.BetaH(v0)
	an, bn := hp.AlphaN(v0), hp.BetaN(v0)
	return []blox.Var{
		{Nm: "V", Role: blox.InternalVar, Init: v0},
		{Nm: "M", Role: blox.InternalVar, Init: am / (am + bm)},
		{Nm: "H", Role: blox.InternalVar, Init: ah / (ah + bh)},
		{Nm: "N", Role: blox.InternalVar, Init: an / (an + bn)},
		{Nm: "G", Role: blox.OutputVar, Init: 0},
		{Nm: "Jcn", Role: blox.InputVar},
	}
}

func (nr *Neuron) OutVar() string {
	return "G"
}

func (nr *Neuron) SpikeVar() string {
	return "V"
}

func (nr *Neuron) InVars() []string {
	return []string{"Jcn"}
}

func (nr *Neuron) Dyn() blox.Dynamics {
	return nr.HH
}

// revOf returns the sender's synaptic reversal potential.
func revOf(b blox.Blox) float32 {
	if nr, ok := b.(*Neuron); ok {
		return nr.HH.SynRev
	}
	return 0
}

// CondRule couples hh neurons by conductance: the receiver's input
// current is w * G_send * (SynRev_send - V_recv).  A "Rev" parameter on
// the connection overrides the sender's reversal.
func CondRule(con *blox.Con, send, recv blox.Blox) (*blox.Contrib, error) {
	return &blox.Contrib{
		Terms: []blox.Term{
			{In: "Jcn", Src: send.OutVar(), Op: blox.Cond, Wt: con.Wt, Rev: con.Par("Rev", revOf(send)), Mod: "V"},
		},
	}, nil
}
