// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the leaky integrate-and-fire neuron with a
conductance-based synaptic output gate.

The membrane integrates leak and input currents until the firing
threshold, where a discrete event resets it and kicks the output gate S.
Downstream lif neurons receive conductance input w * S_send *
(ERev_send - V_recv), so excitatory and inhibitory senders differ only
in their reversal potential and gate decay.
*/
package lif

import (
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// Variable indexes within a lif neuron's local state.
const (
	V = iota
	S
	Jcn
	NVars
)

var (
	// NeuronK is the base lif neuron kind.
	NeuronK = blox.NewKind("LIF", blox.NeuronKind)

	// ExciK is the excitatory lif neuron kind (AMPA-like reversal).
	ExciK = blox.NewKind("LIFExci", NeuronK)

	// InhibK is the inhibitory lif neuron kind (GABA-like reversal).
	InhibK = blox.NewKind("LIFInhib", NeuronK)
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

// Params are leaky integrate-and-fire parameters, in pF / nS / mV / ms
// units so conductance inputs are in nS and currents in pA.
type Params struct {
	C    float32 `def:"500" min:"0" desc:"membrane capacitance in pF"`
	GL   float32 `def:"25" min:"0" desc:"leak conductance in nS"`
	EL   float32 `def:"-70" desc:"leak reversal (resting) potential in mV"`
	Thr  float32 `def:"-50" desc:"firing threshold in mV"`
	Vres float32 `def:"-55" desc:"post-spike reset potential in mV"`
	STau float32 `def:"2" min:"0" desc:"output gate decay time constant in ms -- inhibitory neurons use a slower gate"`
	SAmp float32 `def:"1" desc:"output gate increment per spike"`
	ERev float32 `def:"0" desc:"synaptic reversal potential seen by receivers, in mV -- 0 AMPA-like, -70 GABA-like"`
	I    float32 `def:"0" desc:"constant bias current in pA"`
	SDt  float32 `view:"-" desc:"rate = 1 / STau"`
}

func (lp *Params) Defaults() {
	lp.C = 500
	lp.GL = 25
	lp.EL = -70
	lp.Thr = -50
	lp.Vres = -55
	lp.STau = 2
	lp.SAmp = 1
	lp.ERev = 0
	lp.I = 0
	lp.Update()
}

// Inhib sets the inhibitory preset: GABA-like reversal, slower gate.
func (lp *Params) Inhib() {
	lp.ERev = -70
	lp.STau = 5
	lp.Update()
}

func (lp *Params) Update() {
	lp.SDt = 1 / lp.STau
}

// Deriv computes C V' = -GL (V - EL) + I + Jcn and the gate decay
// S' = -S / STau.
func (lp Params) Deriv(t float32, x, in, dx []float32) {
	dx[V] = (-lp.GL*(x[V]-lp.EL) + lp.I + in[0]) / lp.C
	dx[S] = -x[S] * lp.SDt
}

// Neuron is a leaky integrate-and-fire neuron component.
type Neuron struct {
	blox.BloxStru
	LIF Params `view:"inline" desc:"integrate-and-fire parameters"`
}

var KiT_Neuron = kit.Types.AddType(&Neuron{}, nil)

// NewNeuron returns a new lif neuron with excitatory defaults.
func NewNeuron(name string) *Neuron {
	nr := &Neuron{}
	nr.InitName(nr, name)
	nr.Knd = NeuronK
	nr.Defaults()
	return nr
}

// NewExci returns a new excitatory lif neuron.
func NewExci(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = ExciK
	return nr
}

// NewInhib returns a new inhibitory lif neuron.
func NewInhib(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = InhibK
	nr.LIF.Inhib()
	return nr
}

func configNeuron(nr *Neuron, cfg blox.Config) (blox.Blox, error) {
	if bad := cfg.Unknown("c", "gl", "el", "thr", "vres", "stau", "samp", "erev", "i"); bad != "" {
		return nil, &blox.ConfigError{Blox: nr.Name(), Kind: nr.Kind().String(), Opt: bad, Msg: "unknown option"}
	}
	lp := &nr.LIF
	lp.C = cfg.Opt("c", lp.C)
	lp.GL = cfg.Opt("gl", lp.GL)
	lp.EL = cfg.Opt("el", lp.EL)
	lp.Thr = cfg.Opt("thr", lp.Thr)
	lp.Vres = cfg.Opt("vres", lp.Vres)
	lp.STau = cfg.Opt("stau", lp.STau)
	lp.SAmp = cfg.Opt("samp", lp.SAmp)
	lp.ERev = cfg.Opt("erev", lp.ERev)
	lp.I = cfg.Opt("i", lp.I)
	nr.UpdateParams()
	return nr, nil
}

func (nr *Neuron) Defaults() {
	nr.LIF.Defaults()
}

func (nr *Neuron) UpdateParams() {
	nr.LIF.Update()
}

func (nr *Neuron) TypeName() string {
	return "Neuron"
}

func (nr *Neuron) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "V", Role: blox.InternalVar, Init: nr.LIF.EL},
		{Nm: "S", Role: blox.OutputVar, Init: 0},
		{Nm: "Jcn", Role: blox.InputVar},
	}
}

func (nr *Neuron) OutVar() string {
	return "S"
}

func (nr *Neuron) SpikeVar() string {
	return "V"
}

func (nr *Neuron) InVars() []string {
	return []string{"Jcn"}
}

func (nr *Neuron) Dyn() blox.Dynamics {
	return nr.LIF
}

// Events returns the spike reset: V crossing Thr sets V = Vres and adds
// SAmp to the output gate S.
func (nr *Neuron) Events() []blox.Event {
	return []blox.Event{
		{Var: "V", Thr: nr.LIF.Thr, Effects: []blox.Effect{
			{Var: "V", Op: blox.OpSet, Val: nr.LIF.Vres},
			{Var: "S", Op: blox.OpAdd, Val: nr.LIF.SAmp},
		}},
	}
}

// revOf returns the sender's synaptic reversal potential.
func revOf(b blox.Blox) float32 {
	if nr, ok := b.(*Neuron); ok {
		return nr.LIF.ERev
	}
	return 0
}

// CondRule couples lif neurons by conductance: the receiver's input
// current is w * S_send * (ERev_send - V_recv) in pA.  A "Rev" parameter
// on the connection overrides the sender's reversal.
func CondRule(con *blox.Con, send, recv blox.Blox) (*blox.Contrib, error) {
	return &blox.Contrib{
		Terms: []blox.Term{
			{In: "Jcn", Src: send.OutVar(), Op: blox.Cond, Wt: con.Wt, Rev: con.Par("Rev", revOf(send)), Mod: "V"},
		},
	}, nil
}
