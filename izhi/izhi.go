// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package izhi provides the Izhikevich spiking neuron, a two-variable
quadratic model that reproduces the major cortical firing patterns with
four parameters (Izhikevich, 2003).

Coupling between izhi neurons is by discrete spike effects: when a
sender's membrane potential V crosses its apex threshold, each receiver
gets an instantaneous kick to V, positive for excitatory senders and
negative for inhibitory ones, scaled by the connection weight.
*/
package izhi

import (
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// Variable indexes within an izhi neuron's local state.
const (
	V = iota
	U
	Jcn
	NVars
)

var (
	// NeuronK is the base izhi neuron kind.
	NeuronK = blox.NewKind("Izhi", blox.NeuronKind)

	// ExciK is the excitatory izhi neuron kind.
	ExciK = blox.NewKind("IzhiExci", NeuronK)

	// InhibK is the inhibitory (fast spiking) izhi neuron kind.
	InhibK = blox.NewKind("IzhiInhib", NeuronK)
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
	blox.StdRules.Add(NeuronK, NeuronK, SpikeRule)
	blox.StdRules.Add(InhibK, NeuronK, InhibSpikeRule)
}

// Params are the Izhikevich model parameters.  Defaults give the regular
// spiking (RS) pyramidal cell; FastSpiking gives the FS interneuron.
type Params struct {
	A   float32 `def:"0.02" desc:"recovery variable time scale"`
	B   float32 `def:"0.2" desc:"recovery variable sensitivity to V"`
	C   float32 `def:"-65" desc:"membrane reset potential after a spike"`
	D   float32 `def:"8" desc:"recovery increment after a spike"`
	Thr float32 `def:"30" desc:"spike apex potential: crossing it resets the neuron"`
	I   float32 `def:"0" desc:"constant bias current"`
}

func (ip *Params) Defaults() {
	ip.A = 0.02
	ip.B = 0.2
	ip.C = -65
	ip.D = 8
	ip.Thr = 30
	ip.I = 0
}

// FastSpiking sets the fast-spiking interneuron preset (small D, fast A).
func (ip *Params) FastSpiking() {
	ip.A = 0.1
	ip.D = 2
}

func (ip *Params) Update() {
}

// Deriv computes the membrane and recovery derivatives:
// V' = 0.04 V^2 + 5 V + 140 - U + I + Jcn, U' = A (B V - U).
func (ip Params) Deriv(t float32, x, in, dx []float32) {
	v := x[V]
	dx[V] = 0.04*v*v + 5*v + 140 - x[U] + ip.I + in[0]
	dx[U] = ip.A * (ip.B*v - x[U])
}

// Neuron is an Izhikevich spiking neuron component.
type Neuron struct {
	blox.BloxStru
	Izhi Params `view:"inline" desc:"izhikevich model parameters"`
}

var KiT_Neuron = kit.Types.AddType(&Neuron{}, nil)

// NewNeuron returns a new regular-spiking izhi neuron.
func NewNeuron(name string) *Neuron {
	nr := &Neuron{}
	nr.InitName(nr, name)
	nr.Knd = NeuronK
	nr.Defaults()
	return nr
}

// NewExci returns a new excitatory (regular spiking) izhi neuron.
func NewExci(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = ExciK
	return nr
}

// NewInhib returns a new inhibitory (fast spiking) izhi neuron.
func NewInhib(name string) *Neuron {
	nr := NewNeuron(name)
	nr.Knd = InhibK
	nr.Izhi.FastSpiking()
	return nr
}

func configNeuron(nr *Neuron, cfg blox.Config) (blox.Blox, error) {
	if bad := cfg.Unknown("a", "b", "c", "d", "thr", "i"); bad != "" {
		return nil, &blox.ConfigError{Blox: nr.Name(), Kind: nr.Kind().String(), Opt: bad, Msg: "unknown option"}
	}
	nr.Izhi.A = cfg.Opt("a", nr.Izhi.A)
	nr.Izhi.B = cfg.Opt("b", nr.Izhi.B)
	nr.Izhi.C = cfg.Opt("c", nr.Izhi.C)
	nr.Izhi.D = cfg.Opt("d", nr.Izhi.D)
	nr.Izhi.Thr = cfg.Opt("thr", nr.Izhi.Thr)
	nr.Izhi.I = cfg.Opt("i", nr.Izhi.I)
	nr.UpdateParams()
	return nr, nil
}

func (nr *Neuron) Defaults() {
	nr.Izhi.Defaults()
}

func (nr *Neuron) UpdateParams() {
	nr.Izhi.Update()
}

func (nr *Neuron) TypeName() string {
	return "Neuron"
}

func (nr *Neuron) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "V", Role: blox.OutputVar, Init: nr.Izhi.C},
		{Nm: "U", Role: blox.InternalVar, Init: nr.Izhi.B * nr.Izhi.C},
		{Nm: "Jcn", Role: blox.InputVar},
	}
}

func (nr *Neuron) OutVar() string {
	return "V"
}

func (nr *Neuron) InVars() []string {
	return []string{"Jcn"}
}

func (nr *Neuron) Dyn() blox.Dynamics {
	return nr.Izhi
}

// Events returns the spike reset: V crossing Thr sets V = C and adds D
// to U.
func (nr *Neuron) Events() []blox.Event {
	return []blox.Event{
		{Var: "V", Thr: nr.Izhi.Thr, Effects: []blox.Effect{
			{Var: "V", Op: blox.OpSet, Val: nr.Izhi.C},
			{Var: "U", Op: blox.OpAdd, Val: nr.Izhi.D},
		}},
	}
}

// thrOf returns the sender's spike apex threshold, for rule-contributed
// spike events.
func thrOf(b blox.Blox) float32 {
	if nr, ok := b.(*Neuron); ok {
		return nr.Izhi.Thr
	}
	return 30
}

// SpikeRule couples izhi neurons by spikes: when the sender's V crosses
// its apex threshold, the receiver's V is kicked up by the connection
// weight.
func SpikeRule(con *blox.Con, send, recv blox.Blox) (*blox.Contrib, error) {
	return &blox.Contrib{
		Events: []blox.Event{
			{Var: send.SpikeVar(), Thr: thrOf(send), OnSend: true, Effects: []blox.Effect{
				{Var: "V", Op: blox.OpAdd, Val: con.Wt},
			}},
		},
	}, nil
}

// InhibSpikeRule is SpikeRule with the kick negated, for inhibitory
// senders with conventionally positive weights.
func InhibSpikeRule(con *blox.Con, send, recv blox.Blox) (*blox.Contrib, error) {
	return &blox.Contrib{
		Events: []blox.Event{
			{Var: send.SpikeVar(), Thr: thrOf(send), OnSend: true, Effects: []blox.Effect{
				{Var: "V", Op: blox.OpAdd, Val: -con.Wt},
			}},
		},
	}, nil
}
