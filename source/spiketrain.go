// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math/rand"

	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// TrainModes are the spike schedule generation modes.
type TrainModes int32

//go:generate stringer -type=TrainModes

var KiT_TrainModes = kit.Enums.AddEnum(TrainModesN, kit.NotBitFlag, nil)

func (ev TrainModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *TrainModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Bernoulli draws an independent spike with probability P in each
	// slot of width Slot.
	Bernoulli TrainModes = iota

	// Poisson draws exponentially distributed inter-spike intervals
	// with mean rate Rate.
	Poisson

	TrainModesN
)

// TrainK is the stochastic spike train source kind.
var TrainK = blox.NewKind("SpikeTrain", blox.SourceKind)

func init() {
	blox.RegisterFactory(TrainK, func(name string, cfg blox.Config) (blox.Blox, error) {
		st := NewBernoulli(name)
		if bad := cfg.Unknown("mode", "p", "slot", "rate", "seed", "tau", "amp"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: TrainK.String(), Opt: bad, Msg: "unknown option"}
		}
		md := TrainModes(cfg.Opt("mode", 0))
		if md < Bernoulli || md >= TrainModesN {
			return nil, &blox.ConfigError{Blox: name, Kind: TrainK.String(), Opt: "mode", Msg: "must be 0 (Bernoulli) or 1 (Poisson)"}
		}
		st.Train.Mode = md
		st.Train.P = cfg.Opt("p", st.Train.P)
		st.Train.Slot = cfg.Opt("slot", st.Train.Slot)
		st.Train.Rate = cfg.Opt("rate", st.Train.Rate)
		st.Train.Seed = int64(cfg.Opt64("seed", float64(st.Train.Seed)))
		st.Train.Tau = cfg.Opt("tau", st.Train.Tau)
		st.Train.Amp = cfg.Opt("amp", st.Train.Amp)
		st.UpdateParams()
		return st, nil
	})
}

// TrainParams configure a stochastic spike schedule and its output gate.
// The schedule is a pure function of the parameters and seed, so repeated
// integrations and compilations see identical spike times.
type TrainParams struct {
	Mode TrainModes `desc:"schedule generation mode"`
	P    float32    `def:"0.05" min:"0" max:"1" viewif:"Mode=Bernoulli" desc:"per-slot spike probability"`
	Slot float32    `def:"5" min:"0" viewif:"Mode=Bernoulli" desc:"slot spacing in time units"`
	Rate float32    `def:"10" min:"0" viewif:"Mode=Poisson" desc:"mean spike rate in Hz, with time in ms"`
	Seed int64      `def:"1" desc:"random seed for the schedule"`
	Tau  float32    `def:"2" min:"0" desc:"decay time constant of the output gate S"`
	Amp  float32    `def:"1" desc:"gate increment per spike"`
	SDt  float32    `view:"-" desc:"rate = 1 / Tau"`
}

func (tp *TrainParams) Defaults() {
	tp.Mode = Bernoulli
	tp.P = 0.05
	tp.Slot = 5
	tp.Rate = 10
	tp.Seed = 1
	tp.Tau = 2
	tp.Amp = 1
	tp.Update()
}

func (tp *TrainParams) Update() {
	tp.SDt = 1 / tp.Tau
}

// Deriv decays the output gate: S' = -S / Tau.
func (tp TrainParams) Deriv(t float32, x, in, dx []float32) {
	dx[0] = -x[0] * tp.SDt
}

// Times returns the scheduled spike times in (t0, t1], deterministic in
// the parameters and seed.
func (tp TrainParams) Times(t0, t1 float32) []float32 {
	rn := rand.New(rand.NewSource(tp.Seed))
	var tms []float32
	switch tp.Mode {
	case Bernoulli:
		if tp.Slot <= 0 {
			return nil
		}
		for k := 1; ; k++ {
			tk := t0 + float32(k)*tp.Slot
			if tk > t1 {
				break
			}
			if rn.Float64() < float64(tp.P) {
				tms = append(tms, tk)
			}
		}
	case Poisson:
		if tp.Rate <= 0 {
			return nil
		}
		isi := 1000 / tp.Rate
		tk := t0
		for {
			tk += float32(rn.ExpFloat64()) * isi
			if tk > t1 {
				break
			}
			tms = append(tms, tk)
		}
	}
	return tms
}

// SpikeTrain is a stochastic spike source.  Scheduled spikes kick its
// decaying gate S up by Amp, and S is the output that downstream
// connections couple to.
type SpikeTrain struct {
	blox.BloxStru
	Train TrainParams `view:"inline" desc:"schedule and gate parameters"`
}

var KiT_SpikeTrain = kit.Types.AddType(&SpikeTrain{}, nil)

// NewBernoulli returns a new Bernoulli spike train source.
func NewBernoulli(name string) *SpikeTrain {
	st := &SpikeTrain{}
	st.InitName(st, name)
	st.Knd = TrainK
	st.Defaults()
	return st
}

// NewPoisson returns a new Poisson spike train source at the given rate
// in Hz (time in ms).
func NewPoisson(name string, rate float32) *SpikeTrain {
	st := NewBernoulli(name)
	st.Train.Mode = Poisson
	st.Train.Rate = rate
	return st
}

func (st *SpikeTrain) Defaults() {
	st.Train.Defaults()
}

func (st *SpikeTrain) UpdateParams() {
	st.Train.Update()
}

func (st *SpikeTrain) TypeName() string {
	return "SpikeTrain"
}

func (st *SpikeTrain) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "S", Role: blox.OutputVar, Init: 0},
	}
}

func (st *SpikeTrain) OutVar() string {
	return "S"
}

func (st *SpikeTrain) Dyn() blox.Dynamics {
	return st.Train
}

// Trains returns the scheduled spikes, each adding Amp to the gate S.
func (st *SpikeTrain) Trains() []blox.Train {
	return []blox.Train{
		{Gen: st.Train, Effects: []blox.Effect{
			{Var: "S", Op: blox.OpAdd, Val: st.Train.Amp},
		}},
	}
}

// Times returns the scheduled spike times in (t0, t1].
func (st *SpikeTrain) Times(t0, t1 float32) []float32 {
	return st.Train.Times(t0, t1)
}
