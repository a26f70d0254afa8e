// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"github.com/emer/emergent/erand"
	"github.com/goki/ki/kit"
)

// EventOps is the mutation operation an event effect applies to a
// state variable.
type EventOps int32

//go:generate stringer -type=EventOps

var KiT_EventOps = kit.Enums.AddEnum(EventOpsN, kit.NotBitFlag, nil)

func (ev EventOps) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *EventOps) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// OpSet overwrites the variable with Val (reset semantics).
	OpSet EventOps = iota

	// OpAdd increments the variable by Val (kick / increment semantics).
	OpAdd

	EventOpsN
)

// Effect is one state mutation applied when an event fires.  Var is a
// local variable name when the effect is declared by a component, and
// a recv-side local name when contributed by a connection rule --
// compilation resolves it to a global index either way.
type Effect struct {
	Var string   `desc:"name of the variable to mutate"`
	Op  EventOps `desc:"mutation operation"`
	Val float32  `desc:"operand value"`
	Idx int      `view:"-" desc:"global variable index, filled in at compile"`
}

// Event is a discrete guard -> effects record: when the guarded
// variable crosses Thr upward between two accepted integration steps,
// the effects are applied to the post-step state, in order.  Events
// declared by a component guard and mutate its own variables.  Events
// contributed by a connection rule guard the send side when OnSend is
// set (e.g. a presynaptic spike) and always mutate recv-side variables.
type Event struct {
	Var     string   `desc:"name of the guarded variable"`
	Thr     float32  `desc:"upward crossing threshold"`
	OnSend  bool     `desc:"for rule-contributed events: guard variable is on the send component (effects are always on recv)"`
	Effects []Effect `desc:"mutations applied, in order, when the guard fires"`
	Idx     int      `view:"-" desc:"global index of guarded variable, filled in at compile"`
}

// SpikeGen generates a deterministic schedule of event times over a
// time span.  Implementations are value types seeded explicitly, so
// the same generator over the same span always produces the same
// times, and a compiled system remains a pure description.
type SpikeGen interface {
	// Times returns the ordered event times in (t0, t1].
	Times(t0, t1 float32) []float32
}

// Train is a scheduled impulse train: at each generated time the
// effects are applied (e.g. a spike source incrementing its own output
// gate).  The integration driver forces a step to land exactly on each
// scheduled time before applying the effects.
type Train struct {
	Gen     SpikeGen `desc:"schedule generator"`
	Effects []Effect `desc:"mutations applied at each scheduled time"`
}

// Waveform is an algebraic drive: the value a source output variable
// is assigned as a pure function of time, before every derivative
// evaluation and at every recorded step.
type Waveform interface {
	Eval(t float32) float32
}

// Edged is implemented by waveforms with known discontinuity or
// transition times (e.g. pulse protocols).  The integration driver
// collects these as forced stop points so no step straddles an edge.
type Edged interface {
	Edges(t0, t1 float32) []float32
}

// Drive binds a waveform to a component output variable.
type Drive struct {
	Var  string   `desc:"name of the driven variable"`
	Wave Waveform `desc:"waveform evaluated at each step"`
	Idx  int      `view:"-" desc:"global variable index, filled in at compile"`
}

// Noise is additive state noise on one variable, integrated with the
// Euler-Maruyama correction (scaled by sqrt of the step size).
type Noise struct {
	Var  string          `desc:"name of the perturbed variable"`
	Pars erand.RndParams `desc:"noise distribution -- Var field is the std deviation for Gaussian"`
	Idx  int             `view:"-" desc:"global variable index, filled in at compile"`
}
