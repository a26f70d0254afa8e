// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"github.com/emer/emergent/params"
)

// Blox is the interface every component in a graph implements.  A
// component declares its state variables, rate-law dynamics, local
// discrete events, and (for sources) drives and scheduled trains.
// The concrete model types (izhi.Neuron, mass.WilsonCowan, source.DBS,
// etc.) embed BloxStru which provides the structural boilerplate.
type Blox interface {
	// InitName MUST be called to establish the blox side of the
	// interface (self pointer) and the name.  Typically called by the
	// model package constructors.
	InitName(b Blox, name string)

	// Name returns the name of this component.  Must be unique within
	// a graph (or within the parent composite).
	Name() string

	// SetName sets the name.
	SetName(nm string)

	// TypeName is the blox-level selector for parameter styling.
	TypeName() string

	// Class is a space-separated list of class tags for parameter
	// styling, prefixed by the kind name.
	Class() string

	// SetClass sets the class tags.
	SetClass(cls string)

	// Kind returns the registered kind tag, which determines
	// connection rule dispatch.
	Kind() Kinds

	// IsOff returns true if this component is inactivated: it and any
	// edges touching it are skipped during compilation (ablation).
	IsOff() bool

	// SetOff inactivates (or reactivates) the component.
	SetOff(off bool)

	// SelfCon returns true if this kind permits a self connection.
	SelfCon() bool

	// Vars returns the ordered state variable declarations.  Exactly
	// one OutputVar; at most one InputVar (none for sources), which
	// must declare a zero initial value.
	Vars() []Var

	// OutVar returns the name of the designated output variable, read
	// by the generic coupling rule.
	OutVar() string

	// SpikeVar returns the name of the variable used for threshold
	// crossing detection (spikes).  Defaults to OutVar; neurons whose
	// output is a synaptic gate return their voltage instead.
	SpikeVar() string

	// InVars returns the names of the input accumulator variables, in
	// the order their resolved values are passed to Deriv.  Nil for
	// sources.
	InVars() []string

	// Dyn returns a value copy of the parameter object implementing
	// the component's rate laws, or nil for pure-drive sources.  The
	// copy is what the compiled system evaluates, so later parameter
	// edits never leak into an already compiled system.
	Dyn() Dynamics

	// Events returns the component's local discrete events
	// (guard threshold -> effects), with local variable names.
	Events() []Event

	// Drives returns algebraic waveform assignments for source output
	// variables.
	Drives() []Drive

	// Trains returns scheduled impulse trains (seeded spike
	// generators with local effects).
	Trains() []Train

	// Noises returns additive state noise declarations.
	Noises() []Noise

	// Defaults sets default parameter values.
	Defaults()

	// UpdateParams updates derived parameter values after any change.
	UpdateParams()

	// ApplyParams applies a styled parameter sheet to this component.
	ApplyParams(pars *params.Sheet, setMsg bool) (bool, error)
}

// Dynamics is the rate-law surface of a component: Deriv writes the
// time derivatives of the component's own variables.  x and dx are the
// component's local variable slice (in Vars order); in holds the
// resolved input accumulator values in InVars order.  Entries of dx
// for accumulator variables are ignored (accumulators are algebraic).
// Implementations are parameter structs with value receivers, so the
// compiled copy is frozen.
type Dynamics interface {
	Deriv(t float32, x, in, dx []float32)
}

// BloxStru manages the structural elements common to all component
// types: name, class, kind tag, and off flag.
type BloxStru struct {
	BloxBx Blox   `copy:"-" json:"-" xml:"-" view:"-" desc:"we need a pointer to ourselves as a Blox, which can always be used to extract the true underlying type of object when this is embedded in other structs -- function receivers do not have this ability so this is necessary."`
	Nm     string `desc:"name of the component -- must be unique within the graph (or parent composite)"`
	Cls    string `desc:"class tags for applying parameter styles, space separated"`
	Knd    Kinds  `desc:"registered kind tag, set by the model constructor -- determines connection rule dispatch"`
	Off    bool   `desc:"inactivate this component -- it and its edges are skipped at compile"`
}

func (bs *BloxStru) InitName(b Blox, name string) {
	bs.BloxBx = b
	bs.Nm = name
}

func (bs *BloxStru) Name() string        { return bs.Nm }
func (bs *BloxStru) SetName(nm string)   { bs.Nm = nm }
func (bs *BloxStru) TypeName() string    { return "Blox" }
func (bs *BloxStru) Class() string       { return bs.Knd.String() + " " + bs.Cls }
func (bs *BloxStru) SetClass(cls string) { bs.Cls = cls }
func (bs *BloxStru) Kind() Kinds         { return bs.Knd }
func (bs *BloxStru) IsOff() bool         { return bs.Off }
func (bs *BloxStru) SetOff(off bool)     { bs.Off = off }
func (bs *BloxStru) SelfCon() bool       { return false }
func (bs *BloxStru) SpikeVar() string    { return bs.BloxBx.OutVar() }
func (bs *BloxStru) InVars() []string    { return nil }
func (bs *BloxStru) Dyn() Dynamics       { return nil }
func (bs *BloxStru) Events() []Event     { return nil }
func (bs *BloxStru) Drives() []Drive     { return nil }
func (bs *BloxStru) Trains() []Train     { return nil }
func (bs *BloxStru) Noises() []Noise     { return nil }

// ApplyParams applies the given parameter style Sheet to this
// component, selecting by blox TypeName, class, and name.  Returns
// true if any parameter was set, and error for any errors.
func (bs *BloxStru) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(bs.BloxBx, setMsg)
	if app {
		bs.BloxBx.UpdateParams()
	}
	return app, err
}
