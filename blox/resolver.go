// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"github.com/goki/ki/kit"
)

// TermOps is the functional form of one coupling term.
type TermOps int32

//go:generate stringer -type=TermOps

var KiT_TermOps = kit.Enums.AddEnum(TermOpsN, kit.NotBitFlag, nil)

func (ev TermOps) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *TermOps) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Linear contributes Wt * x[Src] -- the generic weighted coupling.
	Linear TermOps = iota

	// Cond contributes Wt * x[Src] * (Rev - x[Mod]) -- a conductance
	// synapse gated by the send variable, driving the recv membrane
	// variable Mod toward the reversal potential Rev.
	Cond

	TermOpsN
)

// Term is one additive contribution to a recv input accumulator.
// Rules produce terms with local variable names relative to the
// connection endpoints; compilation resolves the names to global
// indexes.  Per-accumulator terms are summed, so the value of an
// accumulator is independent of the order connections were added.
type Term struct {
	In     string  `desc:"recv input accumulator name -- empty selects the recv component's first accumulator"`
	Src    string  `desc:"send variable name -- empty selects the send component's designated output"`
	Op     TermOps `desc:"functional form"`
	Wt     float32 `desc:"weight (gain for Linear, max conductance for Cond)"`
	Rev    float32 `desc:"reversal potential, Cond only"`
	Mod    string  `desc:"recv variable gated toward Rev, Cond only (typically the membrane potential)"`
	SrcIdx int     `view:"-" desc:"global index of Src, filled in at compile"`
	ModIdx int     `view:"-" desc:"global index of Mod, filled in at compile"`
}

// Contrib is what resolving one connection contributes to the compiled
// system: equation terms summed into recv accumulators, and discrete
// events.  Resolution is pure -- endpoints are never mutated.
type Contrib struct {
	Terms  []Term  `desc:"additive accumulator contributions"`
	Events []Event `desc:"events: guard on send (OnSend) or recv, effects on recv"`
}

// RuleKey is the kind pair a connection rule is registered under.
type RuleKey struct {
	Send Kinds
	Recv Kinds
}

// RuleFunc builds the contribution of one connection.  It may read
// any fields of either endpoint (e.g. the send component's synaptic
// reversal potential) but must not mutate them.
type RuleFunc func(con *Con, send, recv Blox) (*Contrib, error)

// Rules is an explicit connection rule table: kind-pair keyed rules
// plus named rules selectable per connection.  The table is the whole
// dispatch story -- there is no other mechanism -- so the set of
// behaviors a graph can compile to is auditable by listing it.
type Rules struct {
	Tab   map[RuleKey]RuleFunc `view:"-" desc:"kind-pair dispatch table"`
	Named map[string]RuleFunc  `view:"-" desc:"named rules, selected by Con.Rule"`
}

func NewRules() *Rules {
	return &Rules{Tab: make(map[RuleKey]RuleFunc), Named: make(map[string]RuleFunc)}
}

// Add registers a rule for the given kind pair, replacing any
// previous registration for exactly that pair.
func (rl *Rules) Add(send, recv Kinds, fn RuleFunc) {
	rl.Tab[RuleKey{Send: send, Recv: recv}] = fn
}

// AddNamed registers a rule selectable by name via Con.Rule.
func (rl *Rules) AddNamed(name string, fn RuleFunc) {
	rl.Named[name] = fn
}

// RuleFor returns the rule that would resolve the given kind pair,
// along with the key it matched under, walking the send fallback
// chain outermost and the recv chain innermost: the most specific
// send kind wins first (the sender determines the transmitter), then
// the most specific recv kind.
func (rl *Rules) RuleFor(send, recv Kinds) (RuleFunc, RuleKey, bool) {
	for _, sk := range send.Chain() {
		for _, rk := range recv.Chain() {
			key := RuleKey{Send: sk, Recv: rk}
			if fn, has := rl.Tab[key]; has {
				return fn, key, true
			}
		}
	}
	return nil, RuleKey{}, false
}

// Resolve dispatches the connection to a rule and returns its
// contribution.  Order: a named rule selector on the connection takes
// absolute precedence; otherwise kind-pair dispatch per RuleFor.  The
// generic rule registered under (AnyKind, AnyKind) is always reached
// last, so resolution only fails when the destination is a Source,
// when a named selector is unknown, when the generic rule is
// inapplicable (recv has no input accumulator), or when the matched
// rule itself rejects the connection.
func (rl *Rules) Resolve(con *Con) (*Contrib, error) {
	send, recv := con.Send, con.Recv
	if recv.Kind().IsA(SourceKind) {
		return nil, &ResolveError{Send: send.Name(), Recv: recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "sources accept no input connections"}
	}
	if con.Rule != "" {
		fn, has := rl.Named[con.Rule]
		if !has {
			return nil, &ResolveError{Send: send.Name(), Recv: recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "no rule named: " + con.Rule}
		}
		return fn(con, send, recv)
	}
	if fn, _, has := rl.RuleFor(send.Kind(), recv.Kind()); has {
		return fn(con, send, recv)
	}
	return nil, &ResolveError{Send: send.Name(), Recv: recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "no rule registered for kind pair"}
}

// Generic is the implicit library-wide coupling rule: the weighted
// send output is summed into the recv input accumulator.  Registered
// under (AnyKind, AnyKind) in StdRules so every kind pair resolves
// unless the recv declares no accumulator.
func Generic(con *Con, send, recv Blox) (*Contrib, error) {
	ins := recv.InVars()
	if len(ins) == 0 {
		return nil, &ResolveError{Send: con.Send.Name(), Recv: con.Recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "no specific rule for kind pair and recv declares no input accumulator for the generic rule"}
	}
	return &Contrib{Terms: []Term{{In: ins[0], Src: send.OutVar(), Op: Linear, Wt: con.Wt}}}, nil
}

// Conductance is a named rule turning the connection into a
// conductance synapse onto the recv membrane potential V: the Rev
// connection parameter sets the reversal potential (default 0).
func Conductance(con *Con, send, recv Blox) (*Contrib, error) {
	ins := recv.InVars()
	if len(ins) == 0 {
		return nil, &ResolveError{Send: con.Send.Name(), Recv: con.Recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "recv declares no input accumulator for the Cond rule"}
	}
	return &Contrib{Terms: []Term{{In: ins[0], Src: send.OutVar(), Op: Cond, Wt: con.Wt, Rev: con.Par("Rev", 0), Mod: "V"}}}, nil
}

// StdRules is the default rule table.  Model packages register their
// kind-pair rules into it at init, mirroring type registration; a
// different table can be threaded explicitly via CompileParams.Rules.
var StdRules = NewRules()

func init() {
	StdRules.Add(AnyKind, AnyKind, Generic)
	StdRules.AddNamed("Linear", Generic)
	StdRules.AddNamed("Cond", Conductance)
}
