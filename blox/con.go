// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

// Con is one directed, weighted connection between two components.
// It records intent only -- what the connection contributes to the
// compiled system is decided by the rule table at compile time, and
// neither endpoint is ever mutated by resolution.
type Con struct {
	Send Blox               `desc:"sending component"`
	Recv Blox               `desc:"receiving component"`
	Wt   float32            `desc:"connection weight (gain or conductance, per the resolving rule)"`
	Rule string             `desc:"optional named rule selector, overriding kind-pair dispatch"`
	Pars map[string]float64 `desc:"optional named rule constants (e.g. Rev to override a reversal potential)"`
	Cls  string             `desc:"class label for bookkeeping"`
}

// NewCon validates and creates a connection.  Connections into a
// Source are rejected here, before any compilation: sources have no
// inputs.  Self connections are rejected unless the component kind
// permits them.
func NewCon(send, recv Blox, wt float32) (*Con, error) {
	if recv.Kind().IsA(SourceKind) {
		return nil, &ResolveError{Send: send.Name(), Recv: recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "sources accept no input connections"}
	}
	if send == recv && !send.SelfCon() {
		return nil, &ResolveError{Send: send.Name(), Recv: recv.Name(), SendKind: send.Kind(), RecvKind: recv.Kind(), Msg: "self connection not permitted by this kind"}
	}
	return &Con{Send: send, Recv: recv, Wt: wt}, nil
}

// SetClass sets the class label and returns the connection, for
// chaining at wiring time.
func (cn *Con) SetClass(cls string) *Con {
	cn.Cls = cls
	return cn
}

// SetPar sets one named rule constant, allocating the map on first
// use, and returns the connection for chaining.
func (cn *Con) SetPar(nm string, val float64) *Con {
	if cn.Pars == nil {
		cn.Pars = make(map[string]float64)
	}
	cn.Pars[nm] = val
	return cn
}

// Par returns the named rule constant as a float32, or def if unset.
func (cn *Con) Par(nm string, def float32) float32 {
	if cn.Pars == nil {
		return def
	}
	if v, has := cn.Pars[nm]; has {
		return float32(v)
	}
	return def
}
