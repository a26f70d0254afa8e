// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"fmt"

	"github.com/emer/emergent/params"
)

// Composite is a component that contains an inner graph of
// sub-components.  Compilation expands it in place: children are
// registered under dot-prefixed names (Circuit.Cell.V), internal
// connections are resolved through the same rule table as top-level
// ones, and external edges are rerouted -- an edge INTO the composite
// fans out to each of its declared input children, an edge FROM the
// composite departs from its designated output child.
type Composite interface {
	Blox

	// SubBloxs returns the children, in insertion order.
	SubBloxs() []Blox

	// SubCons returns the internal connections, in insertion order.
	SubCons() []*Con

	// InBloxs returns the children that receive edges made to the
	// composite as a whole.
	InBloxs() []Blox

	// OutBlox returns the child providing the composite's designated
	// output, used for edges departing from the composite as a whole.
	OutBlox() Blox
}

// CompositeStru manages the inner graph of a composite component.
// Concrete composites (e.g. circuit.WTA) embed this and populate it in
// their constructors.
type CompositeStru struct {
	BloxStru
	Subs   []Blox          `desc:"children, in insertion order"`
	SubMap map[string]Blox `view:"-" desc:"map of children by name"`
	Cons   []*Con          `desc:"internal connections"`
	Ins    []Blox          `desc:"children receiving external input edges"`
	Out    Blox            `desc:"child providing the designated output"`
}

// AddSub adds a child component.  Child names must be unique within
// the composite.
func (cs *CompositeStru) AddSub(b Blox) error {
	if cs.SubMap == nil {
		cs.SubMap = make(map[string]Blox)
	}
	if _, has := cs.SubMap[b.Name()]; has {
		return fmt.Errorf("CompositeStru.AddSub: composite: %v already has a child named: %v", cs.Nm, b.Name())
	}
	cs.Subs = append(cs.Subs, b)
	cs.SubMap[b.Name()] = b
	return nil
}

// SubByNameTry returns the named child, or an error.
func (cs *CompositeStru) SubByNameTry(name string) (Blox, error) {
	b, has := cs.SubMap[name]
	if !has {
		return nil, fmt.Errorf("CompositeStru.SubByNameTry: composite: %v has no child named: %v", cs.Nm, name)
	}
	return b, nil
}

// ConnectSub connects two children with the given weight, with the
// same validation as Graph.Connect.
func (cs *CompositeStru) ConnectSub(send, recv Blox, wt float32) (*Con, error) {
	con, err := NewCon(send, recv, wt)
	if err != nil {
		return nil, err
	}
	cs.Cons = append(cs.Cons, con)
	return con, nil
}

// SetOut designates the output child.
func (cs *CompositeStru) SetOut(b Blox) { cs.Out = b }

// SetIns designates the input children.
func (cs *CompositeStru) SetIns(bs ...Blox) { cs.Ins = bs }

func (cs *CompositeStru) SubBloxs() []Blox { return cs.Subs }
func (cs *CompositeStru) SubCons() []*Con  { return cs.Cons }
func (cs *CompositeStru) InBloxs() []Blox  { return cs.Ins }
func (cs *CompositeStru) OutBlox() Blox    { return cs.Out }

// Composites have no state variables of their own -- everything lives
// on the children.
func (cs *CompositeStru) Vars() []Var { return nil }

func (cs *CompositeStru) OutVar() string {
	if cs.Out == nil {
		return ""
	}
	return cs.Out.OutVar()
}

// ApplyParams applies the sheet to the composite itself and then to each
// child, so selectors reach into composite members.
func (cs *CompositeStru) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied, rerr := cs.BloxStru.ApplyParams(pars, setMsg)
	for _, sb := range cs.Subs {
		app, err := sb.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}
