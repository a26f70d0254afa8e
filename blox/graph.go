// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"fmt"
	"log"

	"github.com/emer/emergent/params"
)

// Graph is an ordered collection of components and the directed,
// weighted connections between them.  It is the mutable builder
// surface: add components, connect them, style parameters, then
// Compile into an immutable System for integration.
type Graph struct {
	Nm      string          `desc:"name of the graph, used in error messages and reports"`
	Bloxs   []Blox          `desc:"components, in insertion order"`
	BloxMap map[string]Blox `view:"-" desc:"map of components by name, for quick lookup"`
	Cons    []*Con          `desc:"connections, in insertion order"`
}

// NewGraph returns a new named, empty graph.
func NewGraph(name string) *Graph {
	gr := &Graph{Nm: name}
	gr.BloxMap = make(map[string]Blox)
	return gr
}

func (gr *Graph) Name() string { return gr.Nm }

// NBloxs returns the number of components.
func (gr *Graph) NBloxs() int { return len(gr.Bloxs) }

// AddBlox adds a component to the graph.  Component names must be
// unique within the graph.
func (gr *Graph) AddBlox(b Blox) error {
	if gr.BloxMap == nil {
		gr.BloxMap = make(map[string]Blox)
	}
	if _, has := gr.BloxMap[b.Name()]; has {
		return fmt.Errorf("Graph.AddBlox: graph: %v already has a component named: %v", gr.Nm, b.Name())
	}
	gr.Bloxs = append(gr.Bloxs, b)
	gr.BloxMap[b.Name()] = b
	return nil
}

// BloxByNameTry returns the named component, or an error if not found.
func (gr *Graph) BloxByNameTry(name string) (Blox, error) {
	b, has := gr.BloxMap[name]
	if !has {
		return nil, fmt.Errorf("Graph.BloxByNameTry: graph: %v component named: %v not found", gr.Nm, name)
	}
	return b, nil
}

// BloxByName returns the named component -- logs and returns nil if
// not found.  Use BloxByNameTry for error handling.
func (gr *Graph) BloxByName(name string) Blox {
	b, err := gr.BloxByNameTry(name)
	if err != nil {
		log.Println(err)
	}
	return b
}

// Connect connects two components with the given weight.  The
// connection is validated immediately: edges into a Source and
// unpermitted self connections are rejected here, before any compile.
// Returns the connection for further option setting.
func (gr *Graph) Connect(send, recv Blox, wt float32) (*Con, error) {
	con, err := NewCon(send, recv, wt)
	if err != nil {
		return nil, err
	}
	gr.Cons = append(gr.Cons, con)
	return con, nil
}

// ConnectRule connects two components through a named rule, bypassing
// kind-pair dispatch for this connection.
func (gr *Graph) ConnectRule(send, recv Blox, wt float32, rule string) (*Con, error) {
	con, err := gr.Connect(send, recv, wt)
	if err != nil {
		return nil, err
	}
	con.Rule = rule
	return con, nil
}

// ConnectNames connects components looked up by name.
func (gr *Graph) ConnectNames(send, recv string, wt float32) (*Con, error) {
	sb, err := gr.BloxByNameTry(send)
	if err != nil {
		return nil, err
	}
	rb, err := gr.BloxByNameTry(recv)
	if err != nil {
		return nil, err
	}
	return gr.Connect(sb, rb, wt)
}

// ApplyParams applies the given parameter style Sheet to the
// components in this graph.  Returns true if any parameter was set,
// and error for any errors.
func (gr *Graph) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, b := range gr.Bloxs {
		app, err := b.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}
