// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package circuit provides composed multi-component models: the WTA
winner-take-all microcircuit as a single composite component, and the
AddDecisionNet builder that wires a two-pool spiking decision network
into a graph using projection patterns.
*/
package circuit

import (
	"fmt"

	"github.com/emer/blox/blox"
	"github.com/emer/blox/izhi"
	"github.com/goki/ki/kit"
)

// WTAK is the winner-take-all microcircuit kind.
var WTAK = blox.NewKind("WTA", blox.CompositeKind)

func init() {
	blox.RegisterFactory(WTAK, func(name string, cfg blox.Config) (blox.Blox, error) {
		if !cfg.Has("n") {
			return nil, &blox.ConfigError{Blox: name, Kind: WTAK.String(), Opt: "n", Msg: "required option missing"}
		}
		if bad := cfg.Unknown("n", "wtei", "wtie"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: WTAK.String(), Opt: bad, Msg: "unknown option"}
		}
		n := int(cfg.Opt("n", 0))
		if n < 1 {
			return nil, &blox.ConfigError{Blox: name, Kind: WTAK.String(), Opt: "n", Msg: "must be at least 1"}
		}
		pr := WTAParams{}
		pr.Defaults()
		pr.WtEI = cfg.Opt("wtei", pr.WtEI)
		pr.WtIE = cfg.Opt("wtie", pr.WtIE)
		return NewWTA(name, n, &pr)
	})
}

// WTAParams configure the winner-take-all microcircuit weights.
type WTAParams struct {
	WtEI float32 `def:"4" min:"0" desc:"weight from each excitatory cell to the shared interneuron"`
	WtIE float32 `def:"4" min:"0" desc:"weight from the interneuron back to each excitatory cell"`
}

func (wp *WTAParams) Defaults() {
	wp.WtEI = 4
	wp.WtIE = 4
}

func (wp *WTAParams) Update() {
}

// WTA is a winner-take-all microcircuit composite: n excitatory izhi
// cells all driving one shared fast-spiking interneuron, which inhibits
// them all back.  External input to the WTA fans out to every excitatory
// cell, and the first cell is the designated output.
type WTA struct {
	blox.CompositeStru
	Pars  WTAParams      `view:"inline" desc:"microcircuit weights"`
	Exci  []*izhi.Neuron `desc:"the excitatory cells, Unit0..UnitN-1"`
	Inhib *izhi.Neuron   `desc:"the shared fast-spiking interneuron"`
}

var KiT_WTA = kit.Types.AddType(&WTA{}, nil)

// NewWTA returns a new winner-take-all microcircuit with n excitatory
// cells.  nil pars uses defaults.
func NewWTA(name string, n int, pars *WTAParams) (*WTA, error) {
	if n < 1 {
		return nil, fmt.Errorf("circuit.NewWTA: %v: must have at least 1 excitatory cell", name)
	}
	wt := &WTA{}
	wt.InitName(wt, name)
	wt.Knd = WTAK
	wt.Pars.Defaults()
	if pars != nil {
		wt.Pars = *pars
	}
	wt.Inhib = izhi.NewInhib("Inhib")
	if err := wt.AddSub(wt.Inhib); err != nil {
		return nil, err
	}
	wt.Exci = make([]*izhi.Neuron, n)
	ins := make([]blox.Blox, n)
	for i := range wt.Exci {
		ex := izhi.NewExci(fmt.Sprintf("Unit%d", i))
		wt.Exci[i] = ex
		ins[i] = ex
		if err := wt.AddSub(ex); err != nil {
			return nil, err
		}
		if _, err := wt.ConnectSub(ex, wt.Inhib, wt.Pars.WtEI); err != nil {
			return nil, err
		}
		if _, err := wt.ConnectSub(wt.Inhib, ex, wt.Pars.WtIE); err != nil {
			return nil, err
		}
	}
	wt.SetIns(ins...)
	wt.SetOut(wt.Exci[0])
	return wt, nil
}

func (wt *WTA) Defaults() {
	wt.Pars.Defaults()
}

func (wt *WTA) UpdateParams() {
	wt.Pars.Update()
}

func (wt *WTA) TypeName() string {
	return "WTA"
}

// N returns the number of excitatory cells.
func (wt *WTA) N() int {
	return len(wt.Exci)
}
