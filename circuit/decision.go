// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"fmt"

	"github.com/emer/blox/blox"
	"github.com/emer/blox/lif"
	"github.com/emer/blox/source"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// DecisionParams configure the two-alternative decision network: two
// selective excitatory pools competing through a shared inhibitory pool,
// driven by background noise and a coherence-biased stimulus.
type DecisionParams struct {
	N        int     `def:"8" min:"1" desc:"neurons per selective pool"`
	NInhib   int     `def:"4" min:"1" desc:"neurons in the shared inhibitory pool"`
	WPlus    float32 `def:"1.6" desc:"recurrent weight within a selective pool, in nS"`
	WMinus   float32 `def:"0.5" desc:"weight across the selective pools"`
	WEI      float32 `def:"1" desc:"weight from excitatory cells to the inhibitory pool"`
	WIE      float32 `def:"1.5" desc:"weight from the inhibitory pool back to excitatory cells"`
	PCon     float32 `def:"0.5" min:"0" max:"1" desc:"connection probability from excitatory cells to the inhibitory pool"`
	BgRate   float32 `def:"1800" desc:"background input rate per cell in Hz"`
	BgWt     float32 `def:"1" desc:"background input conductance in nS"`
	StimRate float32 `def:"400" desc:"baseline stimulus rate in Hz, biased by Coher"`
	StimWt   float32 `def:"1.5" desc:"stimulus input conductance in nS"`
	Coher    float32 `def:"0.3" min:"-1" max:"1" desc:"stimulus coherence: pool A gets StimRate*(1+Coher), pool B StimRate*(1-Coher)"`
	Seed     int64   `def:"42" desc:"base random seed for stimulus, background, and connectivity"`
}

func (dp *DecisionParams) Defaults() {
	dp.N = 8
	dp.NInhib = 4
	dp.WPlus = 1.6
	dp.WMinus = 0.5
	dp.WEI = 1
	dp.WIE = 1.5
	dp.PCon = 0.5
	dp.BgRate = 1800
	dp.BgWt = 1
	dp.StimRate = 400
	dp.StimWt = 1.5
	dp.Coher = 0.3
	dp.Seed = 42
}

func (dp *DecisionParams) Update() {
}

// DecisionNet holds the handles to the components AddDecisionNet added.
type DecisionNet struct {
	A     []*lif.Neuron        `desc:"selective pool A"`
	B     []*lif.Neuron        `desc:"selective pool B"`
	Inhib []*lif.Neuron        `desc:"shared inhibitory pool"`
	StimA *source.SpikeTrain   `desc:"stimulus to pool A"`
	StimB *source.SpikeTrain   `desc:"stimulus to pool B"`
	Bg    []*source.SpikeTrain `desc:"per-cell background inputs"`
}

// ConnectPops connects two cell populations through a projection
// pattern evaluated over their 1D shapes, creating one graph connection
// per pattern bit.  same must be true when send and recv are the same
// population, so patterns can exclude self connections.
func ConnectPops(gr *blox.Graph, send, recv []blox.Blox, pat prjn.Pattern, same bool, wt float32, cls string) ([]*blox.Con, error) {
	ssh := etensor.NewShape([]int{len(send)}, nil, nil)
	rsh := etensor.NewShape([]int{len(recv)}, nil, nil)
	_, _, cons := pat.Connect(ssh, rsh, same)
	cbits := cons.Values
	var cns []*blox.Con
	for ri := range recv {
		rbi := ri * len(send)
		for si := range send {
			if !cbits.Index(rbi + si) {
				continue
			}
			cn, err := gr.Connect(send[si], recv[ri], wt)
			if err != nil {
				return nil, err
			}
			if cls != "" {
				cn.SetClass(cls)
			}
			cns = append(cns, cn)
		}
	}
	return cns, nil
}

// AddDecisionNet adds a two-alternative decision network to the graph,
// with component names starting with prefix.  nil pars uses defaults.
func AddDecisionNet(gr *blox.Graph, prefix string, pars *DecisionParams) (*DecisionNet, error) {
	dp := &DecisionParams{}
	dp.Defaults()
	if pars != nil {
		*dp = *pars
	}
	if dp.N < 1 || dp.NInhib < 1 {
		return nil, fmt.Errorf("circuit.AddDecisionNet: %v: pool sizes must be at least 1", prefix)
	}
	dn := &DecisionNet{}

	addPool := func(nm string, n int, inhib bool) ([]*lif.Neuron, []blox.Blox, error) {
		cells := make([]*lif.Neuron, n)
		gens := make([]blox.Blox, n)
		for i := range cells {
			var nr *lif.Neuron
			if inhib {
				nr = lif.NewInhib(fmt.Sprintf("%s%s%d", prefix, nm, i))
			} else {
				nr = lif.NewExci(fmt.Sprintf("%s%s%d", prefix, nm, i))
			}
			nr.SetClass(nm)
			if err := gr.AddBlox(nr); err != nil {
				return nil, nil, err
			}
			cells[i] = nr
			gens[i] = nr
		}
		return cells, gens, nil
	}

	var ga, gb, gi []blox.Blox
	var err error
	if dn.A, ga, err = addPool("A", dp.N, false); err != nil {
		return nil, err
	}
	if dn.B, gb, err = addPool("B", dp.N, false); err != nil {
		return nil, err
	}
	if dn.Inhib, gi, err = addPool("I", dp.NInhib, true); err != nil {
		return nil, err
	}
	exci := append(append([]blox.Blox{}, ga...), gb...)

	full := prjn.NewFull()
	rec := prjn.NewFull()
	rec.SelfCon = false
	toInhib := prjn.NewUnifRnd()
	toInhib.PCon = dp.PCon
	toInhib.RndSeed = dp.Seed

	if _, err = ConnectPops(gr, ga, ga, rec, true, dp.WPlus, "Rec"); err != nil {
		return nil, err
	}
	if _, err = ConnectPops(gr, gb, gb, rec, true, dp.WPlus, "Rec"); err != nil {
		return nil, err
	}
	if _, err = ConnectPops(gr, ga, gb, full, false, dp.WMinus, "Cross"); err != nil {
		return nil, err
	}
	if _, err = ConnectPops(gr, gb, ga, full, false, dp.WMinus, "Cross"); err != nil {
		return nil, err
	}
	if _, err = ConnectPops(gr, exci, gi, toInhib, false, dp.WEI, "ToInhib"); err != nil {
		return nil, err
	}
	if _, err = ConnectPops(gr, gi, exci, full, false, dp.WIE, "FmInhib"); err != nil {
		return nil, err
	}

	addStim := func(nm string, rate float32, seed int64, pool []blox.Blox) (*source.SpikeTrain, error) {
		st := source.NewPoisson(prefix+nm, rate)
		st.Train.Seed = seed
		st.SetClass("Stim")
		if err := gr.AddBlox(st); err != nil {
			return nil, err
		}
		for _, nr := range pool {
			if _, err := gr.ConnectRule(st, nr, dp.StimWt, "Cond"); err != nil {
				return nil, err
			}
		}
		return st, nil
	}
	if dn.StimA, err = addStim("StimA", dp.StimRate*(1+dp.Coher), dp.Seed+1, ga); err != nil {
		return nil, err
	}
	if dn.StimB, err = addStim("StimB", dp.StimRate*(1-dp.Coher), dp.Seed+2, gb); err != nil {
		return nil, err
	}

	all := append(append([]blox.Blox{}, exci...), gi...)
	dn.Bg = make([]*source.SpikeTrain, len(all))
	for i, nr := range all {
		bg := source.NewPoisson(fmt.Sprintf("%sBg%d", prefix, i), dp.BgRate)
		bg.Train.Seed = dp.Seed + 100 + int64(i)
		bg.SetClass("Bg")
		if err := gr.AddBlox(bg); err != nil {
			return nil, err
		}
		if _, err := gr.ConnectRule(bg, nr, dp.BgWt, "Cond"); err != nil {
			return nil, err
		}
		dn.Bg[i] = bg
	}
	return dn, nil
}
