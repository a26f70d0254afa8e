// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/blox/blox"
)

const difTol = float32(1.0e-6)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	for i := range got {
		dif := math32.Abs(got[i] - trg[i])
		if dif > difTol {
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestDefaults(t *testing.T) {
	nr := NewNeuron("N")
	if nr.Kind() != NeuronK {
		t.Errorf("kind err: got: %v, trg: %v\n", nr.Kind(), NeuronK)
	}
	lp := nr.LIF
	CmprFloats([]float32{lp.C, lp.GL, lp.EL, lp.Thr, lp.Vres, lp.STau, lp.SAmp, lp.ERev, lp.I, lp.SDt},
		[]float32{500, 25, -70, -50, -55, 2, 1, 0, 0, 0.5}, "exci defaults", t)

	in := NewInhib("I")
	if in.Kind() != InhibK || !in.Kind().IsA(NeuronK) {
		t.Errorf("inhib kind err: got: %v\n", in.Kind())
	}
	CmprFloats([]float32{in.LIF.ERev, in.LIF.STau, in.LIF.SDt}, []float32{-70, 5, 0.2}, "inhib preset", t)
}

func TestVars(t *testing.T) {
	nr := NewNeuron("N")
	vrs := nr.Vars()
	if len(vrs) != NVars {
		t.Fatalf("nvars err: got: %v, trg: %v\n", len(vrs), NVars)
	}
	if vrs[V].Nm != "V" || vrs[V].Role != blox.InternalVar {
		t.Errorf("V var err: %+v\n", vrs[V])
	}
	if vrs[S].Nm != "S" || vrs[S].Role != blox.OutputVar || vrs[S].Init != 0 {
		t.Errorf("S var err: %+v\n", vrs[S])
	}
	if vrs[Jcn].Nm != "Jcn" || vrs[Jcn].Role != blox.InputVar {
		t.Errorf("Jcn var err: %+v\n", vrs[Jcn])
	}
	CmprFloats([]float32{vrs[V].Init}, []float32{-70}, "rest init", t)
	if nr.OutVar() != "S" || nr.SpikeVar() != "V" {
		t.Errorf("out var err: got: %v / %v, trg: S / V\n", nr.OutVar(), nr.SpikeVar())
	}
}

func TestDeriv(t *testing.T) {
	nr := NewNeuron("N")
	dx := make([]float32, NVars)
	nr.Dyn().Deriv(0, []float32{-70, 0, 0}, []float32{0}, dx)
	CmprFloats(dx[:2], []float32{0, 0}, "rest deriv", t)
	nr.Dyn().Deriv(0, []float32{-70, 2, 0}, []float32{500}, dx)
	CmprFloats(dx[:2], []float32{1, -1}, "driven deriv", t)
}

func TestEvents(t *testing.T) {
	nr := NewNeuron("N")
	evs := nr.Events()
	if len(evs) != 1 {
		t.Fatalf("events err: got: %v, trg: 1\n", len(evs))
	}
	ev := evs[0]
	if ev.Var != "V" || ev.OnSend {
		t.Errorf("event var err: %+v\n", ev)
	}
	if len(ev.Effects) != 2 || ev.Effects[0].Op != blox.OpSet || ev.Effects[1].Op != blox.OpAdd {
		t.Fatalf("effects err: %+v\n", ev.Effects)
	}
	if ev.Effects[0].Var != "V" || ev.Effects[1].Var != "S" {
		t.Errorf("effect vars err: %+v\n", ev.Effects)
	}
	CmprFloats([]float32{ev.Thr, ev.Effects[0].Val, ev.Effects[1].Val},
		[]float32{-50, -55, 1}, "reset vals", t)
}

func TestCondRule(t *testing.T) {
	send := NewExci("A")
	recv := NewExci("B")
	cb, err := CondRule(&blox.Con{Send: send, Recv: recv, Wt: 1.5}, send, recv)
	if err != nil {
		t.Fatal(err)
	}
	if len(cb.Terms) != 1 || len(cb.Events) != 0 {
		t.Fatalf("contrib err: got: %v terms, %v events, trg: 1, 0\n", len(cb.Terms), len(cb.Events))
	}
	tm := cb.Terms[0]
	if tm.In != "Jcn" || tm.Src != "S" || tm.Op != blox.Cond || tm.Mod != "V" {
		t.Errorf("term err: %+v\n", tm)
	}
	CmprFloats([]float32{tm.Wt, tm.Rev}, []float32{1.5, 0}, "exci term", t)

	inh := NewInhib("I")
	cb, err = CondRule(&blox.Con{Send: inh, Recv: recv, Wt: 2}, inh, recv)
	if err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{cb.Terms[0].Rev}, []float32{-70}, "inhib reversal", t)

	con := (&blox.Con{Send: send, Recv: recv, Wt: 1}).SetPar("Rev", -30)
	cb, err = CondRule(con, send, recv)
	if err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{cb.Terms[0].Rev}, []float32{-30}, "reversal override", t)
}

func TestCompileCons(t *testing.T) {
	gr := blox.NewGraph("Pair")
	a := NewExci("A")
	b := NewExci("B")
	if err := gr.AddBlox(a); err != nil {
		t.Fatal(err)
	}
	if err := gr.AddBlox(b); err != nil {
		t.Fatal(err)
	}
	if _, err := gr.Connect(a, b, 1.5); err != nil {
		t.Fatal(err)
	}
	sys, err := gr.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sys.Events) != 2 { // local resets only: conductance coupling has no events
		t.Errorf("events err: got: %v, trg: 2\n", len(sys.Events))
	}
	ji, err := sys.VarByNameTry("B.Jcn")
	if err != nil {
		t.Fatal(err)
	}
	si, _ := sys.VarByNameTry("A.S")
	vi, _ := sys.VarByNameTry("B.V")
	found := false
	for _, ac := range sys.Accums {
		if ac.Var != ji {
			continue
		}
		found = true
		if len(ac.Terms) != 1 {
			t.Fatalf("accum terms err: got: %v, trg: 1\n", len(ac.Terms))
		}
		tm := ac.Terms[0]
		if tm.Op != blox.Cond || tm.SrcIdx != si || tm.ModIdx != vi {
			t.Errorf("compiled term err: %+v\n", tm)
		}
		CmprFloats([]float32{tm.Wt, tm.Rev}, []float32{1.5, 0}, "compiled term", t)
	}
	if !found {
		t.Errorf("no accumulator for B.Jcn\n")
	}
}

func TestFactory(t *testing.T) {
	b, err := blox.New("LIF", "N1", blox.Config{"i": 100, "stau": 4})
	if err != nil {
		t.Fatal(err)
	}
	nr := b.(*Neuron)
	CmprFloats([]float32{nr.LIF.I, nr.LIF.STau, nr.LIF.SDt}, []float32{100, 4, 0.25}, "factory opts", t)

	b, err = blox.New("LIFInhib", "N2", nil)
	if err != nil {
		t.Fatal(err)
	}
	CmprFloats([]float32{b.(*Neuron).LIF.ERev}, []float32{-70}, "factory inhib", t)

	_, err = blox.New("LIF", "N3", blox.Config{"tau": 1})
	if err == nil {
		t.Errorf("unknown option should have failed\n")
	}
	if _, ok := err.(*blox.ConfigError); !ok {
		t.Errorf("err type err: got: %T, trg: *blox.ConfigError\n", err)
	}
}
