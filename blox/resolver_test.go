// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"testing"
)

func dummyRule(con *Con, send, recv Blox) (*Contrib, error) {
	return &Contrib{}, nil
}

func TestRuleForPrecedence(t *testing.T) {
	rl := NewRules()
	rl.Add(testSubK, testFamK, dummyRule)
	rl.Add(testFamK, testSubK, dummyRule)

	// recv falls back before send does: (Sub,Sub) has no exact rule, and
	// the send-side Sub registration must win over the Fam one
	_, key, has := rl.RuleFor(testSubK, testSubK)
	if !has {
		t.Fatalf("rule should have resolved")
	}
	if key != (RuleKey{Send: testSubK, Recv: testFamK}) {
		t.Errorf("fallback key err: got: %v, trg: {%v %v}", key, testSubK, testFamK)
	}

	_, key, has = rl.RuleFor(testFamK, testSubK)
	if !has {
		t.Fatalf("rule should have resolved")
	}
	if key != (RuleKey{Send: testFamK, Recv: testSubK}) {
		t.Errorf("exact key err: got: %v", key)
	}

	// exact pair beats any fallback once registered
	rl.Add(testSubK, testSubK, dummyRule)
	_, key, _ = rl.RuleFor(testSubK, testSubK)
	if key != (RuleKey{Send: testSubK, Recv: testSubK}) {
		t.Errorf("exact pair should win: got: %v", key)
	}

	// no generic in this table: unrelated pair does not resolve
	if _, _, has := rl.RuleFor(SourceKind, NeuralMassKind); has {
		t.Errorf("pair should not have resolved without a generic rule")
	}
	rl.Add(AnyKind, AnyKind, dummyRule)
	_, key, has = rl.RuleFor(SourceKind, NeuralMassKind)
	if !has || key != (RuleKey{Send: AnyKind, Recv: AnyKind}) {
		t.Errorf("generic fallback err: got: %v has: %v", key, has)
	}
}

func TestResolveGeneric(t *testing.T) {
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	con, err := NewCon(ua, ub, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ctb, err := StdRules.Resolve(con)
	if err != nil {
		t.Fatal(err)
	}
	if len(ctb.Terms) != 1 {
		t.Fatalf("terms err: got: %v, trg: 1", len(ctb.Terms))
	}
	tm := ctb.Terms[0]
	if tm.Op != Linear || tm.In != "Jcn" || tm.Src != "V" {
		t.Errorf("generic term err: got: %+v", tm)
	}
	CmprFloats([]float32{tm.Wt}, []float32{0.5}, "generic wt", t)
}

func TestResolveNamed(t *testing.T) {
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	con, _ := NewCon(ua, ub, 2)
	con.Rule = "Cond"
	con.SetPar("Rev", -70)
	ctb, err := StdRules.Resolve(con)
	if err != nil {
		t.Fatal(err)
	}
	if len(ctb.Terms) != 1 {
		t.Fatalf("terms err: got: %v, trg: 1", len(ctb.Terms))
	}
	tm := ctb.Terms[0]
	if tm.Op != Cond || tm.Mod != "V" {
		t.Errorf("cond term err: got: %+v", tm)
	}
	CmprFloats([]float32{tm.Wt, tm.Rev}, []float32{2, -70}, "cond wt rev", t)

	con.Rule = "NoSuchRule"
	if _, err := StdRules.Resolve(con); err == nil {
		t.Errorf("unknown named rule should have failed")
	} else if _, ok := err.(*ResolveError); !ok {
		t.Errorf("wrong error type: %T", err)
	}
}

func TestResolveNamedOverridesPair(t *testing.T) {
	rl := NewRules()
	rl.Add(AnyKind, AnyKind, func(con *Con, send, recv Blox) (*Contrib, error) {
		return &Contrib{Terms: []Term{{Op: Linear, Wt: con.Wt}, {Op: Linear, Wt: con.Wt}}}, nil
	})
	rl.AddNamed("Single", Generic)
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	con, _ := NewCon(ua, ub, 1)
	ctb, err := rl.Resolve(con)
	if err != nil {
		t.Fatal(err)
	}
	if len(ctb.Terms) != 2 {
		t.Errorf("pair rule should have applied: got %v terms", len(ctb.Terms))
	}
	con.Rule = "Single"
	ctb, err = rl.Resolve(con)
	if err != nil {
		t.Fatal(err)
	}
	if len(ctb.Terms) != 1 {
		t.Errorf("named rule should have overridden pair dispatch: got %v terms", len(ctb.Terms))
	}
}

// testOutOnly has an output but no input accumulator.
type testOutOnly struct {
	BloxStru
}

func newTestOutOnly(name string) *testOutOnly {
	to := &testOutOnly{}
	to.InitName(to, name)
	to.Knd = NeuronKind
	return to
}

func (to *testOutOnly) Defaults()     {}
func (to *testOutOnly) UpdateParams() {}

func (to *testOutOnly) Vars() []Var {
	return []Var{{Nm: "V", Role: OutputVar}}
}

func (to *testOutOnly) OutVar() string { return "V" }

func TestResolveNoAccum(t *testing.T) {
	ua := newTestUnit("A")
	to := newTestOutOnly("O")
	con, err := NewCon(ua, to, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := StdRules.Resolve(con); err == nil {
		t.Errorf("recv without accumulator should have failed the generic rule")
	} else if _, ok := err.(*ResolveError); !ok {
		t.Errorf("wrong error type: %T", err)
	}
}

func TestResolveSourceRecv(t *testing.T) {
	ua := newTestUnit("A")
	src := newTestSrc("Src", 1)
	con := &Con{Send: ua, Recv: src, Wt: 1}
	if _, err := StdRules.Resolve(con); err == nil {
		t.Errorf("resolution into a source should have failed")
	}
}
