// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"reflect"
	"sort"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
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

// testUnit is a minimal leaky unit: V' = -V / Tau + Jcn.
type testUnit struct {
	BloxStru
	Tau float32
	V0  float32
}

type testUnitDyn struct {
	Dt float32
}

func (td testUnitDyn) Deriv(t float32, x, in, dx []float32) {
	dx[0] = -x[0]*td.Dt + in[0]
}

func newTestUnit(name string) *testUnit {
	tu := &testUnit{}
	tu.InitName(tu, name)
	tu.Knd = NeuronKind
	tu.Defaults()
	return tu
}

func (tu *testUnit) Defaults()     { tu.Tau = 10 }
func (tu *testUnit) UpdateParams() {}

func (tu *testUnit) Vars() []Var {
	return []Var{
		{Nm: "V", Role: OutputVar, Init: tu.V0},
		{Nm: "Jcn", Role: InputVar},
	}
}

func (tu *testUnit) OutVar() string   { return "V" }
func (tu *testUnit) InVars() []string { return []string{"Jcn"} }
func (tu *testUnit) Dyn() Dynamics    { return testUnitDyn{Dt: 1 / tu.Tau} }

// testSrc is a minimal source: one output held at its initial level.
type testSrc struct {
	BloxStru
	Level float32
}

func newTestSrc(name string, level float32) *testSrc {
	ts := &testSrc{}
	ts.InitName(ts, name)
	ts.Knd = SourceKind
	ts.Level = level
	return ts
}

func (ts *testSrc) Defaults()     {}
func (ts *testSrc) UpdateParams() {}

func (ts *testSrc) Vars() []Var {
	return []Var{
		{Nm: "U", Role: OutputVar, Init: ts.Level},
	}
}

func (ts *testSrc) OutVar() string { return "U" }

// testComp is a bare composite wrapper.
type testComp struct {
	CompositeStru
}

func newTestComp(name string) *testComp {
	tc := &testComp{}
	tc.InitName(tc, name)
	tc.Knd = CompositeKind
	return tc
}

func (tc *testComp) Defaults()     {}
func (tc *testComp) UpdateParams() {}

func TestGraphAdd(t *testing.T) {
	gr := NewGraph("TestAdd")
	ua := newTestUnit("A")
	if err := gr.AddBlox(ua); err != nil {
		t.Error(err)
	}
	if err := gr.AddBlox(newTestUnit("A")); err == nil {
		t.Errorf("duplicate name should have failed")
	}
	if gr.NBloxs() != 1 {
		t.Errorf("NBloxs err: got: %v, trg: 1", gr.NBloxs())
	}
	if _, err := gr.BloxByNameTry("B"); err == nil {
		t.Errorf("unknown name should have failed")
	}
}

func TestConnectValidation(t *testing.T) {
	gr := NewGraph("TestCon")
	ua := newTestUnit("A")
	src := newTestSrc("Src", 1)
	gr.AddBlox(ua)
	gr.AddBlox(src)
	if _, err := gr.Connect(ua, src, 1); err == nil {
		t.Errorf("connection into a source should have failed")
	} else if _, ok := err.(*ResolveError); !ok {
		t.Errorf("wrong error type: %T", err)
	}
	if _, err := gr.Connect(ua, ua, 1); err == nil {
		t.Errorf("self connection should have failed")
	}
	if _, err := gr.Connect(src, ua, 0.5); err != nil {
		t.Error(err)
	}
}

func TestCompileBasic(t *testing.T) {
	gr := NewGraph("TestBasic")
	ua := newTestUnit("A")
	src := newTestSrc("Src", 2)
	gr.AddBlox(ua)
	gr.AddBlox(src)
	gr.Connect(src, ua, 1.5)

	sys, err := gr.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if sys.NVars() != 3 {
		t.Fatalf("NVars err: got: %v, trg: 3", sys.NVars())
	}
	vi, err := sys.VarByNameTry("A.V")
	if err != nil {
		t.Fatal(err)
	}
	ji, _ := sys.VarByNameTry("A.Jcn")
	ui, _ := sys.VarByNameTry("Src.U")
	x := sys.InitVec()
	CmprFloats([]float32{x[vi], x[ji], x[ui]}, []float32{0, 0, 2}, "init vec", t)

	if len(sys.Accums) != 1 {
		t.Fatalf("accums err: got: %v, trg: 1", len(sys.Accums))
	}
	ac := sys.Accums[0]
	if ac.Var != ji {
		t.Errorf("accum var err: got: %v, trg: %v", ac.Var, ji)
	}
	if len(ac.Terms) != 1 {
		t.Fatalf("terms err: got: %v, trg: 1", len(ac.Terms))
	}
	tm := ac.Terms[0]
	if tm.Op != Linear || tm.SrcIdx != ui {
		t.Errorf("term err: got op: %v src: %v, trg op: Linear src: %v", tm.Op, tm.SrcIdx, ui)
	}
	CmprFloats([]float32{tm.Wt}, []float32{1.5}, "term wt", t)

	if len(sys.Blocks) != 2 {
		t.Errorf("blocks err: got: %v, trg: 2", len(sys.Blocks))
	}
}

func makeChainGraph(name string, rev bool) *Graph {
	gr := NewGraph(name)
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	uc := newTestUnit("C")
	gr.AddBlox(ua)
	gr.AddBlox(ub)
	gr.AddBlox(uc)
	if rev {
		gr.Connect(uc, ua, 2)
		gr.Connect(ub, ua, 1)
	} else {
		gr.Connect(ub, ua, 1)
		gr.Connect(uc, ua, 2)
	}
	return gr
}

func TestCompileDeterminism(t *testing.T) {
	g1 := makeChainGraph("Det", false)
	g2 := makeChainGraph("Det", false)
	s1, err := g1.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := g2.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("identical graphs compiled to different systems")
	}
	s3, err := g1.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s1, s3) {
		t.Errorf("recompiling the same graph gave a different system")
	}
}

func TestCompileEdgeOrder(t *testing.T) {
	s1, err := makeChainGraph("Ord", false).Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := makeChainGraph("Ord", true).Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	// summed coupling is order independent: same term sets per accumulator
	if len(s1.Accums) != len(s2.Accums) {
		t.Fatalf("accum count err: got: %v, trg: %v", len(s2.Accums), len(s1.Accums))
	}
	for ai := range s1.Accums {
		t1 := append([]Term{}, s1.Accums[ai].Terms...)
		t2 := append([]Term{}, s2.Accums[ai].Terms...)
		sort.Slice(t1, func(i, j int) bool { return t1[i].SrcIdx < t1[j].SrcIdx })
		sort.Slice(t2, func(i, j int) bool { return t2[i].SrcIdx < t2[j].SrcIdx })
		if !reflect.DeepEqual(t1, t2) {
			t.Errorf("accum %v term sets differ: %v vs %v", ai, t1, t2)
		}
	}
}

func TestCompileOff(t *testing.T) {
	gr := NewGraph("TestOff")
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	uc := newTestUnit("C")
	gr.AddBlox(ua)
	gr.AddBlox(ub)
	gr.AddBlox(uc)
	gr.Connect(ub, ua, 1)
	gr.Connect(uc, ua, 2)
	ub.SetOff(true)

	sys, err := gr.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sys.VarByNameTry("B.V"); err == nil {
		t.Errorf("off component should not appear in the system")
	}
	ji, _ := sys.VarByNameTry("A.Jcn")
	for _, ac := range sys.Accums {
		if ac.Var != ji {
			continue
		}
		if len(ac.Terms) != 1 {
			t.Fatalf("off edge not skipped: %v terms", len(ac.Terms))
		}
		ci, _ := sys.VarByNameTry("C.V")
		if ac.Terms[0].SrcIdx != ci {
			t.Errorf("remaining term err: got src: %v, trg: %v", ac.Terms[0].SrcIdx, ci)
		}
	}
}

func TestCompileComposite(t *testing.T) {
	gr := NewGraph("TestComp")
	tc := newTestComp("C")
	u0 := newTestUnit("U0")
	u1 := newTestUnit("U1")
	if err := tc.AddSub(u0); err != nil {
		t.Fatal(err)
	}
	if err := tc.AddSub(u1); err != nil {
		t.Fatal(err)
	}
	if _, err := tc.ConnectSub(u0, u1, 2); err != nil {
		t.Fatal(err)
	}
	tc.SetIns(u0)
	tc.SetOut(u1)

	src := newTestSrc("Src", 1)
	ud := newTestUnit("D")
	gr.AddBlox(src)
	gr.AddBlox(tc)
	gr.AddBlox(ud)
	gr.Connect(src, tc, 3)
	gr.Connect(tc, ud, 4)

	sys, err := gr.Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	// children are namespaced, the composite itself holds no vars
	for _, nm := range []string{"C.U0.V", "C.U0.Jcn", "C.U1.V", "C.U1.Jcn", "D.V", "D.Jcn", "Src.U"} {
		if _, err := sys.VarByNameTry(nm); err != nil {
			t.Error(err)
		}
	}
	if sys.NVars() != 7 {
		t.Errorf("NVars err: got: %v, trg: 7", sys.NVars())
	}

	findAccum := func(nm string) *Accum {
		vi, err := sys.VarByNameTry(nm)
		if err != nil {
			t.Fatal(err)
		}
		for ai := range sys.Accums {
			if sys.Accums[ai].Var == vi {
				return &sys.Accums[ai]
			}
		}
		t.Fatalf("no accumulator for %v", nm)
		return nil
	}

	// edge into the composite lands on its input child
	u0i, _ := sys.VarByNameTry("Src.U")
	a0 := findAccum("C.U0.Jcn")
	if len(a0.Terms) != 1 || a0.Terms[0].SrcIdx != u0i {
		t.Errorf("input fan-in err: %+v", a0.Terms)
	}
	// internal edge resolves with namespaced names
	v0i, _ := sys.VarByNameTry("C.U0.V")
	a1 := findAccum("C.U1.Jcn")
	if len(a1.Terms) != 1 || a1.Terms[0].SrcIdx != v0i {
		t.Errorf("internal edge err: %+v", a1.Terms)
	}
	// edge from the composite departs from its output child
	v1i, _ := sys.VarByNameTry("C.U1.V")
	ad := findAccum("D.Jcn")
	if len(ad.Terms) != 1 || ad.Terms[0].SrcIdx != v1i {
		t.Errorf("output edge err: %+v", ad.Terms)
	}
}

// testBadBlox declares two output vars, which compilation must reject.
type testBadBlox struct {
	BloxStru
}

func newTestBadBlox(name string) *testBadBlox {
	tb := &testBadBlox{}
	tb.InitName(tb, name)
	tb.Knd = NeuronKind
	return tb
}

func (tb *testBadBlox) Defaults()     {}
func (tb *testBadBlox) UpdateParams() {}

func (tb *testBadBlox) Vars() []Var {
	return []Var{
		{Nm: "X", Role: OutputVar},
		{Nm: "Y", Role: OutputVar},
	}
}

func (tb *testBadBlox) OutVar() string { return "X" }

func TestCompileErrors(t *testing.T) {
	gr := NewGraph("TestErr")
	gr.AddBlox(newTestBadBlox("Bad"))
	sys, err := gr.Compile(nil)
	if err == nil {
		t.Fatalf("two output vars should have failed")
	}
	if sys != nil {
		t.Errorf("failed compile must not return a partial system")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Errorf("wrong error type: %T", err)
	}

	// connection referencing a component that was never added
	gr2 := NewGraph("TestErr2")
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	gr2.AddBlox(ua)
	con, cerr := NewCon(ub, ua, 1)
	if cerr != nil {
		t.Fatal(cerr)
	}
	gr2.Cons = append(gr2.Cons, con)
	if _, err := gr2.Compile(nil); err == nil {
		t.Errorf("dangling connection should have failed")
	}
}

var ParamSets = params.Sets{
	{Name: "Base", Desc: "slowed test dynamics", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Blox", Desc: "slow everything down",
				Params: params.Params{
					"Blox.Tau": "20",
				}},
		},
	}},
	{Name: "Tagged", Desc: "class-selective override", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: ".Slow", Desc: "only tagged components",
				Params: params.Params{
					"Blox.Tau": "50",
				}},
		},
	}},
}

func TestApplyParams(t *testing.T) {
	gr := NewGraph("TestPars")
	ua := newTestUnit("A")
	ub := newTestUnit("B")
	ub.SetClass("Slow")
	gr.AddBlox(ua)
	gr.AddBlox(ub)
	applied, err := gr.ApplyParams(ParamSets[0].Sheets["Network"], false)
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Errorf("base params should have applied")
	}
	CmprFloats([]float32{ua.Tau, ub.Tau}, []float32{20, 20}, "base Tau", t)

	pset, err := ParamSets.SetByNameTry("Tagged")
	if err != nil {
		t.Fatal(err)
	}
	applied, err = gr.ApplyParams(pset.Sheets["Network"], false)
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Errorf("tagged params should have applied")
	}
	CmprFloats([]float32{ua.Tau, ub.Tau}, []float32{20, 50}, "tagged Tau", t)
}
