// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"fmt"
)

// CompileParams are the explicit options threaded through graph
// compilation.  There is no process-wide default state: everything a
// compile depends on is either on the graph or in here.
type CompileParams struct {
	Sep   string `def:"." desc:"namespace separator joining component paths to variable names"`
	Rules *Rules `view:"-" desc:"connection rule table -- nil uses StdRules"`
}

func (cp *CompileParams) Defaults() {
	cp.Sep = "."
}

func (cp *CompileParams) Update() {
}

// flatBlox is one leaf component after composite expansion.
type flatBlox struct {
	b    Blox
	nm   string // full namespaced name
	st   int    // base index in the state vector
	vars []Var
}

// Compile validates the graph and compiles it into an immutable
// System.  All validation failures are accumulated and reported
// together in a single CompileError; on any failure no System is
// returned.  Composites are expanded depth-first in insertion order;
// connection contributions are resolved through the rule table and
// merged by summation per input accumulator, so the compiled coupling
// does not depend on the order edges were added.  Components with the
// Off flag, and any edges touching them, are skipped entirely.
func (gr *Graph) Compile(cp *CompileParams) (*System, error) {
	if cp == nil {
		cp = &CompileParams{}
		cp.Defaults()
	}
	sep := cp.Sep
	if sep == "" {
		sep = "."
	}
	rules := cp.Rules
	if rules == nil {
		rules = StdRules
	}

	emsg := ""
	fail := func(format string, args ...interface{}) {
		emsg += fmt.Sprintf(format, args...) + "\n"
	}

	var flats []*flatBlox
	flatMap := make(map[Blox]int)
	nameMap := make(map[string]int)
	offSet := make(map[Blox]bool)
	allCons := make([]*Con, 0, len(gr.Cons))
	allCons = append(allCons, gr.Cons...)

	var markOff func(b Blox)
	markOff = func(b Blox) {
		offSet[b] = true
		if cb, ok := b.(Composite); ok {
			for _, sb := range cb.SubBloxs() {
				markOff(sb)
			}
		}
	}

	nvar := 0
	var addFlat func(b Blox, prefix string)
	addFlat = func(b Blox, prefix string) {
		if b.IsOff() {
			markOff(b)
			return
		}
		full := b.Name()
		if prefix != "" {
			full = prefix + sep + b.Name()
		}
		if cb, ok := b.(Composite); ok {
			for _, sb := range cb.SubBloxs() {
				addFlat(sb, full)
			}
			allCons = append(allCons, cb.SubCons()...)
			return
		}
		if _, has := flatMap[b]; has {
			fail("component: %v appears more than once in the graph", full)
			return
		}
		if _, has := nameMap[full]; has {
			fail("duplicate component name after namespacing: %v", full)
			return
		}
		fb := &flatBlox{b: b, nm: full, st: nvar, vars: b.Vars()}
		nOut := 0
		nIn := 0
		for vi := range fb.vars {
			vr := &fb.vars[vi]
			if VarByName(fb.vars[:vi], vr.Nm) >= 0 {
				fail("component: %v declares variable: %v more than once", full, vr.Nm)
			}
			switch vr.Role {
			case OutputVar:
				nOut++
			case InputVar:
				nIn++
				if vr.Init != 0 {
					fail("component: %v input accumulator: %v must declare a zero initial value", full, vr.Nm)
				}
			}
		}
		if nOut != 1 {
			fail("component: %v must declare exactly one output variable, has: %d", full, nOut)
		}
		if nIn > 1 {
			fail("component: %v declares %d input accumulators -- at most one is allowed", full, nIn)
		}
		if nIn > 0 && b.Kind().IsA(SourceKind) {
			fail("component: %v is a Source and cannot declare an input accumulator", full)
		}
		if len(b.InVars()) != nIn {
			fail("component: %v InVars list is inconsistent with declared input accumulator roles", full)
		}
		flatMap[b] = len(flats)
		nameMap[full] = len(flats)
		flats = append(flats, fb)
		nvar += len(fb.vars)
	}

	for _, b := range gr.Bloxs {
		addFlat(b, "")
	}

	// outEnd descends composites to the designated output child.
	var outEnd func(b Blox) (Blox, error)
	outEnd = func(b Blox) (Blox, error) {
		cb, ok := b.(Composite)
		if !ok {
			return b, nil
		}
		ob := cb.OutBlox()
		if ob == nil {
			return nil, fmt.Errorf("composite: %v has no designated output child", b.Name())
		}
		return outEnd(ob)
	}

	// inEnds descends composites to the declared input children.
	var inEnds func(b Blox) ([]Blox, error)
	inEnds = func(b Blox) ([]Blox, error) {
		cb, ok := b.(Composite)
		if !ok {
			return []Blox{b}, nil
		}
		ins := cb.InBloxs()
		if len(ins) == 0 {
			return nil, fmt.Errorf("composite: %v has no declared input children", b.Name())
		}
		var ends []Blox
		for _, ib := range ins {
			sub, err := inEnds(ib)
			if err != nil {
				return nil, err
			}
			ends = append(ends, sub...)
		}
		return ends, nil
	}

	// one accumulator per declared InputVar, in flatten order, so
	// unconnected accumulators still exist (and stay at zero).
	sys := &System{Nm: gr.Nm, Sep: sep}
	accumOf := make(map[int]int)
	for _, fb := range flats {
		for vi := range fb.vars {
			if fb.vars[vi].Role == InputVar {
				accumOf[fb.st+vi] = len(sys.Accums)
				sys.Accums = append(sys.Accums, Accum{Var: fb.st + vi})
			}
		}
	}

	// varIdx resolves a local variable name on a flat component.
	varIdx := func(fb *flatBlox, nm string) int {
		li := VarByName(fb.vars, nm)
		if li < 0 {
			return -1
		}
		return fb.st + li
	}

	copyEffects := func(src []Effect, fb *flatBlox, ctx string) []Effect {
		effs := make([]Effect, len(src))
		copy(effs, src)
		for i := range effs {
			gi := varIdx(fb, effs[i].Var)
			if gi < 0 {
				fail("%v: effect variable: %v not found on component: %v", ctx, effs[i].Var, fb.nm)
				continue
			}
			effs[i].Idx = gi
			effs[i].Var = fb.nm + sep + effs[i].Var
		}
		return effs
	}

	for _, con := range allCons {
		if offSet[con.Send] || offSet[con.Recv] {
			continue
		}
		sb, err := outEnd(con.Send)
		if err != nil {
			fail("%v", err)
			continue
		}
		rbs, err := inEnds(con.Recv)
		if err != nil {
			fail("%v", err)
			continue
		}
		if offSet[sb] {
			continue
		}
		sfi, has := flatMap[sb]
		if !has {
			fail("connection from: %v -- component is not in the graph", sb.Name())
			continue
		}
		sfb := flats[sfi]
		for _, rb := range rbs {
			if offSet[rb] {
				continue
			}
			rfi, has := flatMap[rb]
			if !has {
				fail("connection to: %v -- component is not in the graph", rb.Name())
				continue
			}
			rfb := flats[rfi]
			if sb == rb && !sb.SelfCon() {
				fail("connection %v -> %v resolves to a self connection not permitted by the kind", con.Send.Name(), con.Recv.Name())
				continue
			}
			econ := *con
			econ.Send = sb
			econ.Recv = rb
			ctb, err := rules.Resolve(&econ)
			if err != nil {
				fail("%v", err)
				continue
			}
			for _, tm := range ctb.Terms {
				inNm := tm.In
				if inNm == "" {
					ins := rb.InVars()
					if len(ins) == 0 {
						fail("connection %v -> %v: term targets the default accumulator but recv declares none", sfb.nm, rfb.nm)
						continue
					}
					inNm = ins[0]
				}
				ini := varIdx(rfb, inNm)
				if ini < 0 {
					fail("connection %v -> %v: accumulator variable: %v not found on recv", sfb.nm, rfb.nm, inNm)
					continue
				}
				li := VarByName(rfb.vars, inNm)
				if rfb.vars[li].Role != InputVar {
					fail("connection %v -> %v: term targets variable: %v which is not an input accumulator", sfb.nm, rfb.nm, inNm)
					continue
				}
				srcNm := tm.Src
				if srcNm == "" {
					srcNm = sb.OutVar()
				}
				si := varIdx(sfb, srcNm)
				if si < 0 {
					fail("connection %v -> %v: source variable: %v not found on send", sfb.nm, rfb.nm, srcNm)
					continue
				}
				tm.Src = sfb.nm + sep + srcNm
				tm.SrcIdx = si
				tm.In = rfb.nm + sep + inNm
				if tm.Op == Cond {
					if tm.Mod == "" {
						fail("connection %v -> %v: Cond term must name the recv variable it gates", sfb.nm, rfb.nm)
						continue
					}
					mi := varIdx(rfb, tm.Mod)
					if mi < 0 {
						fail("connection %v -> %v: Cond variable: %v not found on recv", sfb.nm, rfb.nm, tm.Mod)
						continue
					}
					tm.ModIdx = mi
					tm.Mod = rfb.nm + sep + tm.Mod
				}
				ai := accumOf[ini]
				sys.Accums[ai].Terms = append(sys.Accums[ai].Terms, tm)
			}
			for _, ev := range ctb.Events {
				gfb := rfb
				if ev.OnSend {
					gfb = sfb
				}
				gi := varIdx(gfb, ev.Var)
				if gi < 0 {
					fail("connection %v -> %v: event guard variable: %v not found", sfb.nm, rfb.nm, ev.Var)
					continue
				}
				ev.Idx = gi
				ev.Var = gfb.nm + sep + ev.Var
				ev.Effects = copyEffects(ev.Effects, rfb, fmt.Sprintf("connection %v -> %v", sfb.nm, rfb.nm))
				sys.Events = append(sys.Events, ev)
			}
		}
	}

	// per-component locals: events, drives, trains, noise.
	driven := make(map[int]bool)
	for _, fb := range flats {
		for _, ev := range fb.b.Events() {
			gi := varIdx(fb, ev.Var)
			if gi < 0 {
				fail("component: %v event guard variable: %v not found", fb.nm, ev.Var)
				continue
			}
			ev.Idx = gi
			ev.Var = fb.nm + sep + ev.Var
			ev.Effects = copyEffects(ev.Effects, fb, "component: "+fb.nm)
			sys.Events = append(sys.Events, ev)
		}
		for _, dr := range fb.b.Drives() {
			gi := varIdx(fb, dr.Var)
			if gi < 0 {
				fail("component: %v drive variable: %v not found", fb.nm, dr.Var)
				continue
			}
			if driven[gi] {
				fail("component: %v variable: %v is driven more than once", fb.nm, dr.Var)
				continue
			}
			if _, isAcc := accumOf[gi]; isAcc {
				fail("component: %v drive targets input accumulator: %v", fb.nm, dr.Var)
				continue
			}
			driven[gi] = true
			dr.Idx = gi
			dr.Var = fb.nm + sep + dr.Var
			sys.Drives = append(sys.Drives, dr)
		}
		for _, tr := range fb.b.Trains() {
			tr.Effects = copyEffects(tr.Effects, fb, "component: "+fb.nm)
			sys.Trains = append(sys.Trains, tr)
		}
		for _, no := range fb.b.Noises() {
			gi := varIdx(fb, no.Var)
			if gi < 0 {
				fail("component: %v noise variable: %v not found", fb.nm, no.Var)
				continue
			}
			if _, isAcc := accumOf[gi]; isAcc {
				fail("component: %v noise targets algebraic variable: %v", fb.nm, no.Var)
				continue
			}
			no.Idx = gi
			no.Var = fb.nm + sep + no.Var
			sys.Noises = append(sys.Noises, no)
		}
	}

	// assemble the variable table and blocks.
	sys.VarMap = make(map[string]int, nvar)
	for _, fb := range flats {
		for vi := range fb.vars {
			vr := &fb.vars[vi]
			full := fb.nm + sep + vr.Nm
			if _, has := sys.VarMap[full]; has {
				fail("duplicate variable name after namespacing: %v", full)
				continue
			}
			sys.VarMap[full] = fb.st + vi
			sys.Vars = append(sys.Vars, SysVar{Nm: full, Blox: fb.nm, Local: vr.Nm, Role: vr.Role, Init: vr.Init})
		}
	}
	sys.BlkMap = make(map[string]int, len(flats))
	for _, fb := range flats {
		blk := Block{Nm: fb.nm, Knd: fb.b.Kind(), St: fb.st, NV: len(fb.vars), Dyn: fb.b.Dyn()}
		ov := varIdx(fb, fb.b.OutVar())
		if ov < 0 {
			fail("component: %v output variable: %v not found in declared variables", fb.nm, fb.b.OutVar())
		}
		blk.Out = ov
		sv := varIdx(fb, fb.b.SpikeVar())
		if sv < 0 {
			fail("component: %v spike variable: %v not found in declared variables", fb.nm, fb.b.SpikeVar())
		}
		blk.Spk = sv
		for _, inNm := range fb.b.InVars() {
			ii := varIdx(fb, inNm)
			if ii < 0 {
				fail("component: %v input accumulator: %v not found in declared variables", fb.nm, inNm)
				continue
			}
			blk.Acc = append(blk.Acc, accumOf[ii])
		}
		sys.BlkMap[fb.nm] = len(sys.Blocks)
		sys.Blocks = append(sys.Blocks, blk)
	}

	if emsg != "" {
		return nil, &CompileError{Graph: gr.Nm, Msg: emsg}
	}
	return sys, nil
}
