// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package solve integrates compiled blox systems through time.

Integrate drives a fixed-step (Euler, Heun, RK4) or adaptive (RK45
Cash-Karp) method over the system's rate equations, handling the three
non-smooth mechanisms specially: algebraic variables (input accumulators
and drives) are re-evaluated rather than integrated, threshold events and
scheduled spike trains apply their effects at accepted steps, and the
step sequence lands exactly on every known discontinuity so pulses are
never stepped across.

The recorded Solution provides per-variable time series plus the standard
analysis views: spike detection by upward threshold crossing, windowed
firing rates, and discontinuity detection, along with etable export for
logging and plotting.
*/
package solve

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/emer/blox/blox"
	"github.com/goki/ki/ints"
)

// Integrate integrates the system over [t0, t1] and returns the recorded
// Solution.  inits overrides initial values by full variable name (nil for
// none).  sp configures the method and step sizes -- nil uses Defaults.
//
// The integrator always steps exactly onto the stop points implied by
// spike trains and pulsed drives (and any extra sp.Stops), so hard
// discontinuities are never stepped across.  Events are detected at
// accepted steps as upward threshold crossings relative to the previous
// accepted state.  When events or train pulses apply at a step, both the
// pre-effect and post-effect states are recorded at the same time stamp,
// so threshold crossings remain visible in the recorded series.
//
// The system is read-only during integration: one compiled system can
// back repeated or concurrent runs, each with its own Solution.
func Integrate(sy *blox.System, inits map[string]float32, t0, t1 float32, sp *Params) (*Solution, error) {
	if sy == nil || sy.NVars() == 0 {
		return nil, &IntegrationError{Time: t0, Msg: "system is nil or has no variables"}
	}
	if t1 <= t0 {
		return nil, &IntegrationError{System: sy.Nm, Time: t0, Msg: fmt.Sprintf("time span [%g, %g] is empty", t0, t1)}
	}
	if sp == nil {
		sp = &Params{}
		sp.Defaults()
	}
	sp.Update()
	if sp.Dt <= 0 {
		return nil, &IntegrationError{System: sy.Nm, Time: t0, Msg: "Dt must be positive"}
	}
	if len(sy.Noises) > 0 && sp.Method != Euler {
		return nil, &IntegrationError{System: sy.Nm, Time: t0, Msg: "noise terms require the Euler method"}
	}

	x := sy.InitVec()
	for nm, v := range inits {
		vi, err := sy.VarByNameTry(nm)
		if err != nil {
			return nil, &IntegrationError{System: sy.Nm, Var: nm, Time: t0, Msg: "unknown variable in initial conditions"}
		}
		x[vi] = v
	}

	dv := newDriver(sy, sp)
	stops := dv.stopPoints(t0, t1)

	sol := &Solution{Sys: sy, NVar: sy.NVars()}
	sol.Run.Start()

	tiny := 1e-6 * (1 + math32.Abs(t1-t0))
	dv.algebra(t0, x)
	sol.AddRow(t0, x)
	copy(dv.prev, x)
	lastRec := t0

	t := t0
	si := 0
	h := sp.Dt
	for t < t1-tiny {
		for si < len(stops) && stops[si] <= t+tiny {
			si++
		}
		tStop := t1
		if si < len(stops) && stops[si] < t1 {
			tStop = stops[si]
		}
		var tNew float32
		switch sp.Method {
		case RK45:
			tn, hn, err := dv.stepAdaptive(t, tStop, h, x)
			if err != nil {
				return nil, err
			}
			tNew, h = tn, hn
		default:
			hs := sp.Dt
			if tStop-t < hs {
				hs = tStop - t
			}
			dv.stepFixed(sp.Method, t, hs, x)
			tNew = t + hs
		}
		if tNew >= tStop-tiny {
			tNew = tStop
		}
		dv.algebra(tNew, x)
		if bad := checkFinite(x); bad >= 0 {
			return nil, &IntegrationError{System: sy.Nm, Var: sy.Vars[bad].Nm, Time: tNew, Msg: "variable is not finite"}
		}

		fired := dv.firedEvents(x)
		due := dv.dueTrains(tNew, tiny)
		atStop := tNew == tStop && tStop < t1
		rec := sp.RecDt == 0 || tNew-lastRec >= sp.RecDt-tiny || atStop || tNew >= t1-tiny
		if rec || len(fired) > 0 || due {
			sol.AddRow(tNew, x)
			lastRec = tNew
		}
		if len(fired) > 0 || due {
			dv.applyEvents(fired, x)
			dv.applyTrains(tNew, tiny, x)
			dv.algebra(tNew, x)
			sol.AddRow(tNew, x)
		}
		copy(dv.prev, x)
		t = tNew
	}

	sol.Run.Stop()
	return sol, nil
}

// driver holds the scratch state for one Integrate call.
type driver struct {
	sy      *blox.System
	sp      *Params
	prev    []float32 // previous accepted state, for event guards
	acc     []float32 // current accumulator values
	in      []float32 // per-block input scratch
	k1      []float32
	k2      []float32
	k3      []float32
	k4      []float32
	k5      []float32
	k6      []float32
	xt      []float32
	x5      []float32
	trTimes [][]float32 // scheduled times per train
	trCur   []int       // next pending time per train
}

func newDriver(sy *blox.System, sp *Params) *driver {
	nv := sy.NVars()
	dv := &driver{sy: sy, sp: sp}
	dv.prev = make([]float32, nv)
	dv.acc = make([]float32, len(sy.Accums))
	mxin := 0
	for bi := range sy.Blocks {
		mxin = ints.MaxInt(mxin, len(sy.Blocks[bi].Acc))
	}
	dv.in = make([]float32, mxin)
	dv.k1 = make([]float32, nv)
	dv.k2 = make([]float32, nv)
	dv.k3 = make([]float32, nv)
	dv.k4 = make([]float32, nv)
	dv.k5 = make([]float32, nv)
	dv.k6 = make([]float32, nv)
	dv.xt = make([]float32, nv)
	dv.x5 = make([]float32, nv)
	return dv
}

// stopPoints collects the sorted, deduplicated times in (t0, t1) that the
// integrator must land on exactly: explicit Stops, scheduled train times,
// and the edges of pulsed drives.  It also caches the train schedules.
func (dv *driver) stopPoints(t0, t1 float32) []float32 {
	var sps []float32
	for _, st := range dv.sp.Stops {
		if st > t0 && st < t1 {
			sps = append(sps, st)
		}
	}
	dv.trTimes = make([][]float32, len(dv.sy.Trains))
	dv.trCur = make([]int, len(dv.sy.Trains))
	for ti := range dv.sy.Trains {
		tts := dv.sy.Trains[ti].Gen.Times(t0, t1)
		dv.trTimes[ti] = tts
		for _, tt := range tts {
			if tt > t0 && tt < t1 {
				sps = append(sps, tt)
			}
		}
	}
	for di := range dv.sy.Drives {
		if ed, ok := dv.sy.Drives[di].Wave.(blox.Edged); ok {
			for _, et := range ed.Edges(t0, t1) {
				if et > t0 && et < t1 {
					sps = append(sps, et)
				}
			}
		}
	}
	sort.Slice(sps, func(i, j int) bool { return sps[i] < sps[j] })
	out := sps[:0]
	var last float32
	for i, s := range sps {
		if i == 0 || s != last {
			out = append(out, s)
			last = s
		}
	}
	return out
}

// deriv evaluates the full right-hand side at (t, x) into dx.
// Driven and accumulator variables are algebraic: their values are
// assigned into x here, and their derivatives are forced to zero.
func (dv *driver) deriv(t float32, x, dx []float32) {
	sy := dv.sy
	for i := range dx {
		dx[i] = 0
	}
	for di := range sy.Drives {
		dr := &sy.Drives[di]
		x[dr.Idx] = dr.Wave.Eval(t)
	}
	for ai := range sy.Accums {
		ac := &sy.Accums[ai]
		sum := float32(0)
		for ti := range ac.Terms {
			tm := &ac.Terms[ti]
			switch tm.Op {
			case blox.Linear:
				sum += tm.Wt * x[tm.SrcIdx]
			case blox.Cond:
				sum += tm.Wt * x[tm.SrcIdx] * (tm.Rev - x[tm.ModIdx])
			}
		}
		dv.acc[ai] = sum
		x[ac.Var] = sum
	}
	for bi := range sy.Blocks {
		blk := &sy.Blocks[bi]
		if blk.Dyn == nil {
			continue
		}
		in := dv.in[:len(blk.Acc)]
		for i, ai := range blk.Acc {
			in[i] = dv.acc[ai]
		}
		blk.Dyn.Deriv(t, x[blk.St:blk.St+blk.NV], in, dx[blk.St:blk.St+blk.NV])
	}
	for di := range sy.Drives {
		dx[sy.Drives[di].Idx] = 0
	}
	for ai := range sy.Accums {
		dx[sy.Accums[ai].Var] = 0
	}
}

// algebra refreshes only the algebraic entries of x (drives, accumulators)
// at time t, without evaluating any derivatives.
func (dv *driver) algebra(t float32, x []float32) {
	sy := dv.sy
	for di := range sy.Drives {
		dr := &sy.Drives[di]
		x[dr.Idx] = dr.Wave.Eval(t)
	}
	for ai := range sy.Accums {
		ac := &sy.Accums[ai]
		sum := float32(0)
		for ti := range ac.Terms {
			tm := &ac.Terms[ti]
			switch tm.Op {
			case blox.Linear:
				sum += tm.Wt * x[tm.SrcIdx]
			case blox.Cond:
				sum += tm.Wt * x[tm.SrcIdx] * (tm.Rev - x[tm.ModIdx])
			}
		}
		dv.acc[ai] = sum
		x[ac.Var] = sum
	}
}

// stepFixed advances x in place by one step of size h using a fixed-step
// method.  The Euler case also applies any Euler-Maruyama noise terms.
func (dv *driver) stepFixed(meth Methods, t, h float32, x []float32) {
	nv := len(x)
	switch meth {
	case Euler:
		dv.deriv(t, x, dv.k1)
		for i := 0; i < nv; i++ {
			x[i] += h * dv.k1[i]
		}
		sqh := math32.Sqrt(h)
		for ni := range dv.sy.Noises {
			no := &dv.sy.Noises[ni]
			x[no.Idx] += float32(no.Pars.Gen(-1)) * sqh
		}
	case Heun:
		dv.deriv(t, x, dv.k1)
		for i := 0; i < nv; i++ {
			dv.xt[i] = x[i] + h*dv.k1[i]
		}
		dv.deriv(t+h, dv.xt, dv.k2)
		for i := 0; i < nv; i++ {
			x[i] += 0.5 * h * (dv.k1[i] + dv.k2[i])
		}
	case RK4:
		dv.deriv(t, x, dv.k1)
		hh := 0.5 * h
		for i := 0; i < nv; i++ {
			dv.xt[i] = x[i] + hh*dv.k1[i]
		}
		dv.deriv(t+hh, dv.xt, dv.k2)
		for i := 0; i < nv; i++ {
			dv.xt[i] = x[i] + hh*dv.k2[i]
		}
		dv.deriv(t+hh, dv.xt, dv.k3)
		for i := 0; i < nv; i++ {
			dv.xt[i] = x[i] + h*dv.k3[i]
		}
		dv.deriv(t+h, dv.xt, dv.k4)
		h6 := h / 6
		for i := 0; i < nv; i++ {
			x[i] += h6 * (dv.k1[i] + 2*(dv.k2[i]+dv.k3[i]) + dv.k4[i])
		}
	}
}

// Cash-Karp tableau for the embedded 4(5) pair.
const (
	ckA2, ckA3, ckA4, ckA5, ckA6 = 1.0 / 5.0, 3.0 / 10.0, 3.0 / 5.0, 1.0, 7.0 / 8.0

	ckB21                             = 1.0 / 5.0
	ckB31, ckB32                      = 3.0 / 40.0, 9.0 / 40.0
	ckB41, ckB42, ckB43               = 3.0 / 10.0, -9.0 / 10.0, 6.0 / 5.0
	ckB51, ckB52, ckB53, ckB54        = -11.0 / 54.0, 5.0 / 2.0, -70.0 / 27.0, 35.0 / 27.0
	ckB61, ckB62, ckB63, ckB64, ckB65 = 1631.0 / 55296.0, 175.0 / 512.0, 575.0 / 13824.0, 44275.0 / 110592.0, 253.0 / 4096.0

	ckC1, ckC3, ckC4, ckC6 = 37.0 / 378.0, 250.0 / 621.0, 125.0 / 594.0, 512.0 / 1771.0

	ckE1 = 37.0/378.0 - 2825.0/27648.0
	ckE3 = 250.0/621.0 - 18575.0/48384.0
	ckE4 = 125.0/594.0 - 13525.0/55296.0
	ckE5 = -277.0 / 14336.0
	ckE6 = 512.0/1771.0 - 1.0/4.0
)

// stepAdaptive advances x in place by one accepted Cash-Karp step of at
// most tStop-t, shrinking on error-control rejection.  It returns the new
// time and the step size to try next.
func (dv *driver) stepAdaptive(t, tStop, h0 float32, x []float32) (float32, float32, error) {
	sp := dv.sp
	h := h0
	if h > sp.MaxStep {
		h = sp.MaxStep
	}
	if h < sp.MinStep {
		h = sp.MinStep
	}
	for {
		if h > tStop-t {
			h = tStop - t
		}
		norm := dv.tryCK(t, h, x)
		if norm <= 1 {
			copy(x, dv.x5)
			fac := float32(5)
			if norm > 0 {
				fac = 0.9 * math32.Pow(norm, -0.2)
				if fac > 5 {
					fac = 5
				}
				if fac < 0.2 {
					fac = 0.2
				}
			}
			hn := h * fac
			if hn > sp.MaxStep {
				hn = sp.MaxStep
			}
			if hn < sp.MinStep {
				hn = sp.MinStep
			}
			return t + h, hn, nil
		}
		fac := 0.9 * math32.Pow(norm, -0.25)
		if fac < 0.1 {
			fac = 0.1
		}
		h *= fac
		if h < sp.MinStep {
			return 0, 0, &IntegrationError{System: dv.sy.Nm, Time: t, Msg: fmt.Sprintf("step size underflow: %g < MinStep %g", h, sp.MinStep)}
		}
	}
}

// tryCK evaluates one Cash-Karp step of size h from (t, x) into dv.x5 and
// returns the error norm relative to tolerance (accept when <= 1).
func (dv *driver) tryCK(t, h float32, x []float32) float32 {
	nv := len(x)
	dv.deriv(t, x, dv.k1)
	for i := 0; i < nv; i++ {
		dv.xt[i] = x[i] + h*ckB21*dv.k1[i]
	}
	dv.deriv(t+ckA2*h, dv.xt, dv.k2)
	for i := 0; i < nv; i++ {
		dv.xt[i] = x[i] + h*(ckB31*dv.k1[i]+ckB32*dv.k2[i])
	}
	dv.deriv(t+ckA3*h, dv.xt, dv.k3)
	for i := 0; i < nv; i++ {
		dv.xt[i] = x[i] + h*(ckB41*dv.k1[i]+ckB42*dv.k2[i]+ckB43*dv.k3[i])
	}
	dv.deriv(t+ckA4*h, dv.xt, dv.k4)
	for i := 0; i < nv; i++ {
		dv.xt[i] = x[i] + h*(ckB51*dv.k1[i]+ckB52*dv.k2[i]+ckB53*dv.k3[i]+ckB54*dv.k4[i])
	}
	dv.deriv(t+ckA5*h, dv.xt, dv.k5)
	for i := 0; i < nv; i++ {
		dv.xt[i] = x[i] + h*(ckB61*dv.k1[i]+ckB62*dv.k2[i]+ckB63*dv.k3[i]+ckB64*dv.k4[i]+ckB65*dv.k5[i])
	}
	dv.deriv(t+ckA6*h, dv.xt, dv.k6)
	var norm float32
	for i := 0; i < nv; i++ {
		d5 := ckC1*dv.k1[i] + ckC3*dv.k3[i] + ckC4*dv.k4[i] + ckC6*dv.k6[i]
		de := ckE1*dv.k1[i] + ckE3*dv.k3[i] + ckE4*dv.k4[i] + ckE5*dv.k5[i] + ckE6*dv.k6[i]
		dv.x5[i] = x[i] + h*d5
		en := math32.Abs(h*de) / (dv.sp.ErrTol * (1 + math32.Abs(x[i])))
		if en > norm {
			norm = en
		}
	}
	return norm
}

// firedEvents returns the indexes of events whose guard variable crossed
// its threshold upward between the previous accepted state and x.  Guards
// are all evaluated against the same frozen snapshot before any effects
// apply, so one crossing can fan out to many events consistently.
func (dv *driver) firedEvents(x []float32) []int {
	var fired []int
	for ei := range dv.sy.Events {
		ev := &dv.sy.Events[ei]
		if dv.prev[ev.Idx] < ev.Thr && x[ev.Idx] >= ev.Thr {
			fired = append(fired, ei)
		}
	}
	return fired
}

func (dv *driver) applyEvents(fired []int, x []float32) {
	for _, ei := range fired {
		ev := &dv.sy.Events[ei]
		for fi := range ev.Effects {
			applyEffect(&ev.Effects[fi], x)
		}
	}
}

// dueTrains reports whether any train has a pending time at or before t,
// without consuming it.
func (dv *driver) dueTrains(t, tiny float32) bool {
	for ti := range dv.trTimes {
		c := dv.trCur[ti]
		if c < len(dv.trTimes[ti]) && dv.trTimes[ti][c] <= t+tiny {
			return true
		}
	}
	return false
}

// applyTrains applies the effects of every train time at or before t and
// advances the per-train cursors past them.
func (dv *driver) applyTrains(t, tiny float32, x []float32) {
	for ti := range dv.trTimes {
		tts := dv.trTimes[ti]
		for dv.trCur[ti] < len(tts) && tts[dv.trCur[ti]] <= t+tiny {
			tr := &dv.sy.Trains[ti]
			for ei := range tr.Effects {
				applyEffect(&tr.Effects[ei], x)
			}
			dv.trCur[ti]++
		}
	}
}

func applyEffect(ef *blox.Effect, x []float32) {
	switch ef.Op {
	case blox.OpSet:
		x[ef.Idx] = ef.Val
	case blox.OpAdd:
		x[ef.Idx] += ef.Val
	}
}

// checkFinite returns the index of the first NaN or Inf entry, or -1.
func checkFinite(x []float32) int {
	for i, v := range x {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
