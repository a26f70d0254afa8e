// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"log"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// SpikesIdx returns the times at which variable vi crosses thr upward:
// the sample time of the first sample at or above thr after one below it.
// A variable sitting at or above thr contributes nothing until it first
// drops below, so repeated calls and plateaus never double-count.
func (sl *Solution) SpikesIdx(vi int, thr float32) []float32 {
	var spks []float32
	armed := false
	for row := 0; row < sl.Len(); row++ {
		v := sl.Val(row, vi)
		if v < thr {
			armed = true
		} else if armed {
			spks = append(spks, sl.Times[row])
			armed = false
		}
	}
	return spks
}

// SpikesTry returns the upward threshold crossing times of the named
// variable, returning an error if the name is not valid.
func (sl *Solution) SpikesTry(nm string, thr float32) ([]float32, error) {
	vi, err := sl.Sys.VarByNameTry(nm)
	if err != nil {
		return nil, err
	}
	return sl.SpikesIdx(vi, thr), nil
}

// Spikes returns the upward threshold crossing times of the named
// variable.  Logs a message and returns nil if the name is not valid.
func (sl *Solution) Spikes(nm string, thr float32) []float32 {
	spks, err := sl.SpikesTry(nm, thr)
	if err != nil {
		log.Println(err)
		return nil
	}
	return spks
}

// Rate returns firing rates of the named variable over consecutive
// non-overlapping windows of length win, starting at the first sample
// time.  Each rate is the spike count in the half-open window divided by
// win, in spikes per time unit.  A trailing partial window is dropped.
func (sl *Solution) Rate(nm string, thr, win float32) []float32 {
	vi, err := sl.Sys.VarByNameTry(nm)
	if err != nil {
		log.Println(err)
		return nil
	}
	return sl.RateIdx(vi, thr, win)
}

// RateIdx is Rate by variable index.
func (sl *Solution) RateIdx(vi int, thr, win float32) []float32 {
	if sl.Len() == 0 || win <= 0 {
		return nil
	}
	t0 := sl.Times[0]
	tend := sl.Times[sl.Len()-1]
	nwin := int((tend - t0) / win)
	if nwin <= 0 {
		return nil
	}
	rates := make([]float32, nwin)
	for _, ts := range sl.SpikesIdx(vi, thr) {
		wi := int((ts - t0) / win)
		if wi >= 0 && wi < nwin {
			rates[wi]++
		}
	}
	for i := range rates {
		rates[i] /= win
	}
	return rates
}

// RateTable returns the windowed firing rates of the named variable as an
// etable.Table with Time (window start) and Rate columns.
func (sl *Solution) RateTable(nm string, thr, win float32) *etable.Table {
	rates := sl.Rate(nm, thr, win)
	dt := &etable.Table{}
	dt.SetFromSchema(etable.Schema{
		{"Time", etensor.FLOAT32, nil, nil},
		{"Rate", etensor.FLOAT32, nil, nil},
	}, len(rates))
	dt.SetMetaData("name", nm+" rates")
	t0 := float32(0)
	if sl.Len() > 0 {
		t0 = sl.Times[0]
	}
	for i, r := range rates {
		dt.SetCellFloat("Time", i, float64(t0+float32(i)*win))
		dt.SetCellFloat("Rate", i, float64(r))
	}
	return dt
}

// RangeIdx returns the min / max range of variable vi over all samples.
func (sl *Solution) RangeIdx(vi int) minmax.F32 {
	var rng minmax.F32
	rng.SetInfinity()
	for row := 0; row < sl.Len(); row++ {
		rng.FitValInRange(sl.Val(row, vi))
	}
	return rng
}

// Range returns the min / max range of the named variable over all
// samples, for bounded-state checks.  Logs a message and returns an
// invalid (infinite) range if the name is not valid.
func (sl *Solution) Range(nm string) minmax.F32 {
	vi, err := sl.Sys.VarByNameTry(nm)
	if err != nil {
		log.Println(err)
		var rng minmax.F32
		rng.SetInfinity()
		return rng
	}
	return sl.RangeIdx(vi)
}

// Transitions returns the sample indexes where vals jumps by more than
// tol between consecutive samples, flagging discontinuities such as
// event resets in an otherwise smooth series.
func Transitions(vals []float32, tol float32) []int {
	var idxs []int
	for i := 1; i < len(vals); i++ {
		if math32.Abs(vals[i]-vals[i-1]) > tol {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// TransitionTimes returns the times of jumps larger than tol in the named
// variable's recorded series.
func (sl *Solution) TransitionTimes(nm string, tol float32) []float32 {
	sr := sl.Series(nm)
	if sr == nil {
		return nil
	}
	idxs := Transitions(sr, tol)
	tms := make([]float32, len(idxs))
	for i, ix := range idxs {
		tms[i] = sl.Times[ix]
	}
	return tms
}
