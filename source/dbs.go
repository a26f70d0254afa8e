// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"github.com/chewxy/math32"
	"github.com/emer/blox/blox"
	"github.com/goki/ki/kit"
)

// DBSK is the pulse protocol source kind.
var DBSK = blox.NewKind("DBS", blox.SourceKind)

func init() {
	blox.RegisterFactory(DBSK, func(name string, cfg blox.Config) (blox.Blox, error) {
		db := NewDBS(name)
		if bad := cfg.Unknown("freq", "width", "amp", "off", "start", "smooth"); bad != "" {
			return nil, &blox.ConfigError{Blox: name, Kind: DBSK.String(), Opt: bad, Msg: "unknown option"}
		}
		pr := &db.Pulse
		pr.Freq = cfg.Opt("freq", pr.Freq)
		pr.Width = cfg.Opt("width", pr.Width)
		pr.Amp = cfg.Opt("amp", pr.Amp)
		pr.Off = cfg.Opt("off", pr.Off)
		pr.Start = cfg.Opt("start", pr.Start)
		pr.Smooth = cfg.Opt("smooth", pr.Smooth)
		if pr.Freq <= 0 {
			return nil, &blox.ConfigError{Blox: name, Kind: DBSK.String(), Opt: "freq", Msg: "must be positive"}
		}
		if pr.Width <= 0 || pr.Width >= 1000/pr.Freq {
			return nil, &blox.ConfigError{Blox: name, Kind: DBSK.String(), Opt: "width", Msg: "must be positive and smaller than the pulse period"}
		}
		db.UpdateParams()
		return db, nil
	})
}

// DBSParams configure a periodic pulse protocol.  With Smooth = 0 the
// output is exactly Off outside pulses and Off + Amp inside them, with
// half-open pulse windows [onset, onset+Width).  Smooth > 0 replaces the
// hard edges with logistic transitions of that time constant, preserving
// the period and pulse width.
type DBSParams struct {
	Freq   float32 `def:"100" min:"0" desc:"pulse frequency in Hz, with time in ms"`
	Width  float32 `def:"0.5" min:"0" desc:"pulse width in ms"`
	Amp    float32 `def:"1" desc:"amplitude added during a pulse"`
	Off    float32 `def:"0" desc:"baseline level outside pulses"`
	Start  float32 `def:"0" desc:"onset time of the first pulse"`
	Smooth float32 `def:"0" min:"0" desc:"edge smoothing time constant in ms -- 0 gives hard edges"`
	Period float32 `inactive:"+" desc:"pulse period = 1000 / Freq -- computed in Update"`
}

func (dp *DBSParams) Defaults() {
	dp.Freq = 100
	dp.Width = 0.5
	dp.Amp = 1
	dp.Off = 0
	dp.Start = 0
	dp.Smooth = 0
	dp.Update()
}

func (dp *DBSParams) Update() {
	if dp.Freq > 0 {
		dp.Period = 1000 / dp.Freq
	}
}

// Eval returns the protocol level at time t.
func (dp DBSParams) Eval(t float32) float32 {
	ph := t - dp.Start
	if ph >= 0 {
		ph = math32.Mod(ph, dp.Period)
	}
	if dp.Smooth <= 0 {
		if ph >= 0 && ph < dp.Width {
			return dp.Off + dp.Amp
		}
		return dp.Off
	}
	return dp.Off + dp.Amp*(dp.edge(ph)+dp.edge(ph-dp.Period))
}

// edge is the smoothed pulse shape at phase y from a pulse onset: a
// logistic rise at 0 and fall at Width.  Summing it for the current and
// previous phase keeps the signal continuous across the period wrap.
func (dp DBSParams) edge(y float32) float32 {
	return sigm(y/dp.Smooth) - sigm((y-dp.Width)/dp.Smooth)
}

func sigm(z float32) float32 {
	return 1 / (1 + math32.Exp(-z))
}

// Edges returns the pulse onset and offset times in (t0, t1), which the
// integrator uses as mandatory stop points.
func (dp DBSParams) Edges(t0, t1 float32) []float32 {
	if dp.Period <= 0 {
		return nil
	}
	var eds []float32
	k := int(math32.Floor((t0 - dp.Start) / dp.Period))
	if k < 0 {
		k = 0
	}
	for {
		on := dp.Start + float32(k)*dp.Period
		if on >= t1 {
			break
		}
		if on > t0 {
			eds = append(eds, on)
		}
		off := on + dp.Width
		if off > t0 && off < t1 {
			eds = append(eds, off)
		}
		k++
	}
	return eds
}

// DBS is a pulse protocol source, e.g. for deep brain stimulation
// stimulus waveforms.  Its output U follows the protocol exactly as an
// algebraic drive, and its pulse transition times are reported to the
// integrator as stop points so hard edges are never stepped across.
type DBS struct {
	blox.BloxStru
	Pulse DBSParams `view:"inline" desc:"pulse protocol parameters"`
}

var KiT_DBS = kit.Types.AddType(&DBS{}, nil)

// NewDBS returns a new pulse protocol source with 100 Hz, 0.5 ms
// defaults.
func NewDBS(name string) *DBS {
	db := &DBS{}
	db.InitName(db, name)
	db.Knd = DBSK
	db.Defaults()
	return db
}

func (db *DBS) Defaults() {
	db.Pulse.Defaults()
}

func (db *DBS) UpdateParams() {
	db.Pulse.Update()
}

func (db *DBS) TypeName() string {
	return "DBS"
}

func (db *DBS) Vars() []blox.Var {
	return []blox.Var{
		{Nm: "U", Role: blox.OutputVar, Init: db.Pulse.Off},
	}
}

func (db *DBS) OutVar() string {
	return "U"
}

func (db *DBS) Drives() []blox.Drive {
	return []blox.Drive{
		{Var: "U", Wave: db.Pulse},
	}
}

// Transitions returns the pulse edge times in (t0, t1).
func (db *DBS) Transitions(t0, t1 float32) []float32 {
	return db.Pulse.Edges(t0, t1)
}
