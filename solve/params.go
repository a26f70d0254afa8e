// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

// Params holds the integration parameters for a single call to Integrate.
// Zero value is not usable -- call Defaults first and then override fields.
type Params struct {
	Method  Methods   `desc:"integration method -- Euler is required when the system has noise terms"`
	Dt      float32   `def:"0.01" min:"0" desc:"step size for the fixed-step methods, and the initial step for RK45"`
	ErrTol  float32   `def:"1e-06" desc:"RK45 per-variable error tolerance, relative to 1 + magnitude of the variable"`
	MinStep float32   `def:"1e-08" desc:"RK45 smallest permitted step -- shrinking below this is an integration error"`
	MaxStep float32   `def:"1" desc:"RK45 largest permitted step"`
	RecDt   float32   `def:"0" min:"0" desc:"minimum time between recorded samples -- 0 records every accepted step -- event and stop samples are always recorded"`
	Stops   []float32 `desc:"extra times the integrator must step on exactly, in addition to those implied by pulse drives and spike trains"`
}

func (sp *Params) Defaults() {
	sp.Method = RK4
	sp.Dt = 0.01
	sp.ErrTol = 1e-06
	sp.MinStep = 1e-08
	sp.MaxStep = 1
	sp.RecDt = 0
}

// Update maintains invariants between the parameters.
func (sp *Params) Update() {
	if sp.MinStep > sp.MaxStep {
		sp.MinStep = sp.MaxStep
	}
}
