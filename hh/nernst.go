// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hh

import "github.com/chewxy/math32"

// NernstParams compute the equilibrium (reversal) potential of an ion
// from its concentrations on either side of the membrane, which is where
// the channel reversal defaults come from physiologically.
type NernstParams struct {
	DegC float32 `def:"37" desc:"temperature in degrees celsius"`
	Z    float32 `def:"1" desc:"ion valence: +1 K+ / Na+, +2 Ca++, -1 Cl-"`
	COut float32 `min:"0" desc:"extracellular concentration in mM"`
	CIn  float32 `min:"0" desc:"intracellular concentration in mM"`
}

func (np *NernstParams) Defaults() {
	np.DegC = 37
	np.Z = 1
}

// gas constant (J / mol K) and Faraday constant (C / mol)
const (
	RGas    = 8.31446
	Faraday = 96485.3
)

// Potential returns the equilibrium potential in mV:
// E = (R T / z F) ln(COut / CIn).
func (np *NernstParams) Potential() float32 {
	tk := np.DegC + 273.15
	return 1000 * RGas * tk / (np.Z * Faraday) * math32.Log(np.COut/np.CIn)
}
