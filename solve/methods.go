// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import "github.com/goki/ki/kit"

// Methods are the supported numerical integration methods.
type Methods int32

//go:generate stringer -type=Methods

var KiT_Methods = kit.Enums.AddEnum(MethodsN, kit.NotBitFlag, nil)

func (ev Methods) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Methods) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Euler is the explicit first-order method.  It is the only method
	// that supports stochastic (noise) terms, where it performs the
	// standard Euler-Maruyama update.
	Euler Methods = iota

	// Heun is the explicit trapezoidal second-order method (RK2).
	Heun

	// RK4 is the classic fixed-step fourth-order Runge-Kutta method.
	RK4

	// RK45 is the adaptive Cash-Karp 4(5) Runge-Kutta method, with
	// per-step error control via Params.ErrTol.
	RK45

	MethodsN
)
