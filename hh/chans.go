// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hh

// Chans are the Hodgkin-Huxley ion channels: gated sodium, gated
// potassium, and constant leak.  The same struct holds either maximal
// conductances or reversal potentials.
type Chans struct {
	Na float32 `desc:"voltage-gated sodium channels, the fast depolarizing current"`
	K  float32 `desc:"voltage-gated (delayed rectifier) potassium channels, repolarizing"`
	L  float32 `desc:"constant leak channels -- determines resting potential"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(na, k, l float32) {
	ch.Na, ch.K, ch.L = na, k, l
}

// SetFmOtherMinus sets all the values from other Chans minus given value
func (ch *Chans) SetFmOtherMinus(oth Chans, minus float32) {
	ch.Na, ch.K, ch.L = oth.Na-minus, oth.K-minus, oth.L-minus
}
