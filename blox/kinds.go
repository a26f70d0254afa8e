// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"fmt"
	"sort"
)

// Kinds is the tag identifying what sort of component a Blox is.
// Every kind is registered with an explicit parent family, forming a
// chain that terminates at AnyKind.  Connection rules dispatch on
// (send kind, recv kind) pairs and fall back along these chains, so a
// newly registered kind inherits the connection behavior of its family
// without registering any rules of its own.
//
// Kinds are registered via NewKind at package init time by the model
// packages (izhi, hh, lif, mass, source, circuit) -- registration is
// not synchronized and must not be done after init.
type Kinds int32

// AnyKind is the root of the kind hierarchy -- every fallback chain
// ends here, and the generic connection rule is keyed on it.
const AnyKind Kinds = 0

type kindDesc struct {
	Nm  string
	Fam Kinds
}

var (
	kindReg = []kindDesc{{Nm: "Any", Fam: AnyKind}}
	kindMap = map[string]Kinds{"Any": AnyKind}
)

// NewKind registers a new component kind under the given parent family
// and returns its tag.  Must be called at init time.  Panics on a
// duplicate name or an unregistered family, as these are programmer
// errors on the order of registering a duplicate type.
func NewKind(name string, family Kinds) Kinds {
	if _, has := kindMap[name]; has {
		panic("blox.NewKind: kind name already registered: " + name)
	}
	if int(family) >= len(kindReg) || family < 0 {
		panic("blox.NewKind: family not registered for kind: " + name)
	}
	k := Kinds(len(kindReg))
	kindReg = append(kindReg, kindDesc{Nm: name, Fam: family})
	kindMap[name] = k
	return k
}

// The base families.  Concrete model kinds register under these.
var (
	// NeuronKind is the family of all spiking point neurons.  Model
	// packages split it into excitatory and inhibitory concrete kinds
	// chained under their own base kind.
	NeuronKind = NewKind("Neuron", AnyKind)

	// NeuralMassKind is the family of population-level mass models.
	NeuralMassKind = NewKind("NeuralMass", AnyKind)

	// SourceKind is the family of stimulus generators: no inputs, and
	// never a valid connection destination.
	SourceKind = NewKind("Source", AnyKind)

	// CompositeKind is the family of components that contain an inner
	// graph of sub-components, expanded during compilation.
	CompositeKind = NewKind("Composite", AnyKind)
)

// NKinds returns the number of registered kinds.
func NKinds() int {
	return len(kindReg)
}

// KindByNameTry returns the kind registered under the given name,
// or an error if no such kind exists.
func KindByNameTry(name string) (Kinds, error) {
	k, has := kindMap[name]
	if !has {
		return AnyKind, fmt.Errorf("blox.KindByNameTry: kind named: %v not registered", name)
	}
	return k, nil
}

// KindNames returns the names of all registered kinds, sorted, for
// auditing the registry.
func KindNames() []string {
	nms := make([]string, len(kindReg))
	for i := range kindReg {
		nms[i] = kindReg[i].Nm
	}
	sort.Strings(nms)
	return nms
}

func (k Kinds) String() string {
	if int(k) >= len(kindReg) || k < 0 {
		return fmt.Sprintf("Kinds(%d)", int(k))
	}
	return kindReg[k].Nm
}

// Family returns the parent family of this kind.  AnyKind is its own
// family.
func (k Kinds) Family() Kinds {
	if int(k) >= len(kindReg) || k < 0 {
		return AnyKind
	}
	return kindReg[k].Fam
}

// IsA returns true if this kind is the given kind or descends from it
// through the family chain.
func (k Kinds) IsA(fam Kinds) bool {
	for {
		if k == fam {
			return true
		}
		if k == AnyKind {
			return false
		}
		k = k.Family()
	}
}

// Chain returns the fallback chain for this kind, from the kind itself
// to AnyKind inclusive.  Connection rule dispatch walks this order, so
// the most specific registered rule always wins.
func (k Kinds) Chain() []Kinds {
	ch := []Kinds{k}
	for k != AnyKind {
		k = k.Family()
		ch = append(ch, k)
	}
	return ch
}
