// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"sort"
)

// Config is a keyword configuration for constructing a component
// through the factory registry.  Keys are the recognized option names
// of the kind being constructed; each factory validates the keys it is
// given and fills unset options from its defaults.
type Config map[string]float64

// Has returns true if the option is present.
func (cf Config) Has(key string) bool {
	_, has := cf[key]
	return has
}

// Opt returns the option as a float32, or def if unset.
func (cf Config) Opt(key string, def float32) float32 {
	if v, has := cf[key]; has {
		return float32(v)
	}
	return def
}

// Opt64 returns the option as a float64, or def if unset.
func (cf Config) Opt64(key string, def float64) float64 {
	if v, has := cf[key]; has {
		return v
	}
	return def
}

// Unknown returns the first (alphabetically) option key not in the
// recognized list, or empty if all keys are recognized.
func (cf Config) Unknown(known ...string) string {
	ks := make([]string, 0, len(cf))
	for k := range cf {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	for _, k := range ks {
		rec := false
		for _, kn := range known {
			if k == kn {
				rec = true
				break
			}
		}
		if !rec {
			return k
		}
	}
	return ""
}

// Factory constructs a named component of one kind from a keyword
// configuration, returning ConfigError for an unrecognized or missing
// required option.
type Factory func(name string, cfg Config) (Blox, error)

var factories = map[Kinds]Factory{}

// RegisterFactory registers the factory for a kind.  Called at init
// time by the model packages, alongside NewKind.
func RegisterFactory(k Kinds, fn Factory) {
	if _, has := factories[k]; has {
		panic("blox.RegisterFactory: factory already registered for kind: " + k.String())
	}
	factories[k] = fn
}

// New constructs a component by kind name through the factory
// registry: the dynamic entry point mirroring the typed constructors
// in the model packages.  Unknown kind names and kinds without a
// registered factory return ConfigError.
func New(kind, name string, cfg Config) (Blox, error) {
	k, err := KindByNameTry(kind)
	if err != nil {
		return nil, &ConfigError{Blox: name, Kind: kind, Msg: "kind not registered"}
	}
	fn, has := factories[k]
	if !has {
		return nil, &ConfigError{Blox: name, Kind: kind, Msg: "no factory registered for kind"}
	}
	return fn(name, cfg)
}
