// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/goki/ki/indent"
)

// SysVar is one variable of a compiled system: a component state
// variable under its full namespaced name (Component.Var, with
// composite children as Circuit.Child.Var).
type SysVar struct {
	Nm    string   `desc:"full namespaced variable name"`
	Blox  string   `desc:"full name of the owning component"`
	Local string   `desc:"local variable name within the component"`
	Role  VarRoles `desc:"coupling role"`
	Init  float32  `desc:"initial value"`
}

// Accum is the resolved input accumulator of one component: the sum
// of all coupling terms contributed by connections targeting it.  The
// accumulator variable is algebraic: assigned the summed value before
// every derivative evaluation, never integrated.
type Accum struct {
	Var   int    `desc:"global index of the accumulator variable"`
	Terms []Term `desc:"resolved additive contributions"`
}

// Block is the compiled form of one component: its slice of the
// global state vector plus a frozen copy of its dynamics.
type Block struct {
	Nm  string   `desc:"full namespaced component name"`
	Knd Kinds    `desc:"component kind"`
	St  int      `desc:"starting index of this component's variables in the state vector"`
	NV  int      `desc:"number of variables"`
	Dyn Dynamics `view:"-" desc:"frozen rate-law parameters -- nil for pure-drive sources"`
	Acc []int    `desc:"indexes into System.Accums, in InVars order"`
	Out int      `desc:"global index of the designated output variable"`
	Spk int      `desc:"global index of the spike detection variable"`
}

// System is the compiled, immutable form of a graph: a flat variable
// table, per-component dynamics blocks, resolved accumulator term
// lists, and the aggregated discrete events, drives, trains, and
// noise.  It holds no references back to the graph or its components
// -- everything needed to integrate it is frozen value data, so
// compiling the same graph twice yields structurally equal systems.
type System struct {
	Nm     string         `desc:"name of the source graph"`
	Sep    string         `desc:"namespace separator used in full names"`
	Vars   []SysVar       `desc:"flat variable table"`
	VarMap map[string]int `view:"-" desc:"variable index by full name"`
	Blocks []Block        `desc:"per-component dynamics blocks"`
	BlkMap map[string]int `view:"-" desc:"block index by full component name"`
	Accums []Accum        `desc:"resolved input accumulators"`
	Events []Event        `desc:"discrete events, with resolved indexes and full names"`
	Trains []Train        `desc:"scheduled impulse trains"`
	Drives []Drive        `desc:"algebraic waveform drives"`
	Noises []Noise        `desc:"additive state noise"`
}

// NVars returns the number of state variables.
func (sy *System) NVars() int { return len(sy.Vars) }

// VarByNameTry returns the index of the full namespaced variable
// name, or an error if not found.
func (sy *System) VarByNameTry(nm string) (int, error) {
	vi, has := sy.VarMap[nm]
	if !has {
		return -1, fmt.Errorf("System.VarByNameTry: system: %v variable named: %v not found", sy.Nm, nm)
	}
	return vi, nil
}

// VarByName returns the index of the full namespaced variable name --
// logs and returns -1 if not found.
func (sy *System) VarByName(nm string) int {
	vi, err := sy.VarByNameTry(nm)
	if err != nil {
		log.Println(err)
	}
	return vi
}

// VarNames returns the full variable names in state vector order.
func (sy *System) VarNames() []string {
	nms := make([]string, len(sy.Vars))
	for i := range sy.Vars {
		nms[i] = sy.Vars[i].Nm
	}
	return nms
}

// BlockByNameTry returns the compiled block for the full component
// name, or an error if not found.
func (sy *System) BlockByNameTry(nm string) (*Block, error) {
	bi, has := sy.BlkMap[nm]
	if !has {
		return nil, fmt.Errorf("System.BlockByNameTry: system: %v component named: %v not found", sy.Nm, nm)
	}
	return &sy.Blocks[bi], nil
}

// SpikeVarTry returns the global index of the spike detection
// variable for the full component name.
func (sy *System) SpikeVarTry(nm string) (int, error) {
	blk, err := sy.BlockByNameTry(nm)
	if err != nil {
		return -1, err
	}
	return blk.Spk, nil
}

// InitVec returns a fresh state vector holding the declared initial
// values.
func (sy *System) InitVec() []float32 {
	x := make([]float32, len(sy.Vars))
	for i := range sy.Vars {
		x[i] = sy.Vars[i].Init
	}
	return x
}

// SizeReport returns a string report of the size of the compiled
// system: variables, coupling terms, and the per-step memory cost of
// a recorded trajectory row.
func (sy *System) SizeReport() string {
	var b strings.Builder
	nterms := 0
	for _, ac := range sy.Accums {
		nterms += len(ac.Terms)
	}
	rowMem := uint64(len(sy.Vars)) * 4
	fmt.Fprintf(&b, "%14s:\t Blocks: %d \t Vars: %d \t Terms: %d \t Events: %d \t RowMem: %v\n",
		sy.Nm, len(sy.Blocks), len(sy.Vars), nterms, len(sy.Events),
		(datasize.ByteSize)(rowMem).HumanReadable())
	return b.String()
}

// WriteJSON writes a JSON summary of the compiled structure: the
// variable table, accumulator terms, and events.  This is the
// human-auditable form of what compilation produced.
func (sy *System) WriteJSON(w io.Writer) error {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"System\": %q,\n", sy.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Vars\": [\n"))
	depth++
	for vi := range sy.Vars {
		sv := &sy.Vars[vi]
		w.Write(indent.TabBytes(depth))
		com := ","
		if vi == len(sy.Vars)-1 {
			com = ""
		}
		w.Write([]byte(fmt.Sprintf("{\"Nm\": %q, \"Role\": %q, \"Init\": %g}%s\n", sv.Nm, sv.Role.String(), sv.Init, com)))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("],\n"))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Accums\": [\n"))
	depth++
	for ai := range sy.Accums {
		ac := &sy.Accums[ai]
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("{\"Var\": %q, \"Terms\": [", sy.Vars[ac.Var].Nm)))
		for ti := range ac.Terms {
			tm := &ac.Terms[ti]
			if ti > 0 {
				w.Write([]byte(", "))
			}
			switch tm.Op {
			case Cond:
				w.Write([]byte(fmt.Sprintf("{\"Op\": %q, \"Src\": %q, \"Wt\": %g, \"Rev\": %g, \"Mod\": %q}", tm.Op.String(), sy.Vars[tm.SrcIdx].Nm, tm.Wt, tm.Rev, sy.Vars[tm.ModIdx].Nm)))
			default:
				w.Write([]byte(fmt.Sprintf("{\"Op\": %q, \"Src\": %q, \"Wt\": %g}", tm.Op.String(), sy.Vars[tm.SrcIdx].Nm, tm.Wt)))
			}
		}
		com := ","
		if ai == len(sy.Accums)-1 {
			com = ""
		}
		w.Write([]byte(fmt.Sprintf("]}%s\n", com)))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("],\n"))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"NEvents\": %d,\n", len(sy.Events))))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"NTrains\": %d,\n", len(sy.Trains))))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"NDrives\": %d\n", len(sy.Drives))))
	depth--
	w.Write(indent.TabBytes(depth))
	_, err := w.Write([]byte("}\n"))
	return err
}
