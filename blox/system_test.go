// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blox

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func makeSysGraph() *Graph {
	gr := NewGraph("SysTest")
	ua := newTestUnit("A")
	src := newTestSrc("Src", 2)
	gr.AddBlox(ua)
	gr.AddBlox(src)
	gr.Connect(src, ua, 1)
	return gr
}

func TestSystemLookup(t *testing.T) {
	sys, err := makeSysGraph().Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	nms := sys.VarNames()
	trg := []string{"A.V", "A.Jcn", "Src.U"}
	if len(nms) != len(trg) {
		t.Fatalf("VarNames len err: got: %v, trg: %v", len(nms), len(trg))
	}
	for i := range nms {
		if nms[i] != trg[i] {
			t.Errorf("VarNames[%v] err: got: %v, trg: %v", i, nms[i], trg[i])
		}
	}
	if _, err := sys.VarByNameTry("A.Bogus"); err == nil {
		t.Errorf("unknown variable should have failed")
	}
	blk, err := sys.BlockByNameTry("A")
	if err != nil {
		t.Fatal(err)
	}
	if blk.NV != 2 {
		t.Errorf("block NV err: got: %v, trg: 2", blk.NV)
	}
	if _, err := sys.BlockByNameTry("Nope"); err == nil {
		t.Errorf("unknown block should have failed")
	}
	spk, err := sys.SpikeVarTry("A")
	if err != nil {
		t.Fatal(err)
	}
	vi, _ := sys.VarByNameTry("A.V")
	if spk != vi {
		t.Errorf("spike var err: got: %v, trg: %v", spk, vi)
	}
}

func TestSystemInitVec(t *testing.T) {
	sys, err := makeSysGraph().Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	x := sys.InitVec()
	if len(x) != sys.NVars() {
		t.Fatalf("InitVec len err: got: %v, trg: %v", len(x), sys.NVars())
	}
	ui, _ := sys.VarByNameTry("Src.U")
	CmprFloats([]float32{x[ui]}, []float32{2}, "source init", t)
	// fresh vector each call
	x[ui] = 99
	x2 := sys.InitVec()
	CmprFloats([]float32{x2[ui]}, []float32{2}, "second init", t)
}

func TestSystemWriteJSON(t *testing.T) {
	sys, err := makeSysGraph().Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := sys.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("WriteJSON produced invalid JSON: %v", err)
	}
	if parsed["System"] != "SysTest" {
		t.Errorf("System key err: got: %v", parsed["System"])
	}
	vars, ok := parsed["Vars"].([]interface{})
	if !ok || len(vars) != 3 {
		t.Errorf("Vars key err: got: %v", parsed["Vars"])
	}
}

func TestSystemSizeReport(t *testing.T) {
	sys, err := makeSysGraph().Compile(nil)
	if err != nil {
		t.Fatal(err)
	}
	rep := sys.SizeReport()
	if !strings.Contains(rep, "Vars: 3") || !strings.Contains(rep, "Blocks: 2") {
		t.Errorf("size report err: got: %v", rep)
	}
}
