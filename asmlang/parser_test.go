// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"strings"
	"testing"

	"github.com/cannotparse/laval-simulator/corelang"
)

const canonicalSource = `.cores 1,1,1
.mem_number 3
.mem_size 3
.mem_map 2
1:
NOP
2:
LCL 2
LCH 1
HLT
`

func TestBuildASTCanonicalProgram(t *testing.T) {
	ast, settings, _, err := BuildAST(strings.NewReader(canonicalSource))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	if settings.Cores != [3]uint8{1, 1, 1} || settings.MemNumber != 3 || settings.MemSize != 3 {
		t.Fatalf("settings = %+v", settings)
	}
	if len(settings.MemMap) != 1 || settings.MemMap[0] != 2 {
		t.Fatalf("mem_map = %v, want [2]", settings.MemMap)
	}

	bank1 := ast[1]
	if len(bank1) != 1 || bank1[0].Mnemonic != "NOP" {
		t.Fatalf("bank 1 = %+v, want one NOP", bank1)
	}
	bank2 := ast[2]
	if len(bank2) != 3 {
		t.Fatalf("bank 2 = %+v, want 3 entries", bank2)
	}
	if bank2[0].Mnemonic != "LCL" || len(bank2[0].Args) != 1 || bank2[0].Args[0] != 2 {
		t.Fatalf("bank 2[0] = %+v, want LCL 2", bank2[0])
	}
}

func TestBuildASTVariableSites(t *testing.T) {
	src := `.cores 1,1,1
.mem_number 3
.mem_size 3
.mem_map 0
2:
LCL a
NOP
LCH a
`
	_, _, vars, err := BuildAST(strings.NewReader(src))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	sites := vars[0]
	want := []VarSite{{Block: 2, Offset: 0}, {Block: 2, Offset: 2}}
	if len(sites) != 2 || sites[0] != want[0] || sites[1] != want[1] {
		t.Fatalf("variables[0] = %+v, want %+v", sites, want)
	}
}

func TestBuildASTSettingOverflow(t *testing.T) {
	src := ".mem_map 300\n"
	_, _, _, err := BuildAST(strings.NewReader(src))
	cerr, ok := err.(*corelang.Error)
	if !ok || cerr.Kind != corelang.OverflowingLiteral {
		t.Fatalf("expected OverflowingLiteral, got %v", err)
	}
}

func TestBuildASTSyntaxError(t *testing.T) {
	src := "this is not valid assembly\n"
	_, _, _, err := BuildAST(strings.NewReader(src))
	cerr, ok := err.(*corelang.Error)
	if !ok || cerr.Kind != corelang.SyntaxError {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
}

func TestBuildASTIgnoresBlankAndCommentLines(t *testing.T) {
	src := "\n; a comment\n.mem_size 4\n\n1:\nNOP\n"
	ast, settings, _, err := BuildAST(strings.NewReader(src))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	if settings.MemSize != 4 {
		t.Fatalf("MemSize = %d, want 4", settings.MemSize)
	}
	if len(ast[1]) != 1 {
		t.Fatalf("bank 1 = %+v, want one instruction", ast[1])
	}
}

func TestBuildASTDeterministic(t *testing.T) {
	ast1, s1, v1, err := BuildAST(strings.NewReader(canonicalSource))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	ast2, s2, v2, err := BuildAST(strings.NewReader(canonicalSource))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	if s1.Cores != s2.Cores || s1.MemNumber != s2.MemNumber || s1.MemSize != s2.MemSize || len(s1.MemMap) != len(s2.MemMap) {
		t.Fatalf("settings differ across identical runs: %+v vs %+v", s1, s2)
	}
	for i := range v1 {
		if len(v1[i]) != len(v2[i]) {
			t.Fatalf("variables[%d] differs across identical runs: %+v vs %+v", i, v1[i], v2[i])
		}
	}
	if len(ast1) != len(ast2) || len(ast1[2]) != len(ast2[2]) {
		t.Fatalf("ast differs across identical runs")
	}
}
