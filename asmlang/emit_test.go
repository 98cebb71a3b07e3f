// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"bytes"
	"testing"

	"github.com/cannotparse/laval-simulator/core"
)

func TestAssembleCanonicalProgramLayout(t *testing.T) {
	ast, settings, vars, err := BuildAST(bytes.NewReader([]byte(canonicalSource)))
	if err != nil {
		t.Fatalf("BuildAST: %v", err)
	}
	var buf bytes.Buffer
	if err := Assemble(ast, settings, vars, &buf); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// settings(5) + map len(1) + map(1) + var count(1) + bank1(2 header + 1 opcode) + bank2(2 header + 3 opcodes)
	want := 5 + 1 + 1 + 1 + (2 + 1) + (2 + 3)
	if buf.Len() != want {
		t.Fatalf("image length = %d, want %d", buf.Len(), want)
	}

	b := buf.Bytes()
	if b[0] != 1 || b[1] != 1 || b[2] != 1 || b[3] != 3 || b[4] != 3 {
		t.Fatalf("settings header = %v", b[:5])
	}
	if b[5] != 1 || b[6] != 2 {
		t.Fatalf("mem map = %v, want [len=1, 2]", b[5:7])
	}
	if b[7] != 0 {
		t.Fatalf("variable count = %d, want 0", b[7])
	}
}

func TestAssembleImageTooLarge(t *testing.T) {
	ast := AST{0: make([]Node, 256)}
	for i := range ast[0] {
		ast[0][i] = Node{Mnemonic: "NOP"}
	}
	settings := core.Settings{Cores: [3]uint8{1, 1, 1}, MemNumber: 1, MemMap: []uint8{0}}
	var buf bytes.Buffer
	if err := Assemble(ast, settings, Variables{}, &buf); err == nil {
		t.Fatalf("expected ImageTooLarge for a 256-instruction bank")
	}
}
