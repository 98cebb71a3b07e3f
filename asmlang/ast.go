// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asmlang implements the assembler front end and back end:
// preprocessing, parsing source text into an AST, emitting the AST as a
// binary image, and loading a binary image back into runnable state.
package asmlang

import "github.com/cannotparse/laval-simulator/core"

// Node is one parsed instruction: a mnemonic and its argument bytes.
type Node struct {
	Mnemonic string
	Args     []byte
}

// AST maps a bank id to its ordered instruction sequence.
type AST map[uint8][]Node

// VarSite is a location at which a variable's value is loaded — an
// offset (instruction index) within a bank.
type VarSite struct {
	Block  uint8
	Offset uint8
}

// Variables is the table of load sites for the 26 variable letters
// a..z, indexed by letter - 'a'. Slots with no sites are simply empty;
// BuildAST rejects a source file that leaves a referenced slot empty.
type Variables [26][]VarSite

func varIndex(letter byte) int {
	return int(letter - 'a')
}

// VarLetter returns the source letter an index names, the inverse of
// varIndex.
func VarLetter(index int) byte {
	return 'a' + byte(index)
}

// LoadedVariables is the on-disk shape of the variables block: a compact
// list of site lists, one per variable that was actually declared. The
// binary format has no room for the original letter (it only needs to
// re-patch the sites, not to report which source letter produced them),
// so a 26-entry Variables collapses to this when assembled and expands
// back into exactly this compact shape when reloaded — letter identity
// is a parse-time-only concept.
type LoadedVariables [][]VarSite

// Compact drops empty slots, producing the form assemble writes and
// LoadBinary reconstructs.
func (v Variables) Compact() LoadedVariables {
	out := make(LoadedVariables, 0, len(v))
	for _, sites := range v {
		if len(sites) > 0 {
			out = append(out, sites)
		}
	}
	return out
}

// banks returns the AST's bank ids in ascending order, the order
// assemble writes them in.
func (a AST) banks() []uint8 {
	ids := make([]uint8, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// Cpu is the runnable state reconstructed by LoadBinary: settings,
// memory, the core-to-bank map, the variables table and the wired-up
// core grid.
type Cpu struct {
	Settings  core.Settings
	Memory    *core.Memory
	Variables LoadedVariables
	Grid      *core.CoreArray
}
