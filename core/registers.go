// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "github.com/cannotparse/laval-simulator/corelang"

// Status1 is the core's direction/control status byte: a 3-bit neighbor
// selector (Mux), a carry-through control bit (CTC) and a soft-stall flag
// (Sync). It is packed into a single byte on disk but, per the source
// architecture's habit of taking the address of individual status fields,
// exposed here as ordinary fields rather than a bitfield.
type Status1 struct {
	Mux  uint8 // 3 bits, [0,7]
	CTC  bool
	Sync bool
}

// Pack encodes Status1 into the on-disk status byte: bit 0-2 mux, bit 3
// ctc, bit 4 sync.
func (s Status1) Pack() byte {
	var b byte
	b |= s.Mux & 0x07
	if s.CTC {
		b |= 1 << 3
	}
	if s.Sync {
		b |= 1 << 4
	}
	return b
}

// UnpackStatus1 decodes an on-disk status byte into Status1.
func UnpackStatus1(b byte) Status1 {
	return Status1{
		Mux:  b & 0x07,
		CTC:  b&(1<<3) != 0,
		Sync: b&(1<<4) != 0,
	}
}

// Status2 is the core's memory-bank and condition-flag status byte.
type Status2 struct {
	MemBank  uint8
	Carry    bool
	Negative bool
	Overflow bool
	Zero     bool
}

// Pack encodes Status2 into the on-disk status byte. Only membank is
// persisted; the condition flags are runtime-only state set by
// instruction execution, never loaded from an image.
func (s Status2) Pack() byte {
	return s.MemBank
}

// UnpackStatus2 decodes the on-disk membank byte; the condition flags are
// runtime-only state, never persisted, and are zeroed on unpack.
func UnpackStatus2(b byte) Status2 {
	return Status2{MemBank: b}
}

// Registers holds the full per-core register file: the arithmetic
// accumulator, the most recently preloaded neighbor datum, the program
// counter, and the two packed status bytes.
type Registers struct {
	Val             uint8
	HasPreload      bool
	Preload         uint8
	PreloadNegative bool
	PC              uint8

	Status1
	Status2

	// ID is the core's linear index in the grid. It is not addressable
	// by any instruction; it exists purely so a core can recognize
	// itself when computing neighbor offsets.
	ID int

	// Halted is set by HLT. Once set, Core.Step is a permanent no-op.
	Halted bool
}

// Snapshot produces the decoupled register snapshot attached to errors
// raised during execution.
func (r *Registers) Snapshot() corelang.RegisterSnapshot {
	return corelang.RegisterSnapshot{
		ID:      r.ID,
		Val:     r.Val,
		PC:      r.PC,
		MemBank: r.Status2.MemBank,
	}
}

// ClearPreload clears the preload register, as happens when a neighbor
// reports itself not-ready (sync) during the preload phase.
func (r *Registers) ClearPreload() {
	r.HasPreload = false
	r.Preload = 0
	r.PreloadNegative = false
}

// SetPreload records a value imported from a neighbor or from a special
// preload source (PC, MEMBANK).
func (r *Registers) SetPreload(value uint8, negative bool) {
	r.HasPreload = true
	r.Preload = value
	r.PreloadNegative = negative
}
