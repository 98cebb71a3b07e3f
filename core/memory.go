// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

// Bank is a fixed-size sequence of opcode bytes; one program lives in one
// or more banks.
type Bank []byte

// Memory is a two-dimensional ordered collection of fixed-size
// instruction banks, sized by Settings. It plays the role the teacher's
// FlatMemory plays for a single flat 6502 address space, but here each
// core reads from its own assigned bank rather than a shared space.
type Memory struct {
	banks []Bank
}

// NewMemory allocates a Memory with memNumber banks of memSize bytes
// each, all zeroed.
func NewMemory(memNumber, memSize uint8) *Memory {
	m := &Memory{banks: make([]Bank, memNumber)}
	for i := range m.banks {
		m.banks[i] = make(Bank, memSize)
	}
	return m
}

// BankCount returns the number of instruction banks.
func (m *Memory) BankCount() int {
	return len(m.banks)
}

// BankSize returns the number of instructions held in each bank.
func (m *Memory) BankSize() int {
	if len(m.banks) == 0 {
		return 0
	}
	return len(m.banks[0])
}

// Bank returns the bank at the given index.
func (m *Memory) Bank(i uint8) Bank {
	return m.banks[i]
}

// LoadByte reads the opcode byte at (bank, offset).
func (m *Memory) LoadByte(bank, offset uint8) byte {
	return m.banks[bank][offset]
}

// StoreByte writes the opcode byte at (bank, offset). Exposed for
// self-modifying programs, which the core pipeline permits only against
// the executing core's own bank during the execute phase (see Core.Step).
func (m *Memory) StoreByte(bank, offset uint8, v byte) {
	m.banks[bank][offset] = v
}

// Fill copies opcodes into a bank, as the loader does when reconstructing
// memory from a binary image.
func (m *Memory) Fill(bank uint8, opcodes []byte) {
	copy(m.banks[bank], opcodes)
}
