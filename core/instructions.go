// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"github.com/beevik/prefixtree/v2"

	"github.com/cannotparse/laval-simulator/corelang"
)

// instfunc is the emulator implementation of one instruction variant. It
// receives the immediate packed into the opcode byte (0 for zero-arity
// instructions) and reports whether the program counter should advance.
type instfunc func(c *Core, imm uint8) (advance bool, err error)

// encodefunc validates and packs an AST argument list into the
// instruction's immediate field.
type encodefunc func(args []byte) (imm uint8, err error)

// instrDef describes one of the 24 instruction variants: its mnemonic,
// its opcode group tag, the number of arguments it accepts from the AST,
// and its encode/execute implementations.
//
// Opcode layout: zero-arity instructions occupy a full opcode byte
// (0x00-0x0F) directly, one per mnemonic. One-arity instructions pack a
// 4-bit immediate into the low nibble of an opcode whose high nibble (1-8)
// selects the mnemonic: opcode = tag<<4 | imm. This is implementation-
// defined bit layout per the specification; see DESIGN.md.
type instrDef struct {
	name   string
	tag    uint8 // 0x00-0x0F for zero-arity (the opcode itself); 1-8 for one-arity
	arity  int
	encode encodefunc
	exec   instfunc
}

func noArgs(args []byte) (uint8, error) {
	if len(args) != 0 {
		return 0, corelang.New(corelang.BadArity, "expected 0 arguments, got %d", len(args))
	}
	return 0, nil
}

func nibbleArg(args []byte) (uint8, error) {
	if len(args) != 1 {
		return 0, corelang.New(corelang.BadArity, "expected 1 argument, got %d", len(args))
	}
	if args[0] > 0x0f {
		return 0, corelang.New(corelang.BadArity, "argument %d does not fit in a 4-bit immediate", args[0])
	}
	return args[0], nil
}

func muxArg(args []byte) (uint8, error) {
	if len(args) != 1 {
		return 0, corelang.New(corelang.BadArity, "expected 1 argument, got %d", len(args))
	}
	if args[0] > 7 {
		return 0, corelang.New(corelang.BadArity, "mux operand %d is not a valid 3-bit direction code", args[0])
	}
	return args[0], nil
}

// signedNibbleArg packs a byte holding a two's-complement signed value
// (as produced by the parser for negative jump offsets) into a 4-bit
// immediate, valid for offsets in [-8,7].
func signedNibbleArg(args []byte) (uint8, error) {
	if len(args) != 1 {
		return 0, corelang.New(corelang.BadArity, "expected 1 argument, got %d", len(args))
	}
	offset := int8(args[0])
	if offset < -8 || offset > 7 {
		return 0, corelang.New(corelang.BadArity, "jump offset %d does not fit in a 4-bit signed immediate", offset)
	}
	return uint8(offset) & 0x0f, nil
}

func signExtendNibble(imm uint8) int8 {
	return int8(imm<<4) >> 4
}

func advanceWrap(pc uint8, memSize int) uint8 {
	if memSize == 0 {
		return 0
	}
	return uint8((int(pc) + 1) % memSize)
}

func jumpTo(c *Core, offset int8) {
	memSize := c.Mem.BankSize()
	if memSize == 0 {
		return
	}
	target := (int(c.Reg.PC) + int(offset)) % memSize
	if target < 0 {
		target += memSize
	}
	c.Reg.PC = uint8(target)
}

func addFlags(a, b uint8) (result uint8, carry, overflow bool) {
	sum := int(a) + int(b)
	result = uint8(sum)
	carry = sum > 0xff
	signedSum := int(int8(a)) + int(int8(b))
	overflow = signedSum < -128 || signedSum > 127
	return result, carry, overflow
}

func subFlags(a, b uint8) (result uint8, borrow, overflow bool) {
	diff := int(a) - int(b)
	result = uint8(diff)
	borrow = diff < 0
	signedDiff := int(int8(a)) - int(int8(b))
	overflow = signedDiff < -128 || signedDiff > 127
	return result, borrow, overflow
}

func updateZN(c *Core, v uint8) {
	c.Reg.Status2.Zero = v == 0
	c.Reg.Status2.Negative = v&0x80 != 0
}

func preloadOrZero(c *Core) uint8 {
	if !c.Reg.HasPreload {
		return 0
	}
	return c.Reg.Preload
}

var instrDefs = []instrDef{
	{name: "NOP", tag: 0x00, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		return true, nil
	}},
	{name: "SYN", tag: 0x01, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status1.Sync = true
		return false, nil
	}},
	{name: "DBG", tag: 0x02, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		if c.Debug != nil {
			c.Debug(c.Reg)
		}
		return true, nil
	}},
	{name: "HCF", tag: 0x03, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		return false, corelang.New(corelang.CatastrophicHalt, "HCF executed")
	}},
	{name: "HLT", tag: 0x04, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Halted = true
		return false, nil
	}},
	{name: "MXD", tag: 0x05, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val = preloadOrZero(c)
		updateZN(c, c.Reg.Val)
		return true, nil
	}},
	{name: "MXL", tag: 0x06, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val = preloadOrZero(c)
		c.Reg.Status2.Negative = c.Reg.PreloadNegative
		c.Reg.Status2.Zero = c.Reg.Val == 0
		return true, nil
	}},
	{name: "MXA", tag: 0x07, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		result, carry, overflow := addFlags(c.Reg.Val, preloadOrZero(c))
		c.Reg.Val = result
		c.Reg.Status2.Carry = carry
		c.Reg.Status2.Overflow = overflow
		updateZN(c, result)
		return true, nil
	}},
	{name: "MXS", tag: 0x08, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		result, borrow, overflow := subFlags(c.Reg.Val, preloadOrZero(c))
		c.Reg.Val = result
		c.Reg.Status2.Carry = borrow
		c.Reg.Status2.Overflow = overflow
		updateZN(c, result)
		return true, nil
	}},
	{name: "LSL", tag: 0x09, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status2.Carry = c.Reg.Val&0x80 != 0
		c.Reg.Val <<= 1
		updateZN(c, c.Reg.Val)
		return true, nil
	}},
	{name: "LSR", tag: 0x0a, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status2.Carry = c.Reg.Val&0x01 != 0
		c.Reg.Val >>= 1
		updateZN(c, c.Reg.Val)
		return true, nil
	}},
	{name: "CAD", tag: 0x0b, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		result, carry, overflow := addFlags(c.Reg.Val, preloadOrZero(c))
		c.Reg.Val = result
		c.Reg.Status2.Carry = carry
		c.Reg.Status2.Overflow = overflow
		updateZN(c, result)
		return true, nil
	}},
	{name: "CSU", tag: 0x0c, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		result, borrow, overflow := subFlags(c.Reg.Val, preloadOrZero(c))
		c.Reg.Val = result
		c.Reg.Status2.Carry = borrow
		c.Reg.Status2.Overflow = overflow
		updateZN(c, result)
		return true, nil
	}},
	{name: "CAN", tag: 0x0d, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val &= preloadOrZero(c)
		c.Reg.Status2.Carry = false
		c.Reg.Status2.Overflow = false
		updateZN(c, c.Reg.Val)
		return true, nil
	}},
	{name: "COR", tag: 0x0e, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val |= preloadOrZero(c)
		c.Reg.Status2.Carry = false
		c.Reg.Status2.Overflow = false
		updateZN(c, c.Reg.Val)
		return true, nil
	}},
	{name: "CTC", tag: 0x0f, arity: 0, encode: noArgs, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status1.CTC = !c.Reg.Status1.CTC
		return true, nil
	}},
	{name: "CTV", tag: 1, arity: 1, encode: nibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status1.CTC = imm != 0
		return true, nil
	}},
	{name: "MUX", tag: 2, arity: 1, encode: muxArg, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Status1.Mux = imm
		return true, nil
	}},
	{name: "LCL", tag: 3, arity: 1, encode: nibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val = (c.Reg.Val & 0xf0) | imm
		return true, nil
	}},
	{name: "LCH", tag: 4, arity: 1, encode: nibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		c.Reg.Val = (imm << 4) | (c.Reg.Val & 0x0f)
		return true, nil
	}},
	{name: "JLZ", tag: 5, arity: 1, encode: signedNibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		if c.Reg.Status2.Negative {
			jumpTo(c, signExtendNibble(imm))
			return false, nil
		}
		return true, nil
	}},
	{name: "JEZ", tag: 6, arity: 1, encode: signedNibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		if c.Reg.Status2.Zero {
			jumpTo(c, signExtendNibble(imm))
			return false, nil
		}
		return true, nil
	}},
	{name: "JGZ", tag: 7, arity: 1, encode: signedNibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		if !c.Reg.Status2.Negative && !c.Reg.Status2.Zero {
			jumpTo(c, signExtendNibble(imm))
			return false, nil
		}
		return true, nil
	}},
	{name: "JMP", tag: 8, arity: 1, encode: signedNibbleArg, exec: func(c *Core, imm uint8) (bool, error) {
		jumpTo(c, signExtendNibble(imm))
		return false, nil
	}},
}

// Instruction is a fully decoded instruction, ready to execute or to be
// dumped back to its opcode byte.
type Instruction struct {
	def    *instrDef
	Opcode byte
	Imm    uint8
}

// Name returns the instruction's mnemonic.
func (i Instruction) Name() string {
	return i.def.name
}

// InstructionSet is the process-wide, immutable registry of the 24
// instruction variants, keyed both by mnemonic (via a prefix tree, shared
// by every core since the registration list never changes after init)
// and by opcode byte.
type InstructionSet struct {
	byMnemonic *prefixtree.Tree[*instrDef]
	byOpcode   [256]*instrDef
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{byMnemonic: prefixtree.New[*instrDef]()}
	for i := range instrDefs {
		d := &instrDefs[i]
		if err := set.byMnemonic.Add(d.name, d); err != nil {
			panic("laval-simulator: duplicate mnemonic " + d.name)
		}
		if d.arity == 0 {
			set.byOpcode[d.tag] = d
		} else {
			for imm := uint8(0); imm < 16; imm++ {
				set.byOpcode[d.tag<<4|imm] = d
			}
		}
	}
	return set
}

var defaultInstructionSet = newInstructionSet()

// Instructions returns the process-wide instruction set.
func Instructions() *InstructionSet {
	return defaultInstructionSet
}

// CreateFromAST resolves a mnemonic plus argument list (as produced by
// the assembler's AST) into an executable Instruction.
func (s *InstructionSet) CreateFromAST(mnemonic string, args []byte) (Instruction, error) {
	def, err := s.byMnemonic.Find(mnemonic)
	if err != nil {
		return Instruction{}, corelang.New(corelang.UnknownMnemonic, "unknown mnemonic %q", mnemonic)
	}
	imm, err := def.encode(args)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{def: def, Opcode: dumpOpcode(def, imm), Imm: imm}, nil
}

func dumpOpcode(def *instrDef, imm uint8) byte {
	if def.arity == 0 {
		return def.tag
	}
	return def.tag<<4 | imm
}

// CreateFromOpcode decodes a raw opcode byte into an executable
// Instruction.
func (s *InstructionSet) CreateFromOpcode(opcode byte) (Instruction, error) {
	def := s.byOpcode[opcode]
	if def == nil {
		return Instruction{}, corelang.New(corelang.UnknownOpcode, "opcode 0x%02x is not assigned to any instruction", opcode)
	}
	imm := opcode
	if def.arity != 0 {
		imm &= 0x0f
	} else {
		imm = 0
	}
	return Instruction{def: def, Opcode: opcode, Imm: imm}, nil
}

// Dump is the left inverse of CreateFromOpcode: Dump(CreateFromOpcode(b))
// == b for every assigned opcode.
func (i Instruction) Dump() byte {
	return i.Opcode
}

// needsNeighborData reports whether this instruction requires a neighbor
// datum to have been preloaded before it executes — the set of opcodes
// the preload phase must fetch from a neighbor rather than skip.
func (i Instruction) needsNeighborData() bool {
	switch i.def.name {
	case "MXD", "MXL", "MXA", "MXS":
		return true
	default:
		return false
	}
}

// Execute runs the instruction against a core's register file.
func (i Instruction) Execute(c *Core) (advance bool, err error) {
	return i.def.exec(c, i.Imm)
}
