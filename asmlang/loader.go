// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asmlang

import (
	"io"

	"github.com/cannotparse/laval-simulator/core"
	"github.com/cannotparse/laval-simulator/corelang"
)

func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, corelang.Wrap(corelang.TruncatedImage, err, "reading image")
	}
	return buf[0], nil
}

// LoadBinary is the exact inverse of Assemble: it reads the settings
// header, the core-to-bank map, the variables block, and then banks
// until end of stream, filling memory and wiring each core to its
// mapped bank.
func LoadBinary(r io.Reader) (*Cpu, error) {
	settings, err := core.LoadSettings(r)
	if err != nil {
		return nil, err
	}

	mapLen, err := readByte(r)
	if err != nil {
		return nil, err
	}
	settings.MemMap = make([]uint8, mapLen)
	for i := range settings.MemMap {
		b, err := readByte(r)
		if err != nil {
			return nil, err
		}
		settings.MemMap[i] = b
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	vCount, err := readByte(r)
	if err != nil {
		return nil, err
	}
	variables := make(LoadedVariables, vCount)
	for i := range variables {
		kCount, err := readByte(r)
		if err != nil {
			return nil, err
		}
		sites := make([]VarSite, kCount)
		for j := range sites {
			block, err := readByte(r)
			if err != nil {
				return nil, err
			}
			offset, err := readByte(r)
			if err != nil {
				return nil, err
			}
			sites[j] = VarSite{Block: block, Offset: offset}
		}
		variables[i] = sites
	}

	mem := core.NewMemory(settings.MemNumber, settings.MemSize)
	set := core.Instructions()
	for {
		bankID, err := readByte(r)
		if err != nil {
			if isEOF(err) {
				break
			}
			return nil, err
		}
		count, err := readByte(r)
		if err != nil {
			return nil, err
		}
		if int(count) > mem.BankSize() {
			return nil, corelang.New(corelang.ImageTooLarge,
				"bank %d has %d instructions, exceeds mem_size %d", bankID, count, mem.BankSize()).
				WithLocation(bankID, 0)
		}
		opcodes := make([]byte, count)
		for i := range opcodes {
			b, err := readByte(r)
			if err != nil {
				return nil, err
			}
			// Validate every opcode decodes, mirroring dump/create used
			// at assemble time; an unrecognized byte fails immediately
			// rather than surfacing lazily the first time a core fetches it.
			if _, err := set.CreateFromOpcode(b); err != nil {
				if ce, ok := err.(*corelang.Error); ok {
					return nil, ce.WithLocation(bankID, uint8(i))
				}
				return nil, err
			}
			opcodes[i] = b
		}
		mem.Fill(bankID, opcodes)
	}

	grid := core.NewCoreArray(settings.Cores, mem)
	for id := 0; id < grid.Len(); id++ {
		grid.At(id).Wire(settings.MemMap[id])
	}

	return &Cpu{Settings: settings, Memory: mem, Variables: variables, Grid: grid}, nil
}

// isEOF reports whether err is the TruncatedImage wrapper around a clean
// io.EOF (as opposed to an io.ErrUnexpectedEOF mid-record, which is a
// genuine TruncatedImage failure).
func isEOF(err error) bool {
	ce, ok := err.(*corelang.Error)
	if !ok {
		return false
	}
	wrapped := ce.Unwrap()
	return wrapped == io.EOF
}

// Start executes the grid to termination: every tick, Preload runs on
// every core and then Fetch runs on every core, so each core's preload
// observes the prior tick's state (§5). Start stops when every core is
// halted, or immediately on a core error (e.g. CatastrophicHalt, which
// is fatal to the simulation). The designated result register is core
// 0's Val, consistent with the canonical program's expected result.
func (c *Cpu) Start() (byte, error) {
	for {
		allHalted := true
		for id := 0; id < c.Grid.Len(); id++ {
			if !c.Grid.At(id).Reg.Halted {
				allHalted = false
				break
			}
		}
		if allHalted {
			break
		}
		for id := 0; id < c.Grid.Len(); id++ {
			if err := c.Grid.At(id).Preload(false); err != nil {
				return 0, err
			}
		}
		for id := 0; id < c.Grid.Len(); id++ {
			if _, err := c.Grid.At(id).Fetch(); err != nil {
				return 0, err
			}
		}
	}
	return c.Grid.At(0).Reg.Val, nil
}
