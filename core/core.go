// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"github.com/cannotparse/laval-simulator/corelang"
	"github.com/cannotparse/laval-simulator/direction"
)

// CoreArray is the fixed three-dimensional grid a Core's direction codes
// are resolved against. Its topology never changes after construction;
// cores read it during the preload phase but never mutate it.
type CoreArray struct {
	dims  [3]uint8
	cores []*Core
}

// NewCoreArray allocates an x by y by z grid of unwired cores sharing the
// given memory.
func NewCoreArray(dims [3]uint8, mem *Memory) *CoreArray {
	count := int(dims[0]) * int(dims[1]) * int(dims[2])
	g := &CoreArray{dims: dims, cores: make([]*Core, count)}
	for id := range g.cores {
		g.cores[id] = newCore(id, g, mem)
	}
	return g
}

// Len returns the number of cores in the grid.
func (g *CoreArray) Len() int {
	return len(g.cores)
}

// At returns the core at the given linear id.
func (g *CoreArray) At(id int) *Core {
	return g.cores[id]
}

// coord splits a linear id into (x, y, z) grid coordinates.
func (g *CoreArray) coord(id int) (x, y, z int) {
	x = id % int(g.dims[0])
	y = (id / int(g.dims[0])) % int(g.dims[1])
	z = id / (int(g.dims[0]) * int(g.dims[1]))
	return
}

func (g *CoreArray) index(x, y, z int) int {
	return x + y*int(g.dims[0]) + z*int(g.dims[0])*int(g.dims[1])
}

func wrap(v int, dim int) int {
	if dim <= 0 {
		return 0
	}
	v %= dim
	if v < 0 {
		v += dim
	}
	return v
}

// Offset resolves a CoreDirection to the linear id of the core it names
// from the requesting core's position, wrapping around each axis
// (the grid is toroidal). It always succeeds: a direction never walks
// off the grid, it wraps back into it — which is exactly how a direction
// can resolve back to the requesting core itself on a grid whose extent
// is 1 along that axis. That is the self-fetch condition the core
// pipeline checks for; see Core.Preload.
func (g *CoreArray) Offset(id int, d direction.CoreDirection) int {
	x, y, z := g.coord(id)
	switch d.Axis {
	case direction.AxisX:
		x = wrap(x+int(d.Delta), int(g.dims[0]))
	case direction.AxisY:
		y = wrap(y+int(d.Delta), int(g.dims[1]))
	default:
		z = wrap(z+int(d.Delta), int(g.dims[2]))
	}
	return g.index(x, y, z)
}

// Core is a single processing element in the grid: a register file, a
// reference to shared memory, and a reference to the grid it sits in (so
// it can resolve its mux direction into a neighbor during the preload
// phase).
type Core struct {
	Reg  Registers
	Mem  *Memory
	Grid *CoreArray

	// Debug, if set, is invoked by DBG instead of the default no-op. It
	// is nil unless a caller installs one, e.g. to capture snapshots.
	Debug func(Registers)
}

func newCore(id int, grid *CoreArray, mem *Memory) *Core {
	return &Core{Reg: Registers{ID: id}, Mem: mem, Grid: grid}
}

// Wire assigns the instruction bank this core executes out of and resets
// its program counter to the start of that bank.
func (c *Core) Wire(bank uint8) {
	c.Reg.Status2.MemBank = bank
	c.Reg.PC = 0
}

// GetFrom reports the datum this core currently offers to a neighbor
// preloading from it: the value of Val, its sign, and whether the core
// is ready to be read at all. A core that set Sync during its last
// execute phase is not ready — ok is false, and the caller must not use
// negative/value. ctc selects which of a core's two broadcastable
// quantities (Val and a carry-through-control view of it) a future
// extension might expose; the current architecture only ever reads Val,
// so ctc is accepted for interface symmetry with the source register
// model but otherwise unused.
func (c *Core) GetFrom(ctc bool) (negative bool, value uint8, ok bool) {
	if c.Reg.Status1.Sync {
		return false, 0, false
	}
	return c.Reg.Val&0x80 != 0, c.Reg.Val, true
}

// Preload executes the preload phase: it resolves the core's mux field
// to a neighbor or special source and imports that source's datum into
// the preload register, unless the instruction at pc doesn't need
// imported data, in which case preload is skipped (force overrides
// this and always resolves the source, mirroring the source
// architecture's forced-preload path used when re-preloading after a
// mux change).
func (c *Core) Preload(force bool) error {
	if c.Reg.Halted {
		return nil
	}
	instr, err := Instructions().CreateFromOpcode(c.Mem.LoadByte(c.Reg.Status2.MemBank, c.Reg.PC))
	if err != nil {
		return corelang.Wrap(corelang.UnknownOpcode, err, "preload").WithRegisters(c.Reg.Snapshot())
	}
	if !force && !instr.needsNeighborData() {
		return nil
	}

	dir, special, isSpecial, err := direction.Decode(c.Reg.Status1.Mux)
	if err != nil {
		return corelang.Wrap(corelang.InvalidDirection, err, "preload").WithRegisters(c.Reg.Snapshot())
	}

	if isSpecial {
		switch special {
		case direction.PC:
			c.Reg.SetPreload(c.Reg.PC, false)
		case direction.MemBank:
			c.Reg.SetPreload(c.Reg.Status2.MemBank, false)
		}
		return nil
	}

	neighborID := c.Grid.Offset(c.Reg.ID, dir)
	if neighborID == c.Reg.ID {
		return corelang.New(corelang.SelfFetchForbidden,
			"core %d would fetch from itself via mux %d", c.Reg.ID, c.Reg.Status1.Mux).
			WithRegisters(c.Reg.Snapshot())
	}

	neighbor := c.Grid.At(neighborID)
	negative, value, ok := neighbor.GetFrom(c.Reg.Status1.CTC)
	if !ok {
		c.Reg.ClearPreload()
		return nil
	}
	c.Reg.SetPreload(value, negative)
	return nil
}

// Fetch executes the fetch-execute phase: it decodes the opcode at pc,
// clears Sync (a core always starts a fetch-execute phase visible to its
// neighbors, even if the instruction it is about to run sets Sync again),
// runs the instruction, and advances pc unless the instruction requested
// a stall. It reports the advance boolean exposed to callers.
func (c *Core) Fetch() (bool, error) {
	if c.Reg.Halted {
		return false, nil
	}
	c.Reg.Status1.Sync = false

	opcode := c.Mem.LoadByte(c.Reg.Status2.MemBank, c.Reg.PC)
	instr, err := Instructions().CreateFromOpcode(opcode)
	if err != nil {
		return false, corelang.Wrap(corelang.UnknownOpcode, err, "fetch").
			WithLocation(c.Reg.Status2.MemBank, c.Reg.PC).WithRegisters(c.Reg.Snapshot())
	}

	advance, err := instr.Execute(c)
	if err != nil {
		if ce, ok := err.(*corelang.Error); ok {
			return false, ce.WithLocation(c.Reg.Status2.MemBank, c.Reg.PC).WithRegisters(c.Reg.Snapshot())
		}
		return false, corelang.Wrap(corelang.CatastrophicHalt, err, "executing %s", instr.Name()).
			WithLocation(c.Reg.Status2.MemBank, c.Reg.PC).WithRegisters(c.Reg.Snapshot())
	}
	if advance {
		c.Reg.PC = advanceWrap(c.Reg.PC, c.Mem.BankSize())
	}
	return advance, nil
}

// Step performs, in order, the preload phase and the fetch-execute phase.
// A multi-core driver must instead call Preload on every core and then
// Fetch on every core, so that every core's preload observes the prior
// tick's state rather than a neighbor's mid-tick mutation; Step is
// provided for single-core use and tests.
func (c *Core) Step() (bool, error) {
	if err := c.Preload(false); err != nil {
		return false, err
	}
	return c.Fetch()
}
