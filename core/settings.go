// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"io"

	"github.com/cannotparse/laval-simulator/corelang"
)

// Settings is the small record of architectural parameters that a binary
// image header carries: the core grid's extents, how many instruction
// banks exist, how large each bank is, and the mapping from core id to
// bank index.
type Settings struct {
	Cores     [3]uint8 // x, y, z
	MemNumber uint8
	MemSize   uint8
	MemMap    []uint8 // len == Cores[0]*Cores[1]*Cores[2]; each entry < MemNumber
}

// CoreCount returns the total number of cores in the grid.
func (s Settings) CoreCount() int {
	return int(s.Cores[0]) * int(s.Cores[1]) * int(s.Cores[2])
}

// Validate checks the invariants from the data model: the mem map has
// exactly one entry per core, and every entry names a real bank.
func (s Settings) Validate() error {
	if len(s.MemMap) != s.CoreCount() {
		return corelang.New(corelang.SyntaxError,
			"mem_map has %d entries, want %d (cores = %d x %d x %d)",
			len(s.MemMap), s.CoreCount(), s.Cores[0], s.Cores[1], s.Cores[2])
	}
	for i, bank := range s.MemMap {
		if bank >= s.MemNumber {
			return corelang.New(corelang.SyntaxError,
				"mem_map[%d] = %d names a bank >= mem_number (%d)", i, bank, s.MemNumber)
		}
	}
	return nil
}

// Dump writes the settings header as described in the binary image
// layout: cores.x, cores.y, cores.z, mem_number, mem_size, each one byte.
func (s Settings) Dump(w io.Writer) error {
	header := []byte{s.Cores[0], s.Cores[1], s.Cores[2], s.MemNumber, s.MemSize}
	_, err := w.Write(header)
	if err != nil {
		return corelang.Wrap(corelang.TruncatedImage, err, "writing settings header")
	}
	return nil
}

// LoadSettings reads the settings header written by Dump. It does not
// read the core-to-bank map; callers read that separately (see
// asmlang.LoadBinary).
func LoadSettings(r io.Reader) (Settings, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Settings{}, corelang.Wrap(corelang.TruncatedImage, err, "reading settings header")
	}
	return Settings{
		Cores:     [3]uint8{header[0], header[1], header[2]},
		MemNumber: header[3],
		MemSize:   header[4],
	}, nil
}
