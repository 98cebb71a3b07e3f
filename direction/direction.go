// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package direction implements the codec that translates between the
// symbolic neighbor directions a core can preload from (BEFORE, CURRENT,
// AFTER along each spatial axis, plus the two reserved special slots PC
// and MEMBANK) and the 3-bit mux field of a core's status register.
package direction

import "github.com/cannotparse/laval-simulator/corelang"

// Axis identifies one of the three spatial axes of the core grid.
type Axis int

// The three axes a core grid is arranged along.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Delta values along an axis. These are also the numeric forms the
// preprocessor substitutes for the symbolic names BEFORE/CURRENT/AFTER
// (CURRENT has no corresponding CoreDirection value here — see Decode).
const (
	Before  int8 = -1
	Current int8 = 0
	After   int8 = 1
)

// CoreDirection names an axis-aligned neighbor one step before or after
// the requesting core. Whether a given CoreDirection happens to resolve
// back to the requesting core itself (making it a self-fetch) is a
// property of the grid's topology at a given size, not of the direction
// value — see CoreArray.Offset.
type CoreDirection struct {
	Axis  Axis
	Delta int8 // Before or After
}

// Special names a reserved preload source that reads a core's own
// register state instead of a neighbor's.
type Special int

// The two reserved preload sources.
const (
	PC Special = iota
	MemBank
)

// Mux codes. Six codes name an axis-aligned neighbor step; the remaining
// two represent the special preload sources. All 8 values representable
// in a 3-bit field are spent this way — there is no surplus code for a
// direct "CURRENT on every axis" direction, since self-fetch is instead
// detected at the grid-offset level (see CoreArray.Offset) rather than
// encoded directly into mux. This is a bit-layout decision left open by
// the specification; see DESIGN.md.
const (
	muxBeforeX uint8 = iota
	muxAfterX
	muxBeforeY
	muxAfterY
	muxBeforeZ
	muxAfterZ
	muxPC
	muxMemBank
)

// Encode packs a CoreDirection into the 3-bit mux field.
func Encode(d CoreDirection) uint8 {
	switch d.Axis {
	case AxisX:
		if d.Delta == Before {
			return muxBeforeX
		}
		return muxAfterX
	case AxisY:
		if d.Delta == Before {
			return muxBeforeY
		}
		return muxAfterY
	default:
		if d.Delta == Before {
			return muxBeforeZ
		}
		return muxAfterZ
	}
}

// EncodeSpecial packs a Special preload source into the mux field.
func EncodeSpecial(s Special) uint8 {
	if s == MemBank {
		return muxMemBank
	}
	return muxPC
}

// Decode is the inverse of Encode/EncodeSpecial. Exactly one of the
// returned CoreDirection or Special is meaningful; isSpecial reports
// which. Decode fails with an InvalidDirection corelang.Error for mux
// values with no assigned meaning.
func Decode(mux uint8) (dir CoreDirection, special Special, isSpecial bool, err error) {
	switch mux {
	case muxBeforeX:
		return CoreDirection{AxisX, Before}, 0, false, nil
	case muxAfterX:
		return CoreDirection{AxisX, After}, 0, false, nil
	case muxBeforeY:
		return CoreDirection{AxisY, Before}, 0, false, nil
	case muxAfterY:
		return CoreDirection{AxisY, After}, 0, false, nil
	case muxBeforeZ:
		return CoreDirection{AxisZ, Before}, 0, false, nil
	case muxAfterZ:
		return CoreDirection{AxisZ, After}, 0, false, nil
	case muxPC:
		return CoreDirection{}, PC, true, nil
	case muxMemBank:
		return CoreDirection{}, MemBank, true, nil
	default:
		return CoreDirection{}, 0, false, corelang.New(corelang.InvalidDirection,
			"mux value %d does not decode to a direction", mux)
	}
}
