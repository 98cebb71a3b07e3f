// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package direction

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	dirs := []CoreDirection{
		{AxisX, Before},
		{AxisX, After},
		{AxisY, Before},
		{AxisY, After},
		{AxisZ, Before},
		{AxisZ, After},
	}
	for _, d := range dirs {
		mux := Encode(d)
		got, _, isSpecial, err := Decode(mux)
		if err != nil {
			t.Fatalf("Decode(%d): unexpected error: %v", mux, err)
		}
		if isSpecial {
			t.Fatalf("Decode(%d): got special, want direction", mux)
		}
		if got != d {
			t.Fatalf("Decode(Encode(%+v)) = %+v, want %+v", d, got, d)
		}
	}
}

func TestEncodeDecodeSpecial(t *testing.T) {
	for _, s := range []Special{PC, MemBank} {
		mux := EncodeSpecial(s)
		_, got, isSpecial, err := Decode(mux)
		if err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if !isSpecial {
			t.Fatalf("Decode: expected special for %v", s)
		}
		if got != s {
			t.Fatalf("Decode(EncodeSpecial(%v)) = %v, want %v", s, got, s)
		}
	}
}

func TestDecodeInvalidCode(t *testing.T) {
	for mux := uint8(8); mux < 16; mux++ {
		if _, _, _, err := Decode(mux); err == nil {
			t.Fatalf("Decode(%d): expected error", mux)
		}
	}
}

func TestAllCodesDistinct(t *testing.T) {
	seen := map[uint8]bool{}
	all := []uint8{
		Encode(CoreDirection{AxisX, Before}),
		Encode(CoreDirection{AxisX, After}),
		Encode(CoreDirection{AxisY, Before}),
		Encode(CoreDirection{AxisY, After}),
		Encode(CoreDirection{AxisZ, Before}),
		Encode(CoreDirection{AxisZ, After}),
		EncodeSpecial(PC),
		EncodeSpecial(MemBank),
	}
	for _, mux := range all {
		if seen[mux] {
			t.Fatalf("mux code %d reused", mux)
		}
		seen[mux] = true
	}
	if len(seen) != 8 {
		t.Fatalf("expected all 8 mux codes to be spoken for, got %d", len(seen))
	}
}
