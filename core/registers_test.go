// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import "testing"

func TestStatus1PackRoundTrip(t *testing.T) {
	cases := []Status1{
		{Mux: 0, CTC: false, Sync: false},
		{Mux: 7, CTC: true, Sync: false},
		{Mux: 3, CTC: false, Sync: true},
		{Mux: 5, CTC: true, Sync: true},
	}
	for _, s := range cases {
		got := UnpackStatus1(s.Pack())
		if got != s {
			t.Fatalf("UnpackStatus1(Pack(%+v)) = %+v", s, got)
		}
	}
}

func TestStatus2MemBankRoundTrip(t *testing.T) {
	s := Status2{MemBank: 9, Carry: true, Negative: true, Overflow: true, Zero: true}
	got := UnpackStatus2(s.Pack())
	if got.MemBank != s.MemBank {
		t.Fatalf("MemBank = %d, want %d", got.MemBank, s.MemBank)
	}
	if got.Carry || got.Negative || got.Overflow || got.Zero {
		t.Fatalf("condition flags must not survive a pack/unpack round trip, got %+v", got)
	}
}

func TestPreloadClearAndSet(t *testing.T) {
	var r Registers
	r.SetPreload(42, true)
	if !r.HasPreload || r.Preload != 42 || !r.PreloadNegative {
		t.Fatalf("SetPreload did not record the value: %+v", r)
	}
	r.ClearPreload()
	if r.HasPreload || r.Preload != 0 || r.PreloadNegative {
		t.Fatalf("ClearPreload left state behind: %+v", r)
	}
}
