// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"bytes"
	"testing"
)

func TestSettingsDumpLoadRoundTrip(t *testing.T) {
	s := Settings{Cores: [3]uint8{2, 1, 1}, MemNumber: 2, MemSize: 4}
	var buf bytes.Buffer
	if err := s.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if buf.Len() != 5 {
		t.Fatalf("Dump wrote %d bytes, want 5", buf.Len())
	}
	got, err := LoadSettings(&buf)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got.Cores != s.Cores || got.MemNumber != s.MemNumber || got.MemSize != s.MemSize {
		t.Fatalf("LoadSettings(Dump(s)) = %+v, want %+v", got, s)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := Settings{Cores: [3]uint8{2, 1, 1}, MemNumber: 2, MemMap: []uint8{0, 1}}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := Settings{Cores: [3]uint8{2, 1, 1}, MemNumber: 2, MemMap: []uint8{0}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error: mem_map length does not match core count")
	}

	bad2 := Settings{Cores: [3]uint8{1, 1, 1}, MemNumber: 1, MemMap: []uint8{1}}
	if err := bad2.Validate(); err == nil {
		t.Fatalf("expected error: mem_map entry names a nonexistent bank")
	}
}

func TestLoadSettingsTruncated(t *testing.T) {
	if _, err := LoadSettings(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatalf("expected TruncatedImage error on short header")
	}
}
