// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package corelang holds the error type shared by the assembler, the
// loader and the core pipeline, plus the small diagnostic context that
// gets attached to it as it propagates through each layer.
package corelang

import "fmt"

// Kind identifies the category of a Error.
type Kind int

// All exception kinds produced anywhere in this module.
const (
	SyntaxError Kind = iota
	OverflowingLiteral
	UnknownMnemonic
	UnknownOpcode
	BadArity
	UnassignedVariable
	InvalidDirection
	SelfFetchForbidden
	CatastrophicHalt
	ImageTooLarge
	TruncatedImage
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case OverflowingLiteral:
		return "OverflowingLiteral"
	case UnknownMnemonic:
		return "UnknownMnemonic"
	case UnknownOpcode:
		return "UnknownOpcode"
	case BadArity:
		return "BadArity"
	case UnassignedVariable:
		return "UnassignedVariable"
	case InvalidDirection:
		return "InvalidDirection"
	case SelfFetchForbidden:
		return "SelfFetchForbidden"
	case CatastrophicHalt:
		return "CatastrophicHalt"
	case ImageTooLarge:
		return "ImageTooLarge"
	case TruncatedImage:
		return "TruncatedImage"
	default:
		return "UnknownKind"
	}
}

// RegisterSnapshot is a minimal, decoupled copy of a core's registers,
// attached to an Error at the point of failure. It avoids an import
// cycle between corelang and core.
type RegisterSnapshot struct {
	ID      int
	Val     uint8
	PC      uint8
	MemBank uint8
}

// Error is the single error family used throughout the assembler, loader
// and core pipeline. Annotations are added as the error propagates: the
// parser adds a source line, the assembler adds a bank id and
// instruction offset, and the core adds a register snapshot.
type Error struct {
	Kind Kind
	Msg  string

	HasLine bool
	Line    int

	HasBank bool
	Bank    uint8
	Offset  uint8

	HasRegisters bool
	Registers    RegisterSnapshot

	wrapped error
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind wrapping an underlying error,
// e.g. an io error surfaced as TruncatedImage.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), wrapped: err}
}

// WithLine annotates the error with a source line number.
func (e *Error) WithLine(line int) *Error {
	e.HasLine = true
	e.Line = line
	return e
}

// WithLocation annotates the error with a bank id and instruction offset.
func (e *Error) WithLocation(bank, offset uint8) *Error {
	e.HasBank = true
	e.Bank = bank
	e.Offset = offset
	return e
}

// WithRegisters annotates the error with a register snapshot.
func (e *Error) WithRegisters(r RegisterSnapshot) *Error {
	e.HasRegisters = true
	e.Registers = r
	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.HasLine {
		s += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.HasBank {
		s += fmt.Sprintf(" (bank %d, offset %d)", e.Bank, e.Offset)
	}
	if e.HasRegisters {
		r := e.Registers
		s += fmt.Sprintf(" (core %d: val=%d pc=%d membank=%d)", r.ID, r.Val, r.PC, r.MemBank)
	}
	return s
}

// Unwrap exposes a wrapped error, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.wrapped
}
