/*
   Instruction encoder/decoder and word-image I/O.

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
*/

// Package encoding turns decoded instructions into DCPU-16 words and back,
// and reads/writes the flat big-endian word image used on disk.
package encoding

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dcornwell/dcpu16/emu/instr"
)

// ErrBadOperandCode is returned when a decoded 6-bit operand field does
// not correspond to a legal operand shape (should not happen: every
// value 0x00-0x3f is defined, but a decoder built from a narrower
// opcode table may still reject 0x18-0x1f style extensions).
type ErrBadOperandCode struct {
	Code uint16
}

func (e ErrBadOperandCode) Error() string {
	return fmt.Sprintf("encoding: operand code %#x is not defined", e.Code)
}

// ErrTruncated is returned by Decode when an operand requires a next
// word that isn't present in the supplied slice.
type ErrTruncated struct {
	At uint16
}

func (e ErrTruncated) Error() string {
	return fmt.Sprintf("encoding: truncated instruction at offset %#x", e.At)
}

// ErrUnknownOpcode is returned by Decode for an o/special field with no
// defined mnemonic.
type ErrUnknownOpcode struct {
	Basic bool
	Code  uint8
}

func (e ErrUnknownOpcode) Error() string {
	if e.Basic {
		return fmt.Sprintf("encoding: unknown basic opcode %#x", e.Code)
	}
	return fmt.Sprintf("encoding: unknown special opcode %#x", e.Code)
}

// operandCode computes the 6-bit field for an operand. inlineAllowed is
// true only when encoding operand a.
func operandCode(o instr.Operand, inlineAllowed bool) (code uint16, extra uint16, hasExtra bool) {
	switch o.Kind {
	case instr.KindRegister:
		return uint16(o.Reg), 0, false
	case instr.KindIndirect:
		return 0x08 + uint16(o.Reg), 0, false
	case instr.KindIndirectOffset:
		return 0x10 + uint16(o.Reg), o.Next, true
	case instr.KindPushPop:
		return 0x18, 0, false
	case instr.KindPeek:
		return 0x19, 0, false
	case instr.KindPick:
		return 0x1a, o.Next, true
	case instr.KindSP:
		return 0x1b, 0, false
	case instr.KindPC:
		return 0x1c, 0, false
	case instr.KindEX:
		return 0x1d, 0, false
	case instr.KindIndirectLiteral:
		return 0x1e, o.Next, true
	case instr.KindLiteral:
		if inlineAllowed {
			if v := int16(o.Next); v >= -1 && v <= 30 {
				return uint16(0x21 + int(v)), 0, false
			}
		}
		return 0x1f, o.Next, true
	case instr.KindInlineLiteral:
		v := int16(o.Next)
		return uint16(0x21 + int(v)), 0, false
	}
	return 0, 0, false
}

// decodeOperand interprets a 6-bit operand code. isA distinguishes "a"
// (where 0x20-0x3f is legal) from "b" (where it is not).
func decodeOperand(code uint16, isA bool) (instr.Operand, error) {
	switch {
	case code <= 0x07:
		return instr.Operand{Kind: instr.KindRegister, Reg: instr.Register(code)}, nil
	case code <= 0x0f:
		return instr.Operand{Kind: instr.KindIndirect, Reg: instr.Register(code - 0x08)}, nil
	case code <= 0x17:
		return instr.Operand{Kind: instr.KindIndirectOffset, Reg: instr.Register(code - 0x10)}, nil
	case code == 0x18:
		return instr.Operand{Kind: instr.KindPushPop}, nil
	case code == 0x19:
		return instr.Operand{Kind: instr.KindPeek}, nil
	case code == 0x1a:
		return instr.Operand{Kind: instr.KindPick}, nil
	case code == 0x1b:
		return instr.Operand{Kind: instr.KindSP}, nil
	case code == 0x1c:
		return instr.Operand{Kind: instr.KindPC}, nil
	case code == 0x1d:
		return instr.Operand{Kind: instr.KindEX}, nil
	case code == 0x1e:
		return instr.Operand{Kind: instr.KindIndirectLiteral}, nil
	case code == 0x1f:
		return instr.Operand{Kind: instr.KindLiteral}, nil
	case code <= 0x3f:
		if !isA {
			return instr.Operand{}, ErrBadOperandCode{Code: code}
		}
		return instr.Operand{Kind: instr.KindInlineLiteral, Next: uint16(int16(code) - 0x21)}, nil
	default:
		return instr.Operand{}, ErrBadOperandCode{Code: code}
	}
}

// Encode appends the words for ins to dst and returns the resulting
// slice along with the word count written. The exact width is computed
// up front from the operand kinds rather than reserved-then-truncated.
func Encode(ins instr.Instruction, dst []uint16) ([]uint16, int) {
	aCode, aExtra, aHas := operandCode(ins.A, true)

	var head uint16
	var extras []uint16
	if ins.IsSpecial() {
		head = (aCode << 10) | (uint16(ins.Special) << 5)
	} else {
		bCode, bExtra, bHas := operandCode(ins.B, false)
		head = (aCode << 10) | (bCode << 5) | uint16(ins.Op)
		// a is decoded/encoded before b: its extra word precedes b's.
		if aHas {
			extras = append(extras, aExtra)
		}
		if bHas {
			extras = append(extras, bExtra)
		}
		dst = append(dst, head)
		dst = append(dst, extras...)
		return dst, 1 + len(extras)
	}
	if aHas {
		extras = append(extras, aExtra)
	}
	dst = append(dst, head)
	dst = append(dst, extras...)
	return dst, 1 + len(extras)
}

// Decode reads one instruction starting at words[0]. It returns the
// instruction and the number of words consumed.
func Decode(words []uint16) (instr.Instruction, int, error) {
	if len(words) == 0 {
		return instr.Instruction{}, 0, ErrTruncated{}
	}
	word := words[0]
	o := uint8(word & 0x1f)
	bField := uint16((word >> 5) & 0x1f)
	aField := uint16((word >> 10) & 0x3f)

	aOperand, err := decodeOperand(aField, true)
	if err != nil {
		return instr.Instruction{}, 0, err
	}
	consumed := 1

	if o == 0 {
		special, ok := specialFromCode(bField)
		if !ok {
			return instr.Instruction{}, 0, ErrUnknownOpcode{Basic: false, Code: uint8(bField)}
		}
		if n := aOperand.ExtraWords(); n > 0 {
			if len(words) < consumed+n {
				return instr.Instruction{}, 0, ErrTruncated{At: uint16(consumed)}
			}
			aOperand.Next = words[consumed]
			consumed += n
		}
		return instr.Instruction{Special: special, A: aOperand}, consumed, nil
	}

	op := instr.Op(o)
	if op.Mnemonic() == "" {
		return instr.Instruction{}, 0, ErrUnknownOpcode{Basic: true, Code: o}
	}
	bOperand, err := decodeOperand(bField, false)
	if err != nil {
		return instr.Instruction{}, 0, err
	}

	if n := aOperand.ExtraWords(); n > 0 {
		if len(words) < consumed+n {
			return instr.Instruction{}, 0, ErrTruncated{At: uint16(consumed)}
		}
		aOperand.Next = words[consumed]
		consumed += n
	}
	if n := bOperand.ExtraWords(); n > 0 {
		if len(words) < consumed+n {
			return instr.Instruction{}, 0, ErrTruncated{At: uint16(consumed)}
		}
		bOperand.Next = words[consumed]
		consumed += n
	}
	return instr.Instruction{Op: op, B: bOperand, A: aOperand}, consumed, nil
}

var specialByCode map[uint16]instr.SpecialOp

func init() {
	specialByCode = map[uint16]instr.SpecialOp{
		uint16(instr.SpecialJSR): instr.SpecialJSR,
		uint16(instr.SpecialINT): instr.SpecialINT,
		uint16(instr.SpecialIAG): instr.SpecialIAG,
		uint16(instr.SpecialIAS): instr.SpecialIAS,
		uint16(instr.SpecialRFI): instr.SpecialRFI,
		uint16(instr.SpecialIAQ): instr.SpecialIAQ,
		uint16(instr.SpecialHWN): instr.SpecialHWN,
		uint16(instr.SpecialHWQ): instr.SpecialHWQ,
		uint16(instr.SpecialHWI): instr.SpecialHWI,
	}
}

func specialFromCode(code uint16) (instr.SpecialOp, bool) {
	op, ok := specialByCode[code]
	return op, ok
}

// WriteImage writes words to w as a flat big-endian sequence, matching
// the DCPU-16 convention for word image files.
func WriteImage(w io.Writer, words []uint16) error {
	buf := make([]byte, 2*len(words))
	for i, word := range words {
		binary.BigEndian.PutUint16(buf[2*i:], word)
	}
	_, err := w.Write(buf)
	return err
}

// ReadImage reads a flat big-endian word sequence from r.
func ReadImage(r io.Reader) ([]uint16, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("encoding: image has odd byte length %d", len(raw))
	}
	words := make([]uint16, len(raw)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(raw[2*i:])
	}
	return words, nil
}
