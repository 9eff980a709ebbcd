/*
   Disassembler: turns a word stream back into assembly text, mirroring
   the decode tables in emu/encoding one operand at a time.

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

// Package disasm renders a decoded DCPU-16 word stream as assembly text,
// one instruction per line, address-prefixed.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/emu/instr"
)

// operandText renders one already-decoded operand back to its mnemonic
// spelling.
func operandText(o instr.Operand) string {
	switch o.Kind {
	case instr.KindRegister:
		return o.Reg.String()
	case instr.KindIndirect:
		return fmt.Sprintf("[%s]", o.Reg)
	case instr.KindIndirectOffset:
		return fmt.Sprintf("[0x%x+%s]", o.Next, o.Reg)
	case instr.KindPushPop:
		return "PUSH/POP"
	case instr.KindPeek:
		return "PEEK"
	case instr.KindPick:
		return fmt.Sprintf("PICK 0x%x", o.Next)
	case instr.KindSP:
		return "SP"
	case instr.KindPC:
		return "PC"
	case instr.KindEX:
		return "EX"
	case instr.KindIndirectLiteral:
		return fmt.Sprintf("[0x%x]", o.Next)
	case instr.KindLiteral, instr.KindInlineLiteral:
		return fmt.Sprintf("0x%x", o.Next)
	default:
		return "?"
	}
}

// pushPopText disambiguates PUSH/POP, which decode to the same operand
// kind and only differ by position (b is PUSH, a is POP).
func pushPopText(o instr.Operand, isA bool) string {
	if o.Kind != instr.KindPushPop {
		return operandText(o)
	}
	if isA {
		return "POP"
	}
	return "PUSH"
}

// Line renders one decoded instruction as it would appear in source,
// without an address prefix.
func Line(ins instr.Instruction) string {
	if ins.IsSpecial() {
		return fmt.Sprintf("%s %s", ins.Special.Mnemonic(), pushPopText(ins.A, true))
	}
	return fmt.Sprintf("%s %s, %s", ins.Op.Mnemonic(), pushPopText(ins.B, false), pushPopText(ins.A, true))
}

// Disassemble decodes words starting at the given base address, writing
// one "0xADDR  text" line per instruction to w. A word that fails to
// decode is emitted as a raw-word fallback line and decoding resumes at
// the next word, matching how a debugger keeps showing memory after
// running into data embedded in the code stream.
func Disassemble(base uint16, words []uint16, w io.Writer) error {
	addr := base
	offset := 0
	for offset < len(words) {
		ins, consumed, err := encoding.Decode(words[offset:])
		if err != nil {
			if _, err := fmt.Fprintf(w, "0x%04x\t%04x\t; %v\n", addr, words[offset], err); err != nil {
				return err
			}
			addr++
			offset++
			continue
		}
		text := Line(ins)
		if strings.Contains(text, "?") {
			if _, err := fmt.Fprintf(w, "0x%04x\t%04x\t; unrecognized operand\n", addr, words[offset]); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "0x%04x\t%s\n", addr, text); err != nil {
			return err
		}
		addr += uint16(consumed)
		offset += consumed
	}
	return nil
}
