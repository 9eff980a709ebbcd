/*
   Cycle accounting: per-opcode base costs from the standard DCPU-16 1.7
   reference (the source this system is adapted from has no CPU-level
   cycle table of its own to ground this in).

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

package cpu

import "github.com/dcornwell/dcpu16/emu/instr"

// baseCycles returns an instruction's base cost, excluding the extra
// words its operands consumed (added by the caller) and any per-device
// cost HWI adds on top.
func baseCycles(ins instr.Instruction) int {
	if ins.IsSpecial() {
		switch ins.Special {
		case instr.SpecialJSR:
			return 3
		case instr.SpecialINT, instr.SpecialHWI:
			return 4
		case instr.SpecialIAG, instr.SpecialIAS, instr.SpecialRFI, instr.SpecialHWQ:
			return 2
		case instr.SpecialIAQ:
			return 0
		case instr.SpecialHWN:
			return 2
		default:
			return 1
		}
	}
	switch ins.Op {
	case instr.OpADD, instr.OpSUB, instr.OpADX, instr.OpSBX,
		instr.OpSHR, instr.OpASR, instr.OpSHL, instr.OpMUL, instr.OpMLI:
		return 2
	case instr.OpDIV, instr.OpDVI, instr.OpMOD, instr.OpMDI:
		return 3
	default: // SET, AND, BOR, XOR, STI, STD, IFB..IFU
		return 1
	}
}
