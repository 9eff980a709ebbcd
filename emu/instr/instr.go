/*
   Instruction model: opcodes, operand kinds, and the widths/flags that
   the encoder, the linker, and the disassembler all read from one place.

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

// Package instr is the single source of truth for DCPU-16 opcodes and
// operand shapes: both the encoder/decoder and the linker's operand
// parser key off the tables defined here.
package instr

// Register names a general-purpose register.
type Register uint8

const (
	RegA Register = iota
	RegB
	RegC
	RegX
	RegY
	RegZ
	RegI
	RegJ
)

var registerNames = [8]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "?"
}

// Op is a basic-op 5-bit opcode (o field, nonzero).
type Op uint8

const (
	OpSET Op = 0x01
	OpADD Op = 0x02
	OpSUB Op = 0x03
	OpMUL Op = 0x04
	OpMLI Op = 0x05
	OpDIV Op = 0x06
	OpDVI Op = 0x07
	OpMOD Op = 0x08
	OpMDI Op = 0x09
	OpAND Op = 0x0a
	OpBOR Op = 0x0b
	OpXOR Op = 0x0c
	OpSHR Op = 0x0d
	OpASR Op = 0x0e
	OpSHL Op = 0x0f
	OpIFB Op = 0x10
	OpIFC Op = 0x11
	OpIFE Op = 0x12
	OpIFN Op = 0x13
	OpIFG Op = 0x14
	OpIFA Op = 0x15
	OpIFL Op = 0x16
	OpIFU Op = 0x17
	OpADX Op = 0x1a
	OpSBX Op = 0x1b
	OpSTI Op = 0x1e
	OpSTD Op = 0x1f
)

// SpecialOp is a special-op 5-bit opcode, carried in the basic b field
// when o == 0.
type SpecialOp uint8

const (
	SpecialJSR SpecialOp = 0x01
	SpecialINT SpecialOp = 0x08
	SpecialIAG SpecialOp = 0x09
	SpecialIAS SpecialOp = 0x0a
	SpecialRFI SpecialOp = 0x0b
	SpecialIAQ SpecialOp = 0x0c
	SpecialHWN SpecialOp = 0x10
	SpecialHWQ SpecialOp = 0x11
	SpecialHWI SpecialOp = 0x12
)

var basicMnemonics = map[Op]string{
	OpSET: "SET", OpADD: "ADD", OpSUB: "SUB", OpMUL: "MUL", OpMLI: "MLI",
	OpDIV: "DIV", OpDVI: "DVI", OpMOD: "MOD", OpMDI: "MDI", OpAND: "AND",
	OpBOR: "BOR", OpXOR: "XOR", OpSHR: "SHR", OpASR: "ASR", OpSHL: "SHL",
	OpIFB: "IFB", OpIFC: "IFC", OpIFE: "IFE", OpIFN: "IFN", OpIFG: "IFG",
	OpIFA: "IFA", OpIFL: "IFL", OpIFU: "IFU", OpADX: "ADX", OpSBX: "SBX",
	OpSTI: "STI", OpSTD: "STD",
}

var specialMnemonics = map[SpecialOp]string{
	SpecialJSR: "JSR", SpecialINT: "INT", SpecialIAG: "IAG", SpecialIAS: "IAS",
	SpecialRFI: "RFI", SpecialIAQ: "IAQ", SpecialHWN: "HWN", SpecialHWQ: "HWQ",
	SpecialHWI: "HWI",
}

var basicByName map[string]Op
var specialByName map[string]SpecialOp

func init() {
	basicByName = make(map[string]Op, len(basicMnemonics))
	for op, name := range basicMnemonics {
		basicByName[name] = op
	}
	specialByName = make(map[string]SpecialOp, len(specialMnemonics))
	for op, name := range specialMnemonics {
		specialByName[name] = op
	}
}

// Mnemonic returns the assembly mnemonic for a basic opcode, or "" if op
// is not a recognized basic opcode.
func (op Op) Mnemonic() string {
	return basicMnemonics[op]
}

// Mnemonic returns the assembly mnemonic for a special opcode, or "" if
// op is not recognized.
func (op SpecialOp) Mnemonic() string {
	return specialMnemonics[op]
}

// LookupBasic resolves a mnemonic to a basic opcode.
func LookupBasic(name string) (Op, bool) {
	op, ok := basicByName[name]
	return op, ok
}

// LookupSpecial resolves a mnemonic to a special opcode.
func LookupSpecial(name string) (SpecialOp, bool) {
	op, ok := specialByName[name]
	return op, ok
}

// conditionalOps is the IFB..IFU family: a false predicate sets skip, and
// a skipped conditional chains the skip to the following instruction.
var conditionalOps = map[Op]bool{
	OpIFB: true, OpIFC: true, OpIFE: true, OpIFN: true,
	OpIFG: true, OpIFA: true, OpIFL: true, OpIFU: true,
}

// IsConditional reports whether op belongs to the IF* family.
func (op Op) IsConditional() bool {
	return conditionalOps[op]
}

// WritesBack reports whether op stores a result into its b operand.
// Conditionals never write back; every other defined basic op does.
func (op Op) WritesBack() bool {
	if _, ok := basicMnemonics[op]; !ok {
		return false
	}
	return !op.IsConditional()
}

// Arity is the number of operands an opcode takes: special ops take one
// (a only), basic ops take two (b, a).
func (op Op) Arity() int {
	if _, ok := basicMnemonics[op]; !ok {
		return 0
	}
	return 2
}

// OperandKind is the closed variant of operand shapes from §3/§6.
type OperandKind int

const (
	KindRegister       OperandKind = iota // register
	KindIndirect                          // @register
	KindIndirectOffset                    // @(register + next word)
	KindPushPop                           // PUSH (b) / POP (a)
	KindPeek                              // @SP
	KindPick                              // @(SP + next word)
	KindSP
	KindPC
	KindEX
	KindIndirectLiteral // @(next word)
	KindLiteral         // next word literal
	KindInlineLiteral   // -1..30, inlined into the opcode word, a only
)

// Operand is a fully decoded operand: the kind, the register (when the
// kind uses one), and the "next word" payload (offset, address, pick
// index, or literal value) when the kind carries one.
type Operand struct {
	Kind OperandKind
	Reg  Register
	Next uint16
}

// ExtraWords reports how many words beyond the instruction word this
// operand consumes, per the §4.B operand width table. The count depends
// on the kind alone: a literal that qualifies for the inline form is
// already KindInlineLiteral by the time this is asked.
func (o Operand) ExtraWords() int {
	switch o.Kind {
	case KindIndirectOffset, KindPick, KindIndirectLiteral, KindLiteral:
		return 1
	default:
		return 0
	}
}

// RegisterOperand returns the register operand for a plain register reference.
func RegisterOperand(r Register) Operand { return Operand{Kind: KindRegister, Reg: r} }

// IndirectOperand returns the @register operand.
func IndirectOperand(r Register) Operand { return Operand{Kind: KindIndirect, Reg: r} }

// IndirectOffsetOperand returns the @(register+offset) operand.
func IndirectOffsetOperand(r Register, offset uint16) Operand {
	return Operand{Kind: KindIndirectOffset, Reg: r, Next: offset}
}

// Instruction is a fully decoded basic or special instruction. Op is
// nonzero for a basic op; Special is nonzero (and Op is the zero value)
// for a special op.
type Instruction struct {
	Op      Op
	Special SpecialOp
	B       Operand // unused (zero value) for special ops
	A       Operand
}

// IsSpecial reports whether this instruction is a special op.
func (i Instruction) IsSpecial() bool {
	return i.Op == 0
}
