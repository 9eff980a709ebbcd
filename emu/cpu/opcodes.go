/*
   Opcode semantics: the basic and special dispatch tables, built once
   at package init in the style of a classic opcode-indexed vtable.

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

type basicHandler func(cpu *CPU, b, a operandRef)
type specialHandler func(cpu *CPU, a operandRef) (extraCycles int, err error)

var basicTable map[instr.Op]basicHandler
var specialTable map[instr.SpecialOp]specialHandler

func init() {
	basicTable = map[instr.Op]basicHandler{
		instr.OpSET: opSET,
		instr.OpADD: opADD,
		instr.OpSUB: opSUB,
		instr.OpMUL: opMUL,
		instr.OpMLI: opMLI,
		instr.OpDIV: opDIV,
		instr.OpDVI: opDVI,
		instr.OpMOD: opMOD,
		instr.OpMDI: opMDI,
		instr.OpAND: opAND,
		instr.OpBOR: opBOR,
		instr.OpXOR: opXOR,
		instr.OpSHR: opSHR,
		instr.OpASR: opASR,
		instr.OpSHL: opSHL,
		instr.OpIFB: opIFB,
		instr.OpIFC: opIFC,
		instr.OpIFE: opIFE,
		instr.OpIFN: opIFN,
		instr.OpIFG: opIFG,
		instr.OpIFA: opIFA,
		instr.OpIFL: opIFL,
		instr.OpIFU: opIFU,
		instr.OpADX: opADX,
		instr.OpSBX: opSBX,
		instr.OpSTI: opSTI,
		instr.OpSTD: opSTD,
	}
	specialTable = map[instr.SpecialOp]specialHandler{
		instr.SpecialJSR: opJSR,
		instr.SpecialINT: opINT,
		instr.SpecialIAG: opIAG,
		instr.SpecialIAS: opIAS,
		instr.SpecialRFI: opRFI,
		instr.SpecialIAQ: opIAQ,
		instr.SpecialHWN: opHWN,
		instr.SpecialHWQ: opHWQ,
		instr.SpecialHWI: opHWI,
	}
}

func opSET(cpu *CPU, b, a operandRef) {
	b.write(a.read())
}

func opADD(cpu *CPU, b, a operandRef) {
	sum := uint32(b.read()) + uint32(a.read())
	b.write(uint16(sum))
	cpu.EX = 0
	if sum > 0xffff {
		cpu.EX = 1
	}
}

func opSUB(cpu *CPU, b, a operandRef) {
	diff := int32(b.read()) - int32(a.read())
	b.write(uint16(diff))
	cpu.EX = 0
	if diff < 0 {
		cpu.EX = 0xffff
	}
}

func opMUL(cpu *CPU, b, a operandRef) {
	product := uint32(b.read()) * uint32(a.read())
	b.write(uint16(product))
	cpu.EX = uint16(product >> 16)
}

func opMLI(cpu *CPU, b, a operandRef) {
	product := int64(int16(b.read())) * int64(int16(a.read()))
	b.write(uint16(product))
	cpu.EX = uint16(uint64(product) >> 16)
}

func opDIV(cpu *CPU, b, a operandRef) {
	av := a.read()
	if av == 0 {
		b.write(0)
		cpu.EX = 0
		return
	}
	bv := uint32(b.read())
	b.write(uint16(bv / uint32(av)))
	cpu.EX = uint16((bv << 16) / uint32(av))
}

func opDVI(cpu *CPU, b, a operandRef) {
	as := int16(a.read())
	if as == 0 {
		b.write(0)
		cpu.EX = 0
		return
	}
	bs := int16(b.read())
	b.write(uint16(int32(bs) / int32(as)))
	cpu.EX = uint16(uint64((int64(bs) << 16) / int64(as)))
}

func opMOD(cpu *CPU, b, a operandRef) {
	av := a.read()
	if av == 0 {
		b.write(0)
		return
	}
	b.write(b.read() % av)
}

func opMDI(cpu *CPU, b, a operandRef) {
	as := int16(a.read())
	if as == 0 {
		b.write(0)
		return
	}
	bs := int16(b.read())
	b.write(uint16(bs % as))
}

func opAND(cpu *CPU, b, a operandRef) { b.write(b.read() & a.read()) }
func opBOR(cpu *CPU, b, a operandRef) { b.write(b.read() | a.read()) }
func opXOR(cpu *CPU, b, a operandRef) { b.write(b.read() ^ a.read()) }

func opSHR(cpu *CPU, b, a operandRef) {
	bv, av := uint32(b.read()), uint(a.read())
	b.write(uint16(bv >> av))
	cpu.EX = uint16((bv << 16) >> av)
}

func opASR(cpu *CPU, b, a operandRef) {
	bv, av := int64(int16(b.read())), uint(a.read())
	b.write(uint16(bv >> av))
	cpu.EX = uint16(uint64(bv<<16) >> av)
}

func opSHL(cpu *CPU, b, a operandRef) {
	bv, av := uint32(b.read()), uint(a.read())
	full := bv << av
	b.write(uint16(full))
	cpu.EX = uint16(full >> 16)
}

func setSkip(cpu *CPU, predicate bool) {
	cpu.skip = !predicate
}

func opIFB(cpu *CPU, b, a operandRef) { setSkip(cpu, (b.read()&a.read()) != 0) }
func opIFC(cpu *CPU, b, a operandRef) { setSkip(cpu, (b.read()&a.read()) == 0) }
func opIFE(cpu *CPU, b, a operandRef) { setSkip(cpu, b.read() == a.read()) }
func opIFN(cpu *CPU, b, a operandRef) { setSkip(cpu, b.read() != a.read()) }
func opIFG(cpu *CPU, b, a operandRef) { setSkip(cpu, b.read() > a.read()) }
func opIFA(cpu *CPU, b, a operandRef) {
	setSkip(cpu, int16(b.read()) > int16(a.read()))
}
func opIFL(cpu *CPU, b, a operandRef) { setSkip(cpu, b.read() < a.read()) }
func opIFU(cpu *CPU, b, a operandRef) {
	setSkip(cpu, int16(b.read()) < int16(a.read()))
}

func opADX(cpu *CPU, b, a operandRef) {
	sum := int64(b.read()) + int64(a.read()) + int64(cpu.EX)
	b.write(uint16(sum))
	cpu.EX = 0
	if sum > 0xffff {
		cpu.EX = 1
	}
}

func opSBX(cpu *CPU, b, a operandRef) {
	diff := int64(b.read()) - int64(a.read()) + int64(cpu.EX)
	b.write(uint16(diff))
	switch {
	case diff < 0:
		cpu.EX = 0xffff
	case diff > 0xffff:
		cpu.EX = 1
	default:
		cpu.EX = 0
	}
}

func opSTI(cpu *CPU, b, a operandRef) {
	b.write(a.read())
	cpu.Regs[instr.RegI]++
	cpu.Regs[instr.RegJ]++
}

func opSTD(cpu *CPU, b, a operandRef) {
	b.write(a.read())
	cpu.Regs[instr.RegI]--
	cpu.Regs[instr.RegJ]--
}

func opJSR(cpu *CPU, a operandRef) (int, error) {
	cpu.push(cpu.PC)
	cpu.PC = a.read()
	return 0, nil
}

func opINT(cpu *CPU, a operandRef) (int, error) {
	if !cpu.RaiseInterrupt(a.read()) {
		return 0, cpu.fault
	}
	return 0, nil
}

func opIAG(cpu *CPU, a operandRef) (int, error) {
	a.write(cpu.IA)
	return 0, nil
}

func opIAS(cpu *CPU, a operandRef) (int, error) {
	cpu.IA = a.read()
	return 0, nil
}

func opRFI(cpu *CPU, a operandRef) (int, error) {
	cpu.queued = false
	cpu.Regs[instr.RegA] = cpu.pop()
	cpu.PC = cpu.pop()
	return 0, nil
}

func opIAQ(cpu *CPU, a operandRef) (int, error) {
	cpu.queued = a.read() != 0
	return 0, nil
}

func opHWN(cpu *CPU, a operandRef) (int, error) {
	a.write(uint16(cpu.Bus.Len()))
	return 0, nil
}

func opHWQ(cpu *CPU, a operandRef) (int, error) {
	id, version, manufacturer, ok := cpu.Bus.Query(int(a.read()))
	if ok {
		cpu.Regs[instr.RegA] = uint16(id)
		cpu.Regs[instr.RegB] = uint16(id >> 16)
		cpu.Regs[instr.RegC] = version
		cpu.Regs[instr.RegX] = uint16(manufacturer)
		cpu.Regs[instr.RegY] = uint16(manufacturer >> 16)
	}
	return 0, nil
}

func opHWI(cpu *CPU, a operandRef) (int, error) {
	cycles, _ := cpu.Bus.Invoke(cpu, int(a.read()))
	return cycles, nil
}
