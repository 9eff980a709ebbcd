/*
   CPU - DCPU-16 instruction fetch/decode/execute core.

   Copyright (c) 2024, Richard Cornwell

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
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package cpu

import (
	"github.com/dcornwell/dcpu16/emu/encoding"
	"github.com/dcornwell/dcpu16/emu/instr"
	"github.com/dcornwell/dcpu16/emu/memory"
	"github.com/dcornwell/dcpu16/util/trace"
)

// Reg satisfies device.Host: register i (0..7, A..J).
func (cpu *CPU) Reg(i int) uint16 { return cpu.Regs[i] }

// SetReg satisfies device.Host.
func (cpu *CPU) SetReg(i int, v uint16) { cpu.Regs[i] = v }

// Memory satisfies device.Host.
func (cpu *CPU) Memory() *memory.Memory { return &cpu.Mem }

// RaiseInterrupt satisfies device.Host: a device enqueues message as a
// hardware-sourced interrupt. It returns false (and halts the machine)
// if the queue is already at capacity.
func (cpu *CPU) RaiseInterrupt(message uint16) bool {
	if cpu.Queue.Push(message) {
		return true
	}
	if cpu.fault == nil {
		cpu.fault = ErrCatchFire{}
	}
	return false
}

// ScheduleInterrupt satisfies device.Host: message is raised via
// RaiseInterrupt once delay further cycles have elapsed, via the CPU's
// own Scheduler rather than the device polling Tick itself.
func (cpu *CPU) ScheduleInterrupt(delay int64, message uint16) {
	cpu.Scheduler.After(delay, func() { cpu.RaiseInterrupt(message) })
}

func (cpu *CPU) push(v uint16) {
	cpu.SP--
	cpu.Mem.PutWord(cpu.SP, v)
}

func (cpu *CPU) pop() uint16 {
	v := cpu.Mem.GetWord(cpu.SP)
	cpu.SP++
	return v
}

// operandRef is a resolved operand: a location whose value can be read
// and (except for literals) written. Resolving an operand performs any
// side effect (SP adjustment for push/pop) exactly once, at resolve
// time, matching the real machine's single-pass operand addressing.
type operandRef struct {
	readFn  func() uint16
	writeFn func(uint16)
}

func (r operandRef) read() uint16 {
	return r.readFn()
}

func (r operandRef) write(v uint16) {
	if r.writeFn != nil {
		r.writeFn(v)
	}
}

func (cpu *CPU) memRef(addr uint16) operandRef {
	return operandRef{
		readFn:  func() uint16 { return cpu.Mem.GetWord(addr) },
		writeFn: func(v uint16) { cpu.Mem.PutWord(addr, v) },
	}
}

// resolveOperand computes the location an operand refers to. isA
// distinguishes the "a" position (PUSH/POP acts as POP) from "b"
// (PUSH/POP acts as PUSH), per the operand-address rules.
func (cpu *CPU) resolveOperand(op instr.Operand, isA bool) operandRef {
	switch op.Kind {
	case instr.KindRegister:
		reg := int(op.Reg)
		return operandRef{
			readFn:  func() uint16 { return cpu.Regs[reg] },
			writeFn: func(v uint16) { cpu.Regs[reg] = v },
		}
	case instr.KindIndirect:
		return cpu.memRef(cpu.Regs[int(op.Reg)])
	case instr.KindIndirectOffset:
		return cpu.memRef(cpu.Regs[int(op.Reg)] + op.Next)
	case instr.KindPushPop:
		if isA {
			addr := cpu.SP
			cpu.SP++
			return cpu.memRef(addr)
		}
		cpu.SP--
		return cpu.memRef(cpu.SP)
	case instr.KindPeek:
		return cpu.memRef(cpu.SP)
	case instr.KindPick:
		return cpu.memRef(cpu.SP + op.Next)
	case instr.KindSP:
		return operandRef{
			readFn:  func() uint16 { return cpu.SP },
			writeFn: func(v uint16) { cpu.SP = v },
		}
	case instr.KindPC:
		return operandRef{
			readFn:  func() uint16 { return cpu.PC },
			writeFn: func(v uint16) { cpu.PC = v },
		}
	case instr.KindEX:
		return operandRef{
			readFn:  func() uint16 { return cpu.EX },
			writeFn: func(v uint16) { cpu.EX = v },
		}
	case instr.KindIndirectLiteral:
		return cpu.memRef(op.Next)
	default: // KindLiteral, KindInlineLiteral: writes are a silent no-op
		v := op.Next
		return operandRef{readFn: func() uint16 { return v }}
	}
}

// fetchInstruction decodes the instruction at PC, advancing PC past it,
// and returns the decoded instruction plus how many extra words (beyond
// the opcode word) it consumed.
func (cpu *CPU) fetchInstruction() (instr.Instruction, int, error) {
	words := cpu.Mem.Slice(cpu.PC, 3)
	ins, consumed, err := encoding.Decode(words)
	if err != nil {
		return instr.Instruction{}, 0, ErrInvalidOpcode{Cause: err}
	}
	cpu.PC += uint16(consumed)
	return ins, consumed - 1, nil
}

// Tick executes exactly one instruction (or consumes one skipped
// instruction in a single cycle) and returns the number of cycles
// spent, or an error if the machine is halted or has just caught fire.
func (cpu *CPU) Tick() (int, error) {
	if cpu.fault != nil {
		return 0, cpu.fault
	}

	if cpu.Queue.Len() > 0 && cpu.IA != 0 && !cpu.queued {
		message, _ := cpu.Queue.Pop()
		trace.Tracef(trace.IRQ, "dispatch message=%#04x pc=%#04x ia=%#04x", message, cpu.PC, cpu.IA)
		cpu.push(cpu.PC)
		cpu.push(cpu.Regs[instr.RegA])
		cpu.PC = cpu.IA
		cpu.Regs[instr.RegA] = message
	}

	pc := cpu.PC
	ins, extraWords, err := cpu.fetchInstruction()
	if err != nil {
		return 0, err
	}
	trace.Tracef(trace.Inst, "pc=%#04x op=%v a=%v b=%v", pc, ins.Op, ins.A, ins.B)

	if cpu.skip {
		if !ins.IsSpecial() && ins.Op.IsConditional() {
			trace.Tracef(trace.Skip, "pc=%#04x op=%v skip-chain continues", pc, ins.Op)
		} else {
			trace.Tracef(trace.Skip, "pc=%#04x op=%v skip ends", pc, ins.Op)
			cpu.skip = false
		}
		cpu.Cycles++
		cpu.Bus.TickAll(cpu, 1)
		cpu.Scheduler.Advance(1)
		return 1, nil
	}

	aRef := cpu.resolveOperand(ins.A, true)
	cycles := baseCycles(ins) + extraWords

	if ins.IsSpecial() {
		handler, ok := specialTable[ins.Special]
		if !ok {
			return 0, ErrInvalidOpcode{}
		}
		extra, err := handler(cpu, aRef)
		if err != nil {
			return 0, err
		}
		cycles += extra
	} else {
		bRef := cpu.resolveOperand(ins.B, false)
		handler, ok := basicTable[ins.Op]
		if !ok {
			return 0, ErrInvalidOpcode{}
		}
		handler(cpu, bRef, aRef)
		if ins.Op.WritesBack() && ins.B.Kind == instr.KindPC {
			cycles++ // writing PC is a branch; one cycle penalty per the DCPU-16 1.7 spec
		}
		if ins.Op.WritesBack() {
			trace.Tracef(trace.Data, "pc=%#04x op=%v result=%#04x", pc, ins.Op, bRef.read())
		}
	}

	cpu.Cycles += uint64(cycles)
	cpu.Bus.TickAll(cpu, uint64(cycles))
	cpu.Scheduler.Advance(int64(cycles))
	return cycles, nil
}
