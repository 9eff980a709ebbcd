/*
   CPU definitions for the DCPU-16 simulator.

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
	"fmt"

	"github.com/dcornwell/dcpu16/emu/device"
	"github.com/dcornwell/dcpu16/emu/memory"
	"github.com/dcornwell/dcpu16/emu/timing"
)

// CPU is one independent DCPU-16 machine: register file, memory,
// interrupt queue, attached device bus, and the bookkeeping flags the
// tick loop needs. Unlike the mainframe core this is adapted from,
// which kept a single package-level state, CPU is a plain struct so a
// test (or a host embedding several machines) can run many instances
// side by side without interference.
type CPU struct {
	Regs [8]uint16
	PC   uint16
	SP  uint16
	EX  uint16
	IA  uint16

	Mem memory.Memory
	Bus device.Bus

	Queue     timing.InterruptQueue
	Scheduler timing.Scheduler
	queued    bool // set by IAQ 1, cleared by IAQ 0 and RFI
	skip      bool

	Cycles uint64

	fault error // set once the machine catches fire or is halted
}

// NewCPU returns a freshly power-on machine: all registers and memory
// zero.
func NewCPU() *CPU {
	return &CPU{}
}

// ErrInvalidOpcode is returned by Tick when the fetched word names no
// defined basic or special opcode.
type ErrInvalidOpcode struct {
	Cause error
}

func (e ErrInvalidOpcode) Error() string {
	return fmt.Sprintf("cpu: invalid opcode: %v", e.Cause)
}

func (e ErrInvalidOpcode) Unwrap() error { return e.Cause }

// ErrCatchFire is returned once the interrupt queue overflows its
// 256-message capacity. The machine is left halted; Tick keeps
// returning this error on every subsequent call.
type ErrCatchFire struct{}

func (ErrCatchFire) Error() string { return "cpu: interrupt queue overflow (catch fire)" }

// ErrHalted is returned after a host-requested halt (Halt).
type ErrHalted struct{}

func (ErrHalted) Error() string { return "cpu: halted" }

// Halt marks the machine as stopped by the host; every subsequent Tick
// returns ErrHalted.
func (cpu *CPU) Halt() {
	if cpu.fault == nil {
		cpu.fault = ErrHalted{}
	}
}

// Halted reports whether the machine has stopped (catch-fire or
// host-requested halt) and, if so, the error that stopped it.
func (cpu *CPU) Halted() (bool, error) {
	return cpu.fault != nil, cpu.fault
}
