/*
DCPU-16 peripheral bus: device identity, HWQ/HWI dispatch, the HWN count.

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
package device

import "github.com/dcornwell/dcpu16/emu/memory"

// Host is the capability set a device needs from the machine it is
// attached to: its register file and memory, and a way to raise a
// hardware interrupt of its own accord. The CPU implements this
// interface; device package code never imports the CPU package, which
// would create an import cycle.
type Host interface {
	Reg(i int) uint16
	SetReg(i int, v uint16)
	Memory() *memory.Memory
	RaiseInterrupt(message uint16) bool

	// ScheduleInterrupt arranges for RaiseInterrupt(message) to run once
	// delay further CPU cycles have elapsed, letting a device model
	// latency (a disk seek, a clock tick) instead of raising its
	// interrupt the instant Tick observes the condition.
	ScheduleInterrupt(delay int64, message uint16)
}

// Device is the capability set every attached peripheral exposes: an
// identity triple, a per-tick callback, and the callback HWI invokes.
type Device interface {
	// Identity returns the (id, version, manufacturer) triple HWQ loads
	// into A:B, C, X:Y respectively.
	Identity() (id uint32, version uint16, manufacturer uint32)

	// Tick runs the device forward by cyclesElapsed CPU cycles. It may
	// call host.RaiseInterrupt to enqueue a hardware-sourced interrupt.
	Tick(host Host, cyclesElapsed uint64)

	// Interrupt services an HWI directed at this device and returns the
	// number of extra cycles it consumed.
	Interrupt(host Host) int
}

// Bus is an ordered list of attached devices, indexed the way HWN/HWQ/
// HWI name them: device 0 is the first one attached.
type Bus struct {
	devices []Device
}

// Attach appends d to the bus, returning its index.
func (b *Bus) Attach(d Device) int {
	b.devices = append(b.devices, d)
	return len(b.devices) - 1
}

// Len is the value HWN reports.
func (b *Bus) Len() int {
	return len(b.devices)
}

// Query returns the identity triple for device index, as HWQ needs it.
func (b *Bus) Query(index int) (id uint32, version uint16, manufacturer uint32, ok bool) {
	if index < 0 || index >= len(b.devices) {
		return 0, 0, 0, false
	}
	i, v, m := b.devices[index].Identity()
	return i, v, m, true
}

// Invoke dispatches HWI to device index and returns the extra cycles it
// consumed, or ok=false if index names no attached device.
func (b *Bus) Invoke(host Host, index int) (cycles int, ok bool) {
	if index < 0 || index >= len(b.devices) {
		return 0, false
	}
	return b.devices[index].Interrupt(host), true
}

// TickAll advances every attached device by cyclesElapsed, in
// attachment order.
func (b *Bus) TickAll(host Host, cyclesElapsed uint64) {
	for _, d := range b.devices {
		d.Tick(host, cyclesElapsed)
	}
}
