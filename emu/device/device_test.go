package device

import (
	"testing"

	"github.com/dcornwell/dcpu16/emu/memory"
)

type scheduledInterrupt struct {
	delay   int64
	message uint16
}

type fakeHost struct {
	regs      [8]uint16
	mem       memory.Memory
	raised    []uint16
	raiseOK   bool
	scheduled []scheduledInterrupt
}

func (h *fakeHost) Reg(i int) uint16       { return h.regs[i] }
func (h *fakeHost) SetReg(i int, v uint16) { h.regs[i] = v }
func (h *fakeHost) Memory() *memory.Memory { return &h.mem }
func (h *fakeHost) RaiseInterrupt(m uint16) bool {
	h.raised = append(h.raised, m)
	return h.raiseOK
}
func (h *fakeHost) ScheduleInterrupt(delay int64, message uint16) {
	h.scheduled = append(h.scheduled, scheduledInterrupt{delay, message})
}

type fakeDevice struct {
	id, manufacturer uint32
	version          uint16
	interruptCycles  int
	ticked           bool
}

func (d *fakeDevice) Identity() (uint32, uint16, uint32) { return d.id, d.version, d.manufacturer }
func (d *fakeDevice) Tick(host Host, cyclesElapsed uint64) { d.ticked = true }
func (d *fakeDevice) Interrupt(host Host) int {
	host.RaiseInterrupt(0x1234)
	return d.interruptCycles
}

func TestBusAttachAndLen(t *testing.T) {
	var bus Bus
	idx := bus.Attach(&fakeDevice{id: 1})
	if idx != 0 {
		t.Fatalf("Attach returned index %d, want 0", idx)
	}
	bus.Attach(&fakeDevice{id: 2})
	if bus.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bus.Len())
	}
}

func TestBusQuery(t *testing.T) {
	var bus Bus
	bus.Attach(&fakeDevice{id: 0xcafebabe, version: 0x0001, manufacturer: 0xdeadbeef})
	id, version, manufacturer, ok := bus.Query(0)
	if !ok || id != 0xcafebabe || version != 1 || manufacturer != 0xdeadbeef {
		t.Fatalf("Query(0) = %#x %#x %#x %v", id, version, manufacturer, ok)
	}
	if _, _, _, ok := bus.Query(1); ok {
		t.Fatal("Query(1): expected ok=false for unattached index")
	}
}

func TestBusInvoke(t *testing.T) {
	var bus Bus
	bus.Attach(&fakeDevice{interruptCycles: 4})
	host := &fakeHost{}
	cycles, ok := bus.Invoke(host, 0)
	if !ok || cycles != 4 {
		t.Fatalf("Invoke = %d, %v, want 4, true", cycles, ok)
	}
	if len(host.raised) != 1 || host.raised[0] != 0x1234 {
		t.Fatalf("host.raised = %v", host.raised)
	}
	if _, ok := bus.Invoke(host, 5); ok {
		t.Fatal("Invoke(5): expected ok=false")
	}
}

func TestBusTickAll(t *testing.T) {
	var bus Bus
	d1 := &fakeDevice{}
	d2 := &fakeDevice{}
	bus.Attach(d1)
	bus.Attach(d2)
	bus.TickAll(&fakeHost{}, 10)
	if !d1.ticked || !d2.ticked {
		t.Fatal("TickAll did not reach every attached device")
	}
}
