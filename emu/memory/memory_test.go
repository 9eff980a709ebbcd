package memory

import "testing"

func TestGetPutWord(t *testing.T) {
	var m Memory
	m.PutWord(0x1000, 0xbeef)
	if got := m.GetWord(0x1000); got != 0xbeef {
		t.Fatalf("GetWord = %#04x, want 0xbeef", got)
	}
}

func TestWrapsAtTopOfAddressSpace(t *testing.T) {
	var m Memory
	m.PutWord(0xffff, 0x1)
	m.PutWord(0x0000, 0x2)
	if m.GetWord(0xffff) != 1 || m.GetWord(0x0000) != 2 {
		t.Fatal("addresses at the boundary of the space did not round-trip independently")
	}
}

func TestLoadAndSlice(t *testing.T) {
	var m Memory
	img := []uint16{1, 2, 3, 4}
	m.Load(0x10, img)
	got := m.Slice(0x10, len(img))
	for i, w := range img {
		if got[i] != w {
			t.Fatalf("Slice[%d] = %#04x, want %#04x", i, got[i], w)
		}
	}
}

func TestLoadWrapsAddressSpace(t *testing.T) {
	var m Memory
	m.Load(0xfffe, []uint16{0xaaaa, 0xbbbb, 0xcccc})
	if m.GetWord(0xfffe) != 0xaaaa || m.GetWord(0xffff) != 0xbbbb || m.GetWord(0x0000) != 0xcccc {
		t.Fatal("Load did not wrap across the end of the address space")
	}
}
