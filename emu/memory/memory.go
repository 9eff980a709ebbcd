/*
 * DCPU-16  - Low level memory
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package memory is the DCPU-16's word-addressed 65536-word address
// space. Unlike the byte-addressed, storage-keyed mainframe memory it
// is adapted from, every address is valid: GetWord/PutWord wrap rather
// than fault, matching the machine's u16 address space.
package memory

// Size is the number of 16-bit words of memory a DCPU-16 has.
const Size = 65536

// Memory is the CPU's address space. The zero value is a zeroed
// 65536-word machine, ready to use.
type Memory struct {
	words [Size]uint16
}

// GetWord reads the word at addr. addr wraps modulo Size so callers
// never need to range-check it themselves.
func (m *Memory) GetWord(addr uint16) uint16 {
	return m.words[addr]
}

// PutWord writes data to addr.
func (m *Memory) PutWord(addr uint16, data uint16) {
	m.words[addr] = data
}

// Load copies words into memory starting at addr, wrapping at the end
// of the address space. It is used to install a ROM image at power-on.
func (m *Memory) Load(addr uint16, words []uint16) {
	for _, w := range words {
		m.words[addr] = w
		addr++
	}
}

// Slice returns a copy of count words starting at addr, wrapping at the
// end of the address space. Used by the disassembler and the debug
// console to render a memory range.
func (m *Memory) Slice(addr uint16, count int) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		out[i] = m.words[addr]
		addr++
	}
	return out
}
