/*
 * rv32sim - Physical address space demultiplexer
 *
 * Copyright 2026, rv32sim contributors
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

// Package bus demultiplexes the flat 32-bit physical address space across
// RAM, ROM and memory-mapped device regions. It owns no simulation state
// of its own beyond the region table; everything it forwards to lives in
// the regions it was constructed with.
package bus

import "fmt"

// Region is anything that backs a range of physical address space.
type Region interface {
	// Base and Size delimit the region, in bytes.
	Base() uint32
	Size() uint32

	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// UnmappedAccessError reports a read or write outside every registered
// region. It is fatal: the simulator has no bus-error exception model for
// out-of-range physical addresses, matching hardware that simply has no
// device there.
type UnmappedAccessError struct {
	Addr  uint32
	Write bool
}

func (e *UnmappedAccessError) Error() string {
	dir := "read from"
	if e.Write {
		dir = "write to"
	}
	return fmt.Sprintf("bus: %s unmapped physical address %#08x", dir, e.Addr)
}

// Bus is the ordered list of regions composing the physical address space.
// Regions must not overlap; Map panics if a newly added region would.
type Bus struct {
	regions []Region
}

// New returns an empty bus with no regions mapped.
func New() *Bus { return &Bus{} }

// Map registers r at its own Base()/Size(). It panics on overlap with an
// already-mapped region: that is a configuration bug, not a runtime fault.
func (b *Bus) Map(r Region) {
	newLo, newHi := r.Base(), r.Base()+r.Size()
	for _, existing := range b.regions {
		lo, hi := existing.Base(), existing.Base()+existing.Size()
		if newLo < hi && lo < newHi {
			panic(fmt.Sprintf("bus: region %#08x-%#08x overlaps existing region %#08x-%#08x", newLo, newHi, lo, hi))
		}
	}
	b.regions = append(b.regions, r)
}

func (b *Bus) find(addr uint32) Region {
	for _, r := range b.regions {
		if addr >= r.Base() && addr < r.Base()+r.Size() {
			return r
		}
	}
	return nil
}

func (b *Bus) Read8(addr uint32) uint8 {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr})
	}
	return r.Read8(addr)
}

func (b *Bus) Read16(addr uint32) uint16 {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr})
	}
	return r.Read16(addr)
}

func (b *Bus) Read32(addr uint32) uint32 {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr})
	}
	return r.Read32(addr)
}

func (b *Bus) Write8(addr uint32, v uint8) {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr, Write: true})
	}
	r.Write8(addr, v)
}

func (b *Bus) Write16(addr uint32, v uint16) {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr, Write: true})
	}
	r.Write16(addr, v)
}

func (b *Bus) Write32(addr uint32, v uint32) {
	r := b.find(addr)
	if r == nil {
		panic(&UnmappedAccessError{Addr: addr, Write: true})
	}
	r.Write32(addr, v)
}

// ReadPhysical32 and WritePhysical32 satisfy internal/mmu's Bus interface
// for page table walks, which always operate on untranslated 32-bit words.
func (b *Bus) ReadPhysical32(addr uint32) uint32       { return b.Read32(addr) }
func (b *Bus) WritePhysical32(addr uint32, value uint32) { b.Write32(addr, value) }

// IsMapped reports whether addr falls within some region, without
// performing an access.
func (b *Bus) IsMapped(addr uint32) bool { return b.find(addr) != nil }
