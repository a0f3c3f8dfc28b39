/*
 * rv32sim - Sv32 virtual memory translation
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

// Package mmu implements the Sv32 two-level page table walk: virtual
// address decomposition, PTE field layout, permission checks (including
// MXR/SUM), and A/D bit maintenance.
package mmu

import (
	"github.com/rv32sim/rv32sim/internal/bitfield"
	"github.com/rv32sim/rv32sim/internal/priv"
)

// AccessType distinguishes the three reasons a translation is requested;
// it governs which PTE permission bit is checked and which page-fault
// variant is raised on failure.
type AccessType int

const (
	Instruction AccessType = iota
	Load
	Store
)

// FaultKind reports whether a translation failed. A structurally invalid
// table and a permission failure both report PageFault.
type FaultKind int

const (
	NoFault FaultKind = iota
	PageFault
)

// Virtual address field layout (Sv32): 2 x 10-bit VPN plus a 12-bit offset.
var (
	vaOffset = bitfield.Member{Msb: 11, Lsb: 0}
	vaVPN0   = bitfield.Member{Msb: 21, Lsb: 12}
	vaVPN1   = bitfield.Member{Msb: 31, Lsb: 22}
)

// PTE field layout (Sv32).
var (
	pteV   = bitfield.Member{Msb: 0, Lsb: 0}
	pteR   = bitfield.Member{Msb: 1, Lsb: 1}
	pteW   = bitfield.Member{Msb: 2, Lsb: 2}
	pteX   = bitfield.Member{Msb: 3, Lsb: 3}
	pteU   = bitfield.Member{Msb: 4, Lsb: 4}
	pteG   = bitfield.Member{Msb: 5, Lsb: 5}
	pteA   = bitfield.Member{Msb: 6, Lsb: 6}
	pteD   = bitfield.Member{Msb: 7, Lsb: 7}
	ptePPN0 = bitfield.Member{Msb: 19, Lsb: 10}
	ptePPN1 = bitfield.Member{Msb: 31, Lsb: 20}
)

// Bus is the narrow read/write surface the walker needs from the
// physical memory system to fetch and update page table entries.
type Bus interface {
	ReadPhysical32(addr uint32) uint32
	WritePhysical32(addr uint32, value uint32)
}

// State is the subset of CSR state the walker consults: whether paging is
// active, the root page table PPN, and the two permission-relaxing bits.
type State interface {
	SatpMode() uint32
	SatpPPN() uint32
	MXR() bool
	SUM() bool
}

const pageSize = 1 << 12
const megapageSize = 1 << 22

// Translate walks the Sv32 page table for va, as accessed at privilege
// level level for the given access type, and returns the physical
// address. When translation is disabled (satp.MODE == Bare or level is
// Machine, which never translates), va passes through unchanged.
func Translate(bus Bus, st State, va uint32, level priv.Level, access AccessType) (pa uint32, fault FaultKind) {
	if level == priv.Machine || st.SatpMode() == 0 {
		return va, NoFault
	}

	vpn1 := bitfield.Field32(va).Get(vaVPN1)
	vpn0 := bitfield.Field32(va).Get(vaVPN0)
	offset := bitfield.Field32(va).Get(vaOffset)

	tableAddr := st.SatpPPN() << 12
	pteAddr := tableAddr + vpn1*4
	pte := bitfield.Field32(bus.ReadPhysical32(pteAddr))

	if pte.Get(pteV) == 0 || (pte.Get(pteR) == 0 && pte.Get(pteW) == 1) {
		return 0, PageFault
	}

	isLeaf := pte.Get(pteR) != 0 || pte.Get(pteX) != 0
	if isLeaf {
		// Megapage: PPN0 must be zero or this is a misaligned superpage.
		if pte.Get(ptePPN0) != 0 {
			return 0, PageFault
		}
		if !permitted(pte, level, access, st) {
			return 0, PageFault
		}
		pte = updateAccessedDirty(bus, pteAddr, pte, access)
		ppn1 := pte.Get(ptePPN1)
		physPage := ppn1 << 22
		return physPage | (vpn0 << 12) | offset, NoFault
	}

	// Non-leaf: descend to the second-level table.
	nextTable := pte.Get(ptePPN1)<<22 | pte.Get(ptePPN0)<<12
	pteAddr2 := nextTable + vpn0*4
	leaf := bitfield.Field32(bus.ReadPhysical32(pteAddr2))

	if leaf.Get(pteV) == 0 || (leaf.Get(pteR) == 0 && leaf.Get(pteW) == 1) {
		return 0, PageFault
	}
	if leaf.Get(pteR) == 0 && leaf.Get(pteX) == 0 {
		return 0, PageFault // non-leaf at the final level: malformed table
	}
	if !permitted(leaf, level, access, st) {
		return 0, PageFault
	}
	leaf = updateAccessedDirty(bus, pteAddr2, leaf, access)
	ppn := leaf.Get(ptePPN1)<<10 | leaf.Get(ptePPN0)
	return ppn<<12 | offset, NoFault
}

func permitted(pte bitfield.Field32, level priv.Level, access AccessType, st State) bool {
	u := pte.Get(pteU) != 0
	if level == priv.User && !u {
		return false
	}
	if level == priv.Supervisor && u {
		// SUM only relaxes supervisor access to a user page for loads and
		// stores; a supervisor-mode fetch from a user page is never
		// permitted, regardless of SUM.
		if access == Instruction {
			return false
		}
		if !st.SUM() {
			return false
		}
	}

	switch access {
	case Instruction:
		return pte.Get(pteX) != 0
	case Store:
		return pte.Get(pteW) != 0
	default: // Load
		if pte.Get(pteR) != 0 {
			return true
		}
		return st.MXR() && pte.Get(pteX) != 0
	}
}

// updateAccessedDirty sets the PTE's A bit on every successful
// translation and its D bit on every successful store, writing the PTE
// back to memory only when a bit actually changes.
func updateAccessedDirty(bus Bus, pteAddr uint32, pte bitfield.Field32, access AccessType) bitfield.Field32 {
	updated := pte.Set(pteA, 1)
	if access == Store {
		updated = updated.Set(pteD, 1)
	}
	if updated != pte {
		bus.WritePhysical32(pteAddr, uint32(updated))
	}
	return updated
}
