/*
 * rv32sim - CSR address map
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

// Package csr implements the control and status register file: the
// architectural CSRs, their privilege-gated read/write access, and the
// mstatus/mip/mie aliasing rules shared across M/S/U mode.
package csr

import "github.com/rv32sim/rv32sim/internal/priv"

// Addr is a 12-bit CSR address.
type Addr = uint32

const (
	// User Trap Setup
	Ustatus Addr = 0x000
	Uie     Addr = 0x004
	Utvec   Addr = 0x005

	// User Trap Handling
	Uscratch Addr = 0x040
	Uepc     Addr = 0x041
	Ucause   Addr = 0x042
	Utval    Addr = 0x043
	Uip      Addr = 0x044

	// User Floating-Point CSRs
	Fflags Addr = 0x001
	Frm    Addr = 0x002
	Fcsr   Addr = 0x003

	// Supervisor Trap Setup
	Sstatus    Addr = 0x100
	Sedeleg    Addr = 0x102
	Sideleg    Addr = 0x103
	Sie        Addr = 0x104
	Stvec      Addr = 0x105
	Scounteren Addr = 0x106

	// Supervisor Trap Handling
	Sscratch Addr = 0x140
	Sepc     Addr = 0x141
	Scause   Addr = 0x142
	Stval    Addr = 0x143
	Sip      Addr = 0x144

	// Supervisor Protection and Translation
	Satp Addr = 0x180

	// Machine Trap Setup
	Mstatus    Addr = 0x300
	Misa       Addr = 0x301
	Medeleg    Addr = 0x302
	Mideleg    Addr = 0x303
	Mie        Addr = 0x304
	Mtvec      Addr = 0x305
	Mcounteren Addr = 0x306

	// Machine Trap Handling
	Mscratch Addr = 0x340
	Mepc     Addr = 0x341
	Mcause   Addr = 0x342
	Mtval    Addr = 0x343
	Mip      Addr = 0x344

	// Machine Counter/Timers
	Mcycle    Addr = 0xb00
	Minstret  Addr = 0xb02
	Mcycleh   Addr = 0xb80
	Minstreth Addr = 0xb82

	// User Counter/Timers (read-only shadows)
	Cycle    Addr = 0xc00
	Time     Addr = 0xc01
	Instret  Addr = 0xc02
	Cycleh   Addr = 0xc80
	Timeh    Addr = 0xc81
	Instreth Addr = 0xc82

	// Machine Information Registers
	Mvendorid Addr = 0xf11
	Marchid   Addr = 0xf12
	Mimpid    Addr = 0xf13
	Mhartid   Addr = 0xf14

	// Physical Memory Protection. Accepted but inert: this simulator never
	// denies an access based on pmpcfg/pmpaddr, so boot code that probes
	// or programs them sees ordinary read/write CSRs rather than an
	// illegal-instruction trap.
	pmpcfgBase   Addr = 0x3a0
	pmpcfgCount       = 16
	pmpaddrBase  Addr = 0x3b0
	pmpaddrCount      = 64

	// Debug/trace, also accepted but inert.
	Tselect   Addr = 0x7a0
	Tdata1    Addr = 0x7a1
	Tdata2    Addr = 0x7a2
	Tdata3    Addr = 0x7a3
	Dcsr      Addr = 0x7b0
	Dpc       Addr = 0x7b1
	Dscratch0 Addr = 0x7b2
	Dscratch1 Addr = 0x7b3
)

// isPMP reports whether addr falls in the pmpcfg* or pmpaddr* ranges.
func isPMP(addr Addr) bool {
	if addr >= pmpcfgBase && addr < pmpcfgBase+pmpcfgCount {
		return true
	}
	return addr >= pmpaddrBase && addr < pmpaddrBase+pmpaddrCount
}

// isDebug reports whether addr is one of the inert debug/trace CSRs.
func isDebug(addr Addr) bool {
	switch addr {
	case Tselect, Tdata1, Tdata2, Tdata3, Dcsr, Dpc, Dscratch0, Dscratch1:
		return true
	default:
		return false
	}
}

// privilegeOf returns the minimum privilege level required to access addr,
// encoded in bits [9:8] of the CSR address per the privileged spec.
func privilegeOf(addr Addr) priv.Level {
	return priv.Level((addr >> 8) & 0x3)
}

// isReadOnly reports whether addr's top two bits mark it read-only.
func isReadOnly(addr Addr) bool {
	return (addr>>10)&0x3 == 0x3
}
