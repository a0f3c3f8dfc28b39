/*
 * rv32sim - CSR file
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

package csr

import (
	"github.com/rv32sim/rv32sim/internal/bitfield"
	"github.com/rv32sim/rv32sim/internal/priv"
)

const misaValue uint32 = (1 << 30) | // MXL = 1 (XLEN32)
	(1 << 0) | // A
	(1 << 3) | // D
	(1 << 5) | // F
	(1 << 8) | // I
	(1 << 12) | // M
	(1 << 18) | // S
	(1 << 20) | // U
	(1 << 2) // C

// File is the processor's complete CSR state. mstatus/sstatus/ustatus and
// mip/sip/uip/mie/sie/uie are each a single physical register; the
// narrower views are masks applied on Read/Write, not separate storage.
type File struct {
	status bitfield.Field32

	mtvec, stvec, utvec bitfield.Field32

	medeleg, sedeleg uint32
	mideleg, sideleg uint32

	ie bitfield.Field32
	ip bitfield.Field32

	mcounteren, scounteren uint32

	mscratch, sscratch, uscratch uint32
	mepc, sepc, uepc             uint32
	mcause, scause, ucause       uint32
	mtval, stval, utval          uint32

	satp bitfield.Field32

	fflags, frm uint32

	cycle, instret uint64
	timeFunc       func() uint64

	level priv.Level
}

// New returns a CSR file reset to machine mode with all registers zeroed.
func New() *File {
	return &File{level: priv.Machine, timeFunc: func() uint64 { return 0 }}
}

// SetTimeSource installs the callback used to satisfy reads of the `time`
// CSR; by default it always reads zero.
func (f *File) SetTimeSource(fn func() uint64) { f.timeFunc = fn }

func (f *File) Level() priv.Level     { return f.level }
func (f *File) SetLevel(l priv.Level) { f.level = l }

// Tick advances the cycle counter by one, and the instret counter by one
// when retired is set. Called once per step from the processor's step loop,
// with retired false on a cycle that ended in a trap.
func (f *File) Tick(retired bool) {
	f.cycle++
	if retired {
		f.instret++
	}
}

// SatpMode, SatpPPN and MXR/SUM are exposed directly for the MMU, which
// must consult them on every translated access without going through the
// generic Read/Write privilege-check path.
func (f *File) SatpMode() uint32 { return f.satp.Get(satpMode) }
func (f *File) SatpPPN() uint32  { return f.satp.Get(satpPPN) }
func (f *File) SatpAsid() uint32 { return f.satp.Get(satpAsid) }
func (f *File) MXR() bool        { return f.status.Get(statusMXR) != 0 }
func (f *File) SUM() bool        { return f.status.Get(statusSUM) != 0 }
func (f *File) MPRV() bool       { return f.status.Get(statusMPRV) != 0 }
func (f *File) MPP() priv.Level  { return priv.Level(f.status.Get(statusMPP)) }

// FRM returns the current dynamic rounding mode, for an FP instruction
// encoding the "use frm" rm value (0b111).
func (f *File) FRM() uint32 { return f.frm }

// RaiseFPFlags ORs bits into fflags; the accrued exception flags are
// sticky and only ever cleared by an explicit CSR write.
func (f *File) RaiseFPFlags(bits uint32) { f.fflags |= bits & 0x1f }

// CanAccess reports whether addr is both implemented and reachable at
// curLevel for the given direction, without performing the access.
func (f *File) CanAccess(addr Addr, write bool) bool {
	if write && isReadOnly(addr) {
		return false
	}
	if privilegeOf(addr) > f.level {
		return false
	}
	return f.isImplemented(addr)
}

func (f *File) isImplemented(addr Addr) bool {
	if isPMP(addr) || isDebug(addr) {
		return true
	}
	switch addr {
	case Ustatus, Uie, Utvec, Uscratch, Uepc, Ucause, Utval, Uip,
		Fflags, Frm, Fcsr,
		Sstatus, Sedeleg, Sideleg, Sie, Stvec, Scounteren,
		Sscratch, Sepc, Scause, Stval, Sip, Satp,
		Mstatus, Misa, Medeleg, Mideleg, Mie, Mtvec, Mcounteren,
		Mscratch, Mepc, Mcause, Mtval, Mip,
		Mcycle, Minstret, Mcycleh, Minstreth,
		Cycle, Time, Instret, Cycleh, Timeh, Instreth,
		Mvendorid, Marchid, Mimpid, Mhartid:
		return true
	default:
		return false
	}
}

func counterIndex(addr Addr) int {
	switch addr {
	case Mcycle, Cycle, Mcycleh, Cycleh:
		return 0
	case Time, Timeh:
		return 1
	case Minstret, Instret, Minstreth, Instreth:
		return 2
	default:
		return -1
	}
}

// counterAllowed applies mcounteren/scounteren gating to a user/supervisor
// read of a performance counter shadow.
func (f *File) counterAllowed(addr Addr) bool {
	idx := counterIndex(addr)
	if idx < 0 {
		return true
	}
	bit := uint32(1) << uint(idx)
	if f.level < priv.Machine && f.mcounteren&bit == 0 {
		return false
	}
	if f.level == priv.User && f.scounteren&bit == 0 {
		return false
	}
	return true
}

// Read returns the current value of addr. ok is false if the CSR is
// unimplemented, insufficiently privileged, or counter-gated.
func (f *File) Read(addr Addr) (uint32, bool) {
	if !f.CanAccess(addr, false) || !f.counterAllowed(addr) {
		return 0, false
	}
	if isPMP(addr) || isDebug(addr) {
		return 0, true
	}
	switch addr {
	case Mstatus:
		return uint32(f.status), true
	case Sstatus:
		return uint32(f.status) & statusSupervisorMask, true
	case Ustatus:
		return uint32(f.status) & statusUserMask, true
	case Misa:
		return misaValue, true
	case Medeleg:
		return f.medeleg, true
	case Sedeleg:
		return f.sedeleg, true
	case Mideleg:
		return f.mideleg, true
	case Sideleg:
		return f.sideleg, true
	case Mie:
		return uint32(f.ie), true
	case Sie:
		return uint32(f.ie) & ieSupervisorMask, true
	case Uie:
		return uint32(f.ie) & ieUserMask, true
	case Mip:
		return uint32(f.ip), true
	case Sip:
		return uint32(f.ip) & ipSupervisorMask, true
	case Uip:
		return uint32(f.ip) & ipUserMask, true
	case Mtvec:
		return uint32(f.mtvec), true
	case Stvec:
		return uint32(f.stvec), true
	case Utvec:
		return uint32(f.utvec), true
	case Mcounteren:
		return f.mcounteren, true
	case Scounteren:
		return f.scounteren, true
	case Mscratch:
		return f.mscratch, true
	case Sscratch:
		return f.sscratch, true
	case Uscratch:
		return f.uscratch, true
	case Mepc:
		return f.mepc, true
	case Sepc:
		return f.sepc, true
	case Uepc:
		return f.uepc, true
	case Mcause:
		return f.mcause, true
	case Scause:
		return f.scause, true
	case Ucause:
		return f.ucause, true
	case Mtval:
		return f.mtval, true
	case Stval:
		return f.stval, true
	case Utval:
		return f.utval, true
	case Satp:
		return uint32(f.satp), true
	case Fflags:
		return f.fflags, true
	case Frm:
		return f.frm, true
	case Fcsr:
		return f.fflags | (f.frm << 5), true
	case Mcycle, Cycle:
		return uint32(f.cycle), true
	case Mcycleh, Cycleh:
		return uint32(f.cycle >> 32), true
	case Time:
		return uint32(f.timeFunc()), true
	case Timeh:
		return uint32(f.timeFunc() >> 32), true
	case Minstret, Instret:
		return uint32(f.instret), true
	case Minstreth, Instreth:
		return uint32(f.instret >> 32), true
	case Mvendorid, Marchid, Mimpid, Mhartid:
		return 0, true
	default:
		return 0, false
	}
}

// Write stores value into addr, applying whatever subset of bits the
// register actually implements. ok is false under the same conditions as
// Read, or when the target CSR is read-only.
func (f *File) Write(addr Addr, value uint32) bool {
	if !f.CanAccess(addr, true) {
		return false
	}
	if isPMP(addr) || isDebug(addr) {
		return true
	}
	switch addr {
	case Mstatus:
		f.status = bitfield.Field32(value)
	case Sstatus:
		f.status = f.status.SetMasked(value, statusSupervisorMask)
	case Ustatus:
		f.status = f.status.SetMasked(value, statusUserMask)
	case Medeleg:
		f.medeleg = value
	case Sedeleg:
		f.sedeleg = value
	case Mideleg:
		f.mideleg = value
	case Sideleg:
		f.sideleg = value
	case Mie:
		f.ie = f.ie.SetMasked(value, ieWriteMask)
	case Sie:
		f.ie = f.ie.SetMasked(value, ieSupervisorMask)
	case Uie:
		f.ie = f.ie.SetMasked(value, ieUserMask)
	case Mip:
		f.ip = f.ip.SetMasked(value, ipWriteMask)
	case Sip:
		f.ip = f.ip.SetMasked(value, ipSupervisorMask&ipWriteMask)
	case Uip:
		f.ip = f.ip.SetMasked(value, ipUserMask&ipWriteMask)
	case Mtvec:
		f.mtvec = bitfield.Field32(value)
	case Stvec:
		f.stvec = bitfield.Field32(value)
	case Utvec:
		f.utvec = bitfield.Field32(value)
	case Mcounteren:
		f.mcounteren = value
	case Scounteren:
		f.scounteren = value
	case Mscratch:
		f.mscratch = value
	case Sscratch:
		f.sscratch = value
	case Uscratch:
		f.uscratch = value
	case Mepc:
		f.mepc = value &^ 0x1
	case Sepc:
		f.sepc = value &^ 0x1
	case Uepc:
		f.uepc = value &^ 0x1
	case Mcause:
		f.mcause = value
	case Scause:
		f.scause = value
	case Ucause:
		f.ucause = value
	case Mtval:
		f.mtval = value
	case Stval:
		f.stval = value
	case Utval:
		f.utval = value
	case Satp:
		f.satp = bitfield.Field32(value)
	case Fflags:
		f.fflags = value & 0x1f
	case Frm:
		f.frm = value & 0x7
	case Fcsr:
		f.fflags = value & 0x1f
		f.frm = (value >> 5) & 0x7
	default:
		return false
	}
	return true
}

// PendingInterruptBits returns the raw mip contents, for the interrupt
// controller to combine with mie/delegation.
func (f *File) PendingInterruptBits() uint32 { return uint32(f.ip) }
func (f *File) EnabledInterruptBits() uint32 { return uint32(f.ie) }

// SetInterruptPending sets or clears a single bit of mip that is
// hardware-driven (timer/external) rather than software-writable via Mip.
func (f *File) SetInterruptPending(m bitfield.Member, pending bool) {
	v := uint32(0)
	if pending {
		v = 1
	}
	f.ip = f.ip.Set(m, v)
}

var (
	MEIPBit = ipMEI
	MTIPBit = ipMTI
	MSIPBit = ipMSI
	SEIPBit = ipSEI
	STIPBit = ipSTI
	SSIPBit = ipSSI
	UEIPBit = ipUEI
	UTIPBit = ipUTI
	USIPBit = ipUSI
)

func (f *File) GlobalInterruptEnabled(level priv.Level) bool {
	switch {
	case level == priv.Machine:
		return f.status.Get(statusMIE) != 0
	case level == priv.Supervisor:
		return f.status.Get(statusSIE) != 0
	default:
		return f.status.Get(statusUIE) != 0
	}
}

// Delegation reports the register pair used to decide whether a trap with
// the given cause code delegates away from machine mode.
func (f *File) ExceptionDelegated(code uint32) bool { return f.medeleg&(1<<code) != 0 }
func (f *File) InterruptDelegated(code uint32) bool { return f.mideleg&(1<<code) != 0 }
func (f *File) ExceptionSubDelegated(code uint32) bool { return f.sedeleg&(1<<code) != 0 }
func (f *File) InterruptSubDelegated(code uint32) bool { return f.sideleg&(1<<code) != 0 }

// TvecFor returns the trap vector register governing the given target level.
func (f *File) TvecFor(level priv.Level) (base uint32, mode TvecMode) {
	var v bitfield.Field32
	switch level {
	case priv.Machine:
		v = f.mtvec
	case priv.Supervisor:
		v = f.stvec
	default:
		v = f.utvec
	}
	return v.Get(tvecBase) << 2, TvecMode(v.Get(tvecMode))
}

// EnterTrap commits the privilege-mode switch and CSR side effects of
// taking a trap: it saves pc/cause/tval into the target level's epc/
// cause/tval, shifts status's xIE into xPIE and sets xIE to 0, records
// the previous privilege level in xPP, and returns the vectored fetch PC.
func (f *File) EnterTrap(target priv.Level, cause uint32, tval uint32, pc uint32, isInterrupt bool) uint32 {
	prevLevel := f.level
	causeReg := cause
	if isInterrupt {
		causeReg |= 0x80000000
	}

	switch target {
	case priv.Machine:
		f.mepc, f.mcause, f.mtval = pc, causeReg, tval
		f.status = f.status.Set(statusMPIE, f.status.Get(statusMIE))
		f.status = f.status.Set(statusMIE, 0)
		f.status = f.status.Set(statusMPP, uint32(prevLevel))
	case priv.Supervisor:
		f.sepc, f.scause, f.stval = pc, causeReg, tval
		f.status = f.status.Set(statusSPIE, f.status.Get(statusSIE))
		f.status = f.status.Set(statusSIE, 0)
		f.status = f.status.Set(statusSPP, uint32(prevLevel)&0x1)
	default:
		f.uepc, f.ucause, f.utval = pc, causeReg, tval
		f.status = f.status.Set(statusUPIE, f.status.Get(statusUIE))
		f.status = f.status.Set(statusUIE, 0)
	}
	f.level = target

	base, mode := f.TvecFor(target)
	if isInterrupt && mode == TvecVectored {
		return base + 4*cause
	}
	return base
}

// ReturnFromTrap implements mret/sret/uret: restores the previous
// privilege level from xPP, restores xIE from xPIE, resets xPIE to 1 (and
// clears MPRV if returning to below machine mode), and returns the saved
// epc.
func (f *File) ReturnFromTrap(from priv.Level) (newPC uint32, newLevel priv.Level) {
	switch from {
	case priv.Machine:
		newLevel = priv.Level(f.status.Get(statusMPP))
		f.status = f.status.Set(statusMIE, f.status.Get(statusMPIE))
		f.status = f.status.Set(statusMPIE, 1)
		f.status = f.status.Set(statusMPP, uint32(priv.User))
		if newLevel != priv.Machine {
			f.status = f.status.Set(statusMPRV, 0)
		}
		newPC = f.mepc
	case priv.Supervisor:
		if f.status.Get(statusSPP) != 0 {
			newLevel = priv.Supervisor
		} else {
			newLevel = priv.User
		}
		f.status = f.status.Set(statusSIE, f.status.Get(statusSPIE))
		f.status = f.status.Set(statusSPIE, 1)
		f.status = f.status.Set(statusSPP, 0)
		newPC = f.sepc
	default:
		newLevel = priv.User
		f.status = f.status.Set(statusUIE, f.status.Get(statusUPIE))
		f.status = f.status.Set(statusUPIE, 1)
		newPC = f.uepc
	}
	f.level = newLevel
	return newPC, newLevel
}
