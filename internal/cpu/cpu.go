/*
 * rv32sim - Processor state and step loop
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

// Package cpu ties the register files, CSR file, MMU and bus together
// into a single steppable RV32IMAFDC core. Each call to Step executes
// (or traps on) exactly one instruction and advances the cycle counter,
// and the instret counter when the instruction retires, matching the cycle-at-a-time model the trace codec records.
package cpu

import (
	"github.com/rv32sim/rv32sim/internal/bus"
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/interrupt"
	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/mmu"
	"github.com/rv32sim/rv32sim/internal/regfile"
	"github.com/rv32sim/rv32sim/internal/trap"
)

// Reservation is the LR/SC reservation set: a single address-granularity
// slot, the way a single-hart implementation may legally narrow the
// architecturally unbounded reservation set.
type Reservation struct {
	Valid bool
	Addr  uint32
}

// StepResult carries everything a trace Builder needs to observe about
// one retired (or trapped) instruction, without the cpu package needing
// to know anything about the trace wire format.
type StepResult struct {
	PC          uint32
	PhysicalPC  uint32
	Op          isa.Op
	NextPC      uint32
	Trapped     bool
	Cause       uint32
	IsInterrupt bool
	Tval        uint32
	FromLevel   uint8
	ToLevel     uint8
}

// CPU is the complete architectural state of one RV32IMAFDC hart.
type CPU struct {
	PC uint32

	Int regfile.IntRegFile
	Fp  regfile.FpRegFile

	Csr *csr.File
	Bus *bus.Bus

	Reservation Reservation
}

// New returns a CPU reset to machine mode at the given initial PC, with
// every register zeroed.
func New(b *bus.Bus, initialPC uint32) *CPU {
	c := &CPU{PC: initialPC, Bus: b, Csr: csr.New()}
	return c
}

// Step executes one instruction: it first checks for a pending interrupt
// (taken at an instruction boundary, per the privileged spec), then
// fetches, decodes and executes the instruction at PC, trapping on any
// misalignment, page fault or illegal encoding encountered along the way.
func (c *CPU) Step() StepResult {
	fromLevel := uint8(c.Csr.Level())

	if code, target, ok := interrupt.Pending(c.Csr, c.Csr.Level()); ok {
		pc := interrupt.Take(c.Csr, code, target, c.PC)
		c.PC = pc
		c.Csr.Tick(false)
		return StepResult{PC: c.PC, PhysicalPC: c.PC, Trapped: true, Cause: uint32(code), IsInterrupt: true, FromLevel: fromLevel, ToLevel: uint8(target)}
	}

	fetchPC := c.PC
	word, physPC, faulted, faultCause, tval := c.fetch(fetchPC)
	if faulted {
		c.PC = trap.Raise(c.Csr, faultCause, tval, fetchPC)
		c.Csr.Tick(false)
		return StepResult{PC: fetchPC, PhysicalPC: physPC, Trapped: true, Cause: uint32(faultCause), Tval: tval, NextPC: c.PC, FromLevel: fromLevel, ToLevel: uint8(c.Csr.Level())}
	}

	op := isa.Decode(word)
	res := StepResult{PC: fetchPC, PhysicalPC: physPC, Op: op}

	trapped, cause, execTval := c.execute(op, fetchPC)
	if trapped {
		c.PC = trap.Raise(c.Csr, cause, execTval, fetchPC)
		res.Trapped = true
		res.Cause = uint32(cause)
		res.Tval = execTval
		res.FromLevel = fromLevel
		res.ToLevel = uint8(c.Csr.Level())
		c.Csr.Tick(false)
		res.NextPC = c.PC
		return res
	}

	c.Csr.Tick(true)
	res.NextPC = c.PC
	return res
}

// translate resolves a virtual address for the given access type,
// returning the physical address or a page-fault indication.
func (c *CPU) translate(va uint32, access mmu.AccessType) (uint32, bool) {
	pa, fault := mmu.Translate(c.Bus, c.Csr, va, c.Csr.Level(), access)
	return pa, fault == mmu.PageFault
}

// fetch reads one instruction word starting at virtual address pc, returning
// the physical address its first halfword was actually read from alongside
// it -- callers need the real translated address for trace emission, not
// just the virtual PC, since the two genuinely differ under Sv32 paging.
func (c *CPU) fetch(pc uint32) (word uint32, physPC uint32, faulted bool, cause trap.Exception, tval uint32) {
	if pc&0x1 != 0 {
		return 0, pc, true, trap.InstructionAddressMisaligned, pc
	}
	pa, pf := c.translate(pc, mmu.Instruction)
	if pf {
		return 0, pc, true, trap.InstructionPageFault, pc
	}
	low := c.Bus.Read16(pa)
	if low&0x3 != 0x3 {
		return uint32(low), pa, false, 0, 0
	}
	// Four-byte instruction: may straddle a page boundary between its
	// two halves, so the second half is translated independently.
	pa2, pf2 := c.translate(pc+2, mmu.Instruction)
	if pf2 {
		return 0, pa, true, trap.InstructionPageFault, pc
	}
	high := c.Bus.Read16(pa2)
	return uint32(low) | uint32(high)<<16, pa, false, 0, 0
}
