/*
 * rv32sim - Exception and trap-return handling
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

// Package trap decides, for a synchronous exception, which privilege mode
// takes it (applying medeleg/sedeleg) and commits the CSR-level side
// effects of entry and return. Interrupt delegation and priority live in
// the sibling package internal/interrupt, since an interrupt's target
// also depends on which ones are simultaneously pending.
package trap

import (
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/priv"
)

// Exception is a synchronous trap cause code, matching the cause field
// written to xcause's low bits when bit 31 (interrupt) is clear.
type Exception uint32

const (
	InstructionAddressMisaligned Exception = 0
	InstructionAccessFault       Exception = 1
	IllegalInstruction           Exception = 2
	Breakpoint                   Exception = 3
	LoadAddressMisaligned        Exception = 4
	LoadAccessFault              Exception = 5
	StoreAddressMisaligned       Exception = 6
	StoreAccessFault             Exception = 7
	EnvironmentCallFromUser      Exception = 8
	EnvironmentCallFromSuper     Exception = 9
	EnvironmentCallFromMachine   Exception = 11
	InstructionPageFault         Exception = 12
	LoadPageFault                Exception = 13
	StorePageFault               Exception = 15
)

// Raise computes the delegated target privilege level for a synchronous
// exception taken from curLevel and commits it to the CSR file, returning
// the PC the processor should fetch next.
func Raise(f *csr.File, e Exception, tval uint32, pc uint32) uint32 {
	target := delegateTarget(f, uint32(e), curLevelOf(f))
	return f.EnterTrap(target, uint32(e), tval, pc, false)
}

func curLevelOf(f *csr.File) priv.Level { return f.Level() }

func delegateTarget(f *csr.File, code uint32, cur priv.Level) priv.Level {
	if cur == priv.Machine {
		return priv.Machine
	}
	if !f.ExceptionDelegated(code) {
		return priv.Machine
	}
	if cur == priv.User && f.ExceptionSubDelegated(code) {
		return priv.User
	}
	return priv.Supervisor
}

// Return implements mret/sret/uret: restores privilege and status from
// the CSR file and returns the PC to resume at.
func Return(f *csr.File, from priv.Level) (pc uint32, level priv.Level) {
	return f.ReturnFromTrap(from)
}
