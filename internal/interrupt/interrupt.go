/*
 * rv32sim - Interrupt priority and delegation
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

// Package interrupt resolves, once per cycle, which of the nine standard
// interrupt sources (if any) is both pending-and-enabled and visible at
// the processor's current privilege level, honoring mideleg/sideleg and
// the fixed architectural priority order.
package interrupt

import (
	"github.com/rv32sim/rv32sim/internal/csr"
	"github.com/rv32sim/rv32sim/internal/priv"
)

// Code is an interrupt cause code; it doubles as its own mip/mie bit index.
type Code uint32

const (
	USI Code = 0
	SSI Code = 1
	MSI Code = 3
	UTI Code = 4
	STI Code = 5
	MTI Code = 7
	UEI Code = 8
	SEI Code = 9
	MEI Code = 11
)

// priorityOrder is the architectural arbitration order: MEI > MSI > MTI >
// SEI > SSI > STI > UEI > USI > UTI.
var priorityOrder = [...]Code{MEI, MSI, MTI, SEI, SSI, STI, UEI, USI, UTI}

// Pending selects the highest-priority interrupt that is pending, enabled,
// and visible to the processor at its current privilege level. ok is
// false if no interrupt should be taken this cycle.
func Pending(f *csr.File, cur priv.Level) (code Code, target priv.Level, ok bool) {
	bits := f.PendingInterruptBits() & f.EnabledInterruptBits()
	for _, c := range priorityOrder {
		bit := uint32(1) << uint(c)
		if bits&bit == 0 {
			continue
		}
		t := delegateTarget(f, uint32(c))
		if visibleAt(f, t, cur) {
			return c, t, true
		}
	}
	return 0, 0, false
}

// delegateTarget resolves the privilege level an interrupt would trap into,
// purely from mideleg/sideleg. This is independent of the current privilege
// level: delegation says where an interrupt is headed, not whether it is
// visible from here. visibleAt applies the current-privilege mask
// afterward, so a class delegated to S is masked (not redirected to M) when
// the processor happens to be executing in M-mode.
func delegateTarget(f *csr.File, code uint32) priv.Level {
	if !f.InterruptDelegated(code) {
		return priv.Machine
	}
	if f.InterruptSubDelegated(code) {
		return priv.User
	}
	return priv.Supervisor
}

// visibleAt implements the standard rule: an interrupt delegated to a
// level above the current one always preempts; delegated to the current
// level it preempts only if that level's global interrupt-enable bit is
// set; delegated below the current level it is masked entirely.
func visibleAt(f *csr.File, target, cur priv.Level) bool {
	switch {
	case target > cur:
		return true
	case target == cur:
		return f.GlobalInterruptEnabled(cur)
	default:
		return false
	}
}

// Take commits the CSR side effects of entering the given interrupt and
// returns the PC to fetch next.
func Take(f *csr.File, code Code, target priv.Level, pc uint32) uint32 {
	return f.EnterTrap(target, uint32(code), 0, pc, true)
}
