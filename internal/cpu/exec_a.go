/*
 * rv32sim - RV32A atomics executor
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

package cpu

import (
	"github.com/rv32sim/rv32sim/internal/isa"
	"github.com/rv32sim/rv32sim/internal/trap"
)

// execRV32A implements the A extension. Since rv32sim is single-hart, the
// LR/SC reservation set degenerates to "did this hart's own LR.W set it,
// and has nothing since invalidated it" rather than a real cross-hart
// coherence protocol.
func (c *CPU) execRV32A(op isa.Op) (bool, trap.Exception, uint32) {
	o := op.Operand.R
	addr := c.Int.Read(o.Rs1)

	if op.Code == isa.LrW {
		v, faulted, ex := c.loadWord(addr)
		if faulted {
			return true, ex, addr
		}
		c.Reservation = Reservation{Valid: true, Addr: addr}
		c.Int.Write(o.Rd, v)
		return false, 0, 0
	}

	if op.Code == isa.ScW {
		if c.Reservation.Valid && c.Reservation.Addr == addr {
			rs2 := c.Int.Read(o.Rs2)
			if faulted, ex := c.storeWord(addr, rs2); faulted {
				return true, ex, addr
			}
			c.Int.Write(o.Rd, 0)
		} else {
			c.Int.Write(o.Rd, 1)
		}
		c.Reservation = Reservation{}
		return false, 0, 0
	}

	// Every other AMO: read-modify-write, invalidating any outstanding
	// reservation on this address the way a coherent store would.
	old, faulted, ex := c.loadWord(addr)
	if faulted {
		return true, ex, addr
	}
	rs2 := c.Int.Read(o.Rs2)
	var result uint32
	switch op.Code {
	case isa.AmoswapW:
		result = rs2
	case isa.AmoaddW:
		result = old + rs2
	case isa.AmoxorW:
		result = old ^ rs2
	case isa.AmoandW:
		result = old & rs2
	case isa.AmoorW:
		result = old | rs2
	case isa.AmominW:
		if int32(old) < int32(rs2) {
			result = old
		} else {
			result = rs2
		}
	case isa.AmomaxW:
		if int32(old) > int32(rs2) {
			result = old
		} else {
			result = rs2
		}
	case isa.AmominuW:
		if old < rs2 {
			result = old
		} else {
			result = rs2
		}
	case isa.AmomaxuW:
		if old > rs2 {
			result = old
		} else {
			result = rs2
		}
	default:
		return true, trap.IllegalInstruction, op.Raw
	}
	if faulted, ex := c.storeWord(addr, result); faulted {
		return true, ex, addr
	}
	if c.Reservation.Valid && c.Reservation.Addr == addr {
		c.Reservation = Reservation{}
	}
	c.Int.Write(o.Rd, old)
	return false, 0, 0
}
